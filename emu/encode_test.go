package emu_test

func encodeR(op uint32, rs, rt, rd uint8) uint32 {
	return (op << 26) | (uint32(rs) << 21) | (uint32(rt) << 16) | (uint32(rd) << 11)
}

func encodeI(op uint32, rs, rt uint8, imm uint16) uint32 {
	return (op << 26) | (uint32(rs) << 21) | (uint32(rt) << 16) | uint32(imm)
}
