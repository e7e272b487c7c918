package insts

import "errors"

// ErrUnknownOpcode is returned when a fetched word's top 6 bits do not
// match any defined opcode.
var ErrUnknownOpcode = errors.New("insts: unknown opcode")

const (
	opcodeShift = 26
	opcodeMask  = 0x3F
	rsShift     = 21
	rsMask      = 0x1F
	rtShift     = 16
	rtMask      = 0x1F
	rdShift     = 11
	rdMask      = 0x1F
	immMask     = 0xFFFF
)

// ForwardSource names where EX should pull an operand from when operand
// forwarding is enabled.
type ForwardSource uint8

const (
	ForwardNone ForwardSource = iota
	ForwardFromEX
	ForwardFromMEM
)

// Instruction is the single record type shared by the functional core and
// the pipeline. It is created once at fetch and populated, field by field,
// by the stage that owns each field. The one exception is a STW's B:
// ID latches it, and the pipeline's EX overwrites it with the forwarded
// store datum.
type Instruction struct {
	Raw  uint32
	Op   Op
	Kind Kind

	Rs, Rt, Rd uint8
	Imm        uint16
	ImmExt     int32

	PCAtFetch uint32

	A, B   int32
	ALUOut int32

	RefAddr  uint32
	LoadWord int32

	FwdA, FwdB ForwardSource
	MemToMem   bool
}

// Decoder turns a raw 32-bit word into an Instruction with its fixed
// fields (Op, Kind, Rs, Rt, Rd, Imm) populated; operand and result fields
// are left zero for the pipeline/functional core to fill in.
type Decoder struct{}

// NewDecoder constructs a Decoder. It carries no state; the constructor
// exists to match the package's functional-constructor idiom and to leave
// room for future decode-table configuration.
func NewDecoder() *Decoder { return &Decoder{} }

// Decode parses word into an Instruction. It returns ErrUnknownOpcode if
// the top 6 bits do not match a defined opcode.
func (d *Decoder) Decode(word uint32, pc uint32) (*Instruction, error) {
	opcodeBits := (word >> opcodeShift) & opcodeMask
	op, ok := opcodeTable[opcodeBits]
	if !ok {
		return nil, ErrUnknownOpcode
	}

	inst := &Instruction{
		Raw:       word,
		Op:        op,
		Kind:      op.Kind(),
		Rs:        uint8((word >> rsShift) & rsMask),
		Rt:        uint8((word >> rtShift) & rtMask),
		PCAtFetch: pc,
	}

	if inst.Kind == RType {
		inst.Rd = uint8((word >> rdShift) & rdMask)
	} else {
		inst.Imm = uint16(word & immMask)
		inst.ImmExt = signExtend16(inst.Imm)
	}

	return inst, nil
}

func signExtend16(v uint16) int32 {
	return int32(int16(v))
}

// SourceRegs returns the register indices this instruction reads. Register
// 0 is included like any other index: it has no hardwired-zero exemption.
func (inst *Instruction) SourceRegs() []uint8 {
	var regs []uint8
	if inst.Op.UsesRs() {
		regs = append(regs, inst.Rs)
	}
	if inst.Op.UsesRt() {
		regs = append(regs, inst.Rt)
	}
	return regs
}

// DestReg returns the destination register and whether this instruction
// writes one at WB.
func (inst *Instruction) DestReg() (uint8, bool) {
	if !inst.Op.HasDest() {
		return 0, false
	}
	if inst.Kind == RType {
		return inst.Rd, true
	}
	return inst.Rt, true
}

// ReadsRs reports whether rs is actually a producer-relevant source, i.e.
// whether this instruction's Rs field equals d and Rs is a live source.
func (inst *Instruction) ReadsRs(d uint8) bool {
	return inst.Op.UsesRs() && inst.Rs == d
}

// ReadsRt reports the same for Rt.
func (inst *Instruction) ReadsRt(d uint8) bool {
	return inst.Op.UsesRt() && inst.Rt == d
}
