package emu

// LoadStoreUnit performs the memory-side of LDW/STW, shared by the
// functional core and the pipeline's MEM stage.
type LoadStoreUnit struct {
	mem *Memory
}

// NewLoadStoreUnit binds a LoadStoreUnit to the memory it will access.
func NewLoadStoreUnit(mem *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{mem: mem}
}

// Load reads a signed 32-bit big-endian word at addr.
func (u *LoadStoreUnit) Load(addr uint32) (int32, error) {
	w, err := u.mem.ReadWord(addr)
	if err != nil {
		return 0, err
	}
	return int32(w), nil
}

// Store writes value as a big-endian word at addr.
func (u *LoadStoreUnit) Store(addr uint32, value int32) error {
	return u.mem.WriteWord(addr, uint32(value))
}
