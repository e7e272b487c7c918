package emu

import (
	"fmt"

	"github.com/alele/mipslite/insts"
)

// Emulator is the single-cycle, non-pipelined reference core. It is
// authoritative for instruction semantics: the pipelined core must
// reproduce its final register file, memory contents, and instruction
// counts for any program that terminates.
type Emulator struct {
	regFile *RegFile
	mem     *Memory
	decoder *insts.Decoder
	alu     *ALU
	branch  *BranchUnit
	ls      *LoadStoreUnit
	obs     *Observation

	halted   bool
	exitCode int
}

// EmulatorOption configures an Emulator at construction time.
type EmulatorOption func(*Emulator)

// WithMemory overrides the default-sized Memory with an existing instance
// (used by the CLI to hand over a Memory holding the loaded image).
func WithMemory(mem *Memory) EmulatorOption {
	return func(e *Emulator) { e.mem = mem }
}

// WithEntryPoint sets the initial PC.
func WithEntryPoint(pc uint32) EmulatorOption {
	return func(e *Emulator) { e.regFile.PC = pc }
}

// NewEmulator constructs an Emulator with a fresh register file and,
// unless overridden via WithMemory, a default-sized Memory.
func NewEmulator(opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: NewRegFile(),
		mem:     NewMemory(),
		decoder: insts.NewDecoder(),
		alu:     NewALU(),
		branch:  NewBranchUnit(),
		obs:     NewObservation(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ls = NewLoadStoreUnit(e.mem)
	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile { return e.regFile }

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory { return e.mem }

// Observation returns the emulator's accumulated counters and modified sets.
func (e *Emulator) Observation() *Observation { return e.obs }

// Halted reports whether HALT has executed.
func (e *Emulator) Halted() bool { return e.halted }

// Step executes exactly one instruction.
func (e *Emulator) Step() error {
	if e.halted {
		return nil
	}

	pc := e.regFile.PC
	word, err := e.mem.ReadWord(pc)
	if err != nil {
		return fmt.Errorf("fetch at pc=0x%x: %w", pc, err)
	}

	inst, err := e.decoder.Decode(word, pc)
	if err != nil {
		return fmt.Errorf("decode at pc=0x%x: %w", pc, err)
	}

	inst.A = e.regFile.ReadReg(inst.Rs)
	if inst.Op.UsesRt() {
		inst.B = e.regFile.ReadReg(inst.Rt)
	}

	npc := pc + 4

	switch inst.Op {
	case insts.ADD, insts.SUB, insts.MUL, insts.OR, insts.AND, insts.XOR:
		inst.ALUOut = e.alu.Execute(inst.Op, inst.A, inst.B)
		e.regFile.WriteReg(inst.Rd, inst.ALUOut)
		e.obs.RecordRegWrite(inst.Rd)
	case insts.ADDI, insts.SUBI, insts.MULI, insts.ORI, insts.ANDI, insts.XORI:
		inst.ALUOut = e.alu.Execute(inst.Op, inst.A, inst.ImmExt)
		e.regFile.WriteReg(inst.Rt, inst.ALUOut)
		e.obs.RecordRegWrite(inst.Rt)
	case insts.LDW:
		inst.RefAddr = e.alu.EffectiveAddress(inst.A, inst.ImmExt)
		v, err := e.ls.Load(inst.RefAddr)
		if err != nil {
			return fmt.Errorf("LDW at pc=0x%x: %w", pc, err)
		}
		inst.LoadWord = v
		e.regFile.WriteReg(inst.Rt, v)
		e.obs.RecordRegWrite(inst.Rt)
	case insts.STW:
		inst.RefAddr = e.alu.EffectiveAddress(inst.A, inst.ImmExt)
		if err := e.ls.Store(inst.RefAddr, inst.B); err != nil {
			return fmt.Errorf("STW at pc=0x%x: %w", pc, err)
		}
		e.obs.RecordMemWrite(inst.RefAddr)
	case insts.BZ, insts.BEQ:
		taken, target := e.branch.Resolve(inst.Op, inst.A, inst.B, pc, inst.ImmExt, 0)
		if taken {
			npc = target
		}
	case insts.JR:
		_, target := e.branch.Resolve(inst.Op, inst.A, inst.B, pc, inst.ImmExt, e.regFile.ReadReg(inst.Rs))
		npc = target
	case insts.HALT:
		e.halted = true
	}

	e.obs.RecordInstruction(inst.Op)
	e.regFile.PC = npc
	return nil
}

// Run executes until HALT or an error occurs.
func (e *Emulator) Run() error {
	for !e.halted {
		if err := e.Step(); err != nil {
			return err
		}
	}
	return nil
}
