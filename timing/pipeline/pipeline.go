package pipeline

import (
	"fmt"

	"github.com/alele/mipslite/emu"
	"github.com/alele/mipslite/insts"
)

// slot indices within Pipeline.slots.
const (
	slotIF = iota
	slotID
	slotEX
	slotMEM
	slotWB
	numSlots
)

// Pipeline is the five-stage pipelined core. Each of the five slots holds
// at most one instruction record; a record moves between slots by
// re-slicing the pointer array rather than being copied, so later stages
// see exactly the fields an earlier stage set.
type Pipeline struct {
	slots [numSlots]*insts.Instruction

	regFile *emu.RegFile
	mem     *emu.Memory
	decoder *insts.Decoder
	alu     *emu.ALU
	branch  *emu.BranchUnit
	ls      *emu.LoadStoreUnit
	hazard  *HazardUnit
	obs     *emu.Observation
	mode    Mode

	exOut  int32
	memOut int32

	stallCyclesRemaining int
	halted               bool
	cycles               int
	err                  error
}

// Option configures a Pipeline at construction time.
type Option func(*Pipeline)

// WithPipelineMemory overrides the default-sized Memory with an existing,
// already-populated instance.
func WithPipelineMemory(mem *emu.Memory) Option {
	return func(p *Pipeline) { p.mem = mem }
}

// WithPipelineEntryPoint sets the initial PC.
func WithPipelineEntryPoint(pc uint32) Option {
	return func(p *Pipeline) { p.regFile.PC = pc }
}

// NewPipeline constructs a Pipeline in the given hazard-resolution mode.
func NewPipeline(regFile *emu.RegFile, mode Mode, opts ...Option) *Pipeline {
	p := &Pipeline{
		regFile: regFile,
		mem:     emu.NewMemory(),
		decoder: insts.NewDecoder(),
		alu:     emu.NewALU(),
		branch:  emu.NewBranchUnit(),
		hazard:  NewHazardUnit(mode),
		obs:     emu.NewObservation(),
		mode:    mode,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.ls = emu.NewLoadStoreUnit(p.mem)
	return p
}

// RegFile returns the pipeline's register file.
func (p *Pipeline) RegFile() *emu.RegFile { return p.regFile }

// Memory returns the pipeline's memory.
func (p *Pipeline) Memory() *emu.Memory { return p.mem }

// Observation returns the pipeline's accumulated counters and modified sets.
func (p *Pipeline) Observation() *emu.Observation { return p.obs }

// Halted reports whether HALT has executed in EX.
func (p *Pipeline) Halted() bool { return p.halted }

// Stats is the post-run summary reported alongside the architectural
// state.
type Stats struct {
	Cycles       int
	Instructions int
	Stalls       int
}

// Stats returns the current cycle/instruction/stall counts.
func (p *Pipeline) Stats() Stats {
	return Stats{Cycles: p.cycles, Instructions: p.obs.Total, Stalls: p.obs.Stalls}
}

func (p *Pipeline) allEmpty() bool {
	for _, s := range p.slots {
		if s != nil {
			return false
		}
	}
	return true
}

// readReg reads register idx as ID sees it: the register file writes in
// the first half of a cycle and reads in the second, so a writeback
// landing this very cycle is already visible. The WB slot is checked
// first because the stage bodies run ID before WB textually.
func (p *Pipeline) readReg(idx uint8) int32 {
	if w := p.slots[slotWB]; w != nil {
		if d, ok := w.DestReg(); ok && d == idx {
			if w.Op == insts.LDW {
				return w.LoadWord
			}
			return w.ALUOut
		}
	}
	return p.regFile.ReadReg(idx)
}

func (p *Pipeline) flush(npc uint32) {
	p.slots[slotIF] = nil
	p.slots[slotID] = nil
	p.stallCyclesRemaining = 0
	p.regFile.NPC = npc
}

// Tick advances the pipeline by exactly one cycle: the slot array is
// shifted (or, if the previous cycle set a stall, held with a bubble
// inserted ahead of EX), then the five stage bodies run in textual order
// IF, ID, EX, MEM, WB over the newly advanced slots.
func (p *Pipeline) Tick() {
	if p.allEmpty() && p.halted {
		return
	}

	stalling := p.stallCyclesRemaining > 0

	var next [numSlots]*insts.Instruction
	if stalling {
		next[slotIF] = p.slots[slotIF]
		next[slotID] = p.slots[slotID]
		next[slotEX] = nil
		next[slotMEM] = p.slots[slotEX]
		next[slotWB] = p.slots[slotMEM]
		p.stallCyclesRemaining--
		p.obs.RecordStall()
	} else {
		next[slotIF] = nil
		next[slotID] = p.slots[slotIF]
		next[slotEX] = p.slots[slotID]
		next[slotMEM] = p.slots[slotEX]
		next[slotWB] = p.slots[slotMEM]
	}
	p.slots = next

	snapExOut := p.exOut
	snapMemOut := p.memOut
	var newExOut, newMemOut int32
	exRan, memRan := false, false

	// IF
	if !p.halted && !stalling {
		pc := p.regFile.PC
		word, err := p.mem.ReadWord(pc)
		if err != nil {
			p.err = fmt.Errorf("fetch at pc=0x%x: %w", pc, err)
		} else {
			inst, derr := p.decoder.Decode(word, pc)
			if derr != nil {
				p.err = fmt.Errorf("decode at pc=0x%x: %w", pc, derr)
			} else {
				p.slots[slotIF] = inst
				p.regFile.NPC = pc + 4
			}
		}
	}

	// ID
	//
	// The ID body re-runs every cycle its slot is occupied, including
	// stall cycles: the operand read in the last stall cycle is the one
	// that picks up the producer's completed writeback, and in forwarding
	// mode the re-run is also when a load-use consumer's hint flips to
	// from-MEM once the load has moved there. The stall counter only ever
	// escalates here, never shrinks, so a longer-pending stall can't be
	// cut short by a fresher, smaller verdict.
	if !p.halted {
		if id := p.slots[slotID]; id != nil {
			id.A = p.readReg(id.Rs)
			if id.Op.UsesRt() {
				id.B = p.readReg(id.Rt)
			}
			dec := p.hazard.Detect(id, p.slots[slotEX], p.slots[slotMEM])
			id.FwdA, id.FwdB, id.MemToMem = dec.FwdA, dec.FwdB, dec.MemToMem
			if dec.StallCycles > p.stallCyclesRemaining {
				p.stallCyclesRemaining = dec.StallCycles
			}
		}
	}

	// EX
	if ex := p.slots[slotEX]; ex != nil {
		p.obs.RecordInstruction(ex.Op)

		a, b := ex.A, ex.B
		if p.mode == Forwarding {
			a = resolveForward(ex.FwdA, a, snapExOut, snapMemOut)
			b = resolveForward(ex.FwdB, b, snapExOut, snapMemOut)
		}

		switch ex.Op {
		case insts.ADD, insts.SUB, insts.MUL, insts.OR, insts.AND, insts.XOR:
			ex.ALUOut = p.alu.Execute(ex.Op, a, b)
		case insts.ADDI, insts.SUBI, insts.MULI, insts.ORI, insts.ANDI, insts.XORI:
			ex.ALUOut = p.alu.Execute(ex.Op, a, ex.ImmExt)
		case insts.LDW:
			ex.RefAddr = p.alu.EffectiveAddress(a, ex.ImmExt)
		case insts.STW:
			ex.RefAddr = p.alu.EffectiveAddress(a, ex.ImmExt)
			ex.B = b
		case insts.BZ:
			taken, target := p.branch.Resolve(insts.BZ, a, b, ex.PCAtFetch, ex.ImmExt, 0)
			if taken {
				p.flush(target)
			}
		case insts.BEQ:
			taken, target := p.branch.Resolve(insts.BEQ, a, b, ex.PCAtFetch, ex.ImmExt, 0)
			if taken {
				p.flush(target)
			}
		case insts.JR:
			_, target := p.branch.Resolve(insts.JR, a, b, ex.PCAtFetch, ex.ImmExt, a)
			p.flush(target)
		case insts.HALT:
			p.halted = true
			p.flush(ex.PCAtFetch + 4)
			p.regFile.PC = ex.PCAtFetch + 4
		}

		newExOut = ex.ALUOut
		exRan = true
	}

	// MEM
	if m := p.slots[slotMEM]; m != nil {
		switch m.Op {
		case insts.LDW:
			v, err := p.ls.Load(m.RefAddr)
			if err != nil {
				p.err = fmt.Errorf("LDW at pc=0x%x: %w", m.PCAtFetch, err)
			} else {
				m.LoadWord = v
				newMemOut = v
			}
		case insts.STW:
			val := m.B
			if m.MemToMem {
				val = snapMemOut
			}
			if err := p.ls.Store(m.RefAddr, val); err != nil {
				p.err = fmt.Errorf("STW at pc=0x%x: %w", m.PCAtFetch, err)
			} else {
				p.obs.RecordMemWrite(m.RefAddr)
			}
			newMemOut = val
		default:
			newMemOut = m.ALUOut
		}
		memRan = true
	}

	// WB
	if w := p.slots[slotWB]; w != nil {
		if d, ok := w.DestReg(); ok {
			val := w.ALUOut
			if w.Op == insts.LDW {
				val = w.LoadWord
			}
			p.regFile.WriteReg(d, val)
			p.obs.RecordRegWrite(d)
		}
	}

	if exRan {
		p.exOut = newExOut
	}
	if memRan {
		p.memOut = newMemOut
	}

	if !p.halted && !stalling {
		p.regFile.PC = p.regFile.NPC
	}
	p.cycles++
}

func resolveForward(src insts.ForwardSource, original, exOut, memOut int32) int32 {
	switch src {
	case insts.ForwardFromEX:
		return exOut
	case insts.ForwardFromMEM:
		return memOut
	default:
		return original
	}
}

// Run ticks the pipeline until every slot has drained following HALT, or
// an error occurs.
func (p *Pipeline) Run() error {
	for {
		p.Tick()
		if p.err != nil {
			return p.err
		}
		if p.halted && p.allEmpty() {
			return nil
		}
	}
}
