// Package pipeline implements the five-stage pipelined core: IF, ID, EX,
// MEM, WB, with data-hazard detection in two modes (stall-only and
// operand forwarding).
package pipeline

import "github.com/alele/mipslite/insts"

// Mode selects how the pipeline resolves RAW hazards.
type Mode uint8

const (
	NoForwarding Mode = iota
	Forwarding
)

// HazardUnit detects RAW hazards between the instruction currently being
// decoded and producers sitting in EX or MEM, and decides how many
// cycles (if any) to stall.
type HazardUnit struct {
	mode Mode
}

// NewHazardUnit constructs a HazardUnit for the given mode.
func NewHazardUnit(mode Mode) *HazardUnit {
	return &HazardUnit{mode: mode}
}

// Decision is the outcome of hazard detection for the instruction in ID.
type Decision struct {
	StallCycles int
	FwdA        insts.ForwardSource
	FwdB        insts.ForwardSource
	MemToMem    bool
}

// Detect examines the ID-stage instruction against whatever sits in EX
// and MEM this cycle and returns how to resolve any RAW hazard.
// exInst/memInst may be nil if those slots are empty.
func (h *HazardUnit) Detect(idInst, exInst, memInst *insts.Instruction) Decision {
	var dec Decision
	if idInst == nil {
		return dec
	}

	memDest, memHasDest := uint8(0), false
	if memInst != nil {
		memDest, memHasDest = memInst.DestReg()
	}
	exDest, exHasDest := uint8(0), false
	if exInst != nil {
		exDest, exHasDest = exInst.DestReg()
	}

	// MEM-stage producer: one cycle behind EX, resolved first because by
	// the time EX's dependency (if any) resolves, MEM's writeback has long
	// since completed.
	if memHasDest {
		matchA := idInst.ReadsRs(memDest)
		matchB := idInst.ReadsRt(memDest)
		if matchA || matchB {
			if h.mode == NoForwarding {
				dec.StallCycles = 1
			} else {
				if matchA {
					dec.FwdA = insts.ForwardFromMEM
				}
				if matchB {
					dec.FwdB = insts.ForwardFromMEM
				}
			}
		}
	}

	// EX-stage producer.
	if exHasDest {
		matchA := idInst.ReadsRs(exDest)
		matchB := idInst.ReadsRt(exDest)
		if matchA || matchB {
			if h.mode == NoForwarding {
				if 2 > dec.StallCycles {
					dec.StallCycles = 2
				}
				return dec
			}

			// Store-after-load: STW only needs the producer's value for
			// its store datum (Rt), not for address calculation (Rs).
			// The value can be picked up from MEM next cycle without a
			// stall once the load has moved there.
			if exInst.Op == insts.LDW && idInst.Op == insts.STW && matchB && !matchA {
				dec.MemToMem = true
				return dec
			}

			// Load-use: the value is not ready until the load reaches MEM.
			if exInst.Op == insts.LDW {
				if 1 > dec.StallCycles {
					dec.StallCycles = 1
				}
				return dec
			}

			if matchA {
				dec.FwdA = insts.ForwardFromEX
			}
			if matchB {
				dec.FwdB = insts.ForwardFromEX
			}
		}
	}

	return dec
}
