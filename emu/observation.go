package emu

import (
	"sort"

	"github.com/alele/mipslite/insts"
)

// Observation accumulates the externally-visible record of a run: which
// registers and memory addresses were modified, and per-class instruction
// counts. It is shared verbatim between the functional core and the
// pipeline so that the two cores' notion of "what happened" can never
// drift apart by construction.
type Observation struct {
	ModifiedRegs  map[uint8]struct{}
	ModifiedAddrs map[uint32]struct{}

	Total      int
	Arithmetic int
	Logical    int
	MemoryOps  int
	Control    int
	Stalls     int
}

// NewObservation returns an empty Observation.
func NewObservation() *Observation {
	return &Observation{
		ModifiedRegs:  make(map[uint8]struct{}),
		ModifiedAddrs: make(map[uint32]struct{}),
	}
}

// RecordInstruction increments the total and per-class counters for an
// instruction that has completed (reached EX without being flushed).
func (o *Observation) RecordInstruction(op insts.Op) {
	o.Total++
	switch op.Class() {
	case insts.ClassArithmetic:
		o.Arithmetic++
	case insts.ClassLogical:
		o.Logical++
	case insts.ClassMemory:
		o.MemoryOps++
	case insts.ClassControl:
		o.Control++
	}
}

// RecordRegWrite marks reg as modified.
func (o *Observation) RecordRegWrite(reg uint8) {
	o.ModifiedRegs[reg] = struct{}{}
}

// RecordMemWrite marks addr as modified.
func (o *Observation) RecordMemWrite(addr uint32) {
	o.ModifiedAddrs[addr] = struct{}{}
}

// RecordStall increments the stall-cycle counter (pipelined modes only).
func (o *Observation) RecordStall() {
	o.Stalls++
}

// SortedModifiedRegs returns the modified register indices in ascending
// order.
func (o *Observation) SortedModifiedRegs() []uint8 {
	out := make([]uint8, 0, len(o.ModifiedRegs))
	for r := range o.ModifiedRegs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// SortedModifiedAddrs returns the modified addresses in ascending order.
func (o *Observation) SortedModifiedAddrs() []uint32 {
	out := make([]uint32, 0, len(o.ModifiedAddrs))
	for a := range o.ModifiedAddrs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
