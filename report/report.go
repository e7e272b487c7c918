// Package report formats the post-termination architectural snapshot —
// instruction counts, final PC, modified registers and memory, and (in
// pipelined modes) cycle and stall counts — as the simulator's textual
// final report.
package report

import (
	"fmt"
	"io"

	"github.com/alele/mipslite/emu"
)

// Timing carries the pipelined-mode-only cycle/stall statistics. A nil
// Timing means the run used the functional core.
type Timing struct {
	Cycles int
	Stalls int
}

// Write formats the final report for a run and writes it to w.
// regFile and mem are the terminal architectural state; obs holds the
// counters and modified-register/address sets; timing is nil for a
// functional-mode run.
func Write(w io.Writer, regFile *emu.RegFile, mem *emu.Memory, obs *emu.Observation, timing *Timing) error {
	bw := &errWriter{w: w}

	bw.printf("Final PC: 0x%08X\n\n", regFile.PC)

	bw.printf("Instruction counts:\n")
	bw.printf("  total:      %d\n", obs.Total)
	bw.printf("  arithmetic: %d\n", obs.Arithmetic)
	bw.printf("  logical:    %d\n", obs.Logical)
	bw.printf("  memory:     %d\n", obs.MemoryOps)
	bw.printf("  control:    %d\n", obs.Control)

	if timing != nil {
		bw.printf("\nTiming:\n")
		bw.printf("  cycles: %d\n", timing.Cycles)
		bw.printf("  stalls: %d\n", timing.Stalls)
	}

	bw.printf("\nModified registers:\n")
	for _, r := range obs.SortedModifiedRegs() {
		bw.printf("  R%-2d = %d (0x%08X)\n", r, regFile.ReadReg(r), uint32(regFile.ReadReg(r)))
	}

	bw.printf("\nModified memory:\n")
	for _, addr := range obs.SortedModifiedAddrs() {
		word, err := mem.ReadWord(addr)
		if err != nil {
			return err
		}
		bw.printf("  [0x%08X] = 0x%08X\n", addr, word)
	}

	return bw.err
}

// errWriter lets Write's sequence of Fprintf calls short-circuit on the
// first error instead of checking one at a time.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}
