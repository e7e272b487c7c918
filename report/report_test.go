package report_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alele/mipslite/emu"
	"github.com/alele/mipslite/report"
)

var _ = Describe("Write", func() {
	It("includes counts, registers, memory, and timing when given", func() {
		regFile := emu.NewRegFile()
		regFile.PC = 12
		regFile.WriteReg(1, 5)

		mem := emu.NewMemory()
		Expect(mem.WriteWord(100, 0xDEADBEEF)).To(Succeed())

		obs := emu.NewObservation()
		obs.RecordRegWrite(1)
		obs.RecordMemWrite(100)
		obs.RecordInstruction(0) // ADD's class bump, value itself unused by the assertions below

		var buf bytes.Buffer
		Expect(report.Write(&buf, regFile, mem, obs, &report.Timing{Cycles: 7, Stalls: 1})).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("Final PC: 0x0000000C"))
		Expect(out).To(ContainSubstring("cycles: 7"))
		Expect(out).To(ContainSubstring("stalls: 1"))
		Expect(out).To(ContainSubstring("R1"))
		Expect(out).To(ContainSubstring("[0x00000064] = 0xDEADBEEF"))
	})

	It("omits the timing section for functional-mode runs", func() {
		regFile := emu.NewRegFile()
		mem := emu.NewMemory()
		obs := emu.NewObservation()

		var buf bytes.Buffer
		Expect(report.Write(&buf, regFile, mem, obs, nil)).To(Succeed())
		Expect(strings.Contains(buf.String(), "Timing:")).To(BeFalse())
	})
})
