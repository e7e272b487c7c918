package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alele/mipslite/emu"
)

var _ = Describe("Memory", func() {
	var m *emu.Memory

	BeforeEach(func() {
		m = emu.NewMemory()
	})

	It("defaults to 4096 bytes", func() {
		Expect(m.Size()).To(Equal(4096))
	})

	It("round-trips a big-endian word", func() {
		Expect(m.WriteWord(0, 0x01020304)).To(Succeed())
		b, err := m.ReadBytes(0, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal([]byte{0x01, 0x02, 0x03, 0x04}))

		w, err := m.ReadWord(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint32(0x01020304)))
	})

	It("rejects an out-of-bounds access", func() {
		_, err := m.ReadWord(4094)
		Expect(err).To(MatchError(emu.ErrOutOfBounds))
	})

	It("honours a configured size", func() {
		big := emu.NewMemory(emu.WithSize(8192))
		Expect(big.Size()).To(Equal(8192))
	})

	It("loads an image at address 0", func() {
		Expect(m.LoadImage([]byte{0xDE, 0xAD, 0xBE, 0xEF})).To(Succeed())
		w, err := m.ReadWord(0)
		Expect(err).NotTo(HaveOccurred())
		Expect(w).To(Equal(uint32(0xDEADBEEF)))
	})
})
