package config_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alele/mipslite/config"
)

var _ = Describe("Config", func() {
	It("defaults to a release func run over a 4096-byte address space", func() {
		c := config.Default()
		Expect(c.MemorySize).To(Equal(4096))
		Expect(c.DebugLevel).To(Equal(config.Release))
		Expect(c.Mode).To(Equal(config.ModeFunc))
		Expect(c.Validate()).To(Succeed())
	})

	It("round-trips through JSON", func() {
		dir := GinkgoT().TempDir()
		path := filepath.Join(dir, "config.json")

		c := config.Default()
		c.Mode = config.ModeFwd
		c.DebugLevel = config.Debug
		Expect(c.Save(path)).To(Succeed())

		loaded, err := config.Load(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(loaded).To(Equal(c))
	})

	It("rejects an invalid mode", func() {
		c := config.Default()
		c.Mode = "bogus"
		Expect(c.Validate()).To(MatchError(config.ErrInvalidConfig))
	})

	DescribeTable("ParseMode accepts case-insensitive values",
		func(input string, want config.Mode) {
			got, err := config.ParseMode(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("FUNC", "FUNC", config.ModeFunc),
		Entry("no-fwd", "no-fwd", config.ModeNoFwd),
		Entry("Fwd", "Fwd", config.ModeFwd),
	)

	It("rejects an unrecognized mode string", func() {
		_, err := config.ParseMode("turbo")
		Expect(err).To(MatchError(config.ErrInvalidConfig))
	})

	DescribeTable("ParseDebugLevel accepts case-insensitive values",
		func(input string, want config.DebugLevel) {
			got, err := config.ParseDebugLevel(input)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("RELEASE", "RELEASE", config.Release),
		Entry("Debug", "Debug", config.Debug),
		Entry("info", "info", config.Info),
	)
})
