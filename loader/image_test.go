package loader_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/alele/mipslite/loader"
)

var _ = Describe("Load", func() {
	It("parses two words of strict hex text", func() {
		data, err := loader.Load(strings.NewReader("04200005\n44000000\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{0x04, 0x20, 0x00, 0x05, 0x44, 0x00, 0x00, 0x00}))
	})

	It("accepts uppercase hex digits", func() {
		data, err := loader.Load(strings.NewReader("DEADBEEF\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal([]byte{0xDE, 0xAD, 0xBE, 0xEF}))
	})

	It("rejects a blank line", func() {
		_, err := loader.Load(strings.NewReader("04200005\n\n"))
		Expect(err).To(MatchError(loader.ErrMalformedImage))
	})

	It("rejects a line with the wrong width", func() {
		_, err := loader.Load(strings.NewReader("0420\n"))
		Expect(err).To(MatchError(loader.ErrMalformedImage))
	})

	It("rejects non-hex characters", func() {
		_, err := loader.Load(strings.NewReader("0420000Z\n"))
		Expect(err).To(MatchError(loader.ErrMalformedImage))
	})
})
