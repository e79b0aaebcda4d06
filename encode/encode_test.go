package encode

import (
	"bytes"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestEncode(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Encode Suite")
}

var _ = Describe("Encode", func() {
	It("indents and keeps HTML as is", func() {
		var buf bytes.Buffer

		Expect(JSONIndented(map[string]string{"a": "<b>"}, &buf)).To(Succeed())
		Expect(buf.String()).To(Equal("{\n  \"a\": \"<b>\"\n}\n"))
	})

	It("renders strings for logs", func() {
		Expect(String([]int{1})).To(Equal("[\n  1\n]"))
	})

	It("falls back for values JSON cannot hold", func() {
		Expect(String(make(chan int))).To(HavePrefix("0x"))
	})
})
