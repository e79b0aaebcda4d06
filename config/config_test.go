package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

func TestConfig(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Config Suite")
}

func intPtr(i int) *int          { return &i }
func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }

var _ = Describe("Merge", func() {
	It("never lets an absent field overwrite a base value", func() {
		base := Defaults()
		base.Express.Port = 8080

		merged := Merge(base, Partial{Express: &ExpressPartial{Port: nil}})

		Expect(merged.Express.Port).To(Equal(8080))
		Expect(merged).To(Equal(base))
	})

	It("replaces present fields and keeps the rest of the section", func() {
		merged := Merge(Defaults(), Partial{
			Express: &ExpressPartial{Port: intPtr(9000), ValidateRequests: boolPtr(true)},
		})

		Expect(merged.Express.Port).To(Equal(9000))
		Expect(merged.Express.ValidateRequests).To(BeTrue())
		Expect(merged.Express.UnknownFormats).To(Equal(UnknownFormatsIgnore))
	})

	It("leaves sections missing from the overlay untouched", func() {
		merged := Merge(Defaults(), Partial{CORS: &CORSPartial{Credentials: boolPtr(true)}})

		Expect(merged.JSF).To(Equal(Defaults().JSF))
		Expect(merged.Express).To(Equal(Defaults().Express))
		Expect(merged.CORS.Credentials).To(BeTrue())
		Expect(merged.CORS.Origin).To(Equal("*"))
	})

	It("is idempotent", func() {
		overlay := Partial{
			Express: &ExpressPartial{Port: intPtr(1234)},
			JSF:     &JSFPartial{FillProperties: boolPtr(true), RefDepthMax: intPtr(2)},
			CORS:    &CORSPartial{Origin: stringPtr("https://example.com")},
		}

		once := Merge(Defaults(), overlay)
		twice := Merge(once, overlay)

		Expect(twice).To(Equal(once))
	})

	It("does not modify its base", func() {
		base := Defaults()
		_ = Merge(base, Partial{JSF: &JSFPartial{RefDepthMax: intPtr(1)}})

		Expect(base.JSF.RefDepthMax).To(Equal(5))
	})

	It("lets later layers win", func() {
		file := Partial{Express: &ExpressPartial{Port: intPtr(3000), UnknownFormats: stringPtr(UnknownFormatsThrow)}}
		cli := Partial{Express: &ExpressPartial{Port: intPtr(4000)}}

		merged := Layer(Defaults(), file, cli)

		Expect(merged.Express.Port).To(Equal(4000))
		Expect(merged.Express.UnknownFormats).To(Equal(UnknownFormatsThrow))
	})
})

var _ = Describe("LoadFile", func() {
	var dir string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "gnockapi-config")
		Expect(err).ShouldNot(HaveOccurred())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	It("loads a YAML layer", func() {
		path := write("mock-config.yaml", `
express:
  port: 9090
  validateRequests: true
jsf:
  refDepthMax: 2
`)

		res := LoadFile(path)

		Expect(res.IsError()).To(BeFalse())
		Expect(*res.Value.Express.Port).To(Equal(9090))
		Expect(*res.Value.Express.ValidateRequests).To(BeTrue())
		Expect(res.Value.Express.OpenAPI).To(BeNil())
		Expect(*res.Value.JSF.RefDepthMax).To(Equal(2))
		Expect(res.Value.CORS).To(BeNil())
	})

	It("loads a JSON layer", func() {
		path := write("mock-config.json", `{"cors": {"origin": "https://example.com", "credentials": true}}`)

		res := LoadFile(path)

		Expect(res.IsError()).To(BeFalse())
		Expect(*res.Value.CORS.Origin).To(Equal("https://example.com"))
		Expect(*res.Value.CORS.Credentials).To(BeTrue())
	})

	It("rejects unknown keys", func() {
		path := write("bad.yaml", "express:\n  port: 80\nlogging: true\n")

		res := LoadFile(path)

		Expect(res.IsError()).To(BeTrue())
		Expect(res.Failure.Title).To(Equal("Schema validation failed"))
		Expect(res.Failure.Messages).NotTo(BeEmpty())
	})

	It("rejects values of the wrong type", func() {
		path := write("bad.yaml", "jsf:\n  fillProperties: sometimes\n")

		res := LoadFile(path)

		Expect(res.IsError()).To(BeTrue())
		Expect(res.Failure.Messages[0]).To(ContainSubstring("/jsf/fillProperties"))
	})

	It("fails when an explicit path is missing", func() {
		res := LoadFile(filepath.Join(dir, "nope.yaml"))

		Expect(res.IsError()).To(BeTrue())
		Expect(res.Failure.Title).To(Equal("Import failed"))
		Expect(res.Failure.Messages[0]).To(ContainSubstring("not found"))
	})

	It("returns an empty layer when the default file is absent", func() {
		res := LoadFile("")

		Expect(res.IsError()).To(BeFalse())
		Expect(res.Value).To(Equal(Partial{}))
	})
})

var _ = Describe("Env", func() {
	AfterEach(func() {
		os.Unsetenv("PORT")
		os.Unsetenv("MOCK_OPENAPI")
	})

	It("uses defaults and yields an empty overlay", func() {
		env := New()

		Expect(env.Host).To(Equal("0.0.0.0"))
		Expect(env.LogLevel).To(Equal("info"))
		Expect(env.BasePath).To(Equal("/__gnock"))
		Expect(env.Port).To(BeNil())
		Expect(env.Partial()).To(Equal(Partial{}))
	})

	It("turns PORT and MOCK_OPENAPI into an overlay", func() {
		os.Setenv("PORT", "7000")
		os.Setenv("MOCK_OPENAPI", "petstore.yaml")

		merged := Merge(Defaults(), New().Partial())

		Expect(merged.Express.Port).To(Equal(7000))
		Expect(merged.Express.OpenAPI).To(Equal("petstore.yaml"))
	})
})
