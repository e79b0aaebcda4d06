package openapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	. "github.com/onsi/ginkgo"
	"github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"

	"github.com/zerbitx/gnockapi/config"
)

func TestOpenAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OpenAPI Suite")
}

const petstore = `
openapi: 3.0.3
info:
  title: petstore
  version: "1"
security:
  - apiKey: []
paths:
  /pets:
    get:
      security:
        - apiKey: []
      responses:
        "200":
          description: ok
    post:
      responses:
        "201":
          description: created
  /pets/{petId}:
    get:
      parameters:
        - name: petId
          in: path
          required: true
          schema:
            type: string
      responses:
        "200":
          $ref: '#/components/responses/Pet'
  /pets/mine:
    get:
      responses:
        "200":
          description: ok
components:
  securitySchemes:
    apiKey:
      type: apiKey
      in: header
      name: X-Api-Key
  responses:
    Pet:
      description: a pet
      content:
        application/json:
          schema:
            type: object
            properties:
              name:
                type: string
                format: nickname
`

var _ = Describe("OpenAPI", func() {
	var dir, file string

	BeforeEach(func() {
		var err error
		dir, err = os.MkdirTemp("", "gnockapi-openapi")
		Expect(err).ShouldNot(HaveOccurred())

		file = filepath.Join(dir, "petstore.yaml")
		Expect(os.WriteFile(file, []byte(petstore), 0644)).To(Succeed())
	})

	AfterEach(func() {
		Expect(os.RemoveAll(dir)).To(Succeed())
	})

	Context("Load", func() {
		It("requires a location", func() {
			res := Load("")

			Expect(res.IsError()).To(BeTrue())
			Expect(res.Failure.Title).To(Equal("No openapi definition"))
		})

		It("loads a file", func() {
			res := Load(file)

			Expect(res.IsError()).To(BeFalse())
			Expect(res.Value.Paths.Len()).To(Equal(3))
		})

		It("loads a URL", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/yaml")
				_, _ = w.Write([]byte(petstore))
			}))
			defer server.Close()

			res := Load(server.URL + "/petstore.yaml")

			Expect(res.IsError()).To(BeFalse())
			Expect(res.Value.Info.Title).To(Equal("petstore"))
		})

		It("reports missing files", func() {
			res := Load(filepath.Join(dir, "nope.yaml"))

			Expect(res.IsError()).To(BeTrue())
			Expect(res.Failure.Title).To(Equal("Import failed"))
		})
	})

	Context("StripSecurity", func() {
		It("removes every security requirement", func() {
			doc := Load(file).Value

			res := StripSecurity(doc)

			Expect(res.IsError()).To(BeFalse())
			Expect(doc.Security).To(BeNil())
			for _, op := range Operations(doc) {
				Expect(op.Operation.Security).To(BeNil())
			}
		})

		It("rejects documents without paths", func() {
			doc := &openapi3.T{OpenAPI: "3.0.3", Paths: openapi3.NewPaths()}

			Expect(StripSecurity(doc).IsError()).To(BeTrue())
			Expect(StripSecurity(nil).IsError()).To(BeTrue())
		})
	})

	Context("Validate", func() {
		It("ignores unknown formats by default", func() {
			doc := Load(file).Value

			Expect(Validate(context.Background(), doc, config.UnknownFormatsIgnore).IsError()).To(BeFalse())
		})

		It("rejects unknown formats when asked to", func() {
			doc := Load(file).Value

			res := Validate(context.Background(), doc, config.UnknownFormatsThrow)

			Expect(res.IsError()).To(BeTrue())
			Expect(res.Failure.Messages[0]).To(ContainSubstring("nickname"))
		})
	})

	Context("Operations", func() {
		It("lists literal paths before templated ones, longest first", func() {
			var listed []string
			for _, op := range Operations(Load(file).Value) {
				listed = append(listed, op.Method+" "+op.Path)
			}

			Expect(listed).To(Equal([]string{
				"GET /pets/mine",
				"GET /pets",
				"POST /pets",
				"GET /pets/{petId}",
			}))
		})
	})

	Context("Refs", func() {
		It("resolves shared responses", func() {
			refs := NewRefs(Load(file).Value)

			res, err := refs.Response("#/components/responses/Pet")

			Expect(err).ShouldNot(HaveOccurred())
			Expect(res.Content).To(HaveKey("application/json"))
		})

		It("fails on anything else", func() {
			refs := NewRefs(Load(file).Value)

			_, err := refs.Response("#/components/responses/Missing")
			Expect(err).Should(HaveOccurred())

			_, err = refs.Response("#/components/schemas/Pet")
			Expect(err).Should(HaveOccurred())

			_, err = NewRefs(nil).Response("#/components/responses/Pet")
			Expect(err).Should(HaveOccurred())
		})
	})

	table.DescribeTable("RoutePath",
		func(template, expected string) {
			Expect(RoutePath(template)).To(Equal(expected))
		},
		table.Entry("no parameters", "/pets", "/pets"),
		table.Entry("one parameter", "/pets/{petId}", "/pets/:petId"),
		table.Entry("several parameters", "/users/{userId}/pets/{petId}", "/users/:userId/pets/:petId"),
		table.Entry("unterminated brace", "/pets/{petId", "/pets/{petId"),
	)
})
