package openapi

import (
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const responsesPrefix = "#/components/responses/"

// Refs looks up shared definitions of a loaded document by JSON pointer.
type Refs struct {
	doc *openapi3.T
}

// NewRefs returns the reference table of doc.
func NewRefs(doc *openapi3.T) *Refs {
	return &Refs{doc: doc}
}

// Response resolves a pointer such as #/components/responses/NotFound.
func (r *Refs) Response(pointer string) (*openapi3.Response, error) {
	if !strings.HasPrefix(pointer, responsesPrefix) {
		return nil, fmt.Errorf("unsupported response reference %q", pointer)
	}

	if r == nil || r.doc == nil || r.doc.Components == nil {
		return nil, fmt.Errorf("no components to resolve %q", pointer)
	}

	name := unescape(strings.TrimPrefix(pointer, responsesPrefix))
	ref, ok := r.doc.Components.Responses[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("response %q not found", pointer)
	}

	return ref.Value, nil
}

// unescape decodes a JSON pointer token.
func unescape(token string) string {
	return strings.NewReplacer("~1", "/", "~0", "~").Replace(token)
}
