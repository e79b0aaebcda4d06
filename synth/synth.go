// Package synth builds a response body for an operation from its declared
// 200 response schema when no override applies.
package synth

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/sirupsen/logrus"
)

// Failure messages, returned as {"message": ...} with a 500.
const (
	NoDefinition = "No openapi definition found!"
	NoOKResponse = "No 200 response found!"
	NoJSONSchema = "No json schema found!"
)

const jsonMediaType = "application/json"

type (
	// Generator produces a value conforming to a schema.
	Generator interface {
		Generate(ref *openapi3.SchemaRef) (interface{}, error)
	}

	// RefResolver dereferences a shared response by JSON pointer.
	RefResolver interface {
		Response(pointer string) (*openapi3.Response, error)
	}

	// Response is a synthesized status and body.
	Response struct {
		StatusCode int
		Body       interface{}
	}

	// Synthesizer turns operations into responses. It never fails: every
	// problem becomes a 500 with a message body.
	Synthesizer struct {
		gen    Generator
		refs   RefResolver
		logger logrus.FieldLogger
	}
)

// New returns a Synthesizer.
func New(gen Generator, refs RefResolver, logger logrus.FieldLogger) *Synthesizer {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Synthesizer{gen: gen, refs: refs, logger: logger}
}

// Synthesize builds the response for op.
func (s *Synthesizer) Synthesize(op *openapi3.Operation) Response {
	if op == nil {
		return failure(NoDefinition)
	}

	if op.Responses == nil {
		return failure(NoOKResponse)
	}

	ref := op.Responses.Value("200")
	if ref == nil {
		return failure(NoOKResponse)
	}

	response := s.dereference(ref)

	schema := jsonSchema(response)
	if schema == nil {
		return failure(NoJSONSchema)
	}

	body, err := s.generate(schema)
	if err != nil {
		s.logger.WithError(err).WithField("operation", op.OperationID).Warn("failed to generate response")
		return failure(NoJSONSchema)
	}

	return Response{StatusCode: http.StatusOK, Body: body}
}

// dereference resolves ref through the reference table, falling back to the
// value carried inline.
func (s *Synthesizer) dereference(ref *openapi3.ResponseRef) *openapi3.Response {
	if ref.Ref != "" && s.refs != nil {
		if resolved, err := s.refs.Response(ref.Ref); err == nil {
			return resolved
		}
	}

	return ref.Value
}

func (s *Synthesizer) generate(schema *openapi3.SchemaRef) (body interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			body, err = nil, &panicError{value: r}
		}
	}()

	return s.gen.Generate(schema)
}

func jsonSchema(response *openapi3.Response) *openapi3.SchemaRef {
	if response == nil || response.Content == nil {
		return nil
	}

	media := response.Content.Get(jsonMediaType)
	if media == nil {
		return nil
	}

	return media.Schema
}

func failure(message string) Response {
	return Response{
		StatusCode: http.StatusInternalServerError,
		Body:       map[string]interface{}{"message": message},
	}
}
