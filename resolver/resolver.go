// Package resolver decides what a mock server answers to a request: a canned
// override response when one applies, a synthesized one otherwise.
package resolver

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/utils"
	"github.com/sirupsen/logrus"

	"github.com/zerbitx/gnockapi/encode"
	"github.com/zerbitx/gnockapi/overrides"
	"github.com/zerbitx/gnockapi/spec"
	"github.com/zerbitx/gnockapi/synth"
)

type (
	// Request identifies an incoming request.
	Request struct {
		Path   string
		Method string
	}

	// Result is the answer to one request.
	Result struct {
		StatusCode int               `json:"statusCode"`
		Headers    map[string]string `json:"headers"`
		Body       interface{}       `json:"body"`
	}

	// Synthesizer builds a response from an operation's schema.
	Synthesizer interface {
		Synthesize(op *openapi3.Operation) synth.Response
	}

	// Engine resolves requests against a Store of overrides.
	Engine struct {
		store  *overrides.Store
		synth  Synthesizer
		logger logrus.FieldLogger
	}
)

// New returns an Engine.
func New(store *overrides.Store, s Synthesizer, logger logrus.FieldLogger) *Engine {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Engine{store: store, synth: s, logger: logger}
}

// Resolve answers req for the operation op.
//
// Among the override routes matching req, a route declared with exactly
// req.Path wins, then the first matching route. Only their 200 responses are
// served. Without one, the response is synthesized from op.
func (e *Engine) Resolve(req Request, op *openapi3.Operation) Result {
	log := e.logger.WithFields(logrus.Fields{
		"path":   req.Path,
		"method": utils.ToUpper(req.Method),
	})
	log.Debug("resolving")

	var res Result
	if override, ok := search(e.store.Match(req.Path, req.Method), req.Path); ok {
		res = Result{
			StatusCode: http.StatusOK,
			Headers:    copyHeaders(override.Headers),
			Body:       override.Body,
		}
		log = log.WithField("source", "override")
	} else {
		generated := e.synth.Synthesize(op)
		res = Result{
			StatusCode: generated.StatusCode,
			Headers:    map[string]string{},
			Body:       generated.Body,
		}
		log = log.WithField("source", "schema")
	}

	log.WithField("status", res.StatusCode).Debugf("response:\n%s", encode.String(res))

	return res
}

// search picks the override response for path among matched routes.
func search(matched []spec.Route, path string) (spec.Response, bool) {
	if len(matched) == 0 {
		return spec.Response{}, false
	}

	for _, route := range matched {
		if route.Request.Path == path {
			if res, ok := route.Response(http.StatusOK); ok {
				return res, true
			}
			break
		}
	}

	return matched[0].Response(http.StatusOK)
}

func copyHeaders(headers map[string]string) map[string]string {
	copied := make(map[string]string, len(headers))
	for k, v := range headers {
		copied[k] = v
	}

	return copied
}
