package mockserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/gofiber/fiber"
	"github.com/sirupsen/logrus"

	"github.com/zerbitx/gnockapi/encode"
	"github.com/zerbitx/gnockapi/openapi"
	"github.com/zerbitx/gnockapi/resolver"
)

var validationOptions = &openapi3filter.Options{
	MultiError:            true,
	IncludeResponseStatus: true,
	AuthenticationFunc:    openapi3filter.NoopAuthenticationFunc,
}

func (s *Server) handle(op openapi.Operation) fiber.Handler {
	route := &routers.Route{
		Spec:      s.doc,
		Path:      op.Path,
		PathItem:  op.PathItem,
		Method:    op.Method,
		Operation: op.Operation,
	}
	express := s.options.Express

	return func(c *fiber.Ctx) {
		requestID := string(c.Fasthttp.Response.Header.Peek(RequestIDHeader))

		log := s.logger.WithFields(logrus.Fields{
			"requestId": requestID,
			"operation": op.Method + " " + op.Path,
		})

		params := map[string]string{}
		for _, name := range c.Route().Params {
			params[name] = c.Params(name)
		}

		log.Debugf("received:\n%s", encode.String(map[string]interface{}{
			"url":     c.OriginalURL(),
			"params":  params,
			"headers": requestHeaders(c),
			"body":    requestBody(c),
		}))

		var input *openapi3filter.RequestValidationInput
		if express.ValidateRequests || express.ValidateResponses {
			req, err := httpRequest(c)
			if err != nil {
				log.WithError(err).Error("Failed to read request")
				c.SendStatus(http.StatusInternalServerError)
				return
			}

			input = &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: params,
				Route:      route,
				Options:    validationOptions,
			}
		}

		if express.ValidateRequests {
			if err := openapi3filter.ValidateRequest(context.Background(), input); err != nil {
				log.WithError(err).Info("request does not match the openapi definition")
				c.Status(http.StatusBadRequest)
				if err := c.JSON(map[string]string{"message": err.Error()}); err != nil {
					log.WithError(err).Error("Failed to encode response")
				}
				return
			}
		}

		res := s.engine.Resolve(resolver.Request{Path: c.Path(), Method: c.Method()}, op.Operation)

		if express.ValidateResponses {
			if err := validateResponse(input, res); err != nil {
				log.WithError(err).Warn("response does not match the openapi definition")
			}
		}

		c.Status(res.StatusCode)
		if err := c.JSON(res.Body); err != nil {
			log.WithError(err).Error("Failed to encode response")
			c.SendStatus(http.StatusInternalServerError)
			return
		}

		for k, v := range res.Headers {
			c.Set(k, v)
		}
	}
}

func validateResponse(input *openapi3filter.RequestValidationInput, res resolver.Result) error {
	body, err := json.Marshal(res.Body)
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("Content-Type", "application/json")
	for k, v := range res.Headers {
		header.Set(k, v)
	}

	out := &openapi3filter.ResponseValidationInput{
		RequestValidationInput: input,
		Status:                 res.StatusCode,
		Header:                 header,
		Options:                validationOptions,
	}
	out.SetBodyBytes(body)

	return openapi3filter.ValidateResponse(context.Background(), out)
}

// httpRequest rebuilds the fasthttp request as a net/http one for the
// openapi3filter validators.
func httpRequest(c *fiber.Ctx) (*http.Request, error) {
	body := append([]byte(nil), c.Fasthttp.Request.Body()...)

	req, err := http.NewRequest(c.Method(), c.OriginalURL(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	c.Fasthttp.Request.Header.VisitAll(func(k, v []byte) {
		req.Header.Add(string(k), string(v))
	})

	return req, nil
}

func requestHeaders(c *fiber.Ctx) map[string]string {
	headers := map[string]string{}
	c.Fasthttp.Request.Header.VisitAll(func(k, v []byte) {
		headers[string(k)] = string(v)
	})

	return headers
}

func requestBody(c *fiber.Ctx) interface{} {
	raw := c.Fasthttp.Request.Body()
	if len(raw) == 0 {
		return nil
	}

	var body interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return string(raw)
	}

	return body
}
