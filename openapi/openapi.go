// Package openapi loads the OpenAPI document a mock server is built from and
// prepares it for serving.
package openapi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/zerbitx/gnockapi/config"
	"github.com/zerbitx/gnockapi/result"
)

// Operation is one method on one path of the document.
type Operation struct {
	// Path is the OpenAPI path template, e.g. /pets/{petId}
	Path string
	// Method is upper case, e.g. GET
	Method    string
	PathItem  *openapi3.PathItem
	Operation *openapi3.Operation
}

// Load reads the document at location, a file path or an http(s) URL.
func Load(location string) result.Response[*openapi3.T] {
	if location == "" {
		return result.Failf[*openapi3.T]("No openapi definition",
			"an OpenAPI document location is required",
			"Pass --openapi with a file path or URL, or set express.openapi in the config file")
	}

	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = true

	var (
		doc *openapi3.T
		err error
	)
	if u, ok := webURL(location); ok {
		doc, err = loader.LoadFromURI(u)
	} else {
		doc, err = loader.LoadFromFile(location)
	}

	if err != nil {
		return result.Failf[*openapi3.T]("Import failed",
			fmt.Sprintf("loading %s: %s", location, err),
			"Check that the document exists and is valid YAML or JSON")
	}

	return result.Data(doc)
}

// Validate checks doc. unknownFormats decides whether schema formats the
// OpenAPI specification does not define are an error.
func Validate(ctx context.Context, doc *openapi3.T, unknownFormats string) result.Response[*openapi3.T] {
	opts := []openapi3.ValidationOption{openapi3.DisableExamplesValidation()}
	if unknownFormats == config.UnknownFormatsThrow {
		opts = append(opts, openapi3.EnableSchemaFormatValidation())
	} else {
		opts = append(opts, openapi3.DisableSchemaFormatValidation())
	}

	if err := doc.Validate(ctx, opts...); err != nil {
		return result.Failf[*openapi3.T]("Invalid openapi definition", err.Error())
	}

	return result.Data(doc)
}

// StripSecurity removes the security requirements of every operation, as the
// mock server does not authenticate requests. doc is modified in place.
func StripSecurity(doc *openapi3.T) result.Response[*openapi3.T] {
	if doc == nil || doc.Paths == nil || doc.Paths.Len() == 0 {
		return result.Failf[*openapi3.T]("Invalid openapi definition",
			"the document declares no paths",
			"Add at least one path to the document")
	}

	for path, item := range doc.Paths.Map() {
		if item == nil {
			return result.Failf[*openapi3.T]("Invalid openapi definition",
				fmt.Sprintf("path %s has no definition", path))
		}
		for _, op := range item.Operations() {
			op.Security = nil
		}
	}
	doc.Security = nil

	return result.Data(doc)
}

// Operations lists every operation of doc, most specific paths first.
func Operations(doc *openapi3.T) []Operation {
	if doc == nil || doc.Paths == nil {
		return nil
	}

	var ops []Operation
	for _, path := range doc.Paths.InMatchingOrder() {
		item := doc.Paths.Value(path)
		if item == nil {
			continue
		}

		methods := make([]string, 0)
		for method := range item.Operations() {
			methods = append(methods, method)
		}
		sort.Strings(methods)

		for _, method := range methods {
			ops = append(ops, Operation{
				Path:      path,
				Method:    strings.ToUpper(method),
				PathItem:  item,
				Operation: item.GetOperation(method),
			})
		}
	}

	return ops
}

// RoutePath converts an OpenAPI path template into fiber's syntax:
// /pets/{petId} becomes /pets/:petId
func RoutePath(template string) string {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		if template[i] != '{' {
			b.WriteByte(template[i])
			continue
		}

		end := strings.IndexByte(template[i:], '}')
		if end < 0 {
			b.WriteString(template[i:])
			break
		}

		b.WriteByte(':')
		b.WriteString(template[i+1 : i+end])
		i += end
	}

	return b.String()
}

func webURL(location string) (*url.URL, bool) {
	u, err := url.Parse(location)
	if err != nil || u.Host == "" {
		return nil, false
	}

	return u, u.Scheme == "http" || u.Scheme == "https"
}
