// Package loader reads YAML or JSON documents from disk, checks them against
// a JSON Schema and decodes them into typed values.
package loader

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v2"

	"github.com/zerbitx/gnockapi/result"
)

// SchemaDocs points operators at the JSON Schema reference on validation failures.
const SchemaDocs = "https://json-schema.org/understanding-json-schema/"

// MustCompile compiles an embedded schema, panicking if it is malformed.
func MustCompile(name, source string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	if err := compiler.AddResource(name, strings.NewReader(source)); err != nil {
		panic(fmt.Sprintf("loader: adding schema %s: %v", name, err))
	}

	return compiler.MustCompile(name)
}

// File reads path and decodes it into T once it validates against schema.
func File[T any](path string, schema *jsonschema.Schema) result.Response[T] {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return result.Failf[T]("Import failed", fmt.Sprintf("%s not found!", path),
				"Check the path, relative paths are resolved from the working directory")
		}
		return result.Failf[T]("Import failed", fmt.Sprintf("reading %s: %s", path, err))
	}

	return Bytes[T](path, data, schema)
}

// Bytes decodes data, named source in diagnostics, into T once it validates
// against schema.
func Bytes[T any](source string, data []byte, schema *jsonschema.Schema) result.Response[T] {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return result.Failf[T]("Import failed", fmt.Sprintf("parsing %s: %s", source, err),
			"The file must be valid YAML or JSON")
	}

	encoded, err := json.Marshal(normalize(raw))
	if err != nil {
		return result.Failf[T]("Import failed", fmt.Sprintf("converting %s: %s", source, err))
	}

	if schema != nil {
		decoder := json.NewDecoder(bytes.NewReader(encoded))
		decoder.UseNumber()

		var instance interface{}
		if err := decoder.Decode(&instance); err != nil {
			return result.Failf[T]("Import failed", fmt.Sprintf("converting %s: %s", source, err))
		}

		if err := schema.Validate(instance); err != nil {
			return result.Fail[T](result.Failure{
				Title:    "Schema validation failed",
				Messages: validationMessages(source, err),
				Hints:    []string{fmt.Sprintf("Fix %s so that it matches the expected format", source)},
				Docs:     SchemaDocs,
			})
		}
	}

	var value T
	if err := json.Unmarshal(encoded, &value); err != nil {
		return result.Failf[T]("Import failed", fmt.Sprintf("decoding %s: %s", source, err))
	}

	return result.Data(value)
}

// normalize turns the map[interface{}]interface{} values produced by yaml.v2
// into JSON compatible maps.
func normalize(v interface{}) interface{} {
	switch t := v.(type) {
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, val := range t {
			m[fmt.Sprint(k)] = normalize(val)
		}
		return m
	case map[string]interface{}:
		for k, val := range t {
			t[k] = normalize(val)
		}
		return t
	case []interface{}:
		for i, val := range t {
			t[i] = normalize(val)
		}
		return t
	default:
		return v
	}
}

func validationMessages(source string, err error) []string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []string{fmt.Sprintf("%s: %s", source, err)}
	}

	var messages []string
	collect(verr, func(location, message string) {
		if location == "" {
			location = "(root)"
		}
		messages = append(messages, fmt.Sprintf("%s %s: %s", source, location, message))
	})
	sort.Strings(messages)

	return messages
}

func collect(err *jsonschema.ValidationError, emit func(location, message string)) {
	if len(err.Causes) == 0 {
		emit(err.InstanceLocation, err.Message)
		return
	}

	for _, cause := range err.Causes {
		collect(cause, emit)
	}
}
