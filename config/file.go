package config

import (
	_ "embed"
	"os"

	"github.com/zerbitx/gnockapi/loader"
	"github.com/zerbitx/gnockapi/result"
)

// DefaultFile is looked up in the working directory when no config file is named.
const DefaultFile = "mock-config.yaml"

//go:embed schemas/config.json
var schemaSource string

var schema = loader.MustCompile("config.json", schemaSource)

// LoadFile reads a configuration layer from path. With an empty path the
// default file is used if it exists, and an empty layer is returned if it
// does not. A path given explicitly must exist.
func LoadFile(path string) result.Response[Partial] {
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return result.Data(Partial{})
		}
		path = DefaultFile
	}

	return loader.File[Partial](path, schema)
}
