package overrides

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/zerbitx/gnockapi/loader"
	"github.com/zerbitx/gnockapi/result"
	"github.com/zerbitx/gnockapi/spec"
)

// DefaultFile is looked up in the working directory when no overrides file is named.
const DefaultFile = "mock-overrides.yaml"

//go:embed schemas/overrides.json
var schemaSource string

var schema = loader.MustCompile("overrides.json", schemaSource)

// Load reads every file matching pattern, which may be a plain path or a glob
// with ** support. Each file is validated on its own; failures are reported
// together. Routes are concatenated in lexical file order.
func Load(pattern string) result.Response[spec.Overrides] {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return result.Failf[spec.Overrides]("Overrides import failed",
			fmt.Sprintf("invalid pattern %s: %s", pattern, err))
	}

	if len(matches) == 0 {
		return result.Failf[spec.Overrides]("Overrides import failed",
			fmt.Sprintf("no file matches %s", pattern),
			"Check the path or glob given with --mock-overrides")
	}

	sort.Strings(matches)

	results := make([]result.Response[spec.Overrides], 0, len(matches))
	for _, match := range matches {
		results = append(results, loader.File[spec.Overrides](match, schema))
	}

	if failure := result.MergeErrors(results, result.MergePolicy{Messages: true, Hints: true}); failure != nil {
		return result.Fail[spec.Overrides](*failure)
	}

	docs := make([]spec.Overrides, 0, len(results))
	for _, r := range results {
		docs = append(docs, r.Value)
	}

	return result.Data(spec.Concat(docs...))
}

// LoadDefault loads pattern, or the default file when pattern is empty. A
// missing default file yields an empty document.
func LoadDefault(pattern string) result.Response[spec.Overrides] {
	if pattern == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return result.Data(spec.Overrides{Routes: []spec.Route{}})
		}
		pattern = DefaultFile
	}

	return Load(pattern)
}
