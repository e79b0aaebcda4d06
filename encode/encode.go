package encode

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// JSONIndented encodes a value into a writer with a two space indentation,
// leaving HTML characters alone
func JSONIndented(v interface{}, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	return encoder.Encode(v)
}

// String renders v as indented JSON for log output. Values that cannot be
// encoded fall back to their %v form.
func String(v interface{}) string {
	var buf bytes.Buffer
	if err := JSONIndented(v, &buf); err != nil {
		return fmt.Sprintf("%v", v)
	}

	return string(bytes.TrimRight(buf.Bytes(), "\n"))
}
