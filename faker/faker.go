// Package faker produces random values conforming to OpenAPI schemas.
//
// Generation follows this order for every schema:
//  1. example, when UseExamplesValue is set
//  2. default, when UseDefaultValue is set
//  3. enum, a random member
//  4. allOf (merged objects), oneOf and anyOf (first variant)
//  5. type specific generation, format aware for strings
//
// $ref chains are followed up to RefDepthMax times per reference on the current
// branch; deeper references generate nothing.
package faker

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
)

type (
	// Options configure a Generator.
	Options struct {
		FillProperties      bool
		UseExamplesValue    bool
		UseDefaultValue     bool
		FailOnInvalidFormat bool
		RefDepthMax         int
	}

	// Generator generates values from schemas. It is safe for concurrent use.
	Generator struct {
		opts Options
	}

	// InvalidFormatError is returned for unknown string formats when
	// FailOnInvalidFormat is set.
	InvalidFormatError struct {
		Format string
	}

	walk struct {
		opts Options
		refs map[string]int
	}
)

// Error implements the error interface
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("unknown format %q", e.Format)
}

// New returns a Generator configured with opts.
func New(opts Options) *Generator {
	if opts.RefDepthMax < 0 {
		opts.RefDepthMax = 0
	}

	return &Generator{opts: opts}
}

// Generate produces a value conforming to ref.
func (g *Generator) Generate(ref *openapi3.SchemaRef) (interface{}, error) {
	w := &walk{opts: g.opts, refs: map[string]int{}}

	return w.ref(ref, "")
}

func (w *walk) ref(ref *openapi3.SchemaRef, name string) (interface{}, error) {
	if ref == nil {
		return nil, nil
	}

	if ref.Ref != "" {
		if w.refs[ref.Ref] >= w.opts.RefDepthMax {
			return nil, nil
		}
		w.refs[ref.Ref]++
		defer func() { w.refs[ref.Ref]-- }()
	}

	return w.schema(ref.Value, name)
}

func (w *walk) schema(s *openapi3.Schema, name string) (interface{}, error) {
	if s == nil {
		return nil, nil
	}

	if w.opts.UseExamplesValue && s.Example != nil {
		return s.Example, nil
	}

	if w.opts.UseDefaultValue && s.Default != nil {
		return s.Default, nil
	}

	if len(s.Enum) > 0 {
		return s.Enum[rand.IntN(len(s.Enum))], nil
	}

	if len(s.AllOf) > 0 {
		return w.allOf(s)
	}
	if len(s.OneOf) > 0 {
		return w.ref(s.OneOf[0], name)
	}
	if len(s.AnyOf) > 0 {
		return w.ref(s.AnyOf[0], name)
	}

	switch schemaType(s) {
	case openapi3.TypeObject:
		return w.object(s)
	case openapi3.TypeArray:
		return w.array(s)
	case openapi3.TypeString:
		return w.text(s, name)
	case openapi3.TypeInteger:
		return integer(s), nil
	case openapi3.TypeNumber:
		return number(s), nil
	case openapi3.TypeBoolean:
		return rand.IntN(2) == 0, nil
	case openapi3.TypeNull:
		return nil, nil
	default:
		if len(s.Properties) > 0 {
			return w.object(s)
		}
		return nil, nil
	}
}

func schemaType(s *openapi3.Schema) string {
	if s.Type == nil || len(*s.Type) == 0 {
		return ""
	}

	return (*s.Type)[0]
}

func (w *walk) object(s *openapi3.Schema) (interface{}, error) {
	required := map[string]bool{}
	for _, name := range s.Required {
		required[name] = true
	}

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	obj := make(map[string]interface{}, len(names))
	for _, name := range names {
		if !w.opts.FillProperties && !required[name] {
			continue
		}

		v, err := w.ref(s.Properties[name], name)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", name, err)
		}
		obj[name] = v
	}

	return obj, nil
}

func (w *walk) allOf(s *openapi3.Schema) (interface{}, error) {
	merged := map[string]interface{}{}
	var last interface{}

	for _, sub := range s.AllOf {
		v, err := w.ref(sub, "")
		if err != nil {
			return nil, err
		}
		last = v
		if m, ok := v.(map[string]interface{}); ok {
			for k, val := range m {
				merged[k] = val
			}
		}
	}

	if len(s.Properties) > 0 {
		v, err := w.object(s)
		if err != nil {
			return nil, err
		}
		for k, val := range v.(map[string]interface{}) {
			merged[k] = val
		}
	}

	if len(merged) == 0 && last != nil {
		if _, isObject := last.(map[string]interface{}); !isObject {
			return last, nil
		}
	}

	return merged, nil
}

func (w *walk) array(s *openapi3.Schema) (interface{}, error) {
	count := 1
	if int(s.MinItems) > count {
		count = int(s.MinItems)
	}
	if s.MaxItems != nil && int(*s.MaxItems) < count {
		count = int(*s.MaxItems)
	}

	items := make([]interface{}, 0, count)
	for i := 0; i < count; i++ {
		v, err := w.ref(s.Items, "")
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		items = append(items, v)
	}

	return items, nil
}

func (w *walk) text(s *openapi3.Schema, name string) (interface{}, error) {
	if s.Format != "" {
		if v, ok := stringByFormat(s.Format); ok {
			return v, nil
		}
		if w.opts.FailOnInvalidFormat {
			return nil, &InvalidFormatError{Format: s.Format}
		}
	}

	v := stringByName(name)
	if v == "" {
		v = randomWord()
	}

	if minLen := int(s.MinLength); len(v) < minLen {
		v += strings.Repeat("x", minLen-len(v))
	}
	if s.MaxLength != nil && uint64(len(v)) > *s.MaxLength {
		v = v[:*s.MaxLength]
	}

	return v, nil
}

func integer(s *openapi3.Schema) int64 {
	lo, hi := 0.0, 100.0
	if s.Min != nil {
		lo = math.Ceil(*s.Min)
		if s.ExclusiveMin && lo == *s.Min {
			lo++
		}
		if s.Max == nil {
			hi = lo + 100
		}
	}
	if s.Max != nil {
		hi = math.Floor(*s.Max)
		if s.ExclusiveMax && hi == *s.Max {
			hi--
		}
		if s.Min == nil {
			lo = hi - 100
		}
	}

	low, high := toInt64(lo), toInt64(hi)
	if low >= high {
		return low
	}

	// high-low may not fit an int64; the unsigned difference always does.
	span := uint64(high) - uint64(low)
	if span == math.MaxUint64 {
		return int64(rand.Uint64())
	}

	return int64(uint64(low) + rand.Uint64N(span+1))
}

func toInt64(f float64) int64 {
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

func number(s *openapi3.Schema) float64 {
	lo, hi := 0.0, 100.0
	if s.Min != nil {
		lo = *s.Min
		if s.ExclusiveMin {
			lo = math.Nextafter(lo, math.Inf(1))
		}
		if s.Max == nil {
			hi = lo + 100
		}
	}
	if s.Max != nil {
		hi = *s.Max
		if s.ExclusiveMax {
			hi = math.Nextafter(hi, math.Inf(-1))
		}
		if s.Min == nil {
			lo = hi - 100
		}
	}
	if lo >= hi {
		return lo
	}

	mid, half := lo/2+hi/2, hi/2-lo/2
	v := mid + (2*rand.Float64()-1)*half
	if math.Abs(v) < 1e15 {
		v = math.Round(v*100) / 100
	}
	// rounding can step over a bound
	if v < lo || v > hi {
		return mid
	}

	return v
}

func stringByFormat(format string) (string, bool) {
	switch format {
	case "uuid":
		return uuid.New().String(), true
	case "email":
		return randomWord() + "@example.com", true
	case "uri", "url":
		return "https://example.com/" + randomWord(), true
	case "hostname":
		return randomWord() + ".example.com", true
	case "ipv4":
		return fmt.Sprintf("%d.%d.%d.%d", rand.IntN(256), rand.IntN(256), rand.IntN(256), rand.IntN(256)), true
	case "ipv6":
		return fmt.Sprintf("2001:db8::%x:%x", rand.IntN(0xffff), rand.IntN(0xffff)), true
	case "date-time":
		return time.Now().UTC().Format(time.RFC3339), true
	case "date":
		return time.Now().UTC().Format("2006-01-02"), true
	case "time":
		return time.Now().UTC().Format("15:04:05Z"), true
	case "password":
		return "P@ss" + randomWord() + "42!", true
	case "byte":
		return "Z25vY2s=", true
	case "binary":
		return "676e6f636b", true
	default:
		return "", false
	}
}

func stringByName(name string) string {
	switch lower := strings.ToLower(name); {
	case lower == "id" || lower == "uuid":
		return uuid.New().String()
	case strings.HasSuffix(lower, "email"):
		return randomWord() + "@example.com"
	case lower == "url" || lower == "href" || lower == "link":
		return "https://example.com/" + randomWord()
	case strings.HasSuffix(lower, "_at") || lower == "timestamp":
		return time.Now().UTC().Format(time.RFC3339)
	default:
		return ""
	}
}

var words = []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}

func randomWord() string {
	return words[rand.IntN(len(words))]
}
