// Package matcher decides whether an override path pattern applies to a
// request path.
//
// Patterns use path-to-regexp syntax:
//
//	/users/:id        named segment, matches exactly one non-empty segment
//	/users/{id}       same, OpenAPI spelling
//	/pets/:id?/toys   optional named segment
//	/users/*          matches the rest of the path, including nothing
//	/users*           same, anywhere in a segment
//
// Matching ignores case and trailing slashes, and does not anchor the end of
// the pattern: "/users" matches "/users/42". Parameter values are not captured.
package matcher

import (
	"strings"
	"sync"

	"github.com/gofiber/utils"
	pathToRegexp "github.com/soongo/path-to-regexp"
)

type compiled interface {
	MatchString(s string) (bool, error)
}

// patterns caches compiled patterns. A nil entry marks an invalid pattern.
var patterns sync.Map

// Matches reports whether pattern matches candidate. Invalid patterns match
// nothing.
func Matches(pattern, candidate string) bool {
	re := compile(pattern)
	if re == nil {
		return false
	}

	ok, err := re.MatchString(candidate)

	return err == nil && ok
}

func compile(pattern string) compiled {
	if cached, ok := patterns.Load(pattern); ok {
		re, _ := cached.(compiled)
		return re
	}

	end := false
	re, err := pathToRegexp.PathToRegexp(normalize(pattern), nil, &pathToRegexp.Options{End: &end})
	if err != nil {
		patterns.Store(pattern, nil)
		return nil
	}

	patterns.Store(pattern, compiled(re))

	return re
}

// normalize rewrites OpenAPI {name} segments and bare wildcards into
// path-to-regexp syntax and drops trailing slashes.
func normalize(pattern string) string {
	var b strings.Builder
	inParam := false

	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]

		switch {
		case ch == ':':
			inParam = true
			b.WriteByte(ch)
		case ch == '{':
			end := strings.IndexByte(pattern[i:], '}')
			if end < 0 {
				b.WriteString(pattern[i:])
				i = len(pattern)
				continue
			}
			b.WriteByte(':')
			b.WriteString(paramName(pattern[i+1 : i+end]))
			i += end
			inParam = false
		case ch == '*' && !inParam:
			b.WriteString("(.*)?")
		default:
			if inParam && !isWord(ch) {
				inParam = false
			}
			b.WriteByte(ch)
		}
	}

	if normalized := utils.TrimRight(b.String(), '/'); normalized != "" {
		return normalized
	}

	return "/"
}

func paramName(name string) string {
	b := []byte(name)
	for i := range b {
		if !isWord(b[i]) {
			b[i] = '_'
		}
	}

	return string(b)
}

func isWord(ch byte) bool {
	return ch == '_' ||
		(ch >= 'a' && ch <= 'z') ||
		(ch >= 'A' && ch <= 'Z') ||
		(ch >= '0' && ch <= '9')
}
