// Package result holds the tagged success/error value returned by every
// fallible startup operation, and the aggregation of several such values into
// one reportable failure.
package result

import (
	"strings"
)

// Kind discriminates a Response.
type Kind string

const (
	// KindData marks a successful Response carrying a value.
	KindData Kind = "data"
	// KindError marks a failed Response carrying a Failure.
	KindError Kind = "error"
)

type (
	// Failure is a user facing diagnostic.
	Failure struct {
		Title    string   `json:"title"`
		Messages []string `json:"messages"`
		Hints    []string `json:"hints,omitempty"`
		Docs     string   `json:"docs,omitempty"`
	}

	// Response is either data or a failure, never both.
	Response[T any] struct {
		Kind    Kind
		Value   T
		Failure *Failure
	}

	// MergePolicy decides whether messages and hints are collected from every
	// failure or only taken from the first one.
	MergePolicy struct {
		Messages bool
		Hints    bool
	}
)

// Error implements the error interface
func (f *Failure) Error() string {
	if len(f.Messages) == 0 {
		return f.Title
	}

	return f.Title + ": " + strings.Join(f.Messages, "; ")
}

// Data wraps a successful value.
func Data[T any](v T) Response[T] {
	return Response[T]{Kind: KindData, Value: v}
}

// Fail wraps a failure.
func Fail[T any](f Failure) Response[T] {
	return Response[T]{Kind: KindError, Failure: &f}
}

// Failf builds a failure with a title and a single message.
func Failf[T any](title, message string, hints ...string) Response[T] {
	return Fail[T](Failure{Title: title, Messages: []string{message}, Hints: hints})
}

// IsError reports whether r carries a failure.
func (r Response[T]) IsError() bool {
	return r.Kind == KindError
}

// Unwrap converts r to a Go style (value, error) pair.
func (r Response[T]) Unwrap() (T, error) {
	if r.IsError() {
		var zero T
		return zero, r.Failure
	}

	return r.Value, nil
}

// MergeErrors combines the failures among results into one. It returns nil
// when no result failed, meaning the caller can proceed. Title and docs always
// come from the first failure.
func MergeErrors[T any](results []Response[T], policy MergePolicy) *Failure {
	var failures []*Failure
	for _, r := range results {
		if r.IsError() && r.Failure != nil {
			failures = append(failures, r.Failure)
		}
	}

	if len(failures) == 0 {
		return nil
	}

	first := failures[0]
	merged := &Failure{
		Title:    first.Title,
		Docs:     first.Docs,
		Messages: append([]string(nil), first.Messages...),
		Hints:    append([]string(nil), first.Hints...),
	}

	if policy.Messages {
		merged.Messages = nil
		for _, f := range failures {
			merged.Messages = append(merged.Messages, f.Messages...)
		}
	}

	if policy.Hints {
		merged.Hints = nil
		seen := map[string]bool{}
		for _, f := range failures {
			for _, hint := range f.Hints {
				if seen[hint] {
					continue
				}
				seen[hint] = true
				merged.Hints = append(merged.Hints, hint)
			}
		}
	}

	return merged
}
