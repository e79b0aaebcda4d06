// Package overrides loads override files and answers which override routes
// apply to a request.
package overrides

import (
	"github.com/gofiber/utils"

	"github.com/zerbitx/gnockapi/matcher"
	"github.com/zerbitx/gnockapi/spec"
)

// Store holds the override routes. It is read only once built.
type Store struct {
	routes []spec.Route
}

// NewStore builds a Store over the routes of doc, in declaration order.
func NewStore(doc spec.Overrides) *Store {
	routes := make([]spec.Route, len(doc.Routes))
	copy(routes, doc.Routes)

	return &Store{routes: routes}
}

// Routes returns every route in declaration order.
func (s *Store) Routes() []spec.Route {
	if s == nil {
		return nil
	}

	routes := make([]spec.Route, len(s.routes))
	copy(routes, s.routes)

	return routes
}

// Len returns the number of routes.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}

	return len(s.routes)
}

// Match returns the routes declared for method whose path pattern matches
// path, keeping declaration order.
func (s *Store) Match(path, method string) []spec.Route {
	if s == nil {
		return nil
	}

	method = utils.ToLower(method)

	var matched []spec.Route
	for _, route := range s.routes {
		if utils.ToLower(route.Request.Method) != method {
			continue
		}
		if matcher.Matches(route.Request.Path, path) {
			matched = append(matched, route)
		}
	}

	return matched
}

// ByStatus returns every response declared for statusCode across all routes.
func (s *Store) ByStatus(statusCode int) []spec.Response {
	if s == nil {
		return nil
	}

	var responses []spec.Response
	for _, route := range s.routes {
		for _, res := range route.Responses {
			if res.StatusCode == statusCode {
				responses = append(responses, res)
			}
		}
	}

	return responses
}
