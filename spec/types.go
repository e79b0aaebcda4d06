package spec

type (
	// Overrides is the root of an overrides file.
	Overrides struct {
		Routes []Route `json:"routes" yaml:"routes"`
	}

	// Route maps a request pattern to canned responses.
	Route struct {
		Request   Request    `json:"request" yaml:"request"`
		Responses []Response `json:"responses" yaml:"responses"`
	}

	// Request is the path pattern and method a Route applies to.
	Request struct {
		Path   string `json:"path" yaml:"path"`
		Method string `json:"method" yaml:"method"`
	}

	// Response is one canned response of a Route.
	Response struct {
		StatusCode int               `json:"statusCode" yaml:"statusCode"`
		Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
		Body       interface{}       `json:"body" yaml:"body"`
	}
)

// Response returns the first response declared for statusCode.
func (r Route) Response(statusCode int) (Response, bool) {
	for _, res := range r.Responses {
		if res.StatusCode == statusCode {
			return res, true
		}
	}

	return Response{}, false
}

// Concat appends the routes of every document in order.
func Concat(docs ...Overrides) Overrides {
	merged := Overrides{Routes: []Route{}}
	for _, doc := range docs {
		merged.Routes = append(merged.Routes, doc.Routes...)
	}

	return merged
}
