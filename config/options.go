package config

type (
	// Options is the effective configuration of a mock server.
	Options struct {
		Express Express `json:"express"`
		JSF     JSF     `json:"jsf"`
		CORS    CORS    `json:"cors"`
	}

	// Express holds transport options.
	Express struct {
		Port              int    `json:"port"`
		OpenAPI           string `json:"openapi,omitempty"`
		ValidateRequests  bool   `json:"validateRequests"`
		ValidateResponses bool   `json:"validateResponses"`
		UnknownFormats    string `json:"unknownFormats"`
	}

	// JSF holds the schema faker options.
	JSF struct {
		FillProperties      bool `json:"fillProperties"`
		UseExamplesValue    bool `json:"useExamplesValue"`
		UseDefaultValue     bool `json:"useDefaultValue"`
		FailOnInvalidFormat bool `json:"failOnInvalidFormat"`
		RefDepthMax         int  `json:"refDepthMax"`
	}

	// CORS holds the cross origin options.
	CORS struct {
		Origin      string `json:"origin"`
		Credentials bool   `json:"credentials"`
	}

	// Partial is one configuration layer. A nil section or a nil field is
	// absent and leaves the underlying value alone.
	Partial struct {
		Express *ExpressPartial `json:"express,omitempty"`
		JSF     *JSFPartial     `json:"jsf,omitempty"`
		CORS    *CORSPartial    `json:"cors,omitempty"`
	}

	// ExpressPartial overlays Express.
	ExpressPartial struct {
		Port              *int    `json:"port,omitempty"`
		OpenAPI           *string `json:"openapi,omitempty"`
		ValidateRequests  *bool   `json:"validateRequests,omitempty"`
		ValidateResponses *bool   `json:"validateResponses,omitempty"`
		UnknownFormats    *string `json:"unknownFormats,omitempty"`
	}

	// JSFPartial overlays JSF.
	JSFPartial struct {
		FillProperties      *bool `json:"fillProperties,omitempty"`
		UseExamplesValue    *bool `json:"useExamplesValue,omitempty"`
		UseDefaultValue     *bool `json:"useDefaultValue,omitempty"`
		FailOnInvalidFormat *bool `json:"failOnInvalidFormat,omitempty"`
		RefDepthMax         *int  `json:"refDepthMax,omitempty"`
	}

	// CORSPartial overlays CORS.
	CORSPartial struct {
		Origin      *string `json:"origin,omitempty"`
		Credentials *bool   `json:"credentials,omitempty"`
	}
)

// Unknown format policies.
const (
	UnknownFormatsIgnore = "ignore"
	UnknownFormatsThrow  = "throw"
)

// Defaults returns the built in configuration.
func Defaults() Options {
	return Options{
		Express: Express{
			Port:              8080,
			ValidateRequests:  false,
			ValidateResponses: false,
			UnknownFormats:    UnknownFormatsIgnore,
		},
		JSF: JSF{
			FillProperties:      false,
			UseExamplesValue:    true,
			UseDefaultValue:     true,
			FailOnInvalidFormat: false,
			RefDepthMax:         5,
		},
		CORS: CORS{
			Origin:      "*",
			Credentials: false,
		},
	}
}

// Merge lays overlay over base and returns the result. base is not modified.
func Merge(base Options, overlay Partial) Options {
	merged := base

	if e := overlay.Express; e != nil {
		set(&merged.Express.Port, e.Port)
		set(&merged.Express.OpenAPI, e.OpenAPI)
		set(&merged.Express.ValidateRequests, e.ValidateRequests)
		set(&merged.Express.ValidateResponses, e.ValidateResponses)
		set(&merged.Express.UnknownFormats, e.UnknownFormats)
	}

	if j := overlay.JSF; j != nil {
		set(&merged.JSF.FillProperties, j.FillProperties)
		set(&merged.JSF.UseExamplesValue, j.UseExamplesValue)
		set(&merged.JSF.UseDefaultValue, j.UseDefaultValue)
		set(&merged.JSF.FailOnInvalidFormat, j.FailOnInvalidFormat)
		set(&merged.JSF.RefDepthMax, j.RefDepthMax)
	}

	if c := overlay.CORS; c != nil {
		set(&merged.CORS.Origin, c.Origin)
		set(&merged.CORS.Credentials, c.Credentials)
	}

	return merged
}

// Layer merges every overlay over base in order, later layers winning.
func Layer(base Options, overlays ...Partial) Options {
	for _, overlay := range overlays {
		base = Merge(base, overlay)
	}

	return base
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
