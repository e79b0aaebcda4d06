package cli

import (
	"github.com/spf13/cobra"

	"github.com/zerbitx/gnockapi/config"
)

// flags holds the values bound to the root command's flags.
type flags struct {
	openapi       string
	configPath    string
	overridesPath string
	logLevel      string
	port          int

	express config.Express
	jsf     config.JSF
	cors    config.CORS
}

func (f *flags) register(cmd *cobra.Command) {
	fs := cmd.Flags()

	fs.StringVar(&f.openapi, "openapi", "", "OpenAPI document to mock, a file path or an http(s) URL")
	fs.StringVar(&f.configPath, "mock-config", "", "Config file (default "+config.DefaultFile+" when present)")
	fs.StringVar(&f.overridesPath, "mock-overrides", "", "Overrides file or glob pattern (default mock-overrides.yaml when present)")
	fs.IntVar(&f.port, "port", 0, "Port to listen on (default 8080)")
	fs.StringVar(&f.logLevel, "log-level", "", "Log level: trace, debug, info, warn or error (default $LOG_LEVEL or info)")

	fs.IntVar(&f.express.Port, "express.port", 0, "Same as --port")
	fs.StringVar(&f.express.OpenAPI, "express.openapi", "", "Same as --openapi")
	fs.BoolVar(&f.express.ValidateRequests, "express.validateRequests", false, "Reject requests that do not match the OpenAPI document")
	fs.BoolVar(&f.express.ValidateResponses, "express.validateResponses", false, "Log responses that do not match the OpenAPI document")
	fs.StringVar(&f.express.UnknownFormats, "express.unknownFormats", "", "Schema formats unknown to OpenAPI: ignore or throw")

	fs.BoolVar(&f.jsf.FillProperties, "jsf.fillProperties", false, "Generate optional properties too")
	fs.BoolVar(&f.jsf.UseExamplesValue, "jsf.useExamplesValue", false, "Prefer schema examples over generated values")
	fs.BoolVar(&f.jsf.UseDefaultValue, "jsf.useDefaultValue", false, "Prefer schema defaults over generated values")
	fs.BoolVar(&f.jsf.FailOnInvalidFormat, "jsf.failOnInvalidFormat", false, "Fail generation on unknown string formats")
	fs.IntVar(&f.jsf.RefDepthMax, "jsf.refDepthMax", 0, "How many times a $ref may be expanded on one branch")

	fs.StringVar(&f.cors.Origin, "cors.origin", "", "Access-Control-Allow-Origin value")
	fs.BoolVar(&f.cors.Credentials, "cors.credentials", false, "Allow credentialed cross origin requests")
}

// partial returns the overlay made of the flags that were set on the
// command line. The dotted flags win over their short aliases.
func (f *flags) partial(cmd *cobra.Command) config.Partial {
	var p config.Partial

	express := config.ExpressPartial{
		Port:              either(changed(cmd, "express.port", &f.express.Port), changed(cmd, "port", &f.port)),
		OpenAPI:           either(changed(cmd, "express.openapi", &f.express.OpenAPI), changed(cmd, "openapi", &f.openapi)),
		ValidateRequests:  changed(cmd, "express.validateRequests", &f.express.ValidateRequests),
		ValidateResponses: changed(cmd, "express.validateResponses", &f.express.ValidateResponses),
		UnknownFormats:    changed(cmd, "express.unknownFormats", &f.express.UnknownFormats),
	}
	if express != (config.ExpressPartial{}) {
		p.Express = &express
	}

	jsf := config.JSFPartial{
		FillProperties:      changed(cmd, "jsf.fillProperties", &f.jsf.FillProperties),
		UseExamplesValue:    changed(cmd, "jsf.useExamplesValue", &f.jsf.UseExamplesValue),
		UseDefaultValue:     changed(cmd, "jsf.useDefaultValue", &f.jsf.UseDefaultValue),
		FailOnInvalidFormat: changed(cmd, "jsf.failOnInvalidFormat", &f.jsf.FailOnInvalidFormat),
		RefDepthMax:         changed(cmd, "jsf.refDepthMax", &f.jsf.RefDepthMax),
	}
	if jsf != (config.JSFPartial{}) {
		p.JSF = &jsf
	}

	cors := config.CORSPartial{
		Origin:      changed(cmd, "cors.origin", &f.cors.Origin),
		Credentials: changed(cmd, "cors.credentials", &f.cors.Credentials),
	}
	if cors != (config.CORSPartial{}) {
		p.CORS = &cors
	}

	return p
}

func changed[T any](cmd *cobra.Command, name string, v *T) *T {
	if !cmd.Flags().Changed(name) {
		return nil
	}

	return v
}

func either[T any](a, b *T) *T {
	if a != nil {
		return a
	}

	return b
}
