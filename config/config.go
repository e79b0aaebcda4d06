package config

import (
	"github.com/kelseyhightower/envconfig"
)

type (
	// Env holds the values of environment variable based configuration
	Env struct {
		Host          string `envconfig:"HOST" default:"0.0.0.0"`
		Port          *int   `envconfig:"PORT"`
		LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
		LogFormat     string `envconfig:"LOG_FORMAT" default:"text"`
		OpenAPI       string `envconfig:"MOCK_OPENAPI"`
		ConfigPath    string `envconfig:"MOCK_CONFIG"`
		OverridesPath string `envconfig:"MOCK_OVERRIDES"`
		BasePath      string `envconfig:"MOCK_BASE_PATH" default:"/__gnock"`
	}
)

// New returns a new Env config
func New() *Env {
	cfg := &Env{}

	envconfig.MustProcess("", cfg)

	return cfg
}

// Partial returns the options overlay carried by the environment.
func (e *Env) Partial() Partial {
	var p Partial

	if e.Port != nil || e.OpenAPI != "" {
		p.Express = &ExpressPartial{Port: e.Port}
		if e.OpenAPI != "" {
			openapi := e.OpenAPI
			p.Express.OpenAPI = &openapi
		}
	}

	return p
}
