package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zerbitx/gnockapi/config"
	"github.com/zerbitx/gnockapi/faker"
	"github.com/zerbitx/gnockapi/mockserver"
	"github.com/zerbitx/gnockapi/openapi"
	"github.com/zerbitx/gnockapi/overrides"
	"github.com/zerbitx/gnockapi/resolver"
	"github.com/zerbitx/gnockapi/result"
	"github.com/zerbitx/gnockapi/synth"
)

// errStartup is returned once a startup failure has been logged.
var errStartup = errors.New("startup failed")

type (
	// sources names the files a mock server is built from. Empty paths fall
	// back to the default files.
	sources struct {
		configPath    string
		overridesPath string
	}

	// setup is everything a mock server needs, loaded and validated.
	setup struct {
		options config.Options
		store   *overrides.Store
		doc     *openapi3.T
	}
)

func run(cmd *cobra.Command, f *flags) error {
	env := config.New()

	level := env.LogLevel
	if cmd.Flags().Changed("log-level") {
		level = f.logLevel
	}

	logger, err := newLogger(level, env.LogFormat)
	if err != nil {
		return err
	}

	src := sources{
		configPath:    firstOf(f.configPath, env.ConfigPath),
		overridesPath: firstOf(f.overridesPath, env.OverridesPath),
	}

	prepared, err := prepare(cmd.Context(), src, env.Partial(), f.partial(cmd), logger).Unwrap()
	if err != nil {
		logFailure(logger, err)
		return errStartup
	}

	server, err := newServer(prepared, env, logger)
	if err != nil {
		logFailure(logger.WithField("stage", "routes"), err)
		return errStartup
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.Start()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case err := <-errc:
		return err
	case sig := <-signals:
		logger.WithField("signal", sig.String()).Info("shutting down")
		return server.Shutdown()
	}
}

// prepare layers the configuration, then loads the overrides and the OpenAPI
// document it points at.
func prepare(ctx context.Context, src sources, envLayer, cliLayer config.Partial, logger logrus.FieldLogger) result.Response[setup] {
	file := config.LoadFile(src.configPath)
	if file.IsError() {
		return result.Fail[setup](*file.Failure)
	}

	options := config.Layer(config.Defaults(), file.Value, envLayer, cliLayer)

	switch options.Express.UnknownFormats {
	case config.UnknownFormatsIgnore, config.UnknownFormatsThrow:
	default:
		return result.Failf[setup]("Invalid configuration",
			fmt.Sprintf("express.unknownFormats must be %s or %s, got %q",
				config.UnknownFormatsIgnore, config.UnknownFormatsThrow, options.Express.UnknownFormats))
	}

	loaded := overrides.LoadDefault(src.overridesPath)
	if loaded.IsError() {
		return result.Fail[setup](*loaded.Failure)
	}

	doc := openapi.Load(options.Express.OpenAPI)
	if doc.IsError() {
		return result.Fail[setup](*doc.Failure)
	}

	if doc = openapi.StripSecurity(doc.Value); doc.IsError() {
		return result.Fail[setup](*doc.Failure)
	}

	if doc = openapi.Validate(ctx, doc.Value, options.Express.UnknownFormats); doc.IsError() {
		return result.Fail[setup](*doc.Failure)
	}

	store := overrides.NewStore(loaded.Value)

	logger.WithFields(logrus.Fields{
		"openapi":    options.Express.OpenAPI,
		"operations": len(openapi.Operations(doc.Value)),
		"overrides":  store.Len(),
	}).Info("loaded")

	return result.Data(setup{options: options, store: store, doc: doc.Value})
}

func newServer(s setup, env *config.Env, logger logrus.FieldLogger) (*mockserver.Server, error) {
	gen := faker.New(faker.Options{
		FillProperties:      s.options.JSF.FillProperties,
		UseExamplesValue:    s.options.JSF.UseExamplesValue,
		UseDefaultValue:     s.options.JSF.UseDefaultValue,
		FailOnInvalidFormat: s.options.JSF.FailOnInvalidFormat,
		RefDepthMax:         s.options.JSF.RefDepthMax,
	})

	engine := resolver.New(s.store, synth.New(gen, openapi.NewRefs(s.doc), logger), logger)

	return mockserver.New(s.doc, engine,
		mockserver.WithLogger(logger),
		mockserver.WithOptions(s.options),
		mockserver.WithHost(env.Host),
		mockserver.WithConfigBasePath(env.BasePath),
		mockserver.WithOverrides(s.store),
	)
}

func newLogger(level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	logger := logrus.New()
	logger.SetLevel(lvl)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return logger, nil
}

// logFailure logs err, spreading a result.Failure over fields.
func logFailure(logger logrus.FieldLogger, err error) {
	var f *result.Failure
	if !errors.As(err, &f) {
		logger.WithError(err).Error("Failed to start")
		return
	}

	fields := logrus.Fields{"messages": f.Messages}
	if len(f.Hints) > 0 {
		fields["hints"] = f.Hints
	}
	if f.Docs != "" {
		fields["docs"] = f.Docs
	}

	logger.WithFields(fields).Error(f.Title)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
