// Package mockserver serves every operation of an OpenAPI document over HTTP,
// answering through a resolver.Engine.
package mockserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber"
	"github.com/gofiber/fiber/middleware"
	"github.com/gofiber/utils"
	"github.com/sirupsen/logrus"

	"github.com/zerbitx/gnockapi/config"
	"github.com/zerbitx/gnockapi/encode"
	"github.com/zerbitx/gnockapi/openapi"
	"github.com/zerbitx/gnockapi/overrides"
	"github.com/zerbitx/gnockapi/resolver"
	"github.com/zerbitx/gnockapi/spec"
)

type (
	fiberBinding func(string, ...fiber.Handler) *fiber.Route

	// Server is a mock HTTP server for one OpenAPI document.
	Server struct {
		app            *fiber.App
		doc            *openapi3.T
		engine         *resolver.Engine
		store          *overrides.Store
		options        config.Options
		configBasePath string
		handlerBases   map[string]fiberBinding
		pathsSeen      map[string]string
		logger         logrus.FieldLogger
		port           int
		host           string
	}

	routeConflict struct {
		method string
		first  string
		second string
	}

	settings struct {
		port           int
		configBasePath string
		host           string
		logger         logrus.FieldLogger
		options        config.Options
		store          *overrides.Store
	}

	// Option is a function that can modify a default config
	Option func(c *settings)
)

// RequestIDHeader carries the id every response is logged under. A request
// that brings its own id keeps it.
const RequestIDHeader = fiber.HeaderXRequestID

// Error implements the error interface
func (rc routeConflict) Error() string {
	return fmt.Sprintf("%s %s and %s %s resolve to the same route", rc.method, rc.first, rc.method, rc.second)
}

// New returns a Server with one route per operation of doc, listening on
// 127.0.0.1:8080 unless configured otherwise.
func New(doc *openapi3.T, engine *resolver.Engine, options ...Option) (*Server, error) {
	c := &settings{
		port:           8080,
		logger:         logrus.StandardLogger(),
		host:           "127.0.0.1",
		configBasePath: "/__gnock",
		options:        config.Defaults(),
	}

	for _, applyOption := range options {
		applyOption(c)
	}

	app := fiber.New(&fiber.Settings{
		ServerHeader:          "GnockAPI",
		DisableStartupMessage: true,
	})

	s := &Server{
		logger:         c.logger,
		app:            app,
		doc:            doc,
		engine:         engine,
		store:          c.store,
		options:        c.options,
		port:           c.port,
		host:           c.host,
		configBasePath: c.configBasePath,
		handlerBases: map[string]fiberBinding{
			http.MethodGet:     app.Get,
			http.MethodPost:    app.Post,
			http.MethodDelete:  app.Delete,
			http.MethodPatch:   app.Patch,
			http.MethodPut:     app.Put,
			http.MethodOptions: app.Options,
			http.MethodConnect: app.Connect,
			http.MethodTrace:   app.Trace,
			http.MethodHead:    app.Head,
		},
		pathsSeen: map[string]string{},
	}

	app.Use(middleware.Recover())
	app.Use(middleware.RequestID(RequestIDHeader))
	app.Use(corsHandler(c.options.CORS))

	s.initConfigEndpoints()

	if err := s.addOperations(); err != nil {
		return nil, err
	}

	return s, nil
}

// Start listens until the server is shut down
func (s *Server) Start() error {
	s.logger.WithFields(logrus.Fields{"host": s.host, "port": s.port}).Info("main")

	return s.app.Listen(fmt.Sprintf("%s:%d", s.host, s.port))
}

// Shutdown gracefully shuts down the app
func (s *Server) Shutdown() error {
	if shutdownErr := s.app.Shutdown(); shutdownErr != nil {
		return fmt.Errorf("failed to shutdown app %w", shutdownErr)
	}

	return nil
}

// WithLogger overrides the default logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *settings) {
		c.logger = l
	}
}

// WithHost sets the host
func WithHost(host string) Option {
	return func(c *settings) {
		c.host = host
	}
}

// WithPort sets the main app's port
func WithPort(port int) Option {
	return func(c *settings) {
		c.port = port
	}
}

// WithConfigBasePath sets the base path the effective config and overrides
// are served under. An empty path disables those endpoints.
func WithConfigBasePath(basePath string) Option {
	return func(c *settings) {
		c.configBasePath = utils.TrimRight(basePath, '/')
	}
}

// WithOptions applies the effective configuration, port included
func WithOptions(options config.Options) Option {
	return func(c *settings) {
		c.options = options
		c.port = options.Express.Port
	}
}

// WithOverrides exposes the override store on the config endpoints
func WithOverrides(store *overrides.Store) Option {
	return func(c *settings) {
		c.store = store
	}
}

func (s *Server) addOperations() error {
	for _, op := range openapi.Operations(s.doc) {
		path := openapi.RoutePath(op.Path)

		bind, ok := s.handlerBases[op.Method]
		if !ok {
			s.logger.WithFields(logrus.Fields{"path": op.Path, "method": op.Method}).Warn("unsupported method")
			continue
		}

		key := routeKey(op.Method, path)
		if first, seen := s.pathsSeen[key]; seen {
			return routeConflict{method: op.Method, first: first, second: op.Path}
		}
		s.pathsSeen[key] = op.Path

		s.logger.WithFields(logrus.Fields{
			"path":   path,
			"method": op.Method,
		}).Debug("wiring")

		bind(path, s.handle(op))
	}

	return nil
}

// routeKey identifies the route fiber matches for path, ignoring parameter
// names and case.
func routeKey(method, path string) string {
	segments := strings.Split(utils.ToLower(path), "/")
	for i, seg := range segments {
		if strings.HasPrefix(seg, ":") {
			segments[i] = ":"
		}
	}

	return method + " " + strings.Join(segments, "/")
}

func (s *Server) initConfigEndpoints() {
	if s.configBasePath == "" {
		return
	}

	s.logger.
		WithFields(logrus.Fields{
			http.MethodGet: []string{s.configBasePath + "/config", s.configBasePath + "/overrides"},
		}).Debug("config endpoints")

	s.app.Get(s.configBasePath+"/config", func(c *fiber.Ctx) {
		s.sendIndented(c, s.options)
	})

	s.app.Get(s.configBasePath+"/overrides", func(c *fiber.Ctx) {
		if status := c.Query("statusCode"); status != "" {
			code, err := strconv.Atoi(status)
			if err != nil {
				c.Status(http.StatusBadRequest)
				s.sendIndented(c, map[string]string{"message": fmt.Sprintf("invalid statusCode %q", status)})
				return
			}

			responses := s.store.ByStatus(code)
			if responses == nil {
				responses = []spec.Response{}
			}
			s.sendIndented(c, responses)
			return
		}

		routes := s.store.Routes()
		if routes == nil {
			routes = []spec.Route{}
		}
		s.sendIndented(c, routes)
	})
}

func (s *Server) sendIndented(c *fiber.Ctx, v interface{}) {
	c.Set("Content-Type", "application/json")

	if err := encode.JSONIndented(v, c.Fasthttp.Response.BodyWriter()); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
		c.SendStatus(http.StatusInternalServerError)
	}
}
