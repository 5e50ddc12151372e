package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

// Middleware wraps an http.Handler to produce a new http.Handler.
type Middleware func(http.Handler) http.Handler

// Option configures the router via the functional options pattern.
type Option func(*options)

type options struct {
	config        Config
	logger        *slog.Logger
	openapiDoc    *openapi3.T
	prepend       []Middleware
	append        []Middleware
	override      []Middleware
	enableOpenAPI bool
	enableCORS    bool
	enableTimeout bool
	enableLogging bool
}

func defaultOptions() *options {
	return &options{
		config: Config{
			Timeout: 30 * time.Second,
		},
		logger:        slog.Default(),
		enableOpenAPI: true,
		enableCORS:    true,
		enableTimeout: true,
		enableLogging: true,
	}
}

func (o *options) middlewareChain() []Middleware {
	if len(o.override) > 0 {
		cloned := make([]Middleware, len(o.override))
		copy(cloned, o.override)
		return cloned
	}

	middlewares := make([]Middleware, 0, len(o.prepend)+len(o.append)+4)
	middlewares = append(middlewares, o.prepend...)
	middlewares = append(middlewares, o.defaultMiddlewares()...)
	middlewares = append(middlewares, o.append...)
	return middlewares
}

func (o *options) defaultMiddlewares() []Middleware {
	middlewares := make([]Middleware, 0, 4)

	if o.enableOpenAPI && o.openapiDoc != nil {
		middlewares = append(middlewares, oapiMiddleware(o.openapiDoc))
	}
	if o.enableCORS && len(o.config.CORS.Origins) > 0 {
		middlewares = append(middlewares, corsMiddleware(o.config.CORS))
	}
	if o.enableTimeout && o.config.Timeout > 0 {
		middlewares = append(middlewares, timeoutMiddleware(o.config.Timeout))
	}
	if o.enableLogging && o.logger != nil {
		middlewares = append(middlewares, loggingMiddleware(o.logger, o.config.QuietdownRoutes, o.config.HideHeaders))
	}

	return middlewares
}

// WithConfig replaces the router configuration with the provided value.
func WithConfig(cfg Config) Option {
	cfg.QuietdownRoutes = cloneStrings(cfg.QuietdownRoutes)
	cfg.HideHeaders = cloneStrings(cfg.HideHeaders)
	cfg.CORS.Origins = cloneStrings(cfg.CORS.Origins)
	cfg.CORS.Methods = cloneStrings(cfg.CORS.Methods)
	cfg.CORS.Headers = cloneStrings(cfg.CORS.Headers)
	return func(o *options) {
		o.config = cfg
	}
}

// WithLogger provides the structured logger used by the logging middleware.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithOpenAPIDoc wires the OpenAPI document for request validation.
func WithOpenAPIDoc(doc *openapi3.T) Option {
	return func(o *options) {
		o.openapiDoc = doc
	}
}

// WithMiddlewares prepends custom middlewares ahead of the default chain.
func WithMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.prepend = append(o.prepend, middlewares...)
	}
}

// WithTrailingMiddlewares appends middlewares after the default chain.
func WithTrailingMiddlewares(middlewares ...Middleware) Option {
	return func(o *options) {
		o.append = append(o.append, middlewares...)
	}
}

// WithMiddlewareChain fully overrides the middleware chain with the
// provided sequence.
func WithMiddlewareChain(middlewares ...Middleware) Option {
	cloned := make([]Middleware, len(middlewares))
	copy(cloned, middlewares)
	return func(o *options) {
		o.override = cloned
	}
}

// WithoutOpenAPIValidation disables the OpenAPI validation middleware.
func WithoutOpenAPIValidation() Option {
	return func(o *options) {
		o.enableOpenAPI = false
	}
}

// WithoutCORSMiddleware disables the CORS middleware regardless of
// configuration.
func WithoutCORSMiddleware() Option {
	return func(o *options) {
		o.enableCORS = false
	}
}

// WithoutTimeoutMiddleware disables the timeout middleware.
func WithoutTimeoutMiddleware() Option {
	return func(o *options) {
		o.enableTimeout = false
	}
}

// WithoutLoggingMiddleware disables the logging middleware.
func WithoutLoggingMiddleware() Option {
	return func(o *options) {
		o.enableLogging = false
	}
}

func cloneStrings(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	cloned := make([]string, len(values))
	copy(cloned, values)
	return cloned
}
