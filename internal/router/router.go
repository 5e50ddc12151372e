// Package router assembles the service http.ServeMux with OpenAPI request
// validation, CORS, timeout, and request-logging middleware. The chain is
// composed through functional options so callers can prepend, append, or
// fully replace middlewares.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	oapiMW "github.com/oapi-codegen/nethttp-middleware"
)

// Config carries the tunable knobs of the default middleware chain.
type Config struct {
	// Timeout bounds the total time a request may spend in the handler.
	Timeout time.Duration
	// QuietdownRoutes lists paths that are excluded from request logging,
	// typically probe endpoints polled every few seconds.
	QuietdownRoutes []string
	// HideHeaders lists request headers whose values are redacted in logs.
	HideHeaders []string
	// CORS configures cross-origin behaviour; an empty Origins list
	// disables the middleware.
	CORS CORSConfig
}

// CORSConfig describes the allowed cross-origin requests.
type CORSConfig struct {
	Origins          []string
	Methods          []string
	Headers          []string
	AllowCredentials bool
}

// New returns an *http.ServeMux that routes every request through the
// configured middleware chain into apiHandle. Callers may register more
// specific patterns on the returned mux; those bypass the chain.
func New(apiHandle http.Handler, opts ...Option) *http.ServeMux {
	if apiHandle == nil {
		panic("router: handler cannot be nil")
	}

	settings := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(settings)
		}
	}

	handler := chain(apiHandle, settings.middlewareChain())
	mux := http.NewServeMux()
	mux.Handle("/", handler)
	return mux
}

func chain(handler http.Handler, middlewares []Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		if mw := middlewares[i]; mw != nil {
			handler = mw(handler)
		}
	}
	return handler
}

func oapiMiddleware(doc *openapi3.T) Middleware {
	return func(next http.Handler) http.Handler {
		// Drop the servers array so validation does not insist on a
		// particular host; we cannot know where the service is deployed.
		doc.Servers = nil

		validatorOptions := &oapiMW.Options{
			Options: openapi3filter.Options{
				AuthenticationFunc: func(ctx context.Context, input *openapi3filter.AuthenticationInput) error {
					return nil
				},
			},
		}
		return oapiMW.OapiRequestValidatorWithOptions(doc, validatorOptions)(next)
	}
}

func loggingMiddleware(logger *slog.Logger, quietdownRoutes, hideHeaders []string) Middleware {
	quiet := cloneStrings(quietdownRoutes)
	redacted := cloneStrings(hideHeaders)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !containsPath(quiet, r.URL.Path) {
				headers := cloneHeaders(r.Header)
				redactHeaders(headers, redacted)

				attrs := []any{
					"Path", r.URL.Path,
					"Method", r.Method,
					"Header", headers,
				}
				if r.ContentLength > 0 {
					attrs = append(attrs, "ContentLength", r.ContentLength)
				}
				logger.With(attrs...).Debug("Request")
			}

			next.ServeHTTP(w, r)
		})
	}
}

func corsMiddleware(cfg CORSConfig) Middleware {
	origins := cloneStrings(cfg.Origins)
	methods := cloneStrings(cfg.Methods)
	headers := cloneStrings(cfg.Headers)

	return func(next http.Handler) http.Handler {
		if len(origins) == 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if allowedOrigin(origin, origins) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(methods, ","))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(headers, ","))
				if cfg.AllowCredentials {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func timeoutMiddleware(timeout time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, timeout, "Timeout")
	}
}

func allowedOrigin(origin string, allowed []string) bool {
	for _, candidate := range allowed {
		if candidate == "*" || candidate == origin {
			return true
		}
	}
	return false
}

func containsPath(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}

func cloneHeaders(src http.Header) http.Header {
	headers := make(http.Header, len(src))
	for k, v := range src {
		copied := make([]string, len(v))
		copy(copied, v)
		headers[k] = copied
	}
	return headers
}

func redactHeaders(headers http.Header, hideHeaders []string) {
	for _, header := range hideHeaders {
		canonical := http.CanonicalHeaderKey(header)
		values, exists := headers[canonical]
		if !exists {
			continue
		}

		redactedLen := 0
		for _, value := range values {
			redactedLen += len(value)
		}
		headers[canonical] = []string{fmt.Sprintf("[REDACTED - %d bytes]", redactedLen)}
	}
}
