// Package info exposes build metadata, health probes, and the generated
// API documentation: the OpenAPI document itself plus two embedded HTML
// viewers (Swagger UI on /docs, Redoc on /redoc).
package info

import (
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/mbaumer/contactd/internal/probe"
	"github.com/mbaumer/contactd/internal/responder"
)

// VersionProvider returns the payload exposed by the version endpoint,
// typically build metadata injected at link time.
type VersionProvider func() any

// OpenAPIProvider returns the raw OpenAPI document served by the docs
// endpoints. It is commonly backed by an embedded JSON file.
type OpenAPIProvider func() ([]byte, error)

// TemplateDataProvider customises the data payload passed to the docs
// templates at render time.
type TemplateDataProvider func(r *http.Request, baseURL string) any

// Option configures the handler via the functional options pattern.
type Option func(*Handler)

// ProbeFunc is executed to determine the outcome of liveness or readiness
// probes. Returning a non-nil error marks the probe as failed.
type ProbeFunc = probe.Func

const defaultProbeTimeout = 2 * time.Second

// Handler serves the auxiliary endpoints around the contacts API: status,
// version, probes, and documentation.
type Handler struct {
	*responder.Responder
	baseURL         string
	versionProvider VersionProvider
	openapiProvider OpenAPIProvider
	docsTemplate    *template.Template
	redocTemplate   *template.Template
	dataProvider    TemplateDataProvider
	probeTimeout    time.Duration
	livenessChecks  []ProbeFunc
	readinessChecks []ProbeFunc
}

// NewHandler constructs a Handler with the embedded viewer templates and
// an empty version payload. Options plug in the shared responder, the
// OpenAPI source, and probe functions.
func NewHandler(opts ...Option) *Handler {
	h := &Handler{
		Responder: responder.New(),
		versionProvider: func() any {
			return map[string]string{}
		},
		openapiProvider: func() ([]byte, error) {
			return nil, errors.New("openapi provider not configured")
		},
		docsTemplate:  templateSwaggerUI,
		redocTemplate: templateRedoc,
		dataProvider:  defaultTemplateData,
		probeTimeout:  defaultProbeTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

// WithResponder replaces the responder used to craft JSON responses.
func WithResponder(r *responder.Responder) Option {
	return func(h *Handler) {
		if r != nil {
			h.Responder = r
		}
	}
}

// WithBaseURL sets the URL prefix injected into the rendered viewers, so
// they can locate the OpenAPI document behind a reverse proxy.
func WithBaseURL(baseURL string) Option {
	return func(h *Handler) {
		h.baseURL = baseURL
	}
}

// WithVersionProvider swaps the default version payload provider.
func WithVersionProvider(provider VersionProvider) Option {
	return func(h *Handler) {
		if provider != nil {
			h.versionProvider = provider
		}
	}
}

// WithOpenAPIProvider sets the source of the OpenAPI JSON document.
func WithOpenAPIProvider(provider OpenAPIProvider) Option {
	return func(h *Handler) {
		if provider != nil {
			h.openapiProvider = provider
		}
	}
}

// WithDocsTemplate overrides the Swagger UI template rendered on /docs.
func WithDocsTemplate(tmpl *template.Template) Option {
	return func(h *Handler) {
		if tmpl != nil {
			h.docsTemplate = tmpl
		}
	}
}

// WithTemplateData overrides the data provider that runs for each render
// of the documentation viewers.
func WithTemplateData(provider TemplateDataProvider) Option {
	return func(h *Handler) {
		if provider != nil {
			h.dataProvider = provider
		}
	}
}

// WithProbeTimeout adjusts the maximum duration allowed for probe checks.
func WithProbeTimeout(timeout time.Duration) Option {
	return func(h *Handler) {
		if timeout > 0 {
			h.probeTimeout = timeout
		}
	}
}

// WithLivenessChecks replaces the liveness checks run by /healthz.
func WithLivenessChecks(checks ...ProbeFunc) Option {
	return func(h *Handler) {
		h.livenessChecks = filterProbes(checks)
	}
}

// WithReadinessChecks replaces the readiness checks run by /readyz.
func WithReadinessChecks(checks ...ProbeFunc) Option {
	return func(h *Handler) {
		h.readinessChecks = filterProbes(checks)
	}
}

func defaultTemplateData(_ *http.Request, baseURL string) any {
	return map[string]any{
		"SpecURL": baseURL + "/openapi.json",
	}
}
