package info

import (
	"errors"
	"html/template"
	"net/http"
)

// GetStatus returns a simple health payload for lightweight diagnostics.
func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.respondProbe(w, r, http.StatusOK, "HEALTHY")
}

// GetHealthz implements the liveness probe.
func (h *Handler) GetHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.runChecks(r.Context(), h.livenessChecks); err != nil {
		h.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "liveness probe failed")
		return
	}
	h.respondProbe(w, r, http.StatusOK, "ok")
}

// GetReadyz implements the readiness probe. When the mongo backend is
// configured this is where the ping probe runs.
func (h *Handler) GetReadyz(w http.ResponseWriter, r *http.Request) {
	if err := h.runChecks(r.Context(), h.readinessChecks); err != nil {
		h.HandleAPIError(w, r, http.StatusServiceUnavailable, err, "readiness probe failed")
		return
	}
	h.respondProbe(w, r, http.StatusOK, "ready")
}

// GetVersion returns the structure provided by the configured VersionProvider.
func (h *Handler) GetVersion(w http.ResponseWriter, r *http.Request) {
	payload := h.versionProvider()
	if payload == nil {
		payload = map[string]string{}
	}
	h.RespondWithJSON(w, r, http.StatusOK, payload)
}

// GetOpenAPIJSON streams the OpenAPI document to the caller.
func (h *Handler) GetOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	doc, err := h.openapiProvider()
	if err != nil {
		h.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to load openapi document")
		return
	}

	if _, err = w.Write(doc); err != nil {
		h.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to write openapi response")
		return
	}
}

// GetDocsHTML renders the Swagger UI viewer pointed at the OpenAPI
// document endpoint.
func (h *Handler) GetDocsHTML(w http.ResponseWriter, r *http.Request) {
	h.renderViewer(w, r, h.docsTemplate)
}

// GetRedocHTML renders the Redoc viewer pointed at the OpenAPI document
// endpoint.
func (h *Handler) GetRedocHTML(w http.ResponseWriter, r *http.Request) {
	h.renderViewer(w, r, h.redocTemplate)
}

func (h *Handler) renderViewer(w http.ResponseWriter, r *http.Request, tmpl *template.Template) {
	w.Header().Set("Content-Type", "text/html")

	if tmpl == nil {
		err := errors.New("docs template not configured")
		h.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render docs template")
		return
	}

	var data any
	if h.dataProvider != nil {
		data = h.dataProvider(r, h.baseURL)
	}
	if data == nil {
		data = defaultTemplateData(r, h.baseURL)
	}

	if err := tmpl.Execute(w, data); err != nil {
		h.HandleAPIError(w, r, http.StatusInternalServerError, err, "failed to render docs template")
		return
	}
}
