// Package responder centralises JSON rendering and error reporting for the
// HTTP handlers. Errors leave the service as RFC 9457 problem documents
// carrying a ULID trace id that also appears in the matching log record.
package responder

import (
	"log/slog"
	"net/http"

	"github.com/mbaumer/contactd/internal/jsonutil"
)

const (
	jsonContentType    = "application/json"
	problemContentType = "application/problem+json"
	statusDocBaseURL   = "https://httpstatuses.io"
)

// ErrorClassifierFunc inspects an error and returns the HTTP status that
// should be used for the response. The boolean reports whether the error
// was classified; unclassified errors fall back to a 500.
type ErrorClassifierFunc func(err error) (status int, handled bool)

// Option configures a Responder.
type Option func(*Responder)

// Responder renders JSON payloads and problem documents with consistent
// logging.
type Responder struct {
	log        *slog.Logger
	classifier ErrorClassifierFunc
}

// New constructs a Responder backed by the global slog logger unless
// overridden.
func New(opts ...Option) *Responder {
	r := &Responder{log: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// WithLogger injects the structured logger used for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Responder) {
		if logger != nil {
			r.log = logger
		}
	}
}

// WithErrorClassifier installs the classifier used by HandleErrors to map
// domain errors onto HTTP status codes.
func WithErrorClassifier(classifier ErrorClassifierFunc) Option {
	return func(r *Responder) {
		r.classifier = classifier
	}
}

// Logger returns the slog logger used internally by the responder.
func (r *Responder) Logger() *slog.Logger {
	return r.logger()
}

func (r *Responder) logger() *slog.Logger {
	if r == nil || r.log == nil {
		return slog.Default()
	}
	return r.log
}

// RespondWithJSON serialises v and writes it with the supplied status code.
func (r *Responder) RespondWithJSON(w http.ResponseWriter, req *http.Request, status int, v any) {
	r.respond(w, status, jsonContentType, v)
}

// HandleErrors classifies err and emits the matching problem document.
// Unclassified errors are reported as internal server errors.
func (r *Responder) HandleErrors(w http.ResponseWriter, req *http.Request, err error, msgs ...string) {
	if err == nil {
		return
	}
	if r.classifier != nil {
		if status, handled := r.classifier(err); handled {
			r.HandleAPIError(w, req, status, err, msgs...)
			return
		}
	}
	r.HandleInternalServerError(w, req, err, msgs...)
}

// HandleAPIError renders a problem document for the supplied status and
// logs the event together with its trace id.
func (r *Responder) HandleAPIError(w http.ResponseWriter, req *http.Request, status int, err error, logMsg ...string) {
	if err == nil {
		return
	}

	problem := newProblemDetails(req, status, err)
	r.logProblem(req, status, err, problem.TraceID, logMsg)
	r.respond(w, status, problemContentType, problem)
}

// HandleNotFoundError reports an unknown resource using HTTP 404.
func (r *Responder) HandleNotFoundError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusNotFound, err, logMsg...)
}

// HandleBadRequestError reports client errors using HTTP 400.
func (r *Responder) HandleBadRequestError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusBadRequest, err, logMsg...)
}

// HandleInternalServerError reports a 500 status code.
func (r *Responder) HandleInternalServerError(w http.ResponseWriter, req *http.Request, err error, logMsg ...string) {
	r.HandleAPIError(w, req, http.StatusInternalServerError, err, logMsg...)
}

func (r *Responder) respond(w http.ResponseWriter, status int, contentType string, payload any) {
	if w == nil {
		return
	}

	body, err := jsonutil.Marshal(payload)
	if err != nil {
		r.logger().Error("failed to encode response", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if len(body) == 0 || body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		r.logger().Error("failed to write response", "error", err)
	}
}

func (r *Responder) logProblem(req *http.Request, status int, err error, traceID string, msgs []string) {
	logger := r.logger().With("error", err.Error(), "traceId", traceID, "status", status)
	if len(msgs) > 0 {
		logger = logger.With("logMessages", msgs)
	}

	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(requestContext(req), level, http.StatusText(status))
}
