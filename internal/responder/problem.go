package responder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
)

// ProblemDetails aligns HTTP error responses with RFC 9457 problem
// documents.
type ProblemDetails struct {
	Type      string `json:"type,omitempty"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Instance  string `json:"instance,omitempty"`
	TraceID   string `json:"traceId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func newProblemDetails(req *http.Request, status int, err error) ProblemDetails {
	return ProblemDetails{
		Type:      fmt.Sprintf("%s/%d", statusDocBaseURL, status),
		Title:     http.StatusText(status),
		Status:    status,
		Detail:    err.Error(),
		Instance:  requestInstance(req),
		TraceID:   ulid.Make().String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
