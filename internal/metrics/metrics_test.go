package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	m := New()

	handler := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/contacts", nil))

	if rr.Code != http.StatusCreated {
		t.Fatalf("middleware must not alter the response: got %d", rr.Code)
	}

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := scrape.Body.String()
	want := `contactd_http_requests_total{method="POST",route="/contacts",status="201"} 1`
	if !strings.Contains(body, want) {
		t.Fatalf("expected scrape to contain %q, got:\n%s", want, body)
	}
}

func TestMiddlewareDefaultsToStatusOK(t *testing.T) {
	m := New()

	// Handler writes the body without an explicit WriteHeader call.
	handler := m.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/contacts", nil))

	scrape := httptest.NewRecorder()
	m.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	want := `contactd_http_requests_total{method="GET",route="/contacts",status="200"} 1`
	if !strings.Contains(scrape.Body.String(), want) {
		t.Fatalf("expected scrape to contain %q", want)
	}
}

func TestNormalizeRoute(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/contacts", "/contacts"},
		{"/contacts/search", "/contacts/search"},
		{"/contacts/01JF8Z0V5T", "/contacts/{id}"},
		{"/contacts/", "/contacts/"},
		{"/healthz", "/healthz"},
	}

	for _, tc := range cases {
		if got := normalizeRoute(tc.path); got != tc.want {
			t.Errorf("normalizeRoute(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}
