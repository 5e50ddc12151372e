package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mbaumer/contactd/internal/contact"
	"github.com/mbaumer/contactd/internal/responder"
	"github.com/mbaumer/contactd/internal/store"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()

	st, err := store.NewMemory()
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	r := responder.New(
		responder.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		responder.WithErrorClassifier(ErrorClassifier),
	)
	return NewServer(st, r).Routes()
}

func doJSON(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func decodeContact(t *testing.T, body []byte) contact.Contact {
	t.Helper()
	var c contact.Contact
	if err := json.Unmarshal(body, &c); err != nil {
		t.Fatalf("failed to decode contact: %v", err)
	}
	return c
}

func decodeContacts(t *testing.T, body []byte) []contact.Contact {
	t.Helper()
	var contacts []contact.Contact
	if err := json.Unmarshal(body, &contacts); err != nil {
		t.Fatalf("failed to decode contact list: %v", err)
	}
	return contacts
}

func TestCreateThenListIncludesContactExactlyOnce(t *testing.T) {
	handler := newTestHandler(t)

	createRec := doJSON(t, handler, http.MethodPost, "/contacts", `{"name":"Ann","email":"ann@x.com"}`)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, createRec.Code, createRec.Body.String())
	}

	created := decodeContact(t, createRec.Body.Bytes())
	if created.ID == "" {
		t.Fatal("created contact must carry a generated id")
	}
	if created.Name != "Ann" || created.Email != "ann@x.com" {
		t.Fatalf("unexpected created contact: %+v", created)
	}

	listRec := doJSON(t, handler, http.MethodGet, "/contacts", "")
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, listRec.Code)
	}

	contacts := decodeContacts(t, listRec.Body.Bytes())
	if len(contacts) != 1 {
		t.Fatalf("expected exactly one contact, got %d", len(contacts))
	}
	if contacts[0] != created {
		t.Fatalf("listed contact %+v does not match created %+v", contacts[0], created)
	}
}

func TestListEmptyStoreReturnsEmptyArray(t *testing.T) {
	handler := newTestHandler(t)

	rec := doJSON(t, handler, http.MethodGet, "/contacts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty JSON array, got %q", rec.Body.String())
	}
}

func TestCreateRejectsIncompleteBody(t *testing.T) {
	handler := newTestHandler(t)

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"name":"Ann"}`},
		{"missing name", `{"email":"ann@x.com"}`},
		{"malformed json", `{"name":`},
		{"empty body", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doJSON(t, handler, http.MethodPost, "/contacts", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
			}
			if got := rec.Header().Get("Content-Type"); got != "application/problem+json" {
				t.Fatalf("unexpected content type: %q", got)
			}
		})
	}
}

func TestGetContact(t *testing.T) {
	handler := newTestHandler(t)

	created := decodeContact(t, doJSON(t, handler, http.MethodPost, "/contacts",
		`{"name":"Ann","email":"ann@x.com","phone":"555-0100"}`).Body.Bytes())

	t.Run("existing id", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/contacts/"+created.ID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if got := decodeContact(t, rec.Body.Bytes()); got != created {
			t.Fatalf("got %+v, want %+v", got, created)
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/contacts/01JUNKNOWNID", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}

		var problem responder.ProblemDetails
		if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
			t.Fatalf("failed to decode problem document: %v", err)
		}
		if problem.Status != http.StatusNotFound {
			t.Fatalf("unexpected problem status: %d", problem.Status)
		}
	})
}

func TestUpdateContact(t *testing.T) {
	handler := newTestHandler(t)

	created := decodeContact(t, doJSON(t, handler, http.MethodPost, "/contacts",
		`{"name":"Ann","email":"ann@x.com","phone":"555-0100"}`).Body.Bytes())

	t.Run("unknown id returns 404", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPut, "/contacts/01JUNKNOWNID", `{"name":"Nobody"}`)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, rec.Code)
		}
	})

	t.Run("changes only the provided fields", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPut, "/contacts/"+created.ID, `{"email":"ann@y.org"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
		}

		updated := decodeContact(t, rec.Body.Bytes())
		if updated.ID != created.ID {
			t.Fatalf("update must not change the id: got %s, want %s", updated.ID, created.ID)
		}
		if updated.Email != "ann@y.org" {
			t.Fatalf("expected updated email, got %q", updated.Email)
		}
		if updated.Name != "Ann" || updated.Phone != "555-0100" {
			t.Fatalf("fields not named in the body changed: %+v", updated)
		}
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodPut, "/contacts/"+created.ID, `{"email":`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
		}
	})
}

func TestSearchContacts(t *testing.T) {
	handler := newTestHandler(t)

	seed := []string{
		`{"name":"Ann Smith","email":"ann@x.com"}`,
		`{"name":"Bob Jones","email":"bob@x.com"}`,
		`{"name":"Annika Larsen","email":"larsen@y.org"}`,
	}
	for _, body := range seed {
		if rec := doJSON(t, handler, http.MethodPost, "/contacts", body); rec.Code != http.StatusCreated {
			t.Fatalf("seed create failed: %d %s", rec.Code, rec.Body.String())
		}
	}

	t.Run("exact email", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/contacts/search?q=bob%40x.com", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		matches := decodeContacts(t, rec.Body.Bytes())
		if len(matches) != 1 || matches[0].Name != "Bob Jones" {
			t.Fatalf("expected only Bob Jones, got %+v", matches)
		}
	})

	t.Run("name substring", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/contacts/search?q=ann", "")
		matches := decodeContacts(t, rec.Body.Bytes())
		if len(matches) != 2 {
			t.Fatalf("expected two matches for 'ann', got %+v", matches)
		}
	})

	t.Run("no query returns everything", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/contacts/search", "")
		if got := len(decodeContacts(t, rec.Body.Bytes())); got != len(seed) {
			t.Fatalf("expected %d contacts, got %d", len(seed), got)
		}
	})

	t.Run("no match returns empty array", func(t *testing.T) {
		rec := doJSON(t, handler, http.MethodGet, "/contacts/search?q=zzz", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if strings.TrimSpace(rec.Body.String()) != "[]" {
			t.Fatalf("expected empty JSON array, got %q", rec.Body.String())
		}
	})
}

func TestSearchRouteIsNotSwallowedByIDRoute(t *testing.T) {
	handler := newTestHandler(t)

	// /contacts/search must route to the search handler, not resolve as
	// GET /contacts/{id} with id="search".
	rec := doJSON(t, handler, http.MethodGet, "/contacts/search?q=whatever", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestNewServerPanicsOnNilStore(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil store")
		}
	}()
	NewServer(nil, nil)
}
