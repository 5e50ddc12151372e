// Package api implements the contacts endpoints: create, list, get,
// update, and search. Handlers translate HTTP requests into store calls
// and let the shared responder shape every payload and error.
package api

import (
	"errors"
	"net/http"

	"github.com/mbaumer/contactd/internal/contact"
	"github.com/mbaumer/contactd/internal/responder"
	"github.com/mbaumer/contactd/internal/store"
)

// Server holds the handler dependencies.
type Server struct {
	*responder.Responder
	store store.Store
}

// NewServer wires the contact store to the HTTP handlers. When r is nil a
// default responder with the NotFound classifier is used.
func NewServer(st store.Store, r *responder.Responder) *Server {
	if st == nil {
		panic("api: store cannot be nil")
	}
	if r == nil {
		r = responder.New(responder.WithErrorClassifier(ErrorClassifier))
	}
	return &Server{Responder: r, store: st}
}

// ErrorClassifier maps store errors onto HTTP status codes for the
// responder.
func ErrorClassifier(err error) (int, bool) {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound, true
	}
	return 0, false
}

type newContactRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateContact handles POST /contacts.
func (s *Server) CreateContact(w http.ResponseWriter, r *http.Request) {
	var body newContactRequest
	if !s.ReadRequestBody(w, r, &body) {
		return
	}
	if body.Name == "" {
		s.HandleBadRequestError(w, r, errors.New("name is required"))
		return
	}
	if body.Email == "" {
		s.HandleBadRequestError(w, r, errors.New("email is required"))
		return
	}

	created, err := s.store.Create(r.Context(), body.Name, body.Email, body.Phone)
	if err != nil {
		s.HandleErrors(w, r, err, "failed to create contact")
		return
	}
	s.RespondWithJSON(w, r, http.StatusCreated, created)
}

// ListContacts handles GET /contacts.
func (s *Server) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := s.store.List(r.Context())
	if err != nil {
		s.HandleErrors(w, r, err, "failed to list contacts")
		return
	}
	s.RespondWithJSON(w, r, http.StatusOK, nonNil(contacts))
}

// GetContact handles GET /contacts/{id}.
func (s *Server) GetContact(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.Get(r.Context(), r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		s.HandleNotFoundError(w, r, err)
		return
	}
	if err != nil {
		s.HandleErrors(w, r, err, "failed to fetch contact")
		return
	}
	s.RespondWithJSON(w, r, http.StatusOK, c)
}

// UpdateContact handles PUT /contacts/{id}. Only the fields present in
// the body are applied; the id is immutable.
func (s *Server) UpdateContact(w http.ResponseWriter, r *http.Request) {
	var patch contact.Patch
	if !s.ReadRequestBody(w, r, &patch) {
		return
	}

	updated, err := s.store.Update(r.Context(), r.PathValue("id"), patch)
	if errors.Is(err, store.ErrNotFound) {
		s.HandleNotFoundError(w, r, err)
		return
	}
	if err != nil {
		s.HandleErrors(w, r, err, "failed to update contact")
		return
	}
	s.RespondWithJSON(w, r, http.StatusOK, updated)
}

// SearchContacts handles GET /contacts/search. An empty query matches
// every contact.
func (s *Server) SearchContacts(w http.ResponseWriter, r *http.Request) {
	matches, err := s.store.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.HandleErrors(w, r, err, "failed to search contacts")
		return
	}
	s.RespondWithJSON(w, r, http.StatusOK, nonNil(matches))
}

// nonNil keeps empty results rendering as [] instead of null.
func nonNil(contacts []contact.Contact) []contact.Contact {
	if contacts == nil {
		return []contact.Contact{}
	}
	return contacts
}
