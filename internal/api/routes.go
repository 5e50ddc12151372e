package api

import "net/http"

// Routes returns the contacts API as an http.Handler. The /contacts/search
// pattern is more specific than /contacts/{id}, so the ServeMux routes it
// first.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /contacts", s.CreateContact)
	mux.HandleFunc("GET /contacts", s.ListContacts)
	mux.HandleFunc("GET /contacts/search", s.SearchContacts)
	mux.HandleFunc("GET /contacts/{id}", s.GetContact)
	mux.HandleFunc("PUT /contacts/{id}", s.UpdateContact)
	return mux
}
