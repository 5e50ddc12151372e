// Package store holds the contact collection behind a small interface so
// the HTTP layer does not care whether records live in memory or MongoDB.
package store

import (
	"context"
	"errors"

	"github.com/mbaumer/contactd/internal/contact"
)

// ErrNotFound is returned when an operation addresses an id that is not
// present in the store.
var ErrNotFound = errors.New("contact not found")

// Store is the contract shared by all backends. List returns contacts in
// insertion order; Search performs a case-insensitive substring match on
// name or email, where an empty query matches everything.
type Store interface {
	Create(ctx context.Context, name, email, phone string) (contact.Contact, error)
	Get(ctx context.Context, id string) (contact.Contact, error)
	List(ctx context.Context) ([]contact.Contact, error)
	Update(ctx context.Context, id string, patch contact.Patch) (contact.Contact, error)
	Search(ctx context.Context, query string) ([]contact.Contact, error)
}
