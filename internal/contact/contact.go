// Package contact defines the contact record shared by the store backends
// and the HTTP layer.
package contact

import (
	mathrand "math/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Contact is a single address-book entry. The ID is assigned on creation
// and never changes afterwards; Phone may be empty.
type Contact struct {
	ID    string `json:"id" bson:"_id"`
	Name  string `json:"name" bson:"name"`
	Email string `json:"email" bson:"email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// Patch carries a partial update. Nil fields are left untouched so a
// caller can change the email without resending name and phone.
type Patch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Apply copies the non-nil patch fields onto c. The ID is never modified.
func (p Patch) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
}

// Empty reports whether the patch carries no fields at all.
func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.Phone == nil
}

// Matches reports whether query is a case-insensitive substring of the
// contact's name or email. An empty query matches every contact.
func (c Contact) Matches(query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(c.Name), q) ||
		strings.Contains(strings.ToLower(c.Email), q)
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(mathrand.New(mathrand.NewSource(time.Now().UnixNano())), 0)
)

// NewID returns a fresh ULID. IDs generated by the same process are
// monotonically increasing, which keeps lexicographic order aligned with
// insertion order.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()

	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return id.String()
}
