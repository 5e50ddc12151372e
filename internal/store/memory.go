package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/mbaumer/contactd/internal/contact"
)

// MemoryOption configures the in-memory store.
type MemoryOption func(*Memory)

// WithSnapshotFile makes the store load its initial contents from the CSV
// file at path and rewrite the file after every mutation. A missing file
// is treated as an empty store.
func WithSnapshotFile(path string) MemoryOption {
	return func(m *Memory) {
		m.snapshotPath = path
	}
}

// Memory keeps all contacts in process memory, guarded by a RWMutex so
// concurrent requests observe consistent state. The order slice preserves
// insertion order for List.
type Memory struct {
	mu           sync.RWMutex
	contacts     map[string]contact.Contact
	order        []string
	snapshotPath string
}

// NewMemory constructs an empty in-memory store. When a snapshot file is
// configured the existing file contents are loaded before the store is
// returned.
func NewMemory(opts ...MemoryOption) (*Memory, error) {
	m := &Memory{
		contacts: make(map[string]contact.Contact),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.snapshotPath != "" {
		loaded, err := readSnapshot(m.snapshotPath)
		if err != nil {
			return nil, fmt.Errorf("load snapshot %s: %w", m.snapshotPath, err)
		}
		for _, c := range loaded {
			m.contacts[c.ID] = c
			m.order = append(m.order, c.ID)
		}
	}

	return m, nil
}

// Create allocates a new id, stores the record, and returns it.
func (m *Memory) Create(_ context.Context, name, email, phone string) (contact.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := contact.Contact{
		ID:    contact.NewID(),
		Name:  name,
		Email: email,
		Phone: phone,
	}
	m.contacts[c.ID] = c
	m.order = append(m.order, c.ID)

	if err := m.persistLocked(); err != nil {
		delete(m.contacts, c.ID)
		m.order = m.order[:len(m.order)-1]
		return contact.Contact{}, err
	}
	return c, nil
}

// Get returns the contact with the given id or ErrNotFound.
func (m *Memory) Get(_ context.Context, id string) (contact.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.contacts[id]
	if !ok {
		return contact.Contact{}, ErrNotFound
	}
	return c, nil
}

// List returns every contact in insertion order.
func (m *Memory) List(_ context.Context) ([]contact.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.snapshotLocked(), nil
}

// Update applies the non-nil patch fields to the contact with the given
// id and returns the updated record. The id itself is never changed.
func (m *Memory) Update(_ context.Context, id string, patch contact.Patch) (contact.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.contacts[id]
	if !ok {
		return contact.Contact{}, ErrNotFound
	}
	if patch.Empty() {
		return c, nil
	}

	prev := c
	patch.Apply(&c)
	m.contacts[id] = c

	if err := m.persistLocked(); err != nil {
		m.contacts[id] = prev
		return contact.Contact{}, err
	}
	return c, nil
}

// Search returns the contacts whose name or email contains the query,
// case-insensitively, in insertion order.
func (m *Memory) Search(_ context.Context, query string) ([]contact.Contact, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var matched []contact.Contact
	for _, id := range m.order {
		if c := m.contacts[id]; c.Matches(query) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (m *Memory) snapshotLocked() []contact.Contact {
	out := make([]contact.Contact, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.contacts[id])
	}
	return out
}

func (m *Memory) persistLocked() error {
	if m.snapshotPath == "" {
		return nil
	}
	if err := writeSnapshot(m.snapshotPath, m.snapshotLocked()); err != nil {
		return fmt.Errorf("write snapshot %s: %w", m.snapshotPath, err)
	}
	return nil
}
