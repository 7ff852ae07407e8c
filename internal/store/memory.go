package store

import (
	"context"
	"fmt"
	"sync"

	"mynab/budget-import/internal/models"
)

// MemoryStore is an in-memory Store. The *Err fields inject failures: when set, the
// corresponding call returns the error without recording anything.
type MemoryStore struct {
	mu sync.Mutex

	Users map[int64]models.User

	CreateFileErr  error
	LookupUserErr  error
	CreateEntryErr error
	// FailAfter makes CreateTransaction fail once this many entries were stored.
	// Zero disables it.
	FailAfter int

	files   []models.FileRecord
	entries []Entry
}

// Entry is a persisted transaction together with its owner.
type Entry struct {
	ID          int64
	UserID      int64
	Transaction models.Transaction
}

// NewMemoryStore returns an empty store knowing the given users.
func NewMemoryStore(users ...models.User) *MemoryStore {
	m := &MemoryStore{Users: make(map[int64]models.User, len(users))}
	for _, u := range users {
		m.Users[u.ID] = u
	}
	return m
}

// CreateFile implements Store.
func (m *MemoryStore) CreateFile(_ context.Context, file models.FileRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateFileErr != nil {
		return 0, m.CreateFileErr
	}
	m.files = append(m.files, file)
	return int64(len(m.files)), nil
}

// CreateTransaction implements Store.
func (m *MemoryStore) CreateTransaction(_ context.Context, userID int64, tx models.Transaction) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateEntryErr != nil {
		return 0, m.CreateEntryErr
	}
	if m.FailAfter > 0 && len(m.entries) >= m.FailAfter {
		return 0, fmt.Errorf("insert budget entry: simulated failure after %d rows", m.FailAfter)
	}
	id := int64(len(m.entries) + 1)
	m.entries = append(m.entries, Entry{ID: id, UserID: userID, Transaction: tx})
	return id, nil
}

// LookupUser implements Store.
func (m *MemoryStore) LookupUser(_ context.Context, userID int64) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LookupUserErr != nil {
		return models.User{}, m.LookupUserErr
	}
	u, ok := m.Users[userID]
	if !ok {
		return models.User{}, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
	}
	return u, nil
}

// Files returns the recorded files.
func (m *MemoryStore) Files() []models.FileRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.FileRecord(nil), m.files...)
}

// Entries returns the persisted transactions in insertion order.
func (m *MemoryStore) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}
