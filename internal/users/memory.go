package users

import (
	"context"
	"sync"
	"time"

	"github.com/docugrade/docugrade/internal/models"
)

// MemoryRepository is an in-memory Repository used by unit tests and as the
// fallback when no MongoDB connection is configured. The
// duplicate check happens under the same lock as the insert, so it upholds the
// same at-most-one-registration-per-email guarantee as the Mongo unique index.
type MemoryRepository struct {
	mu      sync.Mutex
	byEmail map[string]*models.User
	nextID  int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]*models.User)}
}

func (m *MemoryRepository) Insert(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[u.Email]; exists {
		return nil, ErrDuplicateEmail
	}
	m.nextID++
	u.ID = m.nextID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	m.byEmail[u.Email] = &cp
	return u, nil
}

func (m *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}
