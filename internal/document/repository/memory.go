package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/docugrade/docugrade/internal/models"
)

// MemoryRepo is an in-memory Repository used by unit tests.
type MemoryRepo struct {
	mu     sync.RWMutex
	docs   []*models.Document
	nextID int64
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) InsertBatch(ctx context.Context, docs []*models.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	for _, d := range docs {
		m.nextID++
		d.ID = m.nextID
		d.CreatedAt = now
		cp := *d
		m.docs = append(m.docs, &cp)
	}
	return nil
}

func (m *MemoryRepo) ListByUser(ctx context.Context, userID int64) ([]*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*models.Document{}
	for _, d := range m.docs {
		if d.UserID == userID {
			cp := *d
			out = append(out, &cp)
		}
	}
	// newest first; id breaks creation-time ties within a batch
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, userID, docID int64) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.docs {
		if d.ID == docID && d.UserID == userID {
			cp := *d
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// Rewrite replaces the stored path of a document. Tests use it to simulate an
// adversarial metadata row pointing outside the owner's directory.
func (m *MemoryRepo) Rewrite(docID int64, path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.ID == docID {
			d.Path = path
		}
	}
}
