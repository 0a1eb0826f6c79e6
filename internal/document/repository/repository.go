package repository

import (
	"context"
	"errors"

	"github.com/docugrade/docugrade/internal/models"
)

// ErrNotFound covers both a nonexistent document id and an id owned by a
// different user; callers cannot tell the two apart.
var ErrNotFound = errors.New("document not found")

// Repository defines persistence for document metadata rows.
type Repository interface {
	// InsertBatch persists all rows of one upload batch in a single call,
	// assigning ids and a shared creation time.
	InsertBatch(ctx context.Context, docs []*models.Document) error
	// ListByUser returns the user's documents, most recent first.
	ListByUser(ctx context.Context, userID int64) ([]*models.Document, error)
	// GetByID returns the document only when it exists AND belongs to userID;
	// otherwise ErrNotFound.
	GetByID(ctx context.Context, userID, docID int64) (*models.Document, error)
}
