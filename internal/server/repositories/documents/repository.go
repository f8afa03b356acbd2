// Package documents persists metadata for encrypted document blobs.
package documents

import (
	"context"

	"github.com/Monterolautaro/rentadoor-docvault/internal/server/models"
)

// Repository stores and retrieves document records.
type Repository interface {
	// Create writes exactly one row. The caller supplies the id and
	// timestamps; the write is atomic — either the whole record is
	// persisted or none of it.
	Create(ctx context.Context, rec *models.DocumentRecord) error

	// GetByID returns the record for id, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.DocumentRecord, error)

	// ListByOwner returns records for ownerRef, newest first. An empty
	// ownerRef returns all records; callers must gate that behind an
	// authorization check.
	ListByOwner(ctx context.Context, ownerRef string) ([]*models.DocumentRecord, error)
}
