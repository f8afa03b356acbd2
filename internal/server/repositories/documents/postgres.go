package documents

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
	"github.com/Monterolautaro/rentadoor-docvault/internal/dbx"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/models"
)

// PostgresRepository implements document storage over a dbx.DBTX
// (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const documentColumns = `id, owner_ref, kind, file_name, storage_path, content_type,
		iv, auth_tag, encryption_algorithm, key_id, sha256_hash, created_at, updated_at`

// Create inserts one document row. Exactly one row must be affected.
func (r *PostgresRepository) Create(ctx context.Context, rec *models.DocumentRecord) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.OwnerRef, rec.Kind, rec.FileName, rec.StoragePath, rec.ContentType,
		rec.IV, rec.AuthTag, rec.EncryptionAlgorithm, rec.KeyID, rec.SHA256,
		rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert document: %v", common.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected: %v", common.ErrPersistence, err)
	}
	if n != 1 {
		return fmt.Errorf("%w: unexpected rows affected: %d", common.ErrPersistence, n)
	}
	return nil
}

// GetByID returns the record for id.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE id=$1`

	rec := &models.DocumentRecord{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.OwnerRef, &rec.Kind, &rec.FileName, &rec.StoragePath, &rec.ContentType,
		&rec.IV, &rec.AuthTag, &rec.EncryptionAlgorithm, &rec.KeyID, &rec.SHA256,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: document %s", common.ErrNotFound, id)
		}
		return nil, fmt.Errorf("%w: select document: %v", common.ErrPersistence, err)
	}
	return rec, nil
}

// ListByOwner returns records for ownerRef, newest first; empty ownerRef
// returns everything.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerRef string) ([]*models.DocumentRecord, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE ($1 = '' OR owner_ref = $1) ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerRef)
	if err != nil {
		return nil, fmt.Errorf("%w: select documents: %v", common.ErrPersistence, err)
	}
	defer rows.Close()

	var result []*models.DocumentRecord
	for rows.Next() {
		rec := &models.DocumentRecord{}
		if err := rows.Scan(
			&rec.ID, &rec.OwnerRef, &rec.Kind, &rec.FileName, &rec.StoragePath, &rec.ContentType,
			&rec.IV, &rec.AuthTag, &rec.EncryptionAlgorithm, &rec.KeyID, &rec.SHA256,
			&rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scan document: %v", common.ErrPersistence, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrPersistence, err)
	}
	return result, nil
}
