// Package services implements the upload/download use-cases over the cipher
// engine, the blob store and the document metadata repository.
package services

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/Monterolautaro/rentadoor-docvault/internal/blob"
	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
	"github.com/Monterolautaro/rentadoor-docvault/internal/cryptox"
	"github.com/Monterolautaro/rentadoor-docvault/internal/filex"
	"github.com/Monterolautaro/rentadoor-docvault/internal/logging"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/models"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/repositories/documents"
)

// defaultOpTimeout bounds each blob or metadata call so a stalled backend
// cannot hang a user-facing upload indefinitely.
const defaultOpTimeout = 30 * time.Second

var ownerRefPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// DocumentService orchestrates the encrypted-document pipeline. Encrypt and
// store are not transactional across the two backends: the blob write always
// completes before the metadata write, so a failure can orphan a blob but
// never leaves a metadata row pointing at nothing.
type DocumentService struct {
	repo      documents.Repository
	blobs     blob.Store
	engine    *cryptox.Engine
	bucket    string
	opTimeout time.Duration
	logger    logging.Logger
}

func NewDocumentService(repo documents.Repository, blobs blob.Store, engine *cryptox.Engine, bucket string, logger logging.Logger) *DocumentService {
	return &DocumentService{
		repo:      repo,
		blobs:     blobs,
		engine:    engine,
		bucket:    bucket,
		opTimeout: defaultOpTimeout,
		logger:    logger,
	}
}

// storagePathFor namespaces the blob key by owner and a random segment so
// keys never collide and user-supplied names cannot traverse the prefix.
func storagePathFor(ownerRef, fileName string) string {
	return fmt.Sprintf("documents/%s/%s/%s", ownerRef, uuid.NewString(), fileName)
}

// Upload encrypts content and persists it: sanitize name, hash plaintext,
// encrypt with a fresh IV, write the ciphertext blob, then write the
// metadata row. A retry after any failure must call Upload again from the
// plaintext; payloads are never reused.
func (s *DocumentService) Upload(ctx context.Context, ownerRef, kind, fileName, contentType string, content []byte) (*models.DocumentRecord, error) {

	if !ownerRefPattern.MatchString(ownerRef) {
		return nil, fmt.Errorf("%w: owner ref %q", common.ErrInvalidArgument, ownerRef)
	}
	if !models.ValidKind(kind) {
		return nil, fmt.Errorf("%w: document kind %q", common.ErrInvalidArgument, kind)
	}

	name := filex.SanitizeName(fileName)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	digest := sha256.Sum256(content)

	payload, err := s.engine.Encrypt(content)
	if err != nil {
		return nil, err
	}

	path := storagePathFor(ownerRef, name)

	putCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	// Ciphertext only; the plaintext content type travels in metadata.
	if err := s.blobs.Put(putCtx, s.bucket, path, payload.CipherText, "application/octet-stream"); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &models.DocumentRecord{
		ID:                  uuid.NewString(),
		OwnerRef:            ownerRef,
		Kind:                kind,
		FileName:            name,
		StoragePath:         path,
		ContentType:         contentType,
		IV:                  base64.StdEncoding.EncodeToString(payload.IV),
		AuthTag:             base64.StdEncoding.EncodeToString(payload.AuthTag),
		EncryptionAlgorithm: string(payload.Algorithm),
		KeyID:               payload.KeyID,
		SHA256:              hex.EncodeToString(digest[:]),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	createCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	if err := s.repo.Create(createCtx, rec); err != nil {
		// The blob is orphaned now. One best-effort cleanup; the original
		// failure still surfaces to the caller.
		if delErr := s.blobs.Delete(ctx, s.bucket, path); delErr != nil {
			s.logger.Warn(ctx, "orphaned ciphertext blob could not be removed",
				"path", path, "error", delErr)
		}
		return nil, err
	}

	s.logger.Info(ctx, "document stored",
		"id", rec.ID, "owner", rec.OwnerRef, "kind", rec.Kind, "bytes", len(content))

	return rec, nil
}

// Download fetches the metadata row and the ciphertext blob, decrypts, and
// returns the record along with the plaintext.
func (s *DocumentService) Download(ctx context.Context, id string) (*models.DocumentRecord, []byte, error) {

	getCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	rec, err := s.repo.GetByID(getCtx, id)
	if err != nil {
		return nil, nil, err
	}

	blobCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	cipherText, err := s.blobs.Get(blobCtx, s.bucket, rec.StoragePath)
	if err != nil {
		return nil, nil, err
	}

	iv, err := base64.StdEncoding.DecodeString(rec.IV)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: stored iv is not valid base64: %v", common.ErrDecryption, err)
	}
	authTag, err := base64.StdEncoding.DecodeString(rec.AuthTag)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: stored auth tag is not valid base64: %v", common.ErrDecryption, err)
	}

	plaintext, err := s.engine.DecryptBytes(cipherText, iv, authTag)
	if err != nil {
		return nil, nil, err
	}

	digest := sha256.Sum256(plaintext)
	if hex.EncodeToString(digest[:]) != rec.SHA256 {
		return nil, nil, fmt.Errorf("%w: plaintext digest does not match document %s", common.ErrDecryption, rec.ID)
	}

	return rec, plaintext, nil
}

// Get returns metadata only.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.DocumentRecord, error) {
	getCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.repo.GetByID(getCtx, id)
}

// List returns metadata for ownerRef. An empty ownerRef lists every record;
// the transport layer must only allow that for admins.
func (s *DocumentService) List(ctx context.Context, ownerRef string) ([]*models.DocumentRecord, error) {
	listCtx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	return s.repo.ListByOwner(listCtx, ownerRef)
}
