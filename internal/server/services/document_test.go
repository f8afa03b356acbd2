package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Monterolautaro/rentadoor-docvault/internal/blob"
	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
	"github.com/Monterolautaro/rentadoor-docvault/internal/cryptox"
	"github.com/Monterolautaro/rentadoor-docvault/internal/logging"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/models"
)

type fakeRepo struct {
	records   map[string]*models.DocumentRecord
	createErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: make(map[string]*models.DocumentRecord)}
}

func (f *fakeRepo) Create(ctx context.Context, rec *models.DocumentRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	cp := *rec
	f.records[rec.ID] = &cp
	return nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*models.DocumentRecord, error) {
	rec, ok := f.records[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (f *fakeRepo) ListByOwner(ctx context.Context, ownerRef string) ([]*models.DocumentRecord, error) {
	var out []*models.DocumentRecord
	for _, rec := range f.records {
		if ownerRef == "" || rec.OwnerRef == ownerRef {
			cp := *rec
			out = append(out, &cp)
		}
	}
	return out, nil
}

func testService(t *testing.T) (*DocumentService, *fakeRepo, *blob.MemoryStore) {
	t.Helper()

	key := make([]byte, cryptox.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	provider, err := cryptox.NewConfigKeyProvider(hex.EncodeToString(key), "")
	require.NoError(t, err)

	repo := newFakeRepo()
	store := blob.NewMemoryStore()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	svc := NewDocumentService(repo, store, cryptox.NewEngine(provider), "vault", logger)
	return svc, repo, store
}

func TestUploadDownload_EndToEnd(t *testing.T) {
	svc, _, store := testService(t)
	ctx := context.Background()

	content := []byte("hello identity document")
	digest := sha256.Sum256(content)

	rec, err := svc.Upload(ctx, "user-7", models.KindIdentity, "Selfie Ñandú.png", "image/png", content)
	require.NoError(t, err)

	require.Equal(t, "Selfie_Nandu.png", rec.FileName)
	require.Contains(t, rec.StoragePath, "user-7")
	require.Equal(t, hex.EncodeToString(digest[:]), rec.SHA256)
	require.Equal(t, "aes-256-gcm", rec.EncryptionAlgorithm)
	require.Equal(t, cryptox.DefaultKeyID, rec.KeyID)
	require.NotEmpty(t, rec.IV)
	require.NotEmpty(t, rec.AuthTag)
	require.False(t, rec.CreatedAt.IsZero())

	// Only ciphertext reaches the store.
	stored, err := store.Get(ctx, "vault", rec.StoragePath)
	require.NoError(t, err)
	require.NotContains(t, string(stored), "identity")

	got, plaintext, err := svc.Download(ctx, rec.ID)
	require.NoError(t, err)
	require.Equal(t, content, plaintext)
	require.Equal(t, "Selfie_Nandu.png", got.FileName)
	require.Equal(t, "image/png", got.ContentType)
}

func TestUpload_EmptyContent(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	rec, err := svc.Upload(ctx, "user-1", models.KindReceipt, "empty.bin", "", nil)
	require.NoError(t, err)

	_, plaintext, err := svc.Download(ctx, rec.ID)
	require.NoError(t, err)
	require.Empty(t, plaintext)
}

func TestUpload_UniqueStoragePaths(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	r1, err := svc.Upload(ctx, "user-1", models.KindContract, "lease.pdf", "application/pdf", []byte("a"))
	require.NoError(t, err)
	r2, err := svc.Upload(ctx, "user-1", models.KindContract, "lease.pdf", "application/pdf", []byte("a"))
	require.NoError(t, err)

	require.NotEqual(t, r1.StoragePath, r2.StoragePath)
	require.NotEqual(t, r1.IV, r2.IV, "re-uploading must re-encrypt with a fresh IV")
}

func TestUpload_InvalidArguments(t *testing.T) {
	svc, _, store := testService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "", models.KindIdentity, "x.png", "", []byte("x"))
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = svc.Upload(ctx, "../evil", models.KindIdentity, "x.png", "", []byte("x"))
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	_, err = svc.Upload(ctx, "user-1", "passport", "x.png", "", []byte("x"))
	require.ErrorIs(t, err, common.ErrInvalidArgument)

	require.Equal(t, 0, store.Len(), "rejected uploads must not write blobs")
}

func TestUpload_MetadataFailureCleansUpBlob(t *testing.T) {
	svc, repo, store := testService(t)
	repo.createErr = common.ErrPersistence

	_, err := svc.Upload(context.Background(), "user-2", models.KindReceipt, "r.pdf", "", []byte("receipt"))
	require.ErrorIs(t, err, common.ErrPersistence)
	require.Equal(t, 0, store.Len(), "orphaned blob must be cleaned up")
}

func TestUpload_MissingKeyFailsBeforeBlobWrite(t *testing.T) {
	repo := newFakeRepo()
	store := blob.NewMemoryStore()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	svc := NewDocumentService(repo, store, cryptox.NewEngine(badKeyProvider{}), "vault", logger)

	_, err := svc.Upload(context.Background(), "user-1", models.KindIdentity, "x.png", "", []byte("x"))
	require.ErrorIs(t, err, common.ErrConfiguration)
	require.Equal(t, 0, store.Len())
	require.Empty(t, repo.records)
}

type badKeyProvider struct{}

func (badKeyProvider) ActiveKey() (cryptox.Key, error) {
	return cryptox.Key{}, common.ErrConfiguration
}

func TestDownload_MissingRecord(t *testing.T) {
	svc, _, _ := testService(t)

	_, _, err := svc.Download(context.Background(), "no-such-id")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestDownload_TamperedBlob(t *testing.T) {
	svc, _, store := testService(t)
	ctx := context.Background()

	rec, err := svc.Upload(ctx, "user-3", models.KindContract, "lease.pdf", "application/pdf", []byte("twelve month lease agreement"))
	require.NoError(t, err)

	stored, err := store.Get(ctx, "vault", rec.StoragePath)
	require.NoError(t, err)
	stored[0] ^= 0x01
	require.NoError(t, store.Put(ctx, "vault", rec.StoragePath, stored, ""))

	_, _, err = svc.Download(ctx, rec.ID)
	require.ErrorIs(t, err, common.ErrDecryption)
}

func TestDownload_MissingBlob(t *testing.T) {
	svc, _, store := testService(t)
	ctx := context.Background()

	rec, err := svc.Upload(ctx, "user-4", models.KindReceipt, "r.pdf", "", []byte("gone"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "vault", rec.StoragePath))

	_, _, err = svc.Download(ctx, rec.ID)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestList_ScopedByOwner(t *testing.T) {
	svc, _, _ := testService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, "user-a", models.KindIdentity, "a.png", "", []byte("a"))
	require.NoError(t, err)
	_, err = svc.Upload(ctx, "user-b", models.KindIdentity, "b.png", "", []byte("b"))
	require.NoError(t, err)

	mine, err := svc.List(ctx, "user-a")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "user-a", mine[0].OwnerRef)

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestStoragePath_NoTraversal(t *testing.T) {
	svc, _, _ := testService(t)

	rec, err := svc.Upload(context.Background(), "user-5", models.KindIdentity, "../../etc/passwd", "", []byte("x"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(rec.StoragePath, "documents/user-5/"))
	require.NotContains(t, rec.StoragePath, "..")
}
