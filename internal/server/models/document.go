// Package models defines server-side data models persisted in the database.
package models

import "time"

// Document kinds accepted by the vault.
const (
	KindIdentity = "identity"
	KindContract = "contract"
	KindReceipt  = "receipt"
)

// DocumentRecord describes one encrypted blob held in object storage. The
// ciphertext itself lives under StoragePath; this row holds everything
// needed to find, integrity-check and decrypt it. The cryptographic fields
// (IV, AuthTag, EncryptionAlgorithm, KeyID, SHA256) are write-once.
type DocumentRecord struct {
	// ID is the generated primary lookup key.
	ID string
	// OwnerRef identifies the uploading user, or the reservation for
	// contract documents.
	OwnerRef string
	// Kind is one of KindIdentity, KindContract, KindReceipt.
	Kind string
	// FileName is the sanitized display name.
	FileName string
	// StoragePath is the unique object-storage key of the ciphertext.
	StoragePath string
	// ContentType is the MIME type reported at upload, echoed on download.
	ContentType string

	// IV and AuthTag are base64 encodings of the exact bytes the cipher
	// produced. Any encoding drift makes the blob unrecoverable.
	IV      string
	AuthTag string
	// EncryptionAlgorithm and KeyID are copied verbatim from the encrypted
	// payload at write time.
	EncryptionAlgorithm string
	KeyID               string
	// SHA256 is the hex digest of the plaintext, computed before encryption.
	SHA256 string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidKind reports whether kind names a supported document category.
func ValidKind(kind string) bool {
	switch kind {
	case KindIdentity, KindContract, KindReceipt:
		return true
	}
	return false
}
