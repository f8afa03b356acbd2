// Package cryptox implements the authenticated encryption used for documents
// stored by the vault: AES-256-GCM with a fresh random 12-byte IV per call
// and a detached 16-byte authentication tag.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"fmt"

	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
)

// Algorithm names a supported AEAD construction.
type Algorithm string

const (
	// AlgorithmAES256GCM is the only algorithm currently in use.
	AlgorithmAES256GCM Algorithm = "aes-256-gcm"
)

const (
	// IVSize is the GCM nonce length in bytes.
	IVSize = 12
	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

// EncryptedPayload carries everything needed to recover the plaintext,
// provided the key named by KeyID is still available. Losing the IV or the
// tag makes the ciphertext permanently unrecoverable.
type EncryptedPayload struct {
	CipherText []byte
	IV         []byte
	AuthTag    []byte
	Algorithm  Algorithm
	KeyID      string
}

// Engine encrypts and decrypts byte buffers. It holds no state between
// calls; the key provider is consulted on every operation.
type Engine struct {
	keys KeyProvider
}

// NewEngine returns an engine backed by the given key provider.
func NewEngine(keys KeyProvider) *Engine {
	return &Engine{keys: keys}
}

// Encrypt seals plaintext (any length, including empty) under the active key
// with a freshly generated IV. An IV is never reused for a given key.
func (e *Engine) Encrypt(plaintext []byte) (*EncryptedPayload, error) {

	key, err := e.keys.ActiveKey()
	if err != nil {
		return nil, err
	}

	iv := make([]byte, IVSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("generating iv: %w", err)
	}

	aesgcm, err := newGCM(key.Bytes)
	if err != nil {
		return nil, err
	}

	sealed := aesgcm.Seal(nil, iv, plaintext, nil)

	// Seal appends the tag; the vault stores it detached.
	n := len(sealed) - TagSize
	return &EncryptedPayload{
		CipherText: sealed[:n],
		IV:         iv,
		AuthTag:    sealed[n:],
		Algorithm:  AlgorithmAES256GCM,
		KeyID:      key.ID,
	}, nil
}

// DecryptBytes opens ciphertext with the given IV and tag, returning the
// original plaintext. Any tampering with ciphertext, IV or tag fails with
// common.ErrDecryption; GCM never returns silently corrupted plaintext.
func (e *Engine) DecryptBytes(cipherText, iv, authTag []byte) ([]byte, error) {

	key, err := e.keys.ActiveKey()
	if err != nil {
		return nil, err
	}

	if len(iv) != IVSize {
		return nil, fmt.Errorf("%w: iv must be %d bytes, got %d", common.ErrDecryption, IVSize, len(iv))
	}
	if len(authTag) != TagSize {
		return nil, fmt.Errorf("%w: auth tag must be %d bytes, got %d", common.ErrDecryption, TagSize, len(authTag))
	}

	aesgcm, err := newGCM(key.Bytes)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(cipherText)+len(authTag))
	sealed = append(sealed, cipherText...)
	sealed = append(sealed, authTag...)

	plaintext, err := aesgcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrDecryption, err)
	}

	return plaintext, nil
}

// DecryptBase64 decodes the standard-base64 transport encodings stored in a
// document record and then decrypts. The decoded bytes must be bit-exact
// with what Encrypt produced.
func (e *Engine) DecryptBase64(cipherText, iv, authTag string) ([]byte, error) {
	ct, err := base64.StdEncoding.DecodeString(cipherText)
	if err != nil {
		return nil, fmt.Errorf("%w: ciphertext is not valid base64: %v", common.ErrDecryption, err)
	}
	rawIV, err := base64.StdEncoding.DecodeString(iv)
	if err != nil {
		return nil, fmt.Errorf("%w: iv is not valid base64: %v", common.ErrDecryption, err)
	}
	tag, err := base64.StdEncoding.DecodeString(authTag)
	if err != nil {
		return nil, fmt.Errorf("%w: auth tag is not valid base64: %v", common.ErrDecryption, err)
	}
	return e.DecryptBytes(ct, rawIV, tag)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	aesgcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrConfiguration, err)
	}
	return aesgcm, nil
}
