package cryptox

import (
	"encoding/hex"
	"fmt"

	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
	"golang.org/x/crypto/argon2"
)

// KeySize is the AES-256 key length in bytes.
const KeySize = 32

// DefaultKeyID tags payloads produced with the currently deployed key.
// Rotation introduces a new id without breaking records written under v1.
const DefaultKeyID = "key_v1"

// Key is named symmetric key material.
type Key struct {
	// ID identifies the key version that produced a payload.
	ID string
	// Bytes is the raw key material, KeySize bytes.
	Bytes []byte
}

// KeyProvider resolves the key used for new encryptions. Implementations
// must be safe for concurrent use.
type KeyProvider interface {
	// ActiveKey returns the current key. It fails with common.ErrConfiguration
	// when no usable key material is configured.
	ActiveKey() (Key, error)
}

// ConfigKeyProvider serves a single key resolved from process configuration:
// either a hex-encoded 32-byte key, or a key derived from a passphrase and
// salt with argon2id. Construction validates eagerly so a misconfigured
// deployment fails at boot, not on the first upload.
type ConfigKeyProvider struct {
	keyID string
	key   []byte
}

// NewConfigKeyProvider builds a provider from a hex-encoded key string.
func NewConfigKeyProvider(keyHex string, keyID string) (*ConfigKeyProvider, error) {
	if keyHex == "" {
		return nil, fmt.Errorf("%w: master key is not set", common.ErrConfiguration)
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("%w: master key is not valid hex: %v", common.ErrConfiguration, err)
	}
	return newProvider(key, keyID)
}

// NewDerivedKeyProvider builds a provider by deriving the key from a
// passphrase and a hex-encoded salt with argon2id.
func NewDerivedKeyProvider(passphrase string, saltHex string, keyID string) (*ConfigKeyProvider, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("%w: master passphrase is not set", common.ErrConfiguration)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return nil, fmt.Errorf("%w: key salt must be non-empty hex", common.ErrConfiguration)
	}
	key := argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, KeySize)
	return newProvider(key, keyID)
}

func newProvider(key []byte, keyID string) (*ConfigKeyProvider, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: master key must be %d bytes, got %d", common.ErrConfiguration, KeySize, len(key))
	}
	if keyID == "" {
		keyID = DefaultKeyID
	}
	return &ConfigKeyProvider{keyID: keyID, key: key}, nil
}

// ActiveKey re-checks the material on every call and returns a copy, so
// callers cannot mutate the provider's state through the returned slice.
func (p *ConfigKeyProvider) ActiveKey() (Key, error) {
	if len(p.key) != KeySize {
		return Key{}, fmt.Errorf("%w: master key must be %d bytes", common.ErrConfiguration, KeySize)
	}
	b := make([]byte, KeySize)
	copy(b, p.key)
	return Key{ID: p.keyID, Bytes: b}, nil
}
