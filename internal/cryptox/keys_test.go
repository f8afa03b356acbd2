package cryptox

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/Monterolautaro/rentadoor-docvault/internal/common"
	"github.com/stretchr/testify/require"
)

func TestNewConfigKeyProvider_ValidHex(t *testing.T) {
	keyHex := strings.Repeat("ab", KeySize)

	p, err := NewConfigKeyProvider(keyHex, "")
	require.NoError(t, err)

	k, err := p.ActiveKey()
	require.NoError(t, err)
	require.Equal(t, DefaultKeyID, k.ID)
	require.Equal(t, keyHex, hex.EncodeToString(k.Bytes))
}

func TestNewConfigKeyProvider_CustomKeyID(t *testing.T) {
	p, err := NewConfigKeyProvider(strings.Repeat("00", KeySize), "key_v2")
	require.NoError(t, err)

	k, err := p.ActiveKey()
	require.NoError(t, err)
	require.Equal(t, "key_v2", k.ID)
}

func TestNewConfigKeyProvider_Invalid(t *testing.T) {
	cases := []string{
		"",                          // absent
		"zz",                        // not hex
		"abcd",                      // too short
		strings.Repeat("ab", 33),    // too long
		strings.Repeat("ab", 16),    // AES-128 length, rejected
	}
	for _, keyHex := range cases {
		_, err := NewConfigKeyProvider(keyHex, "")
		require.ErrorIs(t, err, common.ErrConfiguration, "keyHex=%q", keyHex)
	}
}

func TestNewDerivedKeyProvider_Deterministic(t *testing.T) {
	p1, err := NewDerivedKeyProvider("correct horse battery staple", "00112233445566778899aabbccddeeff", "")
	require.NoError(t, err)
	p2, err := NewDerivedKeyProvider("correct horse battery staple", "00112233445566778899aabbccddeeff", "")
	require.NoError(t, err)

	k1, err := p1.ActiveKey()
	require.NoError(t, err)
	k2, err := p2.ActiveKey()
	require.NoError(t, err)

	require.Equal(t, k1.Bytes, k2.Bytes, "same passphrase and salt must derive the same key")
	require.Len(t, k1.Bytes, KeySize)
}

func TestNewDerivedKeyProvider_DifferentSalts(t *testing.T) {
	p1, err := NewDerivedKeyProvider("passphrase", "0001020304050607", "")
	require.NoError(t, err)
	p2, err := NewDerivedKeyProvider("passphrase", "08090a0b0c0d0e0f", "")
	require.NoError(t, err)

	k1, _ := p1.ActiveKey()
	k2, _ := p2.ActiveKey()
	require.NotEqual(t, k1.Bytes, k2.Bytes)
}

func TestNewDerivedKeyProvider_Invalid(t *testing.T) {
	_, err := NewDerivedKeyProvider("", "0011", "")
	require.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewDerivedKeyProvider("passphrase", "", "")
	require.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewDerivedKeyProvider("passphrase", "not-hex", "")
	require.ErrorIs(t, err, common.ErrConfiguration)
}

func TestActiveKey_ReturnsCopy(t *testing.T) {
	p, err := NewConfigKeyProvider(strings.Repeat("11", KeySize), "")
	require.NoError(t, err)

	k1, err := p.ActiveKey()
	require.NoError(t, err)
	for i := range k1.Bytes {
		k1.Bytes[i] = 0
	}

	k2, err := p.ActiveKey()
	require.NoError(t, err)
	require.Equal(t, strings.Repeat("11", KeySize), hex.EncodeToString(k2.Bytes),
		"mutating a returned key must not affect the provider")
}
