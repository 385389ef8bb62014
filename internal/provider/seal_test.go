package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealer_RoundTrip(t *testing.T) {
	sealer, err := NewSealerFromPassphrase("test passphrase")
	require.NoError(t, err)

	sealed, err := sealer.Seal("plaintext secret")
	require.NoError(t, err)
	assert.NotEqual(t, "plaintext secret", sealed)

	opened, err := sealer.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "plaintext secret", opened)
}

func TestSealer_NonDeterministicNonce(t *testing.T) {
	sealer, err := NewSealerFromPassphrase("test passphrase")
	require.NoError(t, err)

	first, err := sealer.Seal("same input")
	require.NoError(t, err)
	second, err := sealer.Seal("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestSealer_WrongKeyFails(t *testing.T) {
	sealer, err := NewSealerFromPassphrase("key one")
	require.NoError(t, err)
	other, err := NewSealerFromPassphrase("key two")
	require.NoError(t, err)

	sealed, err := sealer.Seal("secret")
	require.NoError(t, err)

	_, err = other.Open(sealed)
	assert.Error(t, err)
}

func TestSealer_TamperedCiphertextFails(t *testing.T) {
	sealer, err := NewSealerFromPassphrase("key")
	require.NoError(t, err)

	sealed, err := sealer.Seal("secret")
	require.NoError(t, err)

	// Flip the last character of the base64 payload
	tampered := sealed[:len(sealed)-2] + "A="
	_, err = sealer.Open(tampered)
	assert.Error(t, err)
}

func TestNewSealer_KeyLength(t *testing.T) {
	_, err := NewSealer(make([]byte, 16))
	assert.Error(t, err)

	_, err = NewSealer(make([]byte, 32))
	assert.NoError(t, err)
}

func TestNewSealerFromPassphrase_Empty(t *testing.T) {
	_, err := NewSealerFromPassphrase("")
	assert.Error(t, err)
}

func TestSealer_OpenGarbage(t *testing.T) {
	sealer, err := NewSealerFromPassphrase("key")
	require.NoError(t, err)

	_, err = sealer.Open("not base64 at all!!!")
	assert.Error(t, err)

	_, err = sealer.Open("c2hvcnQ=")
	assert.Error(t, err)
}
