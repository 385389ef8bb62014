package provider

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
)

// Sealer encrypts secret values with AES-256-GCM before they reach a
// blob-backed provider. Sealed values are base64(nonce || ciphertext).
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer creates a sealer from a 32-byte AES-256 key
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("seal key must be 32 bytes, got %d", len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &Sealer{aead: aead}, nil
}

// NewSealerFromPassphrase derives the AES key from a passphrase via SHA-256
func NewSealerFromPassphrase(passphrase string) (*Sealer, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("seal passphrase cannot be empty")
	}
	key := sha256.Sum256([]byte(passphrase))
	return NewSealer(key[:])
}

// Seal encrypts a plaintext secret
func (s *Sealer) Seal(plaintext string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := s.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a sealed secret
func (s *Sealer) Open(sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("failed to decode sealed value: %w", err)
	}

	nonceSize := s.aead.NonceSize()
	if len(raw) < nonceSize {
		return "", fmt.Errorf("sealed value too short")
	}

	plaintext, err := s.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt sealed value: %w", err)
	}
	return string(plaintext), nil
}
