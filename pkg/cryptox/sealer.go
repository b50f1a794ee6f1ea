package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// SealKeySize is the AES-256 key length derived from master key material.
const SealKeySize = 32

// hkdfInfo separates vault keys from any other key derived from the same
// master material.
const hkdfInfo = "gate/vault/aes-256-gcm/v1"

var (
	// ErrEmptyKeyMaterial is returned when NewSealer receives no key material.
	ErrEmptyKeyMaterial = errors.New("cryptox: empty key material")
	// ErrCiphertextTooShort is returned when a sealed blob cannot hold a nonce.
	ErrCiphertextTooShort = errors.New("cryptox: ciphertext too short")
)

// Sealer encrypts small blobs with AES-256-GCM.
//
// Output layout: [12-byte nonce][ciphertext][16-byte tag]. Callers pass
// additional data that binds the blob to its owner; opening with different
// additional data fails.
type Sealer struct {
	aead cipher.AEAD
}

// NewSealer derives an AES-256 key from material with HKDF-SHA256.
func NewSealer(material []byte) (*Sealer, error) {
	if len(material) == 0 {
		return nil, ErrEmptyKeyMaterial
	}

	key := make([]byte, SealKeySize)
	kdf := hkdf.New(sha256.New, material, nil, []byte(hkdfInfo))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("cryptox: derive key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cryptox: create gcm: %w", err)
	}

	return &Sealer{aead: gcm}, nil
}

// Seal encrypts plaintext under a fresh random nonce.
func (s *Sealer) Seal(plaintext, additionalData []byte) ([]byte, error) {
	nonce := make([]byte, s.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("cryptox: generate nonce: %w", err)
	}

	return s.aead.Seal(nonce, nonce, plaintext, additionalData), nil
}

// Open decrypts and authenticates a blob produced by Seal.
func (s *Sealer) Open(sealed, additionalData []byte) ([]byte, error) {
	nonceSize := s.aead.NonceSize()
	if len(sealed) < nonceSize {
		return nil, ErrCiphertextTooShort
	}

	nonce, ciphertext := sealed[:nonceSize], sealed[nonceSize:]
	plaintext, err := s.aead.Open(nil, nonce, ciphertext, additionalData)
	if err != nil {
		return nil, fmt.Errorf("cryptox: open sealed data: %w", err)
	}

	return plaintext, nil
}
