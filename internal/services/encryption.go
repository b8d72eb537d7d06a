package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/nacl/secretbox"
)

const nonceSize = 24

// ErrDecrypt is returned for tampered or foreign ciphertext.
var ErrDecrypt = errors.New("failed to decrypt value")

// EncryptionService seals OAuth tokens before they are written to the
// database.
type EncryptionService struct {
	key [32]byte
}

// NewEncryptionService derives a key from secret.
func NewEncryptionService(secret []byte) (*EncryptionService, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf("encryption secret must be at least 32 bytes")
	}
	return &EncryptionService{key: sha256.Sum256(secret)}, nil
}

// Encrypt returns base64(nonce || box).
func (s *EncryptionService) Encrypt(plaintext string) (string, error) {
	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plaintext), &nonce, &s.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (s *EncryptionService) Decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(data) < nonceSize+secretbox.Overhead {
		return "", ErrDecrypt
	}
	var nonce [nonceSize]byte
	copy(nonce[:], data[:nonceSize])
	plain, ok := secretbox.Open(nil, data[nonceSize:], &nonce, &s.key)
	if !ok {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
