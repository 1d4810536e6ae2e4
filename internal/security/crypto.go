// Package security seals and opens the frames of protected playlist tracks.
package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"

	"linkamp/pkg/spec"
)

// ErrShortFrame is returned when a sealed frame is shorter than its nonce.
var ErrShortFrame = errors.New("sealed frame too short")

// DeriveKey stretches a track passphrase into a 32-byte AES key.
func DeriveKey(passphrase string, salt []byte) []byte {
	return pbkdf2.Key([]byte(passphrase), salt, spec.KeyIterations, spec.KeySize, sha256.New)
}

// TrackKey derives the key for a sealed track with the package salt.
func TrackKey(passphrase string) []byte {
	return DeriveKey(passphrase, []byte(spec.Salt))
}

// Sealer seals and opens frames with one AES-GCM key. The cipher is built
// once per track instead of once per frame.
type Sealer struct {
	gcm cipher.AEAD
}

// NewSealer builds a Sealer for key.
func NewSealer(key []byte) (*Sealer, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return &Sealer{gcm: gcm}, nil
}

// Seal encrypts frame and prefixes it with a random nonce.
func (s *Sealer) Seal(frame []byte) ([]byte, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return s.gcm.Seal(nonce, nonce, frame, nil), nil
}

// Open decrypts a frame produced by Seal.
func (s *Sealer) Open(sealed []byte) ([]byte, error) {
	n := s.gcm.NonceSize()
	if len(sealed) < n {
		return nil, ErrShortFrame
	}
	return s.gcm.Open(nil, sealed[:n], sealed[n:], nil)
}
