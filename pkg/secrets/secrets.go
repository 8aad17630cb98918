// Package secrets seals integration tokens before they reach storage. A sealed value is
// "v1:" followed by base64(salt | nonce | ciphertext): the key is derived from the
// server secret with scrypt and the payload is encrypted with XChaCha20-Poly1305.
package secrets

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

const (
	prefix   = "v1:"
	saltSize = 16

	DefaultScryptN = 32768
	scryptR        = 8
	scryptP        = 1
)

var (
	ErrEmptySecret = errors.New("secret key cannot be empty")
	ErrNotSealed   = errors.New("value is not sealed")
	ErrOpenFailed  = errors.New("failed to open sealed value")
)

// Sealer encrypts and decrypts short secrets with a server-wide key.
type Sealer struct {
	secret  []byte
	scryptN int
}

type Option func(*Sealer)

// WithScryptN overrides the scrypt cost parameter. It must be a power of two above 1.
func WithScryptN(n int) Option {
	return func(s *Sealer) {
		s.scryptN = n
	}
}

func NewSealer(secret string, opts ...Option) (*Sealer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	s := &Sealer{secret: []byte(secret), scryptN: DefaultScryptN}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// IsSealed reports whether value carries the sealed format prefix.
func IsSealed(value string) bool {
	return strings.HasPrefix(value, prefix)
}

// Seal encrypts plaintext. Sealing the same value twice yields different outputs.
func (s *Sealer) Seal(plaintext string) (string, error) {
	salt := make([]byte, saltSize)

	_, err := rand.Read(salt)
	if err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := s.aead(salt)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())

	_, err = rand.Read(nonce)
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)

	return prefix + base64.RawStdEncoding.EncodeToString(append(salt, sealed...)), nil
}

// Open decrypts a value produced by Seal.
func (s *Sealer) Open(value string) (string, error) {
	if !IsSealed(value) {
		return "", ErrNotSealed
	}

	raw, err := base64.RawStdEncoding.DecodeString(strings.TrimPrefix(value, prefix))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	if len(raw) < saltSize+chacha20poly1305.NonceSizeX {
		return "", fmt.Errorf("%w: value too short", ErrOpenFailed)
	}

	salt, rest := raw[:saltSize], raw[saltSize:]

	aead, err := s.aead(salt)
	if err != nil {
		return "", err
	}

	nonce, ciphertext := rest[:aead.NonceSize()], rest[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}

	return string(plaintext), nil
}

func (s *Sealer) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(s.secret, salt, s.scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("scrypt key derivation failed: %w", err)
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	return aead, nil
}
