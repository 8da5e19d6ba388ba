package store

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"
)

// SaltLength is the number of random bytes mixed into the key derivation.
const SaltLength = 16

// ErrCipherText is returned when a stored value cannot be decrypted, either
// because it was tampered with or because the passphrase changed.
var ErrCipherText = errors.New("store: cannot decrypt stored value")

// Cipher encrypts stored values at rest. The key is derived from a user
// supplied passphrase with scrypt and values are sealed with
// ChaCha20-Poly1305 using a fresh random nonce per value.
type Cipher struct {
	aead      cipher.AEAD
	nonceSize int
}

// NewCipher derives an encryption key from the passphrase and salt.
func NewCipher(passphrase string, salt []byte) (*Cipher, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("store: passphrase must not be empty")
	}
	if len(salt) != SaltLength {
		return nil, fmt.Errorf("store: salt must be %d bytes, got %d", SaltLength, len(salt))
	}

	key, err := scrypt.Key([]byte(passphrase), salt, 1<<15, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, fmt.Errorf("store: derive key: %w", err)
	}

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, fmt.Errorf("store: init cipher: %w", err)
	}

	return &Cipher{aead: aead, nonceSize: aead.NonceSize()}, nil
}

// NewSalt returns a fresh random salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("store: generate salt: %w", err)
	}
	return salt, nil
}

// Encrypt seals a plaintext value into a base64 encoded token.
func (c *Cipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("store: generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Tampered or foreign values yield ErrCipherText.
func (c *Cipher) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrCipherText
	}
	if len(sealed) < c.nonceSize {
		return "", ErrCipherText
	}
	plaintext, err := c.aead.Open(nil, sealed[:c.nonceSize], sealed[c.nonceSize:], nil)
	if err != nil {
		return "", ErrCipherText
	}
	return string(plaintext), nil
}
