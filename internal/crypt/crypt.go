// Package crypt seals and opens secret values with AES-256-GCM.
//
// A sealed blob is base64(nonce || ciphertext) where the ciphertext carries
// the GCM authentication tag, so a blob is fully self-contained. Nonces are
// 12 random bytes drawn fresh per call; random rather than counter-based
// nonces are fine at desktop volumes — a handful of writes per key lifetime
// stays far below the collision bound, but this does not scale to
// high-throughput use of a single key.
package crypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// KeySize is the required key length for AES-256.
const KeySize = 32

// NonceSize is the GCM nonce length prepended to every blob.
const NonceSize = 12

var (
	// ErrInvalidKey is returned when the key is not exactly KeySize bytes.
	ErrInvalidKey = errors.New("encryption key must be 32 bytes")

	// ErrInvalidEncoding is returned when a blob is not valid base64.
	ErrInvalidEncoding = errors.New("blob is not valid base64")

	// ErrTooShort is returned when a decoded blob cannot hold a nonce.
	ErrTooShort = errors.New("blob too short")

	// ErrAuthentication is returned when the GCM tag does not verify:
	// wrong key, corrupted data, or a value written by another storage
	// generation.
	ErrAuthentication = errors.New("authentication failed")
)

// Encrypt seals plaintext under key and returns the base64 blob.
// Zero-length plaintext is valid.
func Encrypt(key, plaintext []byte) (string, error) {
	aead, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	// Seal appends ciphertext+tag to the nonce slice.
	sealed := aead.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt opens a base64 blob produced by Encrypt.
func Decrypt(key []byte, blob string) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, errors.Join(ErrInvalidEncoding, err)
	}
	if len(data) < NonceSize {
		return nil, ErrTooShort
	}

	nonce, ciphertext := data[:NonceSize], data[NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errors.Join(ErrAuthentication, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
