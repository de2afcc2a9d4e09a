// Copyright (c) 2026 Nlaak Studios (https://nlaak.com)
// Author: Andrew Donelson (https://www.linkedin.com/in/andrew-donelson/)
//
// crypto.go - optional AES-256-GCM sealing of stored values. Store seals
// the encoded value before it reaches the backend and Get opens it again.
// The storage key is bound to the ciphertext as additional data, so a value
// copied under another key fails to open. Counters and call logs are never
// sealed.

package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
)

// Sealer seals and opens values bound to the key they are stored under.
type Sealer interface {
	Seal(key string, plaintext []byte) ([]byte, error)
	Open(key string, sealed []byte) ([]byte, error)
}

var errSealedTooShort = errors.New("storage: sealed value shorter than nonce")

// AES256GCM is a Sealer using AES-256-GCM with a random 12-byte nonce
// prepended to each sealed value.
type AES256GCM struct {
	aead cipher.AEAD
}

// NewAES256GCM returns an AES256GCM for a 32-byte key.
func NewAES256GCM(secret []byte) (*AES256GCM, error) {
	if len(secret) != 32 {
		return nil, fmt.Errorf("%w: encryption key must be 32 bytes, got %d", ErrInvalidConfig, len(secret))
	}
	block, err := aes.NewCipher(secret)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return &AES256GCM{aead: aead}, nil
}

// Seal returns nonce || ciphertext for plaintext stored under key.
func (a *AES256GCM) Seal(key string, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, a.aead.NonceSize(), a.aead.NonceSize()+len(plaintext)+a.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return a.aead.Seal(nonce, nonce, plaintext, []byte(key)), nil
}

// Open reverses Seal. It fails if sealed was modified or was sealed for a
// different key.
func (a *AES256GCM) Open(key string, sealed []byte) ([]byte, error) {
	n := a.aead.NonceSize()
	if len(sealed) < n {
		return nil, errSealedTooShort
	}
	return a.aead.Open(nil, sealed[:n], sealed[n:], []byte(key))
}
