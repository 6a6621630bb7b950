// Package crypto seals individual column values with AES-256-GCM and
// derives HMAC-SHA256 blind indexes so sealed values can still be looked up
// by equality.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

type FieldCipher struct {
	aead     cipher.AEAD
	indexKey []byte
}

// NewFieldCipher takes a 32 byte encryption key and a separate 32 byte key
// for blind indexes.
func NewFieldCipher(encryptionKey, blindIndexKey []byte) (*FieldCipher, error) {
	if len(encryptionKey) != 32 {
		return nil, errors.New("encryption key must be 32 bytes")
	}
	if len(blindIndexKey) != 32 {
		return nil, errors.New("blind index key must be 32 bytes")
	}
	block, err := aes.NewCipher(encryptionKey)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return &FieldCipher{aead: aead, indexKey: append([]byte(nil), blindIndexKey...)}, nil
}

// Seal returns base64(nonce || ciphertext). The empty string stays empty.
func (c *FieldCipher) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}
	out := c.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

func (c *FieldCipher) Open(sealed string) (string, error) {
	if sealed == "" {
		return "", nil
	}
	data, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}
	n := c.aead.NonceSize()
	if len(data) < n {
		return "", ErrCiphertextTooShort
	}
	plain, err := c.aead.Open(nil, data[:n], data[n:], nil)
	if err != nil {
		return "", fmt.Errorf("open: %w", err)
	}
	return string(plain), nil
}

// SealPtr seals *p in place; nil stays nil.
func (c *FieldCipher) SealPtr(p *string) error {
	if p == nil {
		return nil
	}
	sealed, err := c.Seal(*p)
	if err != nil {
		return err
	}
	*p = sealed
	return nil
}

// OpenPtr opens *p in place; nil stays nil.
func (c *FieldCipher) OpenPtr(p *string) error {
	if p == nil {
		return nil
	}
	plain, err := c.Open(*p)
	if err != nil {
		return err
	}
	*p = plain
	return nil
}

// BlindIndex is a deterministic keyed hash of plaintext.
func (c *FieldCipher) BlindIndex(plaintext string) string {
	if plaintext == "" {
		return ""
	}
	h := hmac.New(sha256.New, c.indexKey)
	h.Write([]byte(plaintext))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}
