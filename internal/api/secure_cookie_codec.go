package api

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	sealedCookieVersion = "v1"
	sealedCookieKeyInfo = "mealmate secure cookie v1"
	sealedCookieAADBase = "mealmate.cookie."
)

var errInvalidSecureCookieValue = errors.New("invalid secure cookie value")

// secureCookieCodec seals cookie payloads with AES-256-GCM under a key
// derived from the application secret. The cookie purpose is bound as
// additional data, so a value sealed for one cookie does not open as another.
type secureCookieCodec struct {
	aead cipher.AEAD
}

func newSecureCookieCodec(secretKey []byte) (*secureCookieCodec, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("secure cookie secret key is required")
	}

	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secretKey, nil, []byte(sealedCookieKeyInfo)), key); err != nil {
		return nil, fmt.Errorf("derive secure cookie key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init secure cookie cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init secure cookie aead: %w", err)
	}
	return &secureCookieCodec{aead: aead}, nil
}

// seal returns "v1.<base64url(nonce|ciphertext)>".
func (codec *secureCookieCodec) seal(purpose string, plaintext []byte) (string, error) {
	aad, err := sealedCookieAAD(purpose)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, codec.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate secure cookie nonce: %w", err)
	}
	sealed := codec.aead.Seal(nonce, nonce, plaintext, aad)
	return sealedCookieVersion + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// open reverses seal. Every malformed, tampered or foreign value fails with
// errInvalidSecureCookieValue.
func (codec *secureCookieCodec) open(purpose string, rawValue string) ([]byte, error) {
	aad, err := sealedCookieAAD(purpose)
	if err != nil {
		return nil, err
	}

	version, encoded, found := strings.Cut(strings.TrimSpace(rawValue), ".")
	if !found || version != sealedCookieVersion {
		return nil, errInvalidSecureCookieValue
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(payload) <= codec.aead.NonceSize() {
		return nil, errInvalidSecureCookieValue
	}

	nonce, ciphertext := payload[:codec.aead.NonceSize()], payload[codec.aead.NonceSize():]
	plaintext, err := codec.aead.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, errInvalidSecureCookieValue
	}
	return plaintext, nil
}

func sealedCookieAAD(purpose string) ([]byte, error) {
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return nil, errors.New("secure cookie purpose is required")
	}
	return []byte(sealedCookieAADBase + purpose), nil
}
