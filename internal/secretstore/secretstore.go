// Package secretstore is an opaque key/value store for sensitive values:
// vault passwords, private notes, and calendar OAuth tokens. Values are
// encrypted at rest with ChaCha20-Poly1305 under a service-wide key, so a
// database dump alone never exposes a secret.
package secretstore

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"gorm.io/gorm"
)

// ErrSecretNotFound is returned by Retrieve when no value exists for a key.
var ErrSecretNotFound = errors.New("secretstore: secret not found")

// Store is the contract consumed by the vault and calendar services.
type Store interface {
	Save(value, key string) error
	Retrieve(key string) (string, error)
	Delete(key string) error
}

// Secret is the persisted row: an opaque blob per namespaced key.
type Secret struct {
	Key   string `gorm:"primaryKey"`
	Value []byte `gorm:"not null"`
}

// store encrypts values with an AEAD before handing them to GORM.
type store struct {
	db        *gorm.DB
	namespace string
	key       []byte
}

// New creates a Store scoped to the given service namespace. keyHex must
// decode to 32 bytes.
func New(db *gorm.DB, namespace, keyHex string) (Store, error) {
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("secretstore: decode key: %w", err)
	}
	if len(key) != chacha20poly1305.KeySize {
		return nil, fmt.Errorf("secretstore: key must be %d bytes, got %d", chacha20poly1305.KeySize, len(key))
	}
	return &store{db: db, namespace: namespace, key: key}, nil
}

func (s *store) scopedKey(key string) string {
	return s.namespace + ":" + key
}

// Save encrypts value and upserts it under key.
func (s *store) Save(value, key string) error {
	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return fmt.Errorf("secretstore: %w", err)
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return fmt.Errorf("secretstore: nonce: %w", err)
	}

	// nonce is prepended to the ciphertext so Retrieve needs no extra column
	blob := aead.Seal(nonce, nonce, []byte(value), nil)

	secret := Secret{Key: s.scopedKey(key), Value: blob}
	err = s.db.Save(&secret).Error
	if err != nil {
		return fmt.Errorf("secretstore: save %q: %w", key, err)
	}
	return nil
}

// Retrieve decrypts and returns the value stored under key.
func (s *store) Retrieve(key string) (string, error) {
	var secret Secret
	if err := s.db.First(&secret, "key = ?", s.scopedKey(key)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSecretNotFound
		}
		return "", fmt.Errorf("secretstore: retrieve %q: %w", key, err)
	}

	aead, err := chacha20poly1305.New(s.key)
	if err != nil {
		return "", fmt.Errorf("secretstore: %w", err)
	}
	if len(secret.Value) < aead.NonceSize() {
		return "", fmt.Errorf("secretstore: corrupt blob for %q", key)
	}

	nonce, ciphertext := secret.Value[:aead.NonceSize()], secret.Value[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("secretstore: decrypt %q: %w", key, err)
	}
	return string(plain), nil
}

// Delete removes the value stored under key. Deleting a missing key is
// not an error.
func (s *store) Delete(key string) error {
	if err := s.db.Delete(&Secret{}, "key = ?", s.scopedKey(key)).Error; err != nil {
		return fmt.Errorf("secretstore: delete %q: %w", key, err)
	}
	return nil
}
