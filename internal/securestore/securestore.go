// Package securestore keeps values encrypted at rest in a local store,
// keyed by a caller-supplied secret.
package securestore

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inovacc/gistvault/internal/store"
)

// KeyPrefix starts every storage key written by a Store.
const KeyPrefix = "secure_"

var (
	// ErrInvalidArgument is returned for an empty key or secret.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDecrypt is returned when a value cannot be decrypted with the given secret.
	ErrDecrypt = errors.New("failed to decrypt value")
)

// Store encrypts values before handing them to a backing store.
type Store struct {
	backend store.Store
}

// New wraps backend.
func New(backend store.Store) *Store {
	return &Store{backend: backend}
}

// StorageKey maps key to the name it is stored under: the prefix followed by
// the key reversed.
func StorageKey(key string) string {
	r := []rune(key)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}

	return KeyPrefix + string(r)
}

// Set encrypts value under key. Strings and byte slices are stored as is;
// anything else is stored as its JSON encoding.
func (s *Store) Set(key string, value any, secret string) error {
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidArgument)
	}

	plaintext, err := toBytes(value)
	if err != nil {
		return err
	}

	storageKey := StorageKey(key)

	blob, err := Encrypt(plaintext, secret, []byte(storageKey))
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(blob)
	if err := s.backend.Set(storageKey, []byte(encoded)); err != nil {
		return fmt.Errorf("failed to store %q: %w", key, err)
	}

	return nil
}

// Get decrypts the value under key. A missing key returns store.ErrNotFound.
func (s *Store) Get(key, secret string) (string, error) {
	b, err := s.get(key, secret)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// GetJSON decrypts the value under key and decodes it into v.
func (s *Store) GetJSON(key, secret string, v any) error {
	b, err := s.get(key, secret)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to decode %q: %w", key, err)
	}

	return nil
}

func (s *Store) get(key, secret string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: key is empty", ErrInvalidArgument)
	}

	storageKey := StorageKey(key)

	encoded, err := s.backend.Get(storageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", key, err)
	}

	blob, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	return Decrypt(blob, secret, []byte(storageKey))
}

// Remove deletes key. Removing a missing key is not an error.
func (s *Store) Remove(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidArgument)
	}

	if err := s.backend.Delete(StorageKey(key)); err != nil {
		return fmt.Errorf("failed to remove %q: %w", key, err)
	}

	return nil
}

// Seal encrypts data for storage somewhere else, such as inside a remote
// document, and returns it as base64 text.
func Seal(data any, secret string) (string, error) {
	plaintext, err := toBytes(data)
	if err != nil {
		return "", err
	}

	blob, err := Encrypt(plaintext, secret, nil)
	if err != nil {
		return "", err
	}

	return base64.StdEncoding.EncodeToString(blob), nil
}

// Open reverses Seal. v may be a *string, a *[]byte or anything json.Unmarshal
// accepts.
func Open(sealed, secret string, v any) error {
	blob, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDecrypt, err)
	}

	plaintext, err := Decrypt(blob, secret, nil)
	if err != nil {
		return err
	}

	switch out := v.(type) {
	case *string:
		*out = string(plaintext)
	case *[]byte:
		*out = plaintext
	default:
		if err := json.Unmarshal(plaintext, v); err != nil {
			return fmt.Errorf("failed to decode sealed value: %w", err)
		}
	}

	return nil
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode value: %w", err)
		}

		return b, nil
	}
}
