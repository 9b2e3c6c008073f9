package securestore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Crypto constants
const (
	blobVersion byte = 1

	argon2Time    = 1
	argon2Memory  = 64 * 1024 // 64 MB
	argon2Threads = 4
	argon2KeyLen  = 32

	saltSize  = 16
	nonceSize = 12
	tagSize   = 16
)

func deriveKey(secret string, salt []byte) []byte {
	return argon2.IDKey([]byte(secret), salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
}

// Encrypt seals plaintext with a key derived from secret. aad is
// authenticated but not stored, so the same aad must be passed to Decrypt.
// Returns: version (1) + salt (16) + nonce (12) + ciphertext
func Encrypt(plaintext []byte, secret string, aad []byte) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: secret is empty", ErrInvalidArgument)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := newGCM(deriveKey(secret, salt))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, nonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, 1+saltSize+nonceSize+len(plaintext)+tagSize)
	out = append(out, blobVersion)
	out = append(out, salt...)
	out = append(out, nonce...)

	return gcm.Seal(out, nonce, plaintext, aad), nil
}

// Decrypt opens a blob produced by Encrypt. A wrong secret, wrong aad or
// tampered blob all yield ErrDecrypt.
func Decrypt(blob []byte, secret string, aad []byte) ([]byte, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: secret is empty", ErrInvalidArgument)
	}

	if len(blob) < 1+saltSize+nonceSize+tagSize {
		return nil, fmt.Errorf("%w: data too short", ErrDecrypt)
	}

	if blob[0] != blobVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrDecrypt, blob[0])
	}

	salt := blob[1 : 1+saltSize]
	nonce := blob[1+saltSize : 1+saltSize+nonceSize]
	ciphertext := blob[1+saltSize+nonceSize:]

	gcm, err := newGCM(deriveKey(secret, salt))
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, aad)
	if err != nil {
		return nil, ErrDecrypt
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return gcm, nil
}
