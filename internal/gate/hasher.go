package gate

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a password into a storable hash.
type Hasher interface {
	Name() string
	Hash(password string) (string, error)
}

// HasherByName returns the hasher configured by name ("bcrypt" or "legacy").
func HasherByName(name string) (Hasher, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "bcrypt":
		return BcryptHasher{}, nil
	case "legacy":
		return LegacyHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown hasher %q (want bcrypt or legacy)", name)
	}
}

// BcryptHasher hashes with bcrypt. A zero Cost means bcrypt.DefaultCost.
// Passwords are reduced with SHA-256 first, since bcrypt only looks at 72
// bytes of input.
type BcryptHasher struct {
	Cost int
}

func (BcryptHasher) Name() string { return "bcrypt" }

func (h BcryptHasher) Hash(password string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	b, err := bcrypt.GenerateFromPassword(prehash(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(b), nil
}

// LegacyHasher reproduces the browser app's string hash: a 31-multiplier
// rolling hash over UTF-16 code units truncated to int32, absolute value in
// base36, left-padded with zeros to 16 characters. It is not a password hash
// and exists only so older records keep verifying.
type LegacyHasher struct{}

func (LegacyHasher) Name() string { return "legacy" }

func (LegacyHasher) Hash(password string) (string, error) {
	return legacyHash(password), nil
}

func legacyHash(s string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}

	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}

	out := strconv.FormatInt(abs, 36)
	if len(out) < 16 {
		out = strings.Repeat("0", 16-len(out)) + out
	}

	return out[len(out)-16:]
}

// verify checks password against a stored hash of either format.
func verify(stored, password string) (bool, error) {
	if isBcrypt(stored) {
		err := bcrypt.CompareHashAndPassword([]byte(stored), prehash(password))
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("failed to verify password: %w", err)
		}
	}

	got := legacyHash(password)

	return subtle.ConstantTimeCompare([]byte(stored), []byte(got)) == 1, nil
}

// prehash maps any password to 44 base64 bytes of its SHA-256 digest.
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(out, sum[:])

	return out
}

func isBcrypt(stored string) bool {
	return strings.HasPrefix(stored, "$2")
}
