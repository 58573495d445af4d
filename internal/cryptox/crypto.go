// Package cryptox hashes and verifies secret access codes.
//
// Hashes are stored in the werkzeug-compatible form
//
//	pbkdf2:sha256:<iterations>$<salt>$<hex digest>
//
// so rows written by earlier deployments of the application keep verifying.
package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations matches the werkzeug default for pbkdf2:sha256.
	DefaultIterations = 600000
	// SaltLength is the number of salt characters generated per hash.
	SaltLength = 16

	kdfName   = "pbkdf2"
	hashName  = "sha256"
	saltChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Hasher produces salted pbkdf2 hashes. The zero value uses DefaultIterations.
type Hasher struct {
	Iterations int
}

// NewHasher returns a Hasher using the given iteration count, or the default
// when iterations is not positive.
func NewHasher(iterations int) *Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &Hasher{Iterations: iterations}
}

// Hash returns the encoded hash of secret with a fresh random salt.
// Two calls with the same secret never return the same value.
func (h *Hasher) Hash(secret string) (string, error) {
	iterations := h.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	salt, err := genSalt(SaltLength)
	if err != nil {
		return "", fmt.Errorf("salt generation error: %w", err)
	}

	digest := derive(secret, salt, iterations)
	return fmt.Sprintf("%s:%s:%d$%s$%s", kdfName, hashName, iterations, salt, digest), nil
}

// Check reports whether secret matches the encoded hash. A malformed hash is
// reported as common.ErrMalformedHash.
func Check(encoded, secret string) (bool, error) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 {
		return false, common.ErrMalformedHash
	}
	prefix, salt, digest := parts[0], parts[1], parts[2]

	iterations, err := parseMethod(prefix)
	if err != nil {
		return false, err
	}

	candidate := derive(secret, salt, iterations)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(digest)) == 1, nil
}

// parseMethod reads the iteration count from "pbkdf2:sha256:<n>". The count
// is required: hashes that omit it were written under a default that varied
// between werkzeug releases and cannot be verified reliably.
func parseMethod(prefix string) (int, error) {
	fields := strings.Split(prefix, ":")
	if len(fields) != 3 || fields[0] != kdfName || fields[1] != hashName {
		return 0, common.ErrMalformedHash
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil || n <= 0 {
		return 0, common.ErrMalformedHash
	}
	return n, nil
}

func derive(secret, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(secret), []byte(salt), iterations, sha256.Size, sha256.New)
	return hex.EncodeToString(key)
}

func genSalt(n int) (string, error) {
	max := big.NewInt(int64(len(saltChars)))
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(saltChars[idx.Int64()])
	}
	return b.String(), nil
}
