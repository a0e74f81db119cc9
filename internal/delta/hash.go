package delta

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hachimi-installer/hachimi-installer/internal/domain"
)

// SHA256Hex returns the lowercase hex SHA-256 of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile streams the file at path through SHA-256.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashEqual compares two hex digests case-insensitively.
func HashEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// Verify returns a *domain.VerificationError when data does not hash to expected.
func Verify(what string, data []byte, expected string) error {
	found := SHA256Hex(data)
	if !HashEqual(found, expected) {
		return &domain.VerificationError{What: what, Expected: strings.ToLower(expected), Found: found}
	}
	return nil
}
