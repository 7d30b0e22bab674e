package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

const codeBytes = 4

// CodeGenerator produces candidate short codes.
type CodeGenerator func() (string, error)

// RandomCode returns 4 random bytes hex-encoded, 8 characters long.
func RandomCode() (string, error) {
	b := make([]byte, codeBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}

	return hex.EncodeToString(b), nil
}

func validCode(code string) bool {
	if code == "" || strings.ContainsRune(code, '/') {
		return false
	}
	// dot segments are cleaned out of request paths
	if code == "." || code == ".." {
		return false
	}
	for _, r := range code {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
