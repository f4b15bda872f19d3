package sessionstore

import (
	"crypto/rand"
	"encoding/base64"
)

const (
	keyBytes  = 32 // 256 bits of entropy
	maxKeyLen = 128
)

// GenerateKey returns a fresh, unguessable, URL-safe session key.
// The key carries no structure: no timestamp, counter or content hash.
func GenerateKey() string {
	b := make([]byte, keyBytes)
	// crypto/rand.Read never returns an error on supported platforms.
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

// ValidKey reports whether key is safe to use as a file name stem.
// Only the base64 raw-URL alphabet is accepted, which rules out path separators
// and dot segments.
func ValidKey(key string) bool {
	if len(key) == 0 || len(key) > maxKeyLen {
		return false
	}
	for i := 0; i < len(key); i++ {
		c := key[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
