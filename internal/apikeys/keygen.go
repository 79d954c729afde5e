package apikeys

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// KeyPrefix is the structural prefix of every feedhub API key. The format
// check rejects anything else before any I/O happens.
const KeyPrefix = "fh_"

// keyBodyLength is the length of the random base64url body.
const keyBodyLength = 43 // 32 bytes

// GenerateKey returns a new raw API key. Only the HMAC of it is ever
// stored; the raw value is shown to the creating admin once.
func GenerateKey() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating key material: %w", err)
	}
	return KeyPrefix + base64.RawURLEncoding.EncodeToString(buf), nil
}

// ValidFormat reports whether a raw key has the expected shape. Cheap
// structural rejection, not authentication.
func ValidFormat(raw string) bool {
	if !strings.HasPrefix(raw, KeyPrefix) {
		return false
	}
	body := raw[len(KeyPrefix):]
	if len(body) != keyBodyLength {
		return false
	}
	for _, c := range body {
		if !isBase64URLChar(c) {
			return false
		}
	}
	return true
}

// DisplayPrefix returns the part of a key safe to show in listings.
func DisplayPrefix(raw string) string {
	if len(raw) < len(KeyPrefix)+4 {
		return raw
	}
	return raw[:len(KeyPrefix)+4]
}

// HashKey applies the deterministic one-way transform used for storage and
// lookup: HMAC-SHA256 under a server-side secret, hex encoded. Lookup by
// this value is a single indexed query; no stored secret is ever compared
// against the raw key row by row.
func HashKey(secret []byte, raw string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}

func isBase64URLChar(c rune) bool {
	return (c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_'
}
