package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey turns an arbitrary string (typically a request URL) into a
// filename-safe cache key.
func HashKey(arg string) string {
	hasher := sha256.New()
	hasher.Write([]byte(arg))
	return hex.EncodeToString(hasher.Sum(nil))
}
