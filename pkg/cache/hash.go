package cache

import (
	"crypto/sha256"
	"encoding/hex"
)

// rosterKey is "<kind>:<sha256 of source>". Hashing keeps URLs with query
// strings and credentials out of file names and redis keys.
func rosterKey(kind, source string) string {
	return kind + ":" + Hash([]byte(source))
}

// Hash is the hex SHA-256 of data. The loader logs a prefix of it so a
// reload can be matched to the bytes that were rendered.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
