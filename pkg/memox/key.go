package memox

import (
	"encoding/hex"
	"encoding/json"

	"golang.org/x/crypto/blake2b"
)

// KeyFunc derives the cache key for an argument. Equal keys share a cache
// entry and an in-flight call.
type KeyFunc[A any] func(A) (string, error)

// HashKey is the default KeyFunc: the JSON encoding of a (map keys sorted),
// hashed with BLAKE2b-256 and hex-encoded.
func HashKey[A any](a A) (string, error) {
	raw, err := json.Marshal(a)
	if err != nil {
		return "", memoxErrors.NewWithCause(ErrKeyFailed, err)
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
