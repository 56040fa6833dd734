package utils

import (
	"crypto/subtle"
	"encoding/hex"
	"hash"
	"sync"

	"golang.org/x/crypto/blake2b"
)

// ContentHasher computes keyed BLAKE2b-256 digests of record payloads. The
// digest travels with every remote operation so the remote can reject a
// payload altered in transit.
//
// Hash instances are pooled; a ContentHasher is safe for concurrent use.
type ContentHasher struct {
	pool sync.Pool
}

// NewContentHasher builds a hasher keyed by hashKey. BLAKE2b accepts keys of
// at most 64 bytes, so longer keys are first reduced with BLAKE2b-512. An
// empty key yields an unkeyed hash.
func NewContentHasher(hashKey string) *ContentHasher {
	key := normalizeHashKey(hashKey)

	h := &ContentHasher{}
	h.pool.New = func() any {
		hasher, err := blake2b.New256(key)
		if err != nil {
			// unreachable: key length is bounded above
			panic(err)
		}
		return hasher
	}
	return h
}

func normalizeHashKey(hashKey string) []byte {
	if len(hashKey) <= blake2b.Size {
		return []byte(hashKey)
	}
	sum := blake2b.Sum512([]byte(hashKey))
	return sum[:]
}

// Hash returns the raw digest of data.
func (c *ContentHasher) Hash(data []byte) []byte {
	h := c.pool.Get().(hash.Hash)
	h.Reset()

	h.Write(data)
	sum := h.Sum(nil)

	h.Reset()
	c.pool.Put(h)

	return sum
}

// HashHex returns the hex-encoded digest of data.
func (c *ContentHasher) HashHex(data []byte) string {
	return hex.EncodeToString(c.Hash(data))
}

// Verify reports whether hexDigest is the digest of data. The comparison is
// constant-time.
func (c *ContentHasher) Verify(data []byte, hexDigest string) bool {
	want, err := hex.DecodeString(hexDigest)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare(c.Hash(data), want) == 1
}
