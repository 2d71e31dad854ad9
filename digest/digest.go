// Package digest holds the fixed registry of digest algorithms usable by
// the hash pipeline.
//
// The registry is immutable for the process lifetime and never empty.
// Identifiers follow the multihash naming convention, and every entry
// carries its multihash code so canonical bytes can also be addressed as
// CIDs.
package digest

import (
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"hash"
	"sort"

	"github.com/multiformats/go-multihash"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
	"lukechampine.com/blake3"

	"fieldhash.dev/fieldhash/canonical"
)

// Registered algorithm identifiers.
const (
	SHA2_256   = "sha2-256"
	SHA2_512   = "sha2-512"
	SHA3_256   = "sha3-256"
	SHA3_512   = "sha3-512"
	BLAKE2B256 = "blake2b-256"
	BLAKE3     = "blake3"
)

// Default is the process-wide default algorithm.
const Default = SHA2_256

type algorithm struct {
	id      string
	mhCode  uint64
	newHash func() hash.Hash
}

var algorithms = map[string]algorithm{
	SHA2_256: {SHA2_256, multihash.SHA2_256, sha256.New},
	SHA2_512: {SHA2_512, multihash.SHA2_512, sha512.New},
	SHA3_256: {SHA3_256, multihash.SHA3_256, sha3.New256},
	SHA3_512: {SHA3_512, multihash.SHA3_512, sha3.New512},
	BLAKE2B256: {BLAKE2B256, multihash.BLAKE2B_MIN + 31, func() hash.Hash {
		// blake2b.New256 only fails for oversized keys; unkeyed cannot fail.
		h, _ := blake2b.New256(nil)
		return h
	}},
	BLAKE3: {BLAKE3, multihash.BLAKE3, func() hash.Hash {
		return blake3.New(32, nil)
	}},
}

// Registered reports whether id names a registered algorithm.
func Registered(id string) bool {
	_, ok := algorithms[id]
	return ok
}

// Supported returns the registered identifiers, sorted. The set is stable
// for the process lifetime.
func Supported() []string {
	out := make([]string, 0, len(algorithms))
	for id := range algorithms {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Sum digests data with the named algorithm. An unknown identifier fails
// with an Algorithm-kind error and is never retried.
func Sum(id string, data []byte) ([]byte, error) {
	a, ok := algorithms[id]
	if !ok {
		return nil, canonical.NewError(canonical.KindAlgorithm, "FH-ALG-001",
			fmt.Sprintf("unsupported digest algorithm %q", id))
	}
	h := a.newHash()
	// hash.Hash.Write never fails for these implementations.
	_, _ = h.Write(data)
	return h.Sum(nil), nil
}

// MultihashCode returns the multihash code for id.
func MultihashCode(id string) (uint64, bool) {
	a, ok := algorithms[id]
	if !ok {
		return 0, false
	}
	return a.mhCode, true
}

// EncodeText renders digest bytes as standard Base64 (padded, no wrapping),
// the pipeline's display form.
func EncodeText(sum []byte) string {
	return base64.StdEncoding.EncodeToString(sum)
}
