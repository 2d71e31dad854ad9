// Package hashing is the hash pipeline: canonicalize a value, encode the
// canonical tree deterministically, digest the bytes, and render the digest
// as standard Base64 text.
//
// The central guarantee: for two values of the same type, equal canonical
// trees yield equal hash text under the same algorithm and encoder. Hashes
// are not comparable across different canonical encoders.
package hashing

import (
	"github.com/ipfs/go-cid"

	"fieldhash.dev/fieldhash/canonical"
	"fieldhash.dev/fieldhash/canonjson"
	"fieldhash.dev/fieldhash/cidutil"
	"fieldhash.dev/fieldhash/digest"
	"fieldhash.dev/fieldhash/schema"
)

// DefaultAlgorithm is the algorithm used by HashDefault.
const DefaultAlgorithm = digest.Default

// Hasher binds a field-schema provider and a canonical encoder into a
// reusable pipeline. A Hasher is immutable and safe for concurrent use
// provided the provider is.
type Hasher struct {
	provider canonical.Provider
	encoder  canonical.Encoder
	maxDepth int
}

// Option configures a Hasher.
type Option func(*Hasher)

// WithEncoder replaces the canonical JSON encoder.
func WithEncoder(e canonical.Encoder) Option {
	return func(h *Hasher) { h.encoder = e }
}

// WithMaxDepth overrides the canonicalization depth guard.
func WithMaxDepth(n int) Option {
	return func(h *Hasher) { h.maxDepth = n }
}

// New returns a Hasher reading field selections from p, encoding with
// canonical JSON unless overridden.
func New(p canonical.Provider, opts ...Option) *Hasher {
	h := &Hasher{provider: p, encoder: canonjson.New(), maxDepth: canonical.DefaultMaxDepth}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Hash digests v with the named algorithm and returns the Base64 text.
//
// The algorithm is resolved first: an unknown identifier fails before any
// canonicalization work. An absent v still yields a valid hash (of the
// empty canonical map).
func (h *Hasher) Hash(v any, algID string) (string, error) {
	if !digest.Registered(algID) {
		return "", canonical.NewError(canonical.KindAlgorithm, "FH-ALG-001",
			"unsupported digest algorithm "+algID)
	}
	b, err := h.CanonicalBytes(v)
	if err != nil {
		return "", err
	}
	sum, err := digest.Sum(algID, b)
	if err != nil {
		return "", err
	}
	return digest.EncodeText(sum), nil
}

// HashDefault digests v with the process default algorithm.
func (h *Hasher) HashDefault(v any) (string, error) {
	return h.Hash(v, DefaultAlgorithm)
}

// HashCID returns a CIDv1 (raw codec) addressing v's canonical bytes,
// digested with the named algorithm.
func (h *Hasher) HashCID(v any, algID string) (cid.Cid, error) {
	if !digest.Registered(algID) {
		return cid.Undef, canonical.NewError(canonical.KindAlgorithm, "FH-ALG-001",
			"unsupported digest algorithm "+algID)
	}
	b, err := h.CanonicalBytes(v)
	if err != nil {
		return cid.Undef, err
	}
	return cidutil.CIDv1Raw(algID, b)
}

// CanonicalBytes canonicalizes v and encodes the tree. The bytes are the
// exact digest input, suitable for storing alongside the hash for offline
// re-verification.
func (h *Hasher) CanonicalBytes(v any) ([]byte, error) {
	tree, err := canonical.Canonicalize(v, h.provider, canonical.WithMaxDepth(h.maxDepth))
	if err != nil {
		return nil, err
	}
	return h.encoder.Encode(tree)
}

// SupportedAlgorithms returns the registered algorithm identifiers, sorted.
// The set is non-empty and stable for the process lifetime.
func SupportedAlgorithms() []string {
	return digest.Supported()
}

var defaultHasher = New(schema.Default)

// Hash digests v with the named algorithm using the default schema registry.
func Hash(v any, algID string) (string, error) {
	return defaultHasher.Hash(v, algID)
}

// HashDefault digests v with the default algorithm using the default schema
// registry.
func HashDefault(v any) (string, error) {
	return defaultHasher.HashDefault(v)
}
