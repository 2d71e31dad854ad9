// Package storage persists canonical encodings produced by the hash
// pipeline, addressed by CID, so published digests can be re-verified
// offline against the exact bytes that were hashed.
package storage

import "github.com/ipfs/go-cid"

// Store is a content-addressed store of canonical bytes.
//
// Contract:
// - Put MUST be idempotent.
// - Stored objects MUST be immutable.
// - CIDs MUST be derived from the bytes written (callers supply canonical bytes).
// - Get MUST return ErrNotFound when the CID is absent.
type Store interface {
	Put(canonicalBytes []byte) (cid.Cid, error)
	Get(id cid.Cid) ([]byte, error)
	Has(id cid.Cid) bool
}
