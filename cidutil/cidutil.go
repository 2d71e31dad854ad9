// Package cidutil derives IPFS-compatible CIDs from canonical bytes.
package cidutil

import (
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"

	"fieldhash.dev/fieldhash/canonical"
	"fieldhash.dev/fieldhash/digest"
)

// CIDv1Raw returns a CIDv1 (raw multicodec) for data, digested with the
// named registry algorithm.
func CIDv1Raw(algID string, data []byte) (cid.Cid, error) {
	code, ok := digest.MultihashCode(algID)
	if !ok {
		return cid.Undef, canonical.NewError(canonical.KindAlgorithm, "FH-ALG-001",
			"unsupported digest algorithm "+algID)
	}
	sum, err := digest.Sum(algID, data)
	if err != nil {
		return cid.Undef, err
	}
	mh, err := multihash.Encode(sum, code)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}

// CIDv1RawSHA256CID returns a CIDv1 (raw + sha2-256) derived from data.
// The canonical-bytes store pins its addressing to this form.
func CIDv1RawSHA256CID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// CIDv1RawSHA256 returns the string form of CIDv1RawSHA256CID.
func CIDv1RawSHA256(data []byte) string {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		// multihash.Sum only errors for invalid inputs; with SHA2_256 and -1 length,
		// this should be unreachable.
		return ""
	}
	return cid.NewCidV1(cid.Raw, sum).String()
}
