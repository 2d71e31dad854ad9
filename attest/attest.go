// Package attest produces and verifies detached signatures over hash text.
//
// A signer vouches for a digest (for example before publishing it next to
// the hashed object). Keys and signatures travel as "<alg>:<base64>" text.
// Supported algorithms: ed25519 and dilithium3. The signed message is a
// domain-separated SHA3-256 of the hash text, so signatures over fieldhash
// digests cannot collide with other uses of the same key.
package attest

import (
	"crypto/ed25519"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"
)

const (
	AlgEd25519    = "ed25519"
	AlgDilithium3 = "dilithium3"
)

var (
	ErrBadKey       = errors.New("attest: malformed signer key")
	ErrBadSignature = errors.New("attest: malformed signature")
	ErrAlgMismatch  = errors.New("attest: key and signature algorithms differ")
	ErrVerify       = errors.New("attest: signature verification failed")
)

const prehashDomain = "fieldhash-attest-v1"

// prehash returns the domain-separated message that is actually signed.
func prehash(hashText string) []byte {
	h := sha3.New256()
	_, _ = h.Write([]byte(prehashDomain))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(hashText))
	return h.Sum(nil)
}

// KeyText renders a public key in the "<alg>:<base64>" transport form.
func KeyText(alg string, pub []byte) string {
	return alg + ":" + base64.StdEncoding.EncodeToString(pub)
}

// Ed25519KeyText renders an ed25519 public key.
func Ed25519KeyText(pub ed25519.PublicKey) string {
	return KeyText(AlgEd25519, pub)
}

// Dilithium3KeyText renders a dilithium3 public key.
func Dilithium3KeyText(pub *mode3.PublicKey) (string, error) {
	raw, err := pub.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("attest: marshaling dilithium3 key: %w", err)
	}
	return KeyText(AlgDilithium3, raw), nil
}

// SignEd25519 signs hashText and returns an "ed25519:<base64>" signature.
func SignEd25519(hashText string, priv ed25519.PrivateKey) string {
	sig := ed25519.Sign(priv, prehash(hashText))
	return AlgEd25519 + ":" + base64.StdEncoding.EncodeToString(sig)
}

// SignDilithium3 signs hashText and returns a "dilithium3:<base64>"
// signature.
func SignDilithium3(hashText string, priv *mode3.PrivateKey) (string, error) {
	if priv == nil {
		return "", errors.New("attest: missing private key")
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(priv, prehash(hashText), sig)
	return AlgDilithium3 + ":" + base64.StdEncoding.EncodeToString(sig), nil
}

// GenerateDilithium3Keypair returns a fresh dilithium3 keypair.
func GenerateDilithium3Keypair(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}

// Verify checks signature over hashText against signerKey. Both must carry
// the same algorithm tag.
func Verify(hashText, signerKey, signature string) error {
	keyAlg, pub, err := decodePart(signerKey, ErrBadKey)
	if err != nil {
		return err
	}
	sigAlg, sig, err := decodePart(signature, ErrBadSignature)
	if err != nil {
		return err
	}
	if keyAlg != sigAlg {
		return ErrAlgMismatch
	}

	msg := prehash(hashText)
	switch keyAlg {
	case AlgEd25519:
		if len(pub) != ed25519.PublicKeySize {
			return ErrBadKey
		}
		if !ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
			return ErrVerify
		}
		return nil
	case AlgDilithium3:
		var pk mode3.PublicKey
		if err := pk.UnmarshalBinary(pub); err != nil {
			return ErrBadKey
		}
		if !mode3.Verify(&pk, msg, sig) {
			return ErrVerify
		}
		return nil
	default:
		return fmt.Errorf("attest: unsupported signature algorithm %q", keyAlg)
	}
}

func decodePart(s string, malformed error) (string, []byte, error) {
	alg, enc, ok := strings.Cut(s, ":")
	if !ok || alg == "" {
		return "", nil, malformed
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", nil, malformed
	}
	return alg, raw, nil
}
