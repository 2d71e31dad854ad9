// Package canonpack encodes canonical trees as MessagePack.
//
// It drives the msgpack encoder directly from the tree, so member and
// element order are preserved exactly and the output is deterministic. The
// binary form is an alternative to canonjson for size-sensitive callers;
// hashes are not comparable across the two encoders.
package canonpack

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"fieldhash.dev/fieldhash/canonical"
)

// Encoder implements canonical.Encoder.
type Encoder struct{}

// New returns a canonical MessagePack encoder.
func New() Encoder { return Encoder{} }

// Encode renders n as deterministic MessagePack.
func (Encoder) Encode(n canonical.Node) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := encodeNode(enc, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(enc *msgpack.Encoder, n canonical.Node) error {
	switch x := n.(type) {
	case canonical.Scalar:
		return encodeScalar(enc, x)
	case *canonical.Map:
		if err := enc.EncodeMapLen(x.Len()); err != nil {
			return err
		}
		for _, e := range x.Entries() {
			if err := enc.EncodeString(e.Name); err != nil {
				return err
			}
			if err := encodeNode(enc, e.Value); err != nil {
				return err
			}
		}
		return nil
	case canonical.List:
		if err := enc.EncodeArrayLen(len(x)); err != nil {
			return err
		}
		for _, item := range x {
			if err := encodeNode(enc, item); err != nil {
				return err
			}
		}
		return nil
	default:
		return canonical.NewError(canonical.KindEncode, "FH-ENC-003",
			fmt.Sprintf("unknown canonical node %T", n))
	}
}

func encodeScalar(enc *msgpack.Encoder, s canonical.Scalar) error {
	switch s.Kind {
	case canonical.ScalarString:
		return enc.EncodeString(s.Str)
	case canonical.ScalarBool:
		return enc.EncodeBool(s.Bool)
	case canonical.ScalarInt:
		return enc.EncodeInt(s.Int)
	case canonical.ScalarUint:
		return enc.EncodeUint(s.Uint)
	case canonical.ScalarFloat:
		if math.IsNaN(s.Float) || math.IsInf(s.Float, 0) {
			return canonical.NewError(canonical.KindEncode, "FH-ENC-002",
				"non-finite float is not encodable")
		}
		return enc.EncodeFloat64(s.Float)
	case canonical.ScalarTime:
		// Same textual form as canonjson, so the two encoders agree on
		// what a time value is even though their bytes differ.
		return enc.EncodeString(s.Time.UTC().Format("2006-01-02T15:04:05.999999999Z07:00"))
	case canonical.ScalarNumber:
		return encodeNumber(enc, s.Str)
	default:
		return canonical.NewError(canonical.KindEncode, "FH-ENC-003",
			fmt.Sprintf("unknown scalar kind %d", s.Kind))
	}
}

// encodeNumber maps a numeric literal to the narrowest msgpack scalar that
// holds it exactly: int64, then uint64, then float64.
func encodeNumber(enc *msgpack.Encoder, literal string) error {
	if i, err := strconv.ParseInt(literal, 10, 64); err == nil {
		return enc.EncodeInt(i)
	}
	if u, err := strconv.ParseUint(literal, 10, 64); err == nil {
		return enc.EncodeUint(u)
	}
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return canonical.WrapError(canonical.KindEncode, "FH-ENC-001",
			fmt.Sprintf("invalid number literal %q", literal), err)
	}
	return enc.EncodeFloat64(f)
}
