// Package canonjson encodes canonical trees as canonical JSON.
//
// The encoding is deterministic byte emission driven entirely by the tree:
// object member order is the map's insertion order, array order is the
// list's order, there is no insignificant whitespace, and string escaping is
// minimal. Two equal trees always encode to identical bytes.
package canonjson

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"

	"fieldhash.dev/fieldhash/canonical"
)

// Encoder implements canonical.Encoder.
type Encoder struct{}

// New returns a canonical JSON encoder.
func New() Encoder { return Encoder{} }

// Encode renders n as canonical JSON.
func (Encoder) Encode(n canonical.Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeNode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(buf *bytes.Buffer, n canonical.Node) error {
	switch x := n.(type) {
	case canonical.Scalar:
		return encodeScalar(buf, x)
	case *canonical.Map:
		buf.WriteByte('{')
		for i, e := range x.Entries() {
			if i > 0 {
				buf.WriteByte(',')
			}
			encodeString(buf, e.Name)
			buf.WriteByte(':')
			if err := encodeNode(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case canonical.List:
		buf.WriteByte('[')
		for i, item := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeNode(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case nil:
		return canonical.NewError(canonical.KindEncode, "FH-ENC-003", "nil canonical node")
	default:
		return canonical.NewError(canonical.KindEncode, "FH-ENC-003",
			fmt.Sprintf("unknown canonical node %T", n))
	}
}

func encodeScalar(buf *bytes.Buffer, s canonical.Scalar) error {
	switch s.Kind {
	case canonical.ScalarString:
		encodeString(buf, s.Str)
		return nil
	case canonical.ScalarBool:
		if s.Bool {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case canonical.ScalarInt:
		buf.WriteString(strconv.FormatInt(s.Int, 10))
		return nil
	case canonical.ScalarUint:
		buf.WriteString(strconv.FormatUint(s.Uint, 10))
		return nil
	case canonical.ScalarFloat:
		if math.IsNaN(s.Float) || math.IsInf(s.Float, 0) {
			return canonical.NewError(canonical.KindEncode, "FH-ENC-002",
				"non-finite float is not encodable")
		}
		// Shortest round-trip form; stable for a given bit pattern.
		buf.WriteString(strconv.FormatFloat(s.Float, 'g', -1, 64))
		return nil
	case canonical.ScalarTime:
		encodeString(buf, s.Time.UTC().Format(timeLayout))
		return nil
	case canonical.ScalarNumber:
		if !validNumberLiteral(s.Str) {
			return canonical.NewError(canonical.KindEncode, "FH-ENC-001",
				fmt.Sprintf("invalid number literal %q", s.Str))
		}
		buf.WriteString(s.Str)
		return nil
	default:
		return canonical.NewError(canonical.KindEncode, "FH-ENC-003",
			fmt.Sprintf("unknown scalar kind %d", s.Kind))
	}
}

// timeLayout is RFC 3339 with nanoseconds; trailing zeros are trimmed, which
// is deterministic for a given instant.
const timeLayout = "2006-01-02T15:04:05.999999999Z07:00"

const hexDigits = "0123456789abcdef"

// encodeString writes a JSON string with minimal escaping: only the quote,
// the backslash and control characters are escaped.
func encodeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= 0x20 && c != '"' && c != '\\' {
			_, size := utf8.DecodeRuneInString(s[i:])
			buf.WriteString(s[i : i+size])
			i += size
			continue
		}
		switch c {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			buf.WriteString(`\u00`)
			buf.WriteByte(hexDigits[c>>4])
			buf.WriteByte(hexDigits[c&0xf])
		}
		i++
	}
	buf.WriteByte('"')
}

// validNumberLiteral checks the JSON number grammar without allocating.
func validNumberLiteral(s string) bool {
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	switch {
	case i < len(s) && s[i] == '0':
		i++
	case i < len(s) && s[i] >= '1' && s[i] <= '9':
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	default:
		return false
	}
	if i < len(s) && s[i] == '.' {
		i++
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		if i >= len(s) || !isDigit(s[i]) {
			return false
		}
		for i < len(s) && isDigit(s[i]) {
			i++
		}
	}
	return i == len(s)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
