package canonjson

import (
	"math"
	"testing"
	"time"

	"fieldhash.dev/fieldhash/canonical"
)

func encode(t *testing.T, n canonical.Node) string {
	t.Helper()
	b, err := New().Encode(n)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	return string(b)
}

func TestEncodeExactBytes(t *testing.T) {
	child := canonical.NewMap()
	child.Set("name", canonical.String("Child"))
	child.Set("age", canonical.Int(12))

	root := canonical.NewMap()
	root.Set("name", canonical.String("Parent"))
	root.Set("age", canonical.Int(40))
	root.Set("child", child)

	want := `{"name":"Parent","age":40,"child":{"name":"Child","age":12}}`
	if got := encode(t, root); got != want {
		t.Fatalf("Encode = %s, want %s", got, want)
	}
}

func TestEncodeScalars(t *testing.T) {
	cases := []struct {
		name string
		in   canonical.Node
		want string
	}{
		{"string", canonical.String("John Doe"), `"John Doe"`},
		{"bool true", canonical.Bool(true), `true`},
		{"bool false", canonical.Bool(false), `false`},
		{"int", canonical.Int(-42), `-42`},
		{"uint", canonical.Uint(18446744073709551615), `18446744073709551615`},
		{"float int-valued", canonical.Float(30), `30`},
		{"float fraction", canonical.Float(0.25), `0.25`},
		{"number literal", canonical.Number("30"), `30`},
		{"number literal exp", canonical.Number("1.5e-3"), `1.5e-3`},
		{"empty map", canonical.NewMap(), `{}`},
		{"empty list", canonical.List{}, `[]`},
		{"time", canonical.Time(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)), `"2024-05-01T12:30:00Z"`},
		{"time nanos", canonical.Time(time.Date(2024, 5, 1, 12, 30, 0, 500000000, time.UTC)), `"2024-05-01T12:30:00.5Z"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := encode(t, tc.in); got != tc.want {
				t.Fatalf("Encode = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestEncodeTimeNormalizesToUTC(t *testing.T) {
	zone := time.FixedZone("plus2", 2*3600)
	local := canonical.Time(time.Date(2024, 5, 1, 14, 30, 0, 0, zone))
	utc := canonical.Time(time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC))
	if encode(t, local) != encode(t, utc) {
		t.Fatal("same instant must encode identically regardless of zone")
	}
}

func TestEncodeStringEscaping(t *testing.T) {
	m := canonical.NewMap()
	m.Set("note", canonical.String("line1\nline2 \"q\" \\ \x01"))
	want := "{\"note\":\"line1\\nline2 \\\"q\\\" \\\\ \\u0001\"}"
	if got := encode(t, m); got != want {
		t.Fatalf("Encode = %s, want %s", got, want)
	}

	// Non-ASCII passes through unescaped as UTF-8.
	if got := encode(t, canonical.String("héllo ✓")); got != `"héllo ✓"` {
		t.Fatalf("Encode = %s", got)
	}
}

func TestEncodeRejectsNonFinite(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := New().Encode(canonical.Float(f))
		if err == nil {
			t.Fatalf("Encode(%v) must fail", f)
		}
		if !canonical.IsKind(err, canonical.KindEncode) {
			t.Fatalf("err = %v, want Encode kind", err)
		}
		if canonical.RuleID(err) != "FH-ENC-002" {
			t.Fatalf("RuleID = %q", canonical.RuleID(err))
		}
	}
}

func TestEncodeRejectsInvalidNumberLiteral(t *testing.T) {
	for _, lit := range []string{"", "01", "+1", "1.", ".5", "1e", "1e+", "abc", "1 "} {
		_, err := New().Encode(canonical.Number(lit))
		if err == nil {
			t.Fatalf("Encode(Number(%q)) must fail", lit)
		}
		if canonical.RuleID(err) != "FH-ENC-001" {
			t.Fatalf("RuleID = %q for %q", canonical.RuleID(err), lit)
		}
	}
	for _, lit := range []string{"0", "-0.5", "10", "1e9", "1.25E-3"} {
		if _, err := New().Encode(canonical.Number(lit)); err != nil {
			t.Fatalf("Encode(Number(%q)): %v", lit, err)
		}
	}
}

func TestEncodeDeterministic(t *testing.T) {
	m := canonical.NewMap()
	m.Set("a", canonical.List{canonical.Int(1), canonical.String("x")})
	m.Set("b", canonical.Float(0.1))
	one := encode(t, m)
	two := encode(t, m)
	if one != two {
		t.Fatalf("encoding not deterministic: %s vs %s", one, two)
	}
}
