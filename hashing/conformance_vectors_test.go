package hashing

import (
	"testing"

	"fieldhash.dev/fieldhash/digest"
)

// Fixed expected outputs for the canonical JSON encoding of
// {"name":"John Doe","age":30}. Anything that shifts the canonical bytes
// (member order, number formatting, escaping) breaks these.
func TestHashVectorsAcrossAlgorithms(t *testing.T) {
	h := New(newTestRegistry())
	v := person{Name: "John Doe", Age: 30}

	cases := []struct {
		alg  string
		want string
	}{
		{digest.SHA2_256, "68MhDYWaHp32aTr3UL3wy805NKvTT+JZQlGWeMqvt68="},
		{digest.SHA2_512, "e6xqqbp6orPHAKKTjtS9QhI8xqbYYTng1baxzrlQ6QFptMXHvB7f4+zwRJQh+ps2xJwvp7qa2QZeCgq8AnJg8A=="},
		{digest.SHA3_256, "apTbdcyhzPyJvfmJPr97IRFb/WZmcPzLjyFObrNDQTc="},
	}
	for _, tc := range cases {
		got, err := h.Hash(v, tc.alg)
		if err != nil {
			t.Fatalf("Hash(%s): %v", tc.alg, err)
		}
		if got != tc.want {
			t.Errorf("%s hash = %s, want %s", tc.alg, got, tc.want)
		}
	}
}

func TestHashVectorEmptyDocument(t *testing.T) {
	h := New(newTestRegistry())
	b, err := h.CanonicalBytes(nil)
	if err != nil {
		t.Fatalf("CanonicalBytes(nil): %v", err)
	}
	if string(b) != "{}" {
		t.Fatalf("canonical bytes = %q, want {}", b)
	}
	got, err := h.HashDefault(nil)
	if err != nil {
		t.Fatalf("HashDefault(nil): %v", err)
	}
	if got != hashEmptyMap {
		t.Fatalf("hash = %s, want %s", got, hashEmptyMap)
	}
}
