package digest

import (
	"reflect"
	"testing"

	"fieldhash.dev/fieldhash/canonical"
)

func TestSumKnownVectors(t *testing.T) {
	cases := []struct {
		alg  string
		want string
	}{
		{SHA2_256, "ungWv48Bz+pBQUDeXa4iI7ADYaOWF3qctBD/YfIAFa0="},
		{SHA2_512, "3a81oZNherrMQXNJriBBMRLm+k6JqX6iCp7u5ktV05ohkpkqJ0/BqDa6PCOj/uu9RU1EI2Q86A4qmslPpUyknw=="},
		{SHA3_256, "Ophdp0/iJbIEXBcta9OQvYVfCG4+nVJbRr/iRRFDFTI="},
		{SHA3_512, "t1GFCxpXFopWk82SS2sJbgj2IYJ0RPcNiE9dAkDScS4Q4RbpGSrzyRp+xXZH45NAVzQLTPQI1aVlkvgnTuxT8A=="},
		{BLAKE2B256, "vd2BPGNCOXIxce8/7phXm5SWTjuxyz5CcmLIwGjVIxk="},
		{BLAKE3, "ZDezrDhGUTP/tjt1JzqNtUjFWEZdedsD/TWcbNW9nYU="},
	}
	for _, tc := range cases {
		sum, err := Sum(tc.alg, []byte("abc"))
		if err != nil {
			t.Fatalf("Sum(%s): %v", tc.alg, err)
		}
		if got := EncodeText(sum); got != tc.want {
			t.Errorf("%s(abc) = %s, want %s", tc.alg, got, tc.want)
		}
	}
}

func TestSumUnknownAlgorithm(t *testing.T) {
	_, err := Sum("MD9", []byte("abc"))
	if err == nil {
		t.Fatal("expected error for unknown algorithm")
	}
	if !canonical.IsKind(err, canonical.KindAlgorithm) {
		t.Fatalf("err kind = %v", err)
	}
	if canonical.RuleID(err) != "FH-ALG-001" {
		t.Fatalf("rule = %q", canonical.RuleID(err))
	}
}

func TestSupportedSortedAndComplete(t *testing.T) {
	want := []string{BLAKE2B256, BLAKE3, SHA2_256, SHA2_512, SHA3_256, SHA3_512}
	if got := Supported(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Supported() = %v, want %v", got, want)
	}
	for _, id := range want {
		if !Registered(id) {
			t.Errorf("Registered(%s) = false", id)
		}
	}
	if Registered("md5") {
		t.Error("md5 must not be registered")
	}
}

func TestMultihashCodes(t *testing.T) {
	for _, id := range Supported() {
		code, ok := MultihashCode(id)
		if !ok || code == 0 {
			t.Errorf("MultihashCode(%s) = %d, %v", id, code, ok)
		}
	}
	if _, ok := MultihashCode("MD9"); ok {
		t.Error("MultihashCode must reject unknown ids")
	}
}

func TestDefaultIsRegistered(t *testing.T) {
	if !Registered(Default) {
		t.Fatalf("default algorithm %q is not registered", Default)
	}
}
