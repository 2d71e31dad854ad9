package hashing

import (
	"sync"
	"testing"

	"fieldhash.dev/fieldhash/canonpack"
)

// Hashing the same value must yield the same text every time, across
// pipeline instances and across goroutines.

func TestHashRepeatable(t *testing.T) {
	h := New(newTestRegistry())
	v := clan{Name: "Parent", Age: 40, Children: []kin{
		{Name: "Child1", Age: 12},
		{Name: "Child2", Age: 8},
	}}
	first, err := h.HashDefault(v)
	if err != nil {
		t.Fatalf("HashDefault: %v", err)
	}
	for i := 0; i < 100; i++ {
		got, err := h.HashDefault(v)
		if err != nil {
			t.Fatalf("HashDefault #%d: %v", i, err)
		}
		if got != first {
			t.Fatalf("run %d produced %s, first run produced %s", i, got, first)
		}
	}
}

func TestHashStableAcrossInstances(t *testing.T) {
	v := person{Name: "John Doe", Age: 30}
	a, err := New(newTestRegistry()).HashDefault(v)
	if err != nil {
		t.Fatalf("HashDefault: %v", err)
	}
	b, err := New(newTestRegistry()).HashDefault(v)
	if err != nil {
		t.Fatalf("HashDefault: %v", err)
	}
	if a != b {
		t.Fatalf("fresh pipelines disagree: %s vs %s", a, b)
	}
}

func TestHashConcurrent(t *testing.T) {
	h := New(newTestRegistry())
	v := kin{Name: "Parent", Age: 40, Child: &kin{Name: "Child", Age: 12}}
	want, err := h.HashDefault(v)
	if err != nil {
		t.Fatalf("HashDefault: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				got, err := h.HashDefault(v)
				if err != nil {
					errs <- err
					return
				}
				if got != want {
					errs <- errMismatch{got, want}
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

type errMismatch struct {
	got, want string
}

func (e errMismatch) Error() string {
	return "concurrent hash " + e.got + " != " + e.want
}

func TestMessagePackEncoderRepeatable(t *testing.T) {
	h := New(newTestRegistry(), WithEncoder(canonpack.New()))
	v := clan{Name: "Parent", Age: 40, Children: []kin{{Name: "Child1", Age: 12}}}
	first, err := h.HashDefault(v)
	if err != nil {
		t.Fatalf("HashDefault: %v", err)
	}
	for i := 0; i < 100; i++ {
		got, err := h.HashDefault(v)
		if err != nil {
			t.Fatalf("HashDefault #%d: %v", i, err)
		}
		if got != first {
			t.Fatalf("run %d produced %s, first run produced %s", i, got, first)
		}
	}
}
