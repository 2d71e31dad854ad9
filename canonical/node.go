// Package canonical implements the canonical intermediate representation of
// a hashed value and the canonicalizer that produces it.
//
// A canonical tree is a deterministic projection of a value's selected
// fields, independent of the value's in-memory layout. Trees are built fresh
// per call and carry no state beyond that call.
package canonical

import "time"

// Node is a canonical tree node: Scalar, *Map or List.
//
// The union is closed. Null is never materialized; absent values are pruned
// during canonicalization instead of being represented.
type Node interface {
	nodeKind() nodeKind
}

type nodeKind uint8

const (
	kindScalar nodeKind = iota + 1
	kindMap
	kindList
)

// ScalarKind discriminates the scalar payload of a Scalar node.
type ScalarKind uint8

const (
	ScalarString ScalarKind = iota + 1
	ScalarBool
	ScalarInt
	ScalarUint
	ScalarFloat
	ScalarTime
	// ScalarNumber carries a numeric literal verbatim, so that numbers
	// decoded from a textual document survive canonical encoding
	// byte-identically. The literal must satisfy the JSON number grammar.
	ScalarNumber
)

// Scalar is a leaf value. Exactly one payload field is meaningful, selected
// by Kind.
type Scalar struct {
	Kind ScalarKind

	Str   string // ScalarString, ScalarNumber
	Bool  bool
	Int   int64
	Uint  uint64
	Float float64
	Time  time.Time
}

func (Scalar) nodeKind() nodeKind { return kindScalar }

// String returns a string scalar.
func String(v string) Scalar { return Scalar{Kind: ScalarString, Str: v} }

// Bool returns a boolean scalar.
func Bool(v bool) Scalar { return Scalar{Kind: ScalarBool, Bool: v} }

// Int returns a signed integer scalar.
func Int(v int64) Scalar { return Scalar{Kind: ScalarInt, Int: v} }

// Uint returns an unsigned integer scalar.
func Uint(v uint64) Scalar { return Scalar{Kind: ScalarUint, Uint: v} }

// Float returns a floating-point scalar. Non-finite values are representable
// here but are rejected by the canonical encoders.
func Float(v float64) Scalar { return Scalar{Kind: ScalarFloat, Float: v} }

// Time returns a date/time scalar. Encoders render it as RFC 3339 with
// nanoseconds, normalized to UTC.
func Time(v time.Time) Scalar { return Scalar{Kind: ScalarTime, Time: v} }

// Number returns a numeric-literal scalar. The literal is carried verbatim;
// encoders validate it against the JSON number grammar.
func Number(literal string) Scalar { return Scalar{Kind: ScalarNumber, Str: literal} }

// MapEntry is one named entry of a Map.
type MapEntry struct {
	Name  string
	Value Node
}

// Map is an ordered field map. Entry order is insertion order, which the
// canonicalizer makes equal to field-selection order.
type Map struct {
	entries []MapEntry
	index   map[string]int
}

// NewMap returns an empty ordered map.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Set inserts or overwrites an entry. Overwriting keeps the entry's original
// position; this mirrors the selection rule that an ancestor field sharing a
// descendant field's name replaces the value but not the slot.
func (m *Map) Set(name string, v Node) {
	if i, ok := m.index[name]; ok {
		m.entries[i].Value = v
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Name: name, Value: v})
}

// Get returns the entry named name.
func (m *Map) Get(name string) (Node, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// Entries returns the entries in insertion order. The slice is shared; do
// not mutate it.
func (m *Map) Entries() []MapEntry { return m.entries }

func (*Map) nodeKind() nodeKind { return kindMap }

// List is an ordered sequence of nodes. Order is the source collection's
// iteration order and is never re-sorted.
type List []Node

func (List) nodeKind() nodeKind { return kindList }

// Equal reports structural equality of two canonical trees.
//
// Two trees are equal when they have the same shape, the same entry names in
// the same order, and equal scalars. Time scalars compare by instant.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case Scalar:
		y, ok := b.(Scalar)
		if !ok || x.Kind != y.Kind {
			return false
		}
		switch x.Kind {
		case ScalarString, ScalarNumber:
			return x.Str == y.Str
		case ScalarBool:
			return x.Bool == y.Bool
		case ScalarInt:
			return x.Int == y.Int
		case ScalarUint:
			return x.Uint == y.Uint
		case ScalarFloat:
			return x.Float == y.Float
		case ScalarTime:
			return x.Time.Equal(y.Time)
		}
		return false
	case *Map:
		y, ok := b.(*Map)
		if !ok || x.Len() != y.Len() {
			return false
		}
		ye := y.Entries()
		for i, e := range x.Entries() {
			if e.Name != ye[i].Name || !Equal(e.Value, ye[i].Value) {
				return false
			}
		}
		return true
	case List:
		y, ok := b.(List)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	return false
}
