package canonical

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"
)

// DefaultMaxDepth bounds recursion for Canonicalize when no option overrides
// it. Cyclic object graphs are outside the termination contract; the guard
// turns unbounded recursion into an error instead of a stack overflow.
const DefaultMaxDepth = 1000

// Options controls canonicalization behavior.
type Options struct {
	MaxDepth int
}

// Option mutates Options.
type Option func(*Options)

// WithMaxDepth overrides the recursion depth guard.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// Canonicalize is the mandatory canonicalization choke point.
//
// It walks v using the provider's field selection and produces the ordered,
// null-pruned canonical tree: absent fields are omitted entirely, slices and
// arrays become Lists in iteration order, scalar kinds become Scalars, and
// anything else recurses as a nested value.
//
// An absent root yields an empty map, not an error. The walk is a pure
// function of (v, selection): no side effects, no shared state.
func Canonicalize(v any, p Provider, opts ...Option) (*Map, error) {
	o := Options{MaxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return canonicalizeValue(v, p, o.MaxDepth)
}

func canonicalizeValue(v any, p Provider, depth int) (*Map, error) {
	m := NewMap()
	v, present := deref(v)
	if !present {
		return m, nil
	}
	if depth <= 0 {
		return nil, NewError(KindCanonical, "FH-CANON-003", "max canonicalization depth exceeded (cyclic value?)")
	}
	for _, f := range p.Fields(v) {
		fv, err := p.Read(v, f)
		if err != nil {
			return nil, asSchemaErr(f, err)
		}
		node, present, err := canonicalizeField(fv, p, depth-1)
		if err != nil {
			return nil, err
		}
		if !present {
			continue
		}
		m.Set(f.Name, node)
	}
	return m, nil
}

// canonicalizeField classifies a field value: absent, scalar, collection or
// nested complex value. The second return is false when the value is absent.
func canonicalizeField(v any, p Provider, depth int) (Node, bool, error) {
	v, present := deref(v)
	if !present {
		return nil, false, nil
	}
	if s, ok := asScalar(v); ok {
		return s, true, nil
	}
	if depth <= 0 {
		return nil, false, NewError(KindCanonical, "FH-CANON-003", "max canonicalization depth exceeded (cyclic value?)")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		list := make(List, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, present, err := canonicalizeField(rv.Index(i).Interface(), p, depth-1)
			if err != nil {
				return nil, false, err
			}
			// Absent elements are skipped, not replaced with placeholders.
			if !present {
				continue
			}
			list = append(list, item)
		}
		return list, true, nil
	}

	m, err := canonicalizeValue(v, p, depth)
	if err != nil {
		return nil, false, err
	}
	return m, true, nil
}

// deref resolves pointers and interface indirection and reports presence.
// nil values, nil pointers, and nil slices/maps are absent.
func deref(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		if rv.IsNil() {
			return nil, false
		}
	}
	return rv.Interface(), true
}

// asScalar maps registered scalar kinds onto Scalar nodes. []byte is a
// scalar carrying the standard Base64 of the bytes.
func asScalar(v any) (Scalar, bool) {
	switch x := v.(type) {
	case string:
		return String(x), true
	case bool:
		return Bool(x), true
	case int:
		return Int(int64(x)), true
	case int8:
		return Int(int64(x)), true
	case int16:
		return Int(int64(x)), true
	case int32:
		return Int(int64(x)), true
	case int64:
		return Int(x), true
	case uint:
		return Uint(uint64(x)), true
	case uint8:
		return Uint(uint64(x)), true
	case uint16:
		return Uint(uint64(x)), true
	case uint32:
		return Uint(uint64(x)), true
	case uint64:
		return Uint(x), true
	case float32:
		return Float(float64(x)), true
	case float64:
		return Float(x), true
	case time.Time:
		return Time(x), true
	case json.Number:
		return Number(x.String()), true
	case []byte:
		return String(base64.StdEncoding.EncodeToString(x)), true
	}
	return Scalar{}, false
}

func asSchemaErr(f Field, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return WrapError(KindSchema, "FH-SCHEMA-001", fmt.Sprintf("reading field %q", f.Name), err)
}
