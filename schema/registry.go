// Package schema provides the statically registered field-schema provider
// for Go types.
//
// Hashable types are registered explicitly with named, order-keyed getter
// closures. There is no struct-tag or field reflection: the registry is the
// single source of truth for which fields participate in hashing and in
// what order.
package schema

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"fieldhash.dev/fieldhash/canonical"
)

// FieldSpec declares one hashable field of a registered type.
//
// Get receives the registered type's value and returns the field's current
// value, or nil when the field is absent.
type FieldSpec struct {
	Name  string
	Order int
	Get   func(v any) any
}

type typeEntry struct {
	typ     reflect.Type
	fields  []FieldSpec // stable-sorted by Order, ties keep declaration order
	parent  reflect.Type
	project func(v any) any
}

// RegisterOption configures a type registration.
type RegisterOption func(*typeEntry)

// WithParent declares an ancestor registration whose fields are appended
// after the type's own fields. project maps a child value to the ancestor
// value (typically returning an embedded struct). Each ancestor level keeps
// its own independent order-key sort.
func WithParent(parentSample any, project func(v any) any) RegisterOption {
	return func(e *typeEntry) {
		e.parent = indirectType(parentSample)
		e.project = project
	}
}

// Registry maps runtime types to their field selections. Registrations are
// expected at init time; reads are safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[reflect.Type]*typeEntry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[reflect.Type]*typeEntry)}
}

// Default is the process-wide registry used by the package-level hashing
// conveniences.
var Default = NewRegistry()

// Register declares the field selection for sample's type on the default
// registry.
func Register(sample any, fields []FieldSpec, opts ...RegisterOption) {
	Default.Register(sample, fields, opts...)
}

// Register declares the field selection for sample's type. Fields are
// stable-sorted by order key at registration time, so repeated
// canonicalization always visits them in the same sequence regardless of
// declaration order. Re-registering a type replaces its selection.
//
// Register panics on an empty field name or a nil getter; both are
// programming errors that would silently corrupt hashes.
func (r *Registry) Register(sample any, fields []FieldSpec, opts ...RegisterOption) {
	t := indirectType(sample)
	e := &typeEntry{typ: t, fields: append([]FieldSpec(nil), fields...)}
	for i, f := range e.fields {
		if f.Name == "" {
			panic(fmt.Sprintf("schema: field %d of %s has empty name", i, t))
		}
		if f.Get == nil {
			panic(fmt.Sprintf("schema: field %q of %s has nil getter", f.Name, t))
		}
	}
	sort.SliceStable(e.fields, func(i, j int) bool {
		return e.fields[i].Order < e.fields[j].Order
	})
	for _, opt := range opts {
		opt(e)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t] = e
}

// Fields implements canonical.Provider. The selection is the type's own
// sorted fields followed by each ancestor's own sorted fields, ancestors
// nearest-first.
func (r *Registry) Fields(v any) []canonical.Field {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []canonical.Field
	for e := r.lookup(indirectType(v)); e != nil; e = r.lookupParent(e) {
		for _, f := range e.fields {
			out = append(out, canonical.Field{Name: f.Name, Order: f.Order})
		}
	}
	return out
}

// Read implements canonical.Provider. The receiver value is projected along
// the ancestor chain until the level declaring the field is found.
func (r *Registry) Read(v any, f canonical.Field) (any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t := indirectType(v)
	e := r.lookup(t)
	if e == nil {
		return nil, canonical.NewError(canonical.KindSchema, "FH-SCHEMA-003",
			fmt.Sprintf("type %s is not registered", t))
	}
	recv := v
	for ; e != nil; e = r.lookupParent(e) {
		if !matchesType(recv, e.typ) {
			return nil, canonical.NewError(canonical.KindSchema, "FH-SCHEMA-002",
				fmt.Sprintf("field %q of %s read against %T", f.Name, e.typ, recv))
		}
		for _, fs := range e.fields {
			if fs.Name == f.Name && fs.Order == f.Order {
				return fs.Get(recv), nil
			}
		}
		if e.project != nil {
			recv = e.project(recv)
		}
	}
	return nil, canonical.NewError(canonical.KindSchema, "FH-SCHEMA-001",
		fmt.Sprintf("field %q is not declared for %s", f.Name, t))
}

func (r *Registry) lookup(t reflect.Type) *typeEntry {
	return r.types[t]
}

func (r *Registry) lookupParent(e *typeEntry) *typeEntry {
	if e.parent == nil {
		return nil
	}
	return r.types[e.parent]
}

func matchesType(v any, t reflect.Type) bool {
	return indirectType(v) == t
}

func indirectType(v any) reflect.Type {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}
