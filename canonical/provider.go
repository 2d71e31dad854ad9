package canonical

// Field identifies one selected field of a type.
//
// Order is the field's order key. Order keys need not be contiguous or
// unique; providers must present fields in a stable sort by order key with
// ties broken by declaration order.
type Field struct {
	Name  string
	Order int
}

// Provider supplies per-type field selections and field reads.
//
// Contract:
//   - Fields MUST return the same selection, in the same order, for every
//     value of the same runtime type. A nil selection means the type has no
//     selected fields and canonicalizes to an empty map.
//   - Read MUST return nil for an absent value, never a typed placeholder.
//   - Read failures are surfaced to the caller as Schema-kind errors; a
//     partial read would corrupt the hash contract.
//   - Both methods MUST be safe for concurrent use with read-only values.
type Provider interface {
	Fields(v any) []Field
	Read(v any, f Field) (any, error)
}

// Encoder turns a canonical tree into deterministic bytes.
//
// Contract:
//   - Encoding MUST be deterministic: equal trees yield identical bytes.
//   - Map entry order and List element order MUST be preserved exactly.
//   - Non-finite floats MUST be rejected with an Encode-kind error.
type Encoder interface {
	Encode(n Node) ([]byte, error)
}
