package canonical

import "errors"

// Kind is a stable category for programmatic error handling.
//
// These categories are intended to remain stable across versions.
// Callers should branch on Kind/RuleID rather than matching error strings.
//
// NOTE: Error() strings are intentionally kept human-readable and may evolve.
// Use errors.As to extract *Error for structured handling.
type Kind string

const (
	// KindAlgorithm marks a request for a digest algorithm that is not in
	// the registry.
	KindAlgorithm Kind = "Algorithm"
	// KindSchema marks a field-access failure reported by a schema
	// provider. A partial canonical tree would silently corrupt the hash
	// contract, so these are never recovered.
	KindSchema Kind = "Schema"
	// KindCanonical marks a canonicalization failure, such as exhausting
	// the recursion depth guard.
	KindCanonical Kind = "Canonical"
	// KindEncode marks a canonical-encoder failure, such as a non-finite
	// float or an invalid numeric literal.
	KindEncode Kind = "Encode"
	// KindStore marks a canonical-bytes store failure.
	KindStore Kind = "Store"
)

// Error is the library's structured error type.
//
// RuleID is a stable identifier (e.g., FH-ALG-001, FH-SCHEMA-002) that names
// the violated invariant.
//
// Message is intended for humans; do not match on it.
type Error struct {
	Kind    Kind
	RuleID  string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewError returns a structured error with the given kind and rule ID.
func NewError(kind Kind, ruleID, msg string) error {
	return &Error{Kind: kind, RuleID: ruleID, Message: msg}
}

// WrapError returns a structured error wrapping cause.
func WrapError(kind Kind, ruleID, msg string, cause error) error {
	if cause == nil {
		return NewError(kind, ruleID, msg)
	}
	return &Error{Kind: kind, RuleID: ruleID, Message: msg, Cause: cause}
}

// IsKind reports whether err is (or wraps) a *Error with the given Kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// RuleID returns the stable RuleID for a structured error, or "" if unknown.
func RuleID(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.RuleID
}
