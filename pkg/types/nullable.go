// Package types provides nullable value types for optional wire fields.
// Snapshot payloads from the server distinguish an absent field from an
// explicit empty value, and the reconciliation merge policy depends on that
// distinction.
package types

// Nullable is implemented by types that can represent an absent value, as
// opposed to a zero value.
type Nullable interface {
	// IsNil reports whether the value is absent.
	IsNil() bool
}
