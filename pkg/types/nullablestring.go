package types

import "encoding/json"

// NullableString is a string that knows whether it was present in the wire
// payload. An empty string with Valid=true is a real (empty) value; Valid=false
// means the field was absent or null.
type NullableString struct {
	Value string
	Valid bool
}

// String returns the value if present, or "" when absent.
func (ns NullableString) String() string {
	if ns.Valid {
		return ns.Value
	}
	return ""
}

// IsNil implements Nullable. An absent field and an empty present value are
// both treated as nil for merge purposes.
func (ns NullableString) IsNil() bool {
	return !ns.Valid || ns.Value == ""
}

// Set assigns a value and marks the field present.
func (ns *NullableString) Set(value string) {
	ns.Value = value
	ns.Valid = true
}

// MarshalJSON emits the value when present, or null.
func (ns NullableString) MarshalJSON() ([]byte, error) {
	if ns.Valid {
		return json.Marshal(ns.Value)
	}
	return json.Marshal(nil)
}

// UnmarshalJSON treats JSON null (or an empty token) as absent.
func (ns *NullableString) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		ns.Value = ""
		ns.Valid = false
		return nil
	}
	ns.Valid = true
	return json.Unmarshal(data, &ns.Value)
}

// StringFrom creates a present NullableString holding s.
func StringFrom(s string) NullableString {
	return NullableString{Value: s, Valid: true}
}

// NullString creates an absent NullableString.
func NullString() NullableString {
	return NullableString{}
}
