// Package uuid wraps github.com/google/uuid with UUIDv7 (time-ordered) as the
// default version. Request correlation IDs and generated custom session ids
// use v7 so they sort by creation time.
package uuid

import (
	"github.com/google/uuid"
)

// UUID is aliased from github.com/google/uuid.UUID.
type UUID = uuid.UUID

// Nil is the zero UUID.
var Nil = uuid.Nil

// New returns a new random UUIDv7. Panics if generation fails.
func New() UUID {
	uuidv7, err := uuid.NewV7()
	if err != nil {
		panic(err)
	}
	return uuidv7
}

// NewString returns the string form of a new UUIDv7.
func NewString() string {
	return New().String()
}

// Parse parses a UUID string. Returns an error if the string is not a valid UUID.
func Parse(s string) (UUID, error) {
	return uuid.Parse(s)
}

// IsV7 reports whether the given UUID is a UUIDv7.
func IsV7(id UUID) bool {
	return id.Version() == uuid.Version(7)
}
