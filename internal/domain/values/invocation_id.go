// Package values contains domain value objects that encapsulate
// primitive types with validation and such.
package values

import "github.com/google/uuid"

// InvocationID identifies one sandboxing invocation in log output.
type InvocationID struct {
	value uuid.UUID
}

// NewInvocationID creates a new random invocation ID
func NewInvocationID() InvocationID {
	return InvocationID{value: uuid.New()}
}

// String returns the string representation
func (i InvocationID) String() string {
	return i.value.String()
}

// IsZero returns true if this is the zero value
func (i InvocationID) IsZero() bool {
	return i.value == uuid.Nil
}

// Equals checks if two InvocationIDs are equal
func (i InvocationID) Equals(other InvocationID) bool {
	return i.value == other.value
}
