// Package uuid generates time-ordered identifiers for database rows and requests.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a UUIDv7. UUIDv7 is time-ordered, so audit rows sort by
// creation time when ordered by primary key.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to a random UUIDv4 if the clock sequence cannot be read
		return googleuuid.NewString()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
