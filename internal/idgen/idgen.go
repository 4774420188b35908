// Package idgen produces the string identifiers used as primary keys for
// persons, folders and files.
package idgen

import "github.com/google/uuid"

// New returns a time-ordered unique identifier (UUIDv7). Identifiers are
// safe to generate concurrently and double as filesystem-neutral name
// fragments. If v7 generation fails (entropy exhaustion), a random v4 is
// used so callers never see an error.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
