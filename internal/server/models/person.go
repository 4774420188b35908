// Package models defines the server-side records persisted in the database.
package models

import "time"

// Person is a registered account. Password holds only the salted one-way
// digest, never the raw value.
type Person struct {
	ID           string
	Email        string
	Password     string
	RoleID       int
	RegisteredOn time.Time
	LastLogin    time.Time
	Disabled     bool
}

// PersonUpdate carries the optional fields of a partial person update.
// Nil means "leave unchanged".
type PersonUpdate struct {
	Email    *string
	Password *string
	RoleID   *int
	Disabled *bool
}

// Empty reports whether no field is set.
func (u PersonUpdate) Empty() bool {
	return u.Email == nil && u.Password == nil && u.RoleID == nil && u.Disabled == nil
}
