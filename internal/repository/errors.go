// Package repository defines the account store interface, its MySQL
// implementation and the sentinel errors shared between them. The sentinels
// let handlers distinguish failure scenarios without inspecting driver
// errors: ErrNotFound maps to HTTP 404, ErrEmailExists to the duplicate
// email validation failure on registration.
package repository

import "errors"

// ErrNotFound is returned when no account matches the given key.
var ErrNotFound = errors.New("account not found")

// ErrEmailExists is returned when an insert collides with the unique
// email key.
var ErrEmailExists = errors.New("email already exists")
