// Package repository is the MySQL-backed session store: alarms, puzzle
// session states, statistics and users. Sentinel errors defined here
// let higher layers distinguish failure cases without inspecting
// driver errors.
package repository

import "errors"

// ErrNotFound is returned when a requested row does not exist, for
// example fetching the alarm of a user who never set one. Handlers
// should translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when registering an email that is already
// taken.
var ErrEmailExists = errors.New("email already exists")
