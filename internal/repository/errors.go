// Package repository implements the MySQL data access layer.  Sentinel
// values defined here let handlers distinguish expected failure scenarios
// without inspecting driver errors; a plain lookup miss is reported as
// sql.ErrNoRows by every Get method.
package repository

import "errors"

// ErrEmailExists is returned by UserRepo.Create when the email is already
// registered (MySQL duplicate key on the unique index).
var ErrEmailExists = errors.New("email already exists")

// ErrHasReservations is returned when a room or course cannot be deleted
// because non-cancelled reservations still reference it.  Handlers should
// translate this into an HTTP 409 response.
var ErrHasReservations = errors.New("entity still has active reservations")
