// Package booking implements the reservation conflict and availability
// engine: it decides whether a time interval may be granted for a room,
// resolves a room's occupancy at an instant, and gates cancellation behind
// an authorization check.  All failures are returned as values; the engine
// never panics on bad input.
package booking

import "errors"

// Sentinel errors returned by the engine.  Handlers compare with
// errors.Is and translate them to HTTP statuses: the validation group
// maps to 400/404, ErrConflict to 409 and ErrNotAuthorized to 403.
var (
    // ErrInvalidInterval is returned when start is not strictly before end.
    ErrInvalidInterval = errors.New("invalid interval: start must be before end")

    // ErrRoomNotFound, ErrCourseNotFound and ErrUserNotFound are returned
    // when a referenced entity does not exist.  A lookup miss is a
    // validation failure, never a crash.
    ErrRoomNotFound   = errors.New("room not found")
    ErrCourseNotFound = errors.New("course not found")
    ErrUserNotFound   = errors.New("user not found")

    // ErrReservationNotFound is returned by the cancel operations when the
    // target reservation does not exist.
    ErrReservationNotFound = errors.New("reservation not found")

    // ErrAlreadyCancelled is returned by Cancel when the reservation is
    // already in its terminal state.  CancelAsAdmin ignores this condition.
    ErrAlreadyCancelled = errors.New("reservation already cancelled")

    // ErrConflict is returned when the requested interval overlaps an
    // existing non-cancelled reservation for the same room.
    ErrConflict = errors.New("room already reserved for this interval")

    // ErrNotAuthorized is returned when the acting user lacks the required
    // privilege or does not own the reservation being cancelled.
    ErrNotAuthorized = errors.New("not authorized")
)

// StorageError wraps an unexpected failure from the interval store so
// callers can tell an infrastructure fault apart from the expected
// validation/conflict/authorization outcomes.  It unwraps to the
// underlying driver error.
type StorageError struct {
    Op  string // engine operation during which the failure occurred
    Err error
}

func (e *StorageError) Error() string { return "booking: " + e.Op + ": " + e.Err.Error() }
func (e *StorageError) Unwrap() error { return e.Err }

// IsValidation reports whether err belongs to the validation group of the
// error taxonomy: malformed interval, unknown referenced entity or an
// already-terminal reservation.
func IsValidation(err error) bool {
    return errors.Is(err, ErrInvalidInterval) ||
        errors.Is(err, ErrRoomNotFound) ||
        errors.Is(err, ErrCourseNotFound) ||
        errors.Is(err, ErrUserNotFound) ||
        errors.Is(err, ErrReservationNotFound) ||
        errors.Is(err, ErrAlreadyCancelled)
}

// IsStorage reports whether err is (or wraps) a StorageError.
func IsStorage(err error) bool {
    var se *StorageError
    return errors.As(err, &se)
}
