// Package handler implements the HTTP endpoints.  Handlers translate
// request payloads into engine calls and engine errors into HTTP
// statuses; they hold no booking logic of their own.
package handler

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/booking"
)

// getUserID extracts the user_id claim placed in the context by the JWT
// middleware.  Numeric JWT claims arrive as float64.
func getUserID(c echo.Context) (uint64, error) {
    switch t := c.Get("user_id").(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// pathID parses a numeric path parameter, rejecting zero.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || id == 0 {
        return 0, false
    }
    return id, true
}

// parseInstant parses an RFC3339 timestamp from a request field.
func parseInstant(s string) (time.Time, error) {
    return time.Parse(time.RFC3339, s)
}

// engineError maps the booking error taxonomy onto HTTP statuses:
// lookup misses become 404, other validation failures 400, conflicts
// 409, authorization failures 403 and storage faults 500.
func engineError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, booking.ErrRoomNotFound),
        errors.Is(err, booking.ErrCourseNotFound),
        errors.Is(err, booking.ErrUserNotFound),
        errors.Is(err, booking.ErrReservationNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrInvalidInterval),
        errors.Is(err, booking.ErrAlreadyCancelled):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    case errors.Is(err, booking.ErrNotAuthorized):
        return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
}
