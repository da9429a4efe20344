package handler

import (
    "database/sql"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/booking"
    "github.com/iliyamo/room-reservation/internal/repository"
)

// RoomHandler serves the read-only room endpoints available to every
// authenticated user: listings, filters, per-room agendas and the
// status resolver queries.
type RoomHandler struct {
    Engine       *booking.Engine
    Rooms        *repository.RoomRepo
    Reservations *repository.ReservationRepo
}

func NewRoomHandler(engine *booking.Engine, rooms *repository.RoomRepo, reservations *repository.ReservationRepo) *RoomHandler {
    if engine == nil || rooms == nil || reservations == nil {
        panic("nil dependency passed to NewRoomHandler")
    }
    return &RoomHandler{Engine: engine, Rooms: rooms, Reservations: reservations}
}

// List handles GET /v1/rooms with optional ?floor= and ?min_capacity=
// filters.
func (h *RoomHandler) List(c echo.Context) error {
    ctx := c.Request().Context()
    if f := c.QueryParam("floor"); f != "" {
        floor, err := strconv.Atoi(f)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid floor"})
        }
        rooms, err := h.Rooms.ListByFloor(ctx, floor)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
    }
    if mc := c.QueryParam("min_capacity"); mc != "" {
        minCap, err := strconv.Atoi(mc)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_capacity"})
        }
        rooms, err := h.Rooms.ListByMinCapacity(ctx, minCap)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
        }
        return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
    }
    rooms, err := h.Rooms.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    room, err := h.Rooms.GetByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"room": room})
}

// Details handles GET /v1/rooms/:id/details: the room plus all of its
// reservations joined with course and requester display data.
func (h *RoomHandler) Details(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    ctx := c.Request().Context()
    room, err := h.Rooms.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    details, err := h.Reservations.ListDetailedByRoom(ctx, id)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "room":         room,
        "reservations": details,
        "total":        len(details),
    })
}

// Free handles GET /v1/rooms/free?start=...&end=...: the rooms with no
// active reservation overlapping the window.
func (h *RoomHandler) Free(c echo.Context) error {
    start, err := parseInstant(c.QueryParam("start"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start"})
    }
    end, err := parseInstant(c.QueryParam("end"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end"})
    }
    if !start.Before(end) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start must be before end"})
    }
    rooms, err := h.Rooms.ListFreeBetween(c.Request().Context(), start, end)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// Status handles GET /v1/rooms/:id/status?at=...: the resolved occupancy
// at the given instant, defaulting to now.
func (h *RoomHandler) Status(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    at := time.Now().UTC()
    if s := c.QueryParam("at"); s != "" {
        parsed, err := parseInstant(s)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid at"})
        }
        at = parsed
    }
    status, err := h.Engine.StatusAt(c.Request().Context(), id, at)
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "room_id": id,
        "at":      at.Format(time.RFC3339),
        "status":  status,
    })
}

// StatusDetail handles GET /v1/rooms/:id/status/detail: the occupancy
// plus who/what is occupying the room.
func (h *RoomHandler) StatusDetail(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    at := time.Now().UTC()
    if s := c.QueryParam("at"); s != "" {
        parsed, err := parseInstant(s)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid at"})
        }
        at = parsed
    }
    detail, err := h.Engine.StatusDetailAt(c.Request().Context(), id, at)
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, detail)
}

// Availability handles GET /v1/rooms/:id/availability?start=...&end=...,
// a side-effect-free conflict probe.  The result can go stale under
// concurrent writes; the booking path re-checks inside the room lock.
func (h *RoomHandler) Availability(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    start, err := parseInstant(c.QueryParam("start"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start"})
    }
    end, err := parseInstant(c.QueryParam("end"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end"})
    }
    ctx := c.Request().Context()
    if _, err := h.Rooms.GetByID(ctx, id); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    conflict, err := h.Engine.Conflicts(ctx, id, start, end)
    if err != nil {
        return engineError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "room_id":   id,
        "start":     start.UTC().Format(time.RFC3339),
        "end":       end.UTC().Format(time.RFC3339),
        "available": !conflict,
    })
}

// Agenda handles GET /v1/rooms/:id/reservations?date=YYYY-MM-DD: the
// room's non-cancelled reservations touching that day, ordered by start.
func (h *RoomHandler) Agenda(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
    }
    day := time.Now().UTC()
    if s := c.QueryParam("date"); s != "" {
        parsed, err := time.Parse("2006-01-02", s)
        if err != nil {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
        }
        day = parsed
    }
    from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
    to := from.AddDate(0, 0, 1)

    ctx := c.Request().Context()
    if _, err := h.Rooms.GetByID(ctx, id); err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    list, err := h.Reservations.ListByRoomBetween(ctx, id, from, to)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "room_id":      id,
        "date":         from.Format("2006-01-02"),
        "reservations": list,
    })
}
