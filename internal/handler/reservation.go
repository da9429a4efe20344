package handler

import (
    "database/sql"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/room-reservation/internal/booking"
    "github.com/iliyamo/room-reservation/internal/repository"
    queue_publisher "github.com/iliyamo/room-reservation/internal/service"
)

// ReservationHandler serves the booking lifecycle endpoints available to
// ordinary users.  All booking decisions are delegated to the engine;
// this layer only parses, authenticates and reports.
type ReservationHandler struct {
    Engine       *booking.Engine
    Reservations *repository.ReservationRepo
}

func NewReservationHandler(engine *booking.Engine, reservations *repository.ReservationRepo) *ReservationHandler {
    if engine == nil || reservations == nil {
        panic("nil dependency passed to NewReservationHandler")
    }
    return &ReservationHandler{Engine: engine, Reservations: reservations}
}

type bookReq struct {
    RoomID      uint64 `json:"room_id" validate:"required"`
    CourseID    uint64 `json:"course_id" validate:"required"`
    Start       string `json:"start" validate:"required"`
    End         string `json:"end" validate:"required"`
    Description string `json:"description" validate:"max=500"`
}

// Create handles POST /v1/reservations: book a room for a course on
// behalf of the authenticated user.
func (h *ReservationHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req bookReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if err := c.Validate(&req); err != nil {
        return err
    }
    start, err := parseInstant(req.Start)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start"})
    }
    end, err := parseInstant(req.End)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end"})
    }

    ctx := c.Request().Context()
    rec, err := h.Engine.Book(ctx, req.RoomID, req.CourseID, userID, start, end, req.Description)
    if err != nil {
        return engineError(c, err)
    }
    // Event delivery is best effort; the reservation is already durable.
    _ = queue_publisher.PublishReservationEvent(ctx, queue_publisher.CreatedEvent(rec))
    return c.JSON(http.StatusCreated, echo.Map{"reservation": rec})
}

// ListMine handles GET /v1/reservations: the caller's own reservations,
// cancelled ones included.
func (h *ReservationHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    list, err := h.Reservations.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// Get handles GET /v1/reservations/:id: a single reservation joined
// with room, course and requester display data.  Any authenticated user
// may inspect any reservation; the schedule is shared knowledge.
func (h *ReservationHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    det, err := h.Reservations.GetDetailByID(c.Request().Context(), id)
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, echo.Map{"reservation": det})
}

// Cancel handles DELETE /v1/reservations/:id.  The engine enforces that
// only the creator or an administrator may cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
    }
    ctx := c.Request().Context()
    if err := h.Engine.Cancel(ctx, id, userID); err != nil {
        return engineError(c, err)
    }
    if rec, err := h.Reservations.GetByID(ctx, id); err == nil {
        _ = queue_publisher.PublishReservationEvent(ctx, queue_publisher.CancelledEvent(rec, userID))
    }
    return c.JSON(http.StatusOK, echo.Map{"cancelled": true})
}
