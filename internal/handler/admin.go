package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-reservation/internal/booking"
	"github.com/iliyamo/room-reservation/internal/model"
	"github.com/iliyamo/room-reservation/internal/repository"
	queue_publisher "github.com/iliyamo/room-reservation/internal/service"
)

// AdminHandler serves the administrative surface: room blocks,
// maintenance windows, forced cancellations and the room/course catalog.
// Routes using it must sit behind the ADMIN role middleware; the engine
// re-checks the role on every state-changing call anyway.
type AdminHandler struct {
	Engine       *booking.Engine
	Rooms        *repository.RoomRepo
	Courses      *repository.CourseRepo
	Reservations *repository.ReservationRepo
}

func NewAdminHandler(engine *booking.Engine, rooms *repository.RoomRepo, courses *repository.CourseRepo, reservations *repository.ReservationRepo) *AdminHandler {
	if engine == nil || rooms == nil || courses == nil || reservations == nil {
		panic("nil dependency passed to NewAdminHandler")
	}
	return &AdminHandler{Engine: engine, Rooms: rooms, Courses: courses, Reservations: reservations}
}

type holdReq struct {
	RoomID uint64 `json:"room_id" validate:"required"`
	Start  string `json:"start" validate:"required"`
	End    string `json:"end" validate:"required"`
	Reason string `json:"reason" validate:"max=500"`
}

func (h *AdminHandler) parseHold(c echo.Context) (*holdReq, time.Time, time.Time, error) {
	var req holdReq
	if err := c.Bind(&req); err != nil {
		return nil, time.Time{}, time.Time{}, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return nil, time.Time{}, time.Time{}, err
	}
	start, err := parseInstant(req.Start)
	if err != nil {
		return nil, time.Time{}, time.Time{}, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start"})
	}
	end, err := parseInstant(req.End)
	if err != nil {
		return nil, time.Time{}, time.Time{}, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end"})
	}
	return &req, start, end, nil
}

// Block handles POST /v1/admin/blocks: reserve a room for non-teaching
// use.  Blocks compete for the room like bookings do, so an occupied
// interval yields 409.
func (h *AdminHandler) Block(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	req, start, end, herr := h.parseHold(c)
	if herr != nil {
		return herr
	}
	rec, err := h.Engine.Block(c.Request().Context(), req.RoomID, adminID, start, end, req.Reason)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservation": rec})
}

// Maintenance handles POST /v1/admin/maintenance: schedule a
// maintenance window.  Maintenance is inserted regardless of existing
// reservations and takes priority when the room's status is resolved.
func (h *AdminHandler) Maintenance(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	req, start, end, herr := h.parseHold(c)
	if herr != nil {
		return herr
	}
	rec, err := h.Engine.ScheduleMaintenance(c.Request().Context(), req.RoomID, adminID, start, end, req.Reason)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"reservation": rec})
}

type adminCancelReq struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

// CancelReservation handles DELETE /v1/admin/reservations/:id: cancel
// any reservation regardless of owner or state, recording the reason in
// the reservation's description.
func (h *AdminHandler) CancelReservation(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var req adminCancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := h.Engine.CancelAsAdmin(ctx, id, adminID, req.Reason); err != nil {
		return engineError(c, err)
	}
	if rec, err := h.Reservations.GetByID(ctx, id); err == nil {
		_ = queue_publisher.PublishReservationEvent(ctx, queue_publisher.CancelledEvent(rec, adminID))
	}
	return c.JSON(http.StatusOK, echo.Map{"cancelled": true})
}

var adminListStates = map[string]model.State{
	string(model.StateBooked):      model.StateBooked,
	string(model.StateBlocked):     model.StateBlocked,
	string(model.StateMaintenance): model.StateMaintenance,
	string(model.StateCancelled):   model.StateCancelled,
}

// ListReservations handles GET /v1/admin/reservations.  Without filters
// it returns every reservation joined with room, course and requester
// data; ?state=BOOKED narrows by state and ?upcoming=true keeps only
// reservations that have not yet ended.
func (h *AdminHandler) ListReservations(c echo.Context) error {
	ctx := c.Request().Context()
	if raw := c.QueryParam("state"); raw != "" {
		state, ok := adminListStates[raw]
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown state"})
		}
		list, err := h.Reservations.ListByState(ctx, state)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"reservations": list})
	}
	if c.QueryParam("upcoming") == "true" {
		list, err := h.Reservations.ListUpcoming(ctx, time.Now().UTC())
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return c.JSON(http.StatusOK, echo.Map{"reservations": list})
	}
	list, err := h.Reservations.ListAllDetailed(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

type roomReq struct {
	Name     string `json:"name" validate:"required,max=100"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	Floor    int    `json:"floor"`
}

// CreateRoom handles POST /v1/admin/rooms.
func (h *AdminHandler) CreateRoom(c echo.Context) error {
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	room := &model.Room{Name: req.Name, Capacity: req.Capacity, Floor: req.Floor}
	if err := h.Rooms.Create(c.Request().Context(), room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"room": room})
}

// UpdateRoom handles PUT /v1/admin/rooms/:id.
func (h *AdminHandler) UpdateRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	var req roomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	room := &model.Room{ID: id, Name: req.Name, Capacity: req.Capacity, Floor: req.Floor}
	if err := h.Rooms.Update(c.Request().Context(), room); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"room": room})
}

// DeleteRoom handles DELETE /v1/admin/rooms/:id.  Rooms with active
// reservations cannot be removed.
func (h *AdminHandler) DeleteRoom(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid room id"})
	}
	if err := h.Rooms.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrHasReservations):
			return c.JSON(http.StatusConflict, echo.Map{"error": "room has active reservations"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

type courseReq struct {
	Name       string `json:"name" validate:"required,max=100"`
	Instructor string `json:"instructor" validate:"required,max=100"`
}

// CreateCourse handles POST /v1/admin/courses.
func (h *AdminHandler) CreateCourse(c echo.Context) error {
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	course := &model.Course{Name: req.Name, Instructor: req.Instructor}
	if err := h.Courses.Create(c.Request().Context(), course); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"course": course})
}

// DeleteCourse handles DELETE /v1/admin/courses/:id.  Courses with
// active reservations cannot be removed.
func (h *AdminHandler) DeleteCourse(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid course id"})
	}
	if err := h.Courses.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrHasReservations):
			return c.JSON(http.StatusConflict, echo.Map{"error": "course has active reservations"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "course not found"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}
