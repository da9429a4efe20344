package booking

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/iliyamo/room-reservation/internal/model"
)

// Tx is the view of the interval store inside a room-scoped critical
// section.  Both the conflict check and the insert run against the same
// transaction so no other writer for the room can interleave.
type Tx interface {
    // ActiveByRoom returns every non-cancelled reservation for the room.
    ActiveByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error)
    // Insert persists a new reservation and populates its ID.
    Insert(ctx context.Context, r *model.Reservation) error
}

// Store is the interval store the engine runs against.  Lookup misses are
// signalled with sql.ErrNoRows; any other error is treated as a storage
// fault.  WithRoomLock must serialize concurrent calls for the same room
// while leaving different rooms fully independent.
type Store interface {
    GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
    ActiveByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error)
    ActiveAt(ctx context.Context, roomID uint64, at time.Time) ([]model.Reservation, error)
    UpdateState(ctx context.Context, id uint64, state model.State, description string) error
    WithRoomLock(ctx context.Context, roomID uint64, fn func(tx Tx) error) error
}

// RoomDirectory, CourseDirectory and UserDirectory are the external
// lookups the engine consumes.  They return sql.ErrNoRows when the entity
// does not exist.
type RoomDirectory interface {
    GetByID(ctx context.Context, id uint64) (*model.Room, error)
}

type CourseDirectory interface {
    GetByID(ctx context.Context, id uint64) (*model.Course, error)
}

type UserDirectory interface {
    GetByID(ctx context.Context, id uint64) (*model.User, error)
}

// Engine is the reservation lifecycle manager.  It validates requests
// against the overlap detector, constructs records, persists them through
// the store and gates cancellation behind the authorization rules.
type Engine struct {
    store   Store
    rooms   RoomDirectory
    courses CourseDirectory
    users   UserDirectory
    now     func() time.Time
}

// New constructs an Engine.  All dependencies must be non-nil.
func New(store Store, rooms RoomDirectory, courses CourseDirectory, users UserDirectory) *Engine {
    if store == nil || rooms == nil || courses == nil || users == nil {
        panic("nil dependency passed to booking.New")
    }
    return &Engine{store: store, rooms: rooms, courses: courses, users: users, now: time.Now}
}

// Book creates a BOOKED reservation tying a room to a course on behalf of
// the requester.  It fails with ErrConflict when any non-cancelled
// reservation for the room overlaps [start, end).
func (e *Engine) Book(ctx context.Context, roomID, courseID, requesterID uint64, start, end time.Time, description string) (*model.Reservation, error) {
    if !start.Before(end) {
        return nil, ErrInvalidInterval
    }
    if _, err := e.room(ctx, roomID); err != nil {
        return nil, err
    }
    if _, err := e.course(ctx, courseID); err != nil {
        return nil, err
    }
    if _, err := e.user(ctx, requesterID); err != nil {
        return nil, err
    }
    rec := &model.Reservation{
        RoomID:      roomID,
        CourseID:    &courseID,
        RequesterID: requesterID,
        Start:       start.UTC(),
        End:         end.UTC(),
        State:       model.StateBooked,
        Description: description,
        CreatedAt:   e.now().UTC(),
    }
    if err := e.insertExclusive(ctx, rec, true); err != nil {
        return nil, err
    }
    return rec, nil
}

// Block creates a BLOCKED reservation with no course.  Only
// administrators may block a room; like Book it consults the overlap
// detector before writing.
func (e *Engine) Block(ctx context.Context, roomID, requesterID uint64, start, end time.Time, reason string) (*model.Reservation, error) {
    if !start.Before(end) {
        return nil, ErrInvalidInterval
    }
    if _, err := e.room(ctx, roomID); err != nil {
        return nil, err
    }
    if err := e.requireAdmin(ctx, requesterID); err != nil {
        return nil, err
    }
    rec := &model.Reservation{
        RoomID:      roomID,
        RequesterID: requesterID,
        Start:       start.UTC(),
        End:         end.UTC(),
        State:       model.StateBlocked,
        Description: reason,
        CreatedAt:   e.now().UTC(),
    }
    if err := e.insertExclusive(ctx, rec, true); err != nil {
        return nil, err
    }
    return rec, nil
}

// ScheduleMaintenance creates a MAINTENANCE window.  Unlike Book and
// Block it does not consult the overlap detector: maintenance may be
// scheduled on top of existing reservations.  The insert still runs
// inside the room lock so every write follows the same path.
func (e *Engine) ScheduleMaintenance(ctx context.Context, roomID, requesterID uint64, start, end time.Time, details string) (*model.Reservation, error) {
    if !start.Before(end) {
        return nil, ErrInvalidInterval
    }
    if _, err := e.room(ctx, roomID); err != nil {
        return nil, err
    }
    if err := e.requireAdmin(ctx, requesterID); err != nil {
        return nil, err
    }
    rec := &model.Reservation{
        RoomID:      roomID,
        RequesterID: requesterID,
        Start:       start.UTC(),
        End:         end.UTC(),
        State:       model.StateMaintenance,
        Description: details,
        CreatedAt:   e.now().UTC(),
    }
    if err := e.insertExclusive(ctx, rec, false); err != nil {
        return nil, err
    }
    return rec, nil
}

// Cancel flips a reservation to CANCELLED.  The acting user must be the
// original requester or an administrator.  Cancelling an already
// cancelled reservation is a validation failure and leaves it untouched.
func (e *Engine) Cancel(ctx context.Context, reservationID, actingUserID uint64) error {
    rec, err := e.reservation(ctx, reservationID)
    if err != nil {
        return err
    }
    if rec.State == model.StateCancelled {
        return ErrAlreadyCancelled
    }
    user, err := e.user(ctx, actingUserID)
    if err != nil {
        return err
    }
    if user.ID != rec.RequesterID && !user.IsAdmin() {
        return ErrNotAuthorized
    }
    if err := e.store.UpdateState(ctx, rec.ID, model.StateCancelled, rec.Description); err != nil {
        return &StorageError{Op: "cancel", Err: err}
    }
    return nil
}

// CancelAsAdmin is the administrative override: it cancels a reservation
// regardless of its current state, including blocks and maintenance, and
// appends the reason to the description instead of replacing it.
func (e *Engine) CancelAsAdmin(ctx context.Context, reservationID, adminID uint64, reason string) error {
    rec, err := e.reservation(ctx, reservationID)
    if err != nil {
        return err
    }
    if err := e.requireAdmin(ctx, adminID); err != nil {
        return err
    }
    desc := rec.Description
    if desc != "" {
        desc += " | "
    }
    desc += "CANCELLED BY ADMIN: " + reason
    if err := e.store.UpdateState(ctx, rec.ID, model.StateCancelled, desc); err != nil {
        return &StorageError{Op: "admin cancel", Err: err}
    }
    return nil
}

// insertExclusive runs the check-then-insert sequence for rec.RoomID as a
// single atomic unit.  Two concurrent writers for the same room cannot
// both observe "no conflict": the second one either waits on the lock and
// then sees the first insert, or is rejected by the store and surfaces
// here as ErrConflict.
func (e *Engine) insertExclusive(ctx context.Context, rec *model.Reservation, checkConflict bool) error {
    err := e.store.WithRoomLock(ctx, rec.RoomID, func(tx Tx) error {
        if checkConflict {
            existing, err := tx.ActiveByRoom(ctx, rec.RoomID)
            if err != nil {
                return err
            }
            for i := range existing {
                if overlaps(existing[i].Start, existing[i].End, rec.Start, rec.End) {
                    return ErrConflict
                }
            }
        }
        return tx.Insert(ctx, rec)
    })
    switch {
    case err == nil:
        return nil
    case errors.Is(err, ErrConflict):
        return ErrConflict
    case errors.Is(err, sql.ErrNoRows):
        // The room row vanished between validation and locking.
        return ErrRoomNotFound
    default:
        return &StorageError{Op: "insert", Err: err}
    }
}

func (e *Engine) room(ctx context.Context, id uint64) (*model.Room, error) {
    r, err := e.rooms.GetByID(ctx, id)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrRoomNotFound
    }
    if err != nil {
        return nil, &StorageError{Op: "room lookup", Err: err}
    }
    return r, nil
}

func (e *Engine) course(ctx context.Context, id uint64) (*model.Course, error) {
    c, err := e.courses.GetByID(ctx, id)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrCourseNotFound
    }
    if err != nil {
        return nil, &StorageError{Op: "course lookup", Err: err}
    }
    return c, nil
}

func (e *Engine) user(ctx context.Context, id uint64) (*model.User, error) {
    u, err := e.users.GetByID(ctx, id)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrUserNotFound
    }
    if err != nil {
        return nil, &StorageError{Op: "user lookup", Err: err}
    }
    return u, nil
}

func (e *Engine) reservation(ctx context.Context, id uint64) (*model.Reservation, error) {
    r, err := e.store.GetByID(ctx, id)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrReservationNotFound
    }
    if err != nil {
        return nil, &StorageError{Op: "reservation lookup", Err: err}
    }
    return r, nil
}

func (e *Engine) requireAdmin(ctx context.Context, id uint64) error {
    u, err := e.user(ctx, id)
    if err != nil {
        return err
    }
    if !u.IsAdmin() {
        return ErrNotAuthorized
    }
    return nil
}
