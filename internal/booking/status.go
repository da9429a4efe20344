package booking

import (
    "context"
    "time"

    "github.com/iliyamo/room-reservation/internal/model"
)

// statusPriority is the fixed resolution order for a room covered by more
// than one active reservation at the same instant.  The first state
// present wins; the list is explicit so the result never depends on
// declaration order or insertion order.
var statusPriority = []model.State{
    model.StateMaintenance,
    model.StateBlocked,
    model.StateBooked,
}

func stateStatus(s model.State) model.Status {
    switch s {
    case model.StateMaintenance:
        return model.StatusMaintenance
    case model.StateBlocked:
        return model.StatusBlocked
    default:
        return model.StatusBooked
    }
}

// StatusAt resolves the room's occupancy at the given instant.  A room
// with no active reservation covering the instant is FREE; otherwise the
// highest-priority state among the covering reservations is returned.
func (e *Engine) StatusAt(ctx context.Context, roomID uint64, at time.Time) (model.Status, error) {
    if _, err := e.room(ctx, roomID); err != nil {
        return "", err
    }
    active, err := e.activeAt(ctx, roomID, at)
    if err != nil {
        return "", err
    }
    if len(active) == 0 {
        return model.StatusFree, nil
    }
    for _, state := range statusPriority {
        for i := range active {
            if active[i].State == state {
                return stateStatus(state), nil
            }
        }
    }
    return model.StatusFree, nil
}

// StatusDetail is the human-facing projection of a room's occupancy.  For
// a BOOKED room it carries the occupying requester and description; for
// BLOCKED and MAINTENANCE it carries the description and when the record
// was created.  It is read-only and adds no invariant of its own.
type StatusDetail struct {
    Status         model.Status `json:"status"`
    ReservationID  *uint64      `json:"reservation_id,omitempty"`
    RequesterID    *uint64      `json:"requester_id,omitempty"`
    RequesterEmail string       `json:"requester_email,omitempty"`
    Description    string       `json:"description,omitempty"`
    CreatedAt      *time.Time   `json:"created_at,omitempty"`
}

// StatusDetailAt resolves the room's occupancy like StatusAt and
// additionally surfaces details of the winning reservation.
func (e *Engine) StatusDetailAt(ctx context.Context, roomID uint64, at time.Time) (*StatusDetail, error) {
    if _, err := e.room(ctx, roomID); err != nil {
        return nil, err
    }
    active, err := e.activeAt(ctx, roomID, at)
    if err != nil {
        return nil, err
    }
    if len(active) == 0 {
        return &StatusDetail{Status: model.StatusFree}, nil
    }
    var winner *model.Reservation
    for _, state := range statusPriority {
        for i := range active {
            if active[i].State == state {
                winner = &active[i]
                break
            }
        }
        if winner != nil {
            break
        }
    }
    det := &StatusDetail{
        Status:        stateStatus(winner.State),
        ReservationID: &winner.ID,
        Description:   winner.Description,
    }
    switch winner.State {
    case model.StateBooked:
        det.RequesterID = &winner.RequesterID
        if u, err := e.user(ctx, winner.RequesterID); err == nil {
            det.RequesterEmail = u.Email
        }
    default:
        created := winner.CreatedAt
        det.CreatedAt = &created
    }
    return det, nil
}

func (e *Engine) activeAt(ctx context.Context, roomID uint64, at time.Time) ([]model.Reservation, error) {
    active, err := e.store.ActiveAt(ctx, roomID, at.UTC())
    if err != nil {
        return nil, &StorageError{Op: "status query", Err: err}
    }
    return active, nil
}
