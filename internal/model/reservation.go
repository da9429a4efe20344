package model

import "time"

// State enumerates the lifecycle states of a reservation.  A reservation
// is created in one of the three active states and the only transition
// the engine ever performs is into StateCancelled, which is terminal.
type State string

const (
    StateBooked      State = "BOOKED"      // ordinary booking tied to a course
    StateBlocked     State = "BLOCKED"     // administrative block, no course
    StateMaintenance State = "MAINTENANCE" // maintenance window, no course
    StateCancelled   State = "CANCELLED"   // terminal; interval is freed
)

// Active reports whether the state still occupies the room's timeline.
// Cancelled reservations never participate in conflict or status checks.
func (s State) Active() bool { return s != StateCancelled }

// Status is the resolved occupancy of a room at a single instant.  It
// mirrors the reservation states plus StatusFree for "no active record
// covers this instant".
type Status string

const (
    StatusFree        Status = "FREE"
    StatusBooked      Status = "BOOKED"
    StatusBlocked     Status = "BLOCKED"
    StatusMaintenance Status = "MAINTENANCE"
)

// Reservation records a time-bounded claim on a room.  The interval is
// half-open: the room is occupied over [Start, End), so End itself is
// free and back-to-back reservations do not collide.
//
// Fields:
//  ID          – primary key identifier, assigned on insert.
//  RoomID      – room being claimed.
//  CourseID    – course the booking is for; nil for blocks and maintenance.
//  RequesterID – user who created the record.
//  Start, End  – UTC instants with Start < End.
//  State       – BOOKED, BLOCKED, MAINTENANCE or CANCELLED.
//  Description – free text; cancellation reasons are appended, never
//                overwritten.
//  CreatedAt   – set once on insert, immutable afterwards.
type Reservation struct {
    ID          uint64    `json:"id"`
    RoomID      uint64    `json:"room_id"`
    CourseID    *uint64   `json:"course_id,omitempty"`
    RequesterID uint64    `json:"requester_id"`
    Start       time.Time `json:"start"`
    End         time.Time `json:"end"`
    State       State     `json:"state"`
    Description string    `json:"description,omitempty"`
    CreatedAt   time.Time `json:"created_at"`
}

// Covers reports whether the reservation's interval contains the instant,
// using the half-open convention: Start <= at < End.
func (r *Reservation) Covers(at time.Time) bool {
    return !r.Start.After(at) && at.Before(r.End)
}
