// Package queue defines the message payloads exchanged over the broker
// and the background consumer that turns them into an audit log.
package queue

// Event types carried by ReservationEvent.
const (
    TypeReservationCreated   = "reservation.created"
    TypeReservationCancelled = "reservation.cancelled"
)

// ReservationEvent is published whenever a reservation is created or
// cancelled.  It carries enough information for downstream consumers to
// audit or notify without querying the primary database.  Timestamps are
// RFC3339 strings in UTC.
type ReservationEvent struct {
    EventID       string `json:"event_id"`
    Type          string `json:"type"`
    ReservationID uint64 `json:"reservation_id"`
    RoomID        uint64 `json:"room_id"`
    RequesterID   uint64 `json:"requester_id"`
    ActorID       uint64 `json:"actor_id,omitempty"` // who cancelled, when it differs from the requester
    State         string `json:"state"`
    Start         string `json:"start"`
    End           string `json:"end"`
    Description   string `json:"description,omitempty"`
    OccurredAt    string `json:"occurred_at"`
}
