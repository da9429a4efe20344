package model

// Room is a bookable physical space.  Rooms are referenced by
// reservations but never owned by them; their CRUD lifecycle lives in
// the admin endpoints, not in the booking engine.
//
// Fields:
//  ID       – primary key identifier.
//  Name     – human-readable label (e.g. "Aula 3B").
//  Capacity – number of seats.
//  Floor    – floor the room is on; used for filtering only.
type Room struct {
    ID       uint64 `json:"id"`
    Name     string `json:"name"`
    Capacity int    `json:"capacity"`
    Floor    int    `json:"floor"`
}
