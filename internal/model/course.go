package model

// Course is the activity a booking is made for.  Blocks and maintenance
// windows carry no course.  The engine treats courses as opaque keys; the
// name and instructor exist only for display.
type Course struct {
    ID         uint64 `json:"id"`
    Name       string `json:"name"`
    Instructor string `json:"instructor,omitempty"`
}
