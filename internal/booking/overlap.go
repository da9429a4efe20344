package booking

import (
    "context"
    "time"
)

// overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// intersect.  Touching boundaries (e1 == s2 or e2 == s1) do not overlap,
// which is what allows back-to-back reservations.
func overlaps(s1, e1, s2, e2 time.Time) bool {
    return s1.Before(e2) && e1.After(s2)
}

// Conflicts reports whether any existing non-cancelled reservation for
// the room intersects [start, end).  It has no side effects; the caller
// is responsible for the room existing.  The result can go stale
// immediately under concurrent mutation, which is why the write path
// re-checks inside the room lock rather than trusting this probe.
func (e *Engine) Conflicts(ctx context.Context, roomID uint64, start, end time.Time) (bool, error) {
    if !start.Before(end) {
        return false, ErrInvalidInterval
    }
    active, err := e.store.ActiveByRoom(ctx, roomID)
    if err != nil {
        return false, &StorageError{Op: "conflict check", Err: err}
    }
    for i := range active {
        if overlaps(active[i].Start, active[i].End, start.UTC(), end.UTC()) {
            return true, nil
        }
    }
    return false, nil
}
