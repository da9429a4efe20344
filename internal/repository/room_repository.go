package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/room-reservation/internal/model"
)

// RoomRepo provides CRUD operations and filtered listings for rooms.
// Room management lives entirely outside the booking engine; the engine
// only uses GetByID through its RoomDirectory contract.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// GetByID returns a single room.  sql.ErrNoRows is returned when the
// room does not exist.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
    var room model.Room
    err := r.db.QueryRowContext(ctx,
        `SELECT id, name, capacity, floor FROM rooms WHERE id = ?`, id).
        Scan(&room.ID, &room.Name, &room.Capacity, &room.Floor)
    if err != nil {
        return nil, err
    }
    return &room, nil
}

func (r *RoomRepo) collect(rows *sql.Rows) ([]model.Room, error) {
    defer rows.Close()
    out := make([]model.Room, 0)
    for rows.Next() {
        var room model.Room
        if err := rows.Scan(&room.ID, &room.Name, &room.Capacity, &room.Floor); err != nil {
            return nil, err
        }
        out = append(out, room)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// List returns all rooms ordered by floor then name.
func (r *RoomRepo) List(ctx context.Context) ([]model.Room, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, capacity, floor FROM rooms ORDER BY floor, name`)
    if err != nil {
        return nil, err
    }
    return r.collect(rows)
}

// ListByFloor returns the rooms on a given floor.
func (r *RoomRepo) ListByFloor(ctx context.Context, floor int) ([]model.Room, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, capacity, floor FROM rooms WHERE floor = ? ORDER BY name`, floor)
    if err != nil {
        return nil, err
    }
    return r.collect(rows)
}

// ListByMinCapacity returns rooms whose capacity is at least minCapacity.
func (r *RoomRepo) ListByMinCapacity(ctx context.Context, minCapacity int) ([]model.Room, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, capacity, floor FROM rooms WHERE capacity >= ? ORDER BY capacity, name`,
        minCapacity)
    if err != nil {
        return nil, err
    }
    return r.collect(rows)
}

// ListFreeBetween returns the rooms with no non-cancelled reservation
// overlapping the half-open window [start, end).
func (r *RoomRepo) ListFreeBetween(ctx context.Context, start, end time.Time) ([]model.Room, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, capacity, floor FROM rooms
         WHERE id NOT IN (
             SELECT DISTINCT room_id FROM reservations
             WHERE state != 'CANCELLED' AND start_at < ? AND end_at > ?
         )
         ORDER BY floor, name`,
        end.UTC().Format(dbTimeLayout), start.UTC().Format(dbTimeLayout))
    if err != nil {
        return nil, err
    }
    return r.collect(rows)
}

// Create inserts a room and populates its ID.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO rooms (name, capacity, floor) VALUES (?, ?, ?)`,
        room.Name, room.Capacity, room.Floor)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    room.ID = uint64(id)
    return nil
}

// Update rewrites a room's attributes.  sql.ErrNoRows is returned when
// the room does not exist.
func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE rooms SET name = ?, capacity = ?, floor = ? WHERE id = ?`,
        room.Name, room.Capacity, room.Floor, room.ID)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// Delete removes a room.  Rooms that still have non-cancelled
// reservations cannot be deleted; ErrHasReservations is returned instead
// so the handler can report a 409.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
    var active int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE room_id = ? AND state != 'CANCELLED'`,
        id).Scan(&active); err != nil {
        return err
    }
    if active > 0 {
        return ErrHasReservations
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
