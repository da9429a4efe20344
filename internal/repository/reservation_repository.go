package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/room-reservation/internal/booking"
    "github.com/iliyamo/room-reservation/internal/model"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// ReservationRepo provides data access to the reservations table and
// implements the booking engine's Store contract.  All timestamp columns
// are stored in UTC; the DSN's parseTime=true setting makes scans return
// time.Time directly.
type ReservationRepo struct {
    db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle so callers sharing the pool (e.g. the
// handlers' own transactions) do not need a second connection.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, room_id, course_id, requester_id, start_at, end_at, state, description, created_at`

type rowScanner interface {
    Scan(dest ...interface{}) error
}

// scanReservation reads one reservations row.  course_id and description
// are nullable in the schema.
func scanReservation(row rowScanner) (model.Reservation, error) {
    var (
        rec      model.Reservation
        courseID sql.NullInt64
        desc     sql.NullString
    )
    err := row.Scan(&rec.ID, &rec.RoomID, &courseID, &rec.RequesterID,
        &rec.Start, &rec.End, &rec.State, &desc, &rec.CreatedAt)
    if err != nil {
        return model.Reservation{}, err
    }
    if courseID.Valid {
        cid := uint64(courseID.Int64)
        rec.CourseID = &cid
    }
    if desc.Valid {
        rec.Description = desc.String
    }
    return rec, nil
}

func collectReservations(rows *sql.Rows) ([]model.Reservation, error) {
    defer rows.Close()
    out := make([]model.Reservation, 0)
    for rows.Next() {
        rec, err := scanReservation(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, rec)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// GetByID returns a single reservation.  sql.ErrNoRows is returned when
// no reservation with the given ID exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
    row := r.db.QueryRowContext(ctx,
        `SELECT `+reservationCols+` FROM reservations WHERE id = ?`, id)
    rec, err := scanReservation(row)
    if err != nil {
        return nil, err
    }
    return &rec, nil
}

// ActiveByRoom returns every non-cancelled reservation for the room,
// ordered by start time.
func (r *ReservationRepo) ActiveByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+reservationCols+` FROM reservations
         WHERE room_id = ? AND state != 'CANCELLED'
         ORDER BY start_at`, roomID)
    if err != nil {
        return nil, err
    }
    return collectReservations(rows)
}

// ActiveAt returns the non-cancelled reservations whose half-open
// interval contains the instant (start_at <= at < end_at).
func (r *ReservationRepo) ActiveAt(ctx context.Context, roomID uint64, at time.Time) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+reservationCols+` FROM reservations
         WHERE room_id = ? AND state != 'CANCELLED'
           AND start_at <= ? AND end_at > ?
         ORDER BY start_at`,
        roomID, at.UTC().Format(dbTimeLayout), at.UTC().Format(dbTimeLayout))
    if err != nil {
        return nil, err
    }
    return collectReservations(rows)
}

// UpdateState sets the reservation's state and description.  CreatedAt
// and the interval are never touched.
func (r *ReservationRepo) UpdateState(ctx context.Context, id uint64, state model.State, description string) error {
    res, err := r.db.ExecContext(ctx,
        `UPDATE reservations SET state = ?, description = ? WHERE id = ?`,
        string(state), description, id)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// WithRoomLock opens a transaction, takes an exclusive lock on the room's
// row and runs fn against the transaction-bound store view.  Holding the
// row lock across the check-then-insert serializes concurrent writers for
// the same room; writers for different rooms lock different rows and
// proceed independently.  sql.ErrNoRows is returned when the room does
// not exist.
func (r *ReservationRepo) WithRoomLock(ctx context.Context, roomID uint64, fn func(tx booking.Tx) error) error {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    var locked uint64
    if err := tx.QueryRowContext(ctx,
        `SELECT id FROM rooms WHERE id = ? FOR UPDATE`, roomID).Scan(&locked); err != nil {
        return err
    }
    if err := fn(&roomTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

// roomTx is the transaction-bound view handed to the engine inside
// WithRoomLock.
type roomTx struct {
    tx *sql.Tx
}

func (t *roomTx) ActiveByRoom(ctx context.Context, roomID uint64) ([]model.Reservation, error) {
    rows, err := t.tx.QueryContext(ctx,
        `SELECT `+reservationCols+` FROM reservations
         WHERE room_id = ? AND state != 'CANCELLED'
         ORDER BY start_at`, roomID)
    if err != nil {
        return nil, err
    }
    return collectReservations(rows)
}

// Insert persists a new reservation within the lock transaction and
// populates the generated ID.
func (t *roomTx) Insert(ctx context.Context, rec *model.Reservation) error {
    var courseID interface{}
    if rec.CourseID != nil {
        courseID = *rec.CourseID
    }
    res, err := t.tx.ExecContext(ctx,
        `INSERT INTO reservations (room_id, course_id, requester_id, start_at, end_at, state, description, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
        rec.RoomID, courseID, rec.RequesterID,
        rec.Start.UTC().Format(dbTimeLayout), rec.End.UTC().Format(dbTimeLayout),
        string(rec.State), rec.Description, rec.CreatedAt.UTC().Format(dbTimeLayout))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rec.ID = uint64(id)
    return nil
}

// ListByUser returns all reservations created by the user, newest
// interval first.  Cancelled records are included so users can see their
// own history.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+reservationCols+` FROM reservations
         WHERE requester_id = ? ORDER BY start_at DESC`, userID)
    if err != nil {
        return nil, err
    }
    return collectReservations(rows)
}

// ListAll returns every reservation, newest interval first.  Intended for
// the admin overview.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+reservationCols+` FROM reservations ORDER BY start_at DESC`)
    if err != nil {
        return nil, err
    }
    return collectReservations(rows)
}

// ListByState returns every reservation currently in the given state.
func (r *ReservationRepo) ListByState(ctx context.Context, state model.State) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+reservationCols+` FROM reservations WHERE state = ? ORDER BY start_at`,
        string(state))
    if err != nil {
        return nil, err
    }
    return collectReservations(rows)
}

// ListUpcoming returns non-cancelled reservations starting after the
// given instant, soonest first.
func (r *ReservationRepo) ListUpcoming(ctx context.Context, after time.Time) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+reservationCols+` FROM reservations
         WHERE start_at > ? AND state != 'CANCELLED'
         ORDER BY start_at`, after.UTC().Format(dbTimeLayout))
    if err != nil {
        return nil, err
    }
    return collectReservations(rows)
}

// ListByRoomBetween returns non-cancelled reservations for the room that
// touch the window [from, to], ordered by start.  Used for per-day room
// agendas.
func (r *ReservationRepo) ListByRoomBetween(ctx context.Context, roomID uint64, from, to time.Time) ([]model.Reservation, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT `+reservationCols+` FROM reservations
         WHERE room_id = ? AND state != 'CANCELLED'
           AND start_at < ? AND end_at > ?
         ORDER BY start_at`,
        roomID, to.UTC().Format(dbTimeLayout), from.UTC().Format(dbTimeLayout))
    if err != nil {
        return nil, err
    }
    return collectReservations(rows)
}

// ReservationDetail joins a reservation with the display attributes of
// its room, course and requester.  Returned by the detail listings shown
// to authenticated users.
type ReservationDetail struct {
    model.Reservation
    RoomName       string  `json:"room_name"`
    RoomFloor      int     `json:"room_floor"`
    CourseName     *string `json:"course_name,omitempty"`
    RequesterEmail string  `json:"requester_email"`
}

const detailQuery = `SELECT r.id, r.room_id, r.course_id, r.requester_id,
                            r.start_at, r.end_at, r.state, r.description, r.created_at,
                            rm.name, rm.floor, c.name, u.email
                     FROM reservations r
                     JOIN rooms rm ON rm.id = r.room_id
                     LEFT JOIN courses c ON c.id = r.course_id
                     JOIN users u ON u.id = r.requester_id`

func collectDetails(rows *sql.Rows) ([]ReservationDetail, error) {
    defer rows.Close()
    out := make([]ReservationDetail, 0)
    for rows.Next() {
        var (
            d          ReservationDetail
            courseID   sql.NullInt64
            desc       sql.NullString
            courseName sql.NullString
        )
        if err := rows.Scan(&d.ID, &d.RoomID, &courseID, &d.RequesterID,
            &d.Start, &d.End, &d.State, &desc, &d.CreatedAt,
            &d.RoomName, &d.RoomFloor, &courseName, &d.RequesterEmail); err != nil {
            return nil, err
        }
        if courseID.Valid {
            cid := uint64(courseID.Int64)
            d.CourseID = &cid
        }
        if desc.Valid {
            d.Description = desc.String
        }
        if courseName.Valid {
            cn := courseName.String
            d.CourseName = &cn
        }
        out = append(out, d)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ListAllDetailed returns every reservation joined with room, course and
// requester display data, newest interval first.
func (r *ReservationRepo) ListAllDetailed(ctx context.Context) ([]ReservationDetail, error) {
    rows, err := r.db.QueryContext(ctx, detailQuery+` ORDER BY r.start_at DESC`)
    if err != nil {
        return nil, err
    }
    return collectDetails(rows)
}

// ListDetailedByRoom returns the detailed reservations of a single room,
// ordered by start.
func (r *ReservationRepo) ListDetailedByRoom(ctx context.Context, roomID uint64) ([]ReservationDetail, error) {
    rows, err := r.db.QueryContext(ctx,
        detailQuery+` WHERE r.room_id = ? ORDER BY r.start_at`, roomID)
    if err != nil {
        return nil, err
    }
    return collectDetails(rows)
}

// GetDetailByID returns a single reservation with its joined display
// data.  sql.ErrNoRows is returned when the reservation does not exist.
func (r *ReservationRepo) GetDetailByID(ctx context.Context, id uint64) (*ReservationDetail, error) {
    rows, err := r.db.QueryContext(ctx, detailQuery+` WHERE r.id = ?`, id)
    if err != nil {
        return nil, err
    }
    details, err := collectDetails(rows)
    if err != nil {
        return nil, err
    }
    if len(details) == 0 {
        return nil, sql.ErrNoRows
    }
    return &details[0], nil
}
