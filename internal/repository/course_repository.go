package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/room-reservation/internal/model"
)

// CourseRepo provides data access to the courses table.
type CourseRepo struct {
    db *sql.DB
}

// NewCourseRepo returns a new CourseRepo bound to the given database.
func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{db: db} }

// GetByID returns a single course.  sql.ErrNoRows is returned when it
// does not exist.
func (r *CourseRepo) GetByID(ctx context.Context, id uint64) (*model.Course, error) {
    var (
        c          model.Course
        instructor sql.NullString
    )
    err := r.db.QueryRowContext(ctx,
        `SELECT id, name, instructor FROM courses WHERE id = ?`, id).
        Scan(&c.ID, &c.Name, &instructor)
    if err != nil {
        return nil, err
    }
    if instructor.Valid {
        c.Instructor = instructor.String
    }
    return &c, nil
}

// List returns all courses ordered by name.
func (r *CourseRepo) List(ctx context.Context) ([]model.Course, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, name, instructor FROM courses ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Course, 0)
    for rows.Next() {
        var (
            c          model.Course
            instructor sql.NullString
        )
        if err := rows.Scan(&c.ID, &c.Name, &instructor); err != nil {
            return nil, err
        }
        if instructor.Valid {
            c.Instructor = instructor.String
        }
        out = append(out, c)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Create inserts a course and populates its ID.
func (r *CourseRepo) Create(ctx context.Context, c *model.Course) error {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO courses (name, instructor) VALUES (?, ?)`,
        c.Name, c.Instructor)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    c.ID = uint64(id)
    return nil
}

// Delete removes a course unless reservations still reference it.
func (r *CourseRepo) Delete(ctx context.Context, id uint64) error {
    var active int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE course_id = ? AND state != 'CANCELLED'`,
        id).Scan(&active); err != nil {
        return err
    }
    if active > 0 {
        return ErrHasReservations
    }
    res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
    if err != nil {
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
