package booking

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/model"
)

func TestBookCreatesReservation(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	rec, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "weekly lecture")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.NotZero(t, rec.ID)
	assert.Equal(t, model.StateBooked, rec.State)
	assert.Equal(t, roomMain, rec.RoomID)
	require.NotNil(t, rec.CourseID)
	assert.Equal(t, courseGo, *rec.CourseID)
	assert.Equal(t, aliceUser, rec.RequesterID)
	assert.Equal(t, "weekly lecture", rec.Description)
}

func TestBookRejectsOverlaps(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(12, 0), "")
	require.NoError(t, err)

	overlapping := []struct {
		name   string
		sh, sm int
		eh, em int
	}{
		{"identical", 10, 0, 12, 0},
		{"contained", 10, 30, 11, 30},
		{"containing", 9, 0, 13, 0},
		{"overlaps start", 9, 0, 10, 30},
		{"overlaps end", 11, 30, 13, 0},
	}
	for _, tc := range overlapping {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Book(ctx, roomMain, courseGo, bobUser, at(tc.sh, tc.sm), at(tc.eh, tc.em), "")
			assert.ErrorIs(t, err, ErrConflict)
		})
	}
}

func TestBookAllowsTouchingBoundaries(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "")
	require.NoError(t, err)

	// [11:00, 12:00) starts exactly where the first ends.
	_, err = e.Book(ctx, roomMain, courseGo, bobUser, at(11, 0), at(12, 0), "")
	assert.NoError(t, err)

	// [09:00, 10:00) ends exactly where the first starts.
	_, err = e.Book(ctx, roomMain, courseGo, bobUser, at(9, 0), at(10, 0), "")
	assert.NoError(t, err)
}

func TestBookOtherRoomUnaffected(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "")
	require.NoError(t, err)

	_, err = e.Book(ctx, roomLab, courseGo, bobUser, at(10, 0), at(11, 0), "")
	assert.NoError(t, err)
}

func TestBookValidation(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(10, 0), "")
	assert.ErrorIs(t, err, ErrInvalidInterval, "empty interval")

	_, err = e.Book(ctx, roomMain, courseGo, aliceUser, at(11, 0), at(10, 0), "")
	assert.ErrorIs(t, err, ErrInvalidInterval, "inverted interval")

	_, err = e.Book(ctx, 999, courseGo, aliceUser, at(10, 0), at(11, 0), "")
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = e.Book(ctx, roomMain, 999, aliceUser, at(10, 0), at(11, 0), "")
	assert.ErrorIs(t, err, ErrCourseNotFound)

	_, err = e.Book(ctx, roomMain, courseGo, 999, at(10, 0), at(11, 0), "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCancelFreesInterval(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	rec, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "")
	require.NoError(t, err)

	_, err = e.Book(ctx, roomMain, courseGo, bobUser, at(10, 0), at(11, 0), "")
	require.ErrorIs(t, err, ErrConflict)

	require.NoError(t, e.Cancel(ctx, rec.ID, aliceUser))

	_, err = e.Book(ctx, roomMain, courseGo, bobUser, at(10, 0), at(11, 0), "")
	assert.NoError(t, err, "cancelled reservation no longer occupies the interval")
}

func TestCancelAuthorization(t *testing.T) {
	e, store := newTestEngine()
	ctx := context.Background()

	rec, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "")
	require.NoError(t, err)

	err = e.Cancel(ctx, rec.ID, bobUser)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	got, err := store.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateBooked, got.State, "failed cancel must not change state")

	// An administrator may cancel anyone's reservation.
	assert.NoError(t, e.Cancel(ctx, rec.ID, adminUser))
}

func TestCancelTerminalStates(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	rec, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "")
	require.NoError(t, err)
	require.NoError(t, e.Cancel(ctx, rec.ID, aliceUser))

	err = e.Cancel(ctx, rec.ID, aliceUser)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)

	err = e.Cancel(ctx, 999, aliceUser)
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestBlockRequiresAdmin(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Block(ctx, roomMain, aliceUser, at(10, 0), at(11, 0), "painting")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	rec, err := e.Block(ctx, roomMain, adminUser, at(10, 0), at(11, 0), "painting")
	require.NoError(t, err)
	assert.Equal(t, model.StateBlocked, rec.State)
	assert.Nil(t, rec.CourseID)

	// Blocks occupy the room like bookings do.
	_, err = e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 30), at(11, 30), "")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestMaintenanceBypassesConflictCheck(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(12, 0), "")
	require.NoError(t, err)

	_, err = e.ScheduleMaintenance(ctx, roomMain, aliceUser, at(10, 0), at(12, 0), "pipe burst")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	rec, err := e.ScheduleMaintenance(ctx, roomMain, adminUser, at(10, 0), at(12, 0), "pipe burst")
	require.NoError(t, err, "maintenance may be scheduled over an existing booking")
	assert.Equal(t, model.StateMaintenance, rec.State)
}

func TestCancelAsAdminAppendsReason(t *testing.T) {
	e, store := newTestEngine()
	ctx := context.Background()

	rec, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "weekly lecture")
	require.NoError(t, err)

	err = e.CancelAsAdmin(ctx, rec.ID, aliceUser, "nope")
	assert.ErrorIs(t, err, ErrNotAuthorized)

	require.NoError(t, e.CancelAsAdmin(ctx, rec.ID, adminUser, "pipe burst"))
	got, err := store.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StateCancelled, got.State)
	assert.Equal(t, "weekly lecture | CANCELLED BY ADMIN: pipe burst", got.Description)

	// Admin cancel also works on already-cancelled records; the trail
	// keeps accumulating.
	require.NoError(t, e.CancelAsAdmin(ctx, rec.ID, adminUser, "double check"))
	got, err = store.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "weekly lecture | CANCELLED BY ADMIN: pipe burst | CANCELLED BY ADMIN: double check", got.Description)
}

func TestCancelAsAdminEmptyDescription(t *testing.T) {
	e, store := newTestEngine()
	ctx := context.Background()

	rec, err := e.Block(ctx, roomMain, adminUser, at(10, 0), at(11, 0), "")
	require.NoError(t, err)

	require.NoError(t, e.CancelAsAdmin(ctx, rec.ID, adminUser, "no longer needed"))
	got, err := store.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "CANCELLED BY ADMIN: no longer needed", got.Description)
}

func TestConcurrentDoubleBook(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	const attempts = 16
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "")
		}(i)
	}
	wg.Wait()

	var ok, conflict int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrConflict):
			conflict++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactly one writer wins the interval")
	assert.Equal(t, attempts-1, conflict)
}
