package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-reservation/internal/model"
)

func TestStatusAtEmptyRoom(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	st, err := e.StatusAt(ctx, roomMain, at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusFree, st)

	_, err = e.StatusAt(ctx, 999, at(10, 30))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestStatusAtSingleStates(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "")
	require.NoError(t, err)

	st, err := e.StatusAt(ctx, roomMain, at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusBooked, st)

	// Half-open interval: the end instant is already free, the start is
	// occupied.
	st, err = e.StatusAt(ctx, roomMain, at(11, 0))
	require.NoError(t, err)
	assert.Equal(t, model.StatusFree, st)

	st, err = e.StatusAt(ctx, roomMain, at(10, 0))
	require.NoError(t, err)
	assert.Equal(t, model.StatusBooked, st)
}

func TestStatusAtPriority(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(12, 0), "")
	require.NoError(t, err)
	_, err = e.ScheduleMaintenance(ctx, roomMain, adminUser, at(11, 0), at(13, 0), "")
	require.NoError(t, err)

	st, err := e.StatusAt(ctx, roomMain, at(11, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusMaintenance, st, "maintenance outranks a booking")

	st, err = e.StatusAt(ctx, roomMain, at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusBooked, st)

	st, err = e.StatusAt(ctx, roomMain, at(12, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusMaintenance, st)
}

func TestStatusAtMaintenanceOutranksBlocked(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	// Bookings and blocks both go through the conflict check, so the
	// only way two active records cover the same instant is a
	// maintenance window layered on top.
	_, err := e.Block(ctx, roomMain, adminUser, at(10, 0), at(12, 0), "exam setup")
	require.NoError(t, err)
	_, err = e.ScheduleMaintenance(ctx, roomMain, adminUser, at(11, 0), at(12, 0), "")
	require.NoError(t, err)

	st, err := e.StatusAt(ctx, roomMain, at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, st)

	st, err = e.StatusAt(ctx, roomMain, at(11, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusMaintenance, st)
}

func TestStatusAtIgnoresCancelled(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	rec, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "")
	require.NoError(t, err)
	require.NoError(t, e.Cancel(ctx, rec.ID, aliceUser))

	st, err := e.StatusAt(ctx, roomMain, at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusFree, st)
}

func TestStatusDetailAtBooked(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	rec, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "weekly lecture")
	require.NoError(t, err)

	det, err := e.StatusDetailAt(ctx, roomMain, at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusBooked, det.Status)
	require.NotNil(t, det.ReservationID)
	assert.Equal(t, rec.ID, *det.ReservationID)
	require.NotNil(t, det.RequesterID)
	assert.Equal(t, aliceUser, *det.RequesterID)
	assert.Equal(t, "alice@example.com", det.RequesterEmail)
	assert.Equal(t, "weekly lecture", det.Description)
	assert.Nil(t, det.CreatedAt)
}

func TestStatusDetailAtBlocked(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Block(ctx, roomMain, adminUser, at(10, 0), at(11, 0), "painting")
	require.NoError(t, err)

	det, err := e.StatusDetailAt(ctx, roomMain, at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, det.Status)
	assert.Nil(t, det.RequesterID)
	assert.Empty(t, det.RequesterEmail)
	assert.Equal(t, "painting", det.Description)
	require.NotNil(t, det.CreatedAt)
}

func TestStatusDetailAtFree(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	det, err := e.StatusDetailAt(ctx, roomMain, at(10, 30))
	require.NoError(t, err)
	assert.Equal(t, model.StatusFree, det.Status)
	assert.Nil(t, det.ReservationID)
}
