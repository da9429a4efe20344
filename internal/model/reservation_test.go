package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStateActive(t *testing.T) {
	assert.True(t, StateBooked.Active())
	assert.True(t, StateBlocked.Active())
	assert.True(t, StateMaintenance.Active())
	assert.False(t, StateCancelled.Active())
}

func TestReservationCovers(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC)
	r := Reservation{Start: start, End: end}

	assert.True(t, r.Covers(start), "start instant is inside the interval")
	assert.True(t, r.Covers(start.Add(30*time.Minute)))
	assert.False(t, r.Covers(end), "end instant is outside the interval")
	assert.False(t, r.Covers(start.Add(-time.Second)))
	assert.False(t, r.Covers(end.Add(time.Hour)))
}
