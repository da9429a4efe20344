package booking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name           string
		s1h, e1h       int
		s2h, e2h       int
		want           bool
	}{
		{"identical", 10, 12, 10, 12, true},
		{"contained", 10, 12, 10, 11, true},
		{"containing", 10, 11, 9, 13, true},
		{"partial left", 10, 12, 9, 11, true},
		{"partial right", 10, 12, 11, 13, true},
		{"touching end to start", 10, 11, 11, 12, false},
		{"touching start to end", 11, 12, 10, 11, false},
		{"disjoint before", 10, 11, 13, 14, false},
		{"disjoint after", 13, 14, 10, 11, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := overlaps(at(tc.s1h, 0), at(tc.e1h, 0), at(tc.s2h, 0), at(tc.e2h, 0))
			assert.Equal(t, tc.want, got)
			// Overlap is symmetric.
			assert.Equal(t, tc.want, overlaps(at(tc.s2h, 0), at(tc.e2h, 0), at(tc.s1h, 0), at(tc.e1h, 0)))
		})
	}
}

func TestConflictsProbe(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	_, err := e.Conflicts(ctx, roomMain, at(11, 0), at(10, 0))
	assert.ErrorIs(t, err, ErrInvalidInterval)

	got, err := e.Conflicts(ctx, roomMain, at(10, 0), at(11, 0))
	require.NoError(t, err)
	assert.False(t, got, "empty room has no conflicts")

	_, err = e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "")
	require.NoError(t, err)

	got, err = e.Conflicts(ctx, roomMain, at(10, 30), at(11, 30))
	require.NoError(t, err)
	assert.True(t, got)

	got, err = e.Conflicts(ctx, roomMain, at(11, 0), at(12, 0))
	require.NoError(t, err)
	assert.False(t, got, "touching boundary is not a conflict")

	got, err = e.Conflicts(ctx, roomLab, at(10, 0), at(11, 0))
	require.NoError(t, err)
	assert.False(t, got, "other rooms are unaffected")
}

func TestConflictsIgnoresCancelled(t *testing.T) {
	e, _ := newTestEngine()
	ctx := context.Background()

	rec, err := e.Book(ctx, roomMain, courseGo, aliceUser, at(10, 0), at(11, 0), "")
	require.NoError(t, err)
	require.NoError(t, e.Cancel(ctx, rec.ID, aliceUser))

	got, err := e.Conflicts(ctx, roomMain, at(10, 0), at(11, 0))
	require.NoError(t, err)
	assert.False(t, got)
}
