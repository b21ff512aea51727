package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"airbrb/internal/domain/shared/daterange"
)

func dr(t *testing.T, start, end string) daterange.DateRange {
	t.Helper()
	r, err := daterange.Normalize(daterange.Raw{Start: start, End: end})
	require.NoError(t, err)
	return r
}

func TestNewWindowsSortsByStart(t *testing.T) {
	w, err := NewWindows([]daterange.DateRange{
		dr(t, "2025-03-01", "2025-03-10"),
		dr(t, "2025-01-01", "2025-01-10"),
	})
	require.NoError(t, err)
	require.Len(t, w, 2)
	assert.Equal(t, "2025-01-01", w[0].Start.String())
	assert.Equal(t, "2025-03-01", w[1].Start.String())
}

func TestNewWindowsRejectsOverlap(t *testing.T) {
	_, err := NewWindows([]daterange.DateRange{
		dr(t, "2025-01-01", "2025-01-10"),
		dr(t, "2025-02-01", "2025-02-03"),
		dr(t, "2025-01-10", "2025-01-15"),
	})
	assert.ErrorIs(t, err, ErrOverlappingRanges)
}

func TestNewWindowsKeepsAdjacentRangesSeparate(t *testing.T) {
	w, err := NewWindows([]daterange.DateRange{
		dr(t, "2025-01-11", "2025-01-20"),
		dr(t, "2025-01-01", "2025-01-10"),
	})
	require.NoError(t, err)
	assert.Len(t, w, 2)
}

func TestNewWindowsRejectsInvalidRange(t *testing.T) {
	_, err := NewWindows([]daterange.DateRange{{}})
	assert.ErrorIs(t, err, daterange.ErrInvalidDate)
}

func TestCovers(t *testing.T) {
	w, err := NewWindows([]daterange.DateRange{
		dr(t, "2025-01-01", "2025-01-10"),
		dr(t, "2025-01-11", "2025-01-20"),
	})
	require.NoError(t, err)

	assert.True(t, w.Covers(dr(t, "2025-01-03", "2025-01-05")))
	assert.True(t, w.Covers(dr(t, "2025-01-11", "2025-01-20")))
	// spans two adjacent windows but no single window contains it
	assert.False(t, w.Covers(dr(t, "2025-01-09", "2025-01-12")))
	assert.False(t, w.Covers(dr(t, "2025-01-19", "2025-01-21")))
}

func TestEmptyWindowsCoverNothing(t *testing.T) {
	w, err := NewWindows(nil)
	require.NoError(t, err)
	assert.True(t, w.Empty())
	assert.False(t, w.Covers(dr(t, "2025-01-01", "2025-01-01")))
}
