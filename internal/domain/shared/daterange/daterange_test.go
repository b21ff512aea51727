package daterange

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	dr, err := Normalize(Raw{Start: start, End: end})
	require.NoError(t, err)
	return dr
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		raw  string
		want Date
	}{
		{"2025-01-03", MustDate(2025, time.January, 3)},
		{" 2025-01-03 ", MustDate(2025, time.January, 3)},
		{"2025-01-03T23:30:00.000Z", MustDate(2025, time.January, 3)},
		{"2025-01-03T00:30:00+11:00", MustDate(2025, time.January, 3)},
		{"2024-02-29", MustDate(2024, time.February, 29)},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.raw)
		require.NoError(t, err, tc.raw)
		assert.True(t, got.Equal(tc.want), "%s: got %s", tc.raw, got)
	}
}

func TestParseDateRejectsMalformed(t *testing.T) {
	for _, raw := range []string{"", "2025-13-01", "2025-02-30", "2023-02-29", "03/01/2025", "2025-1-3", "tomorrow"} {
		_, err := ParseDate(raw)
		assert.ErrorIs(t, err, ErrInvalidDate, raw)
	}
}

func TestNewDateValidates(t *testing.T) {
	_, err := NewDate(2025, time.April, 31)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestNormalizeRejectsReversedRange(t *testing.T) {
	_, err := Normalize(Raw{Start: "2025-01-05", End: "2025-01-03"})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Normalize(Raw{Start: "2025-01-05", End: "nope"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSingleDayRangeIsValid(t *testing.T) {
	dr := mustRange(t, "2025-01-05", "2025-01-05")
	assert.Equal(t, 1, dr.Days())
	assert.Equal(t, 0, dr.Nights())
}

func TestOverlapsIsInclusive(t *testing.T) {
	a := mustRange(t, "2025-01-03", "2025-01-05")
	cases := []struct {
		name string
		b    DateRange
		want bool
	}{
		{"shared end day", mustRange(t, "2025-01-05", "2025-01-07"), true},
		{"shared start day", mustRange(t, "2025-01-01", "2025-01-03"), true},
		{"inside", mustRange(t, "2025-01-04", "2025-01-04"), true},
		{"enclosing", mustRange(t, "2025-01-01", "2025-01-10"), true},
		{"day after", mustRange(t, "2025-01-06", "2025-01-08"), false},
		{"day before", mustRange(t, "2024-12-30", "2025-01-02"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(a, tc.b))
			assert.Equal(t, tc.want, Overlaps(tc.b, a))
		})
	}
}

func TestContains(t *testing.T) {
	outer := mustRange(t, "2025-01-01", "2025-01-10")
	assert.True(t, Contains(outer, outer))
	assert.True(t, Contains(outer, mustRange(t, "2025-01-03", "2025-01-05")))
	assert.True(t, Contains(outer, mustRange(t, "2025-01-10", "2025-01-10")))
	assert.False(t, Contains(outer, mustRange(t, "2024-12-31", "2025-01-02")))
	assert.False(t, Contains(outer, mustRange(t, "2025-01-09", "2025-01-11")))
	assert.True(t, outer.ContainsDate(MustDate(2025, time.January, 1)))
	assert.False(t, outer.ContainsDate(MustDate(2025, time.January, 11)))
}

func TestDayArithmeticAcrossMonths(t *testing.T) {
	d := MustDate(2024, time.February, 28)
	assert.Equal(t, "2024-02-29", d.AddDays(1).String())
	assert.Equal(t, "2024-03-01", d.AddDays(2).String())
	assert.Equal(t, 2, d.DaysUntil(MustDate(2024, time.March, 1)))
	assert.Equal(t, -28, d.DaysUntil(MustDate(2024, time.January, 31)))
}

func TestDateOfUsesLocalCalendarDay(t *testing.T) {
	sydney := time.FixedZone("AEDT", 11*60*60)
	instant := time.Date(2025, time.January, 3, 8, 0, 0, 0, sydney)
	assert.Equal(t, "2025-01-03", DateOf(instant).String())
	assert.Equal(t, "2025-01-02", DateOf(instant.UTC()).String())
}

func TestSortByStart(t *testing.T) {
	ranges := []DateRange{
		mustRange(t, "2025-03-01", "2025-03-05"),
		mustRange(t, "2025-01-01", "2025-01-05"),
		mustRange(t, "2025-02-01", "2025-02-05"),
	}
	SortByStart(ranges)
	assert.Equal(t, "2025-01-01", ranges[0].Start.String())
	assert.Equal(t, "2025-02-01", ranges[1].Start.String())
	assert.Equal(t, "2025-03-01", ranges[2].Start.String())
}

func TestDateJSON(t *testing.T) {
	dr := mustRange(t, "2025-01-03", "2025-01-05")
	data, err := json.Marshal(dr)
	require.NoError(t, err)
	assert.JSONEq(t, `{"Start":"2025-01-03","End":"2025-01-05"}`, string(data))

	var back DateRange
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, dr, back)
}
