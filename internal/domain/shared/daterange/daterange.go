package daterange

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrInvalidDate  = errors.New("daterange: invalid date")
	ErrInvalidRange = errors.New("daterange: start must not be after end")
)

const layout = "2006-01-02"

// Date is a calendar day. It carries no time-of-day and no location, so two
// dates compare equal whenever their (year, month, day) triples match.
type Date struct {
	year  int
	month time.Month
	day   int
}

func NewDate(year int, month time.Month, day int) (Date, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, int(month), day)
	}
	return Date{year: year, month: month, day: day}, nil
}

// MustDate panics on invalid input; intended for fixtures and tests.
func MustDate(year int, month time.Month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// DateOf takes the calendar day as seen in t's own location.
func DateOf(t time.Time) Date {
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// ParseDate accepts "YYYY-MM-DD". Timestamps such as "2025-01-03T13:00:00.000Z"
// are reduced to the date they were written with; the offset is ignored so a
// day picked in local time never shifts by one.
func ParseDate(raw string) (Date, error) {
	value := strings.TrimSpace(raw)
	if len(value) > len(layout) {
		switch value[len(layout)] {
		case 'T', 't', ' ':
			value = value[:len(layout)]
		}
	}
	t, err := time.Parse(layout, value)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return DateOf(t), nil
}

func (d Date) Year() int          { return d.year }
func (d Date) Month() time.Month  { return d.month }
func (d Date) Day() int           { return d.day }
func (d Date) IsZero() bool       { return d.year == 0 && d.month == 0 && d.day == 0 }
func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }
func (d Date) Equal(o Date) bool  { return d.Compare(o) == 0 }

func (d Date) Compare(o Date) int {
	switch {
	case d.year != o.year:
		return cmp(d.year, o.year)
	case d.month != o.month:
		return cmp(int(d.month), int(o.month))
	default:
		return cmp(d.day, o.day)
	}
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.midnight().AddDate(0, 0, n))
}

// DaysUntil returns the number of days from d to o (negative when o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.midnight().Sub(d.midnight()).Hours() / 24)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

func (d Date) midnight() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// DateRange is an inclusive interval [Start, End] of calendar days.
type DateRange struct {
	Start Date
	End   Date
}

// Raw is the unparsed boundary form of a range.
type Raw struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func New(start, end Date) (DateRange, error) {
	dr := DateRange{Start: start, End: end}
	if err := dr.Validate(); err != nil {
		return DateRange{}, err
	}
	return dr, nil
}

// Normalize parses a raw range into its canonical form.
func Normalize(raw Raw) (DateRange, error) {
	start, err := ParseDate(raw.Start)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(raw.End)
	if err != nil {
		return DateRange{}, err
	}
	return New(start, end)
}

func (dr DateRange) Validate() error {
	if dr.Start.IsZero() || dr.End.IsZero() {
		return ErrInvalidDate
	}
	if dr.Start.After(dr.End) {
		return ErrInvalidRange
	}
	return nil
}

// Overlaps reports whether the ranges share at least one day.
func (dr DateRange) Overlaps(other DateRange) bool {
	return !dr.End.Before(other.Start) && !other.End.Before(dr.Start)
}

func (dr DateRange) Contains(other DateRange) bool {
	return !other.Start.Before(dr.Start) && !dr.End.Before(other.End)
}

func (dr DateRange) ContainsDate(d Date) bool {
	return !d.Before(dr.Start) && !d.After(dr.End)
}

// Days counts the days covered, both ends included.
func (dr DateRange) Days() int {
	return dr.Start.DaysUntil(dr.End) + 1
}

// Nights counts the nights between check-in and check-out.
func (dr DateRange) Nights() int {
	return dr.Start.DaysUntil(dr.End)
}

func (dr DateRange) Raw() Raw {
	return Raw{Start: dr.Start.String(), End: dr.End.String()}
}

func (dr DateRange) String() string {
	return dr.Start.String() + ".." + dr.End.String()
}

func Overlaps(a, b DateRange) bool { return a.Overlaps(b) }

func Contains(outer, inner DateRange) bool { return outer.Contains(inner) }

// SortByStart orders ranges by start date, then by end date.
func SortByStart(ranges []DateRange) {
	sort.SliceStable(ranges, func(i, j int) bool {
		if c := ranges[i].Start.Compare(ranges[j].Start); c != 0 {
			return c < 0
		}
		return ranges[i].End.Before(ranges[j].End)
	})
}

func cmp(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	if raw == "null" || raw == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
