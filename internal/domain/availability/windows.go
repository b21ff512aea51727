package availability

import (
	"errors"
	"fmt"

	"airbrb/internal/domain/shared/daterange"
)

var ErrOverlappingRanges = errors.New("availability: availability ranges overlap")

// Windows is the ordered set of open-for-booking ranges of one listing.
// Ranges are sorted by start date and pairwise non-overlapping.
type Windows []daterange.DateRange

// NewWindows sorts the supplied ranges and rejects the set if any two overlap.
// Adjacent or overlapping ranges are never merged; the host's ranges are kept as sent.
func NewWindows(ranges []daterange.DateRange) (Windows, error) {
	out := make(Windows, 0, len(ranges))
	for _, r := range ranges {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	daterange.SortByStart(out)
	for i := 1; i < len(out); i++ {
		if out[i-1].Overlaps(out[i]) {
			return nil, fmt.Errorf("%w: %s and %s", ErrOverlappingRanges, out[i-1], out[i])
		}
	}
	return out, nil
}

// Covers reports whether a single window contains the whole candidate range.
// An empty set covers nothing.
func (w Windows) Covers(candidate daterange.DateRange) bool {
	for _, window := range w {
		if window.Contains(candidate) {
			return true
		}
	}
	return false
}

func (w Windows) Ranges() []daterange.DateRange {
	return append([]daterange.DateRange(nil), w...)
}

func (w Windows) Empty() bool {
	return len(w) == 0
}
