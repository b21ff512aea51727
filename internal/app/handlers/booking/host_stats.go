package booking

import (
	"context"
	"math"
	"time"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/dto"
	"airbrb/internal/app/handlers/support"
	"airbrb/internal/app/queries"
	"airbrb/internal/app/uow"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	"airbrb/internal/domain/shared/daterange"
	"airbrb/internal/domain/shared/money"
)

const (
	hostStatsKey = "booking.host_stats"
	profitWindow = 30
)

type HostStatsQuery struct {
	HostID    string
	ListingID string `validate:"required"`
	Year      int    `validate:"omitempty,gte=1970,lte=9999"`
}

func (q HostStatsQuery) Key() string      { return hostStatsKey }
func (q HostStatsQuery) ViewerID() string { return q.HostID }

type HostStatsHandler struct {
	UoWFactory uow.UoWFactory
	Ledger     Ledger
	Clock      func() time.Time
}

func (h *HostStatsHandler) Handle(ctx context.Context, q HostStatsQuery) (dto.HostStats, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.HostStats{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	listing, err := unit.Listings().ByID(execCtx, domainlistings.ListingID(q.ListingID))
	if err != nil {
		return dto.HostStats{}, support.Classify(err)
	}
	if !listing.OwnedBy(domainlistings.HostID(q.HostID)) {
		return dto.HostStats{}, apperr.Access(domainlistings.ErrNotOwner)
	}
	items, err := h.Ledger.ListByListing(execCtx, listing.ID)
	if err != nil {
		return dto.HostStats{}, err
	}

	now := time.Now()
	if h.Clock != nil {
		now = h.Clock()
	}
	year := q.Year
	if year == 0 {
		year = now.Year()
	}
	return summarize(listing.ID, year, daterange.DateOf(now), items), nil
}

// summarize folds accepted bookings starting in year into totals. The daily series spreads
// each accepted booking's total evenly over its nights, a same-day stay counting as one.
func summarize(listingID domainlistings.ListingID, year int, today daterange.Date, items []*domainbooking.Booking) dto.HostStats {
	stats := dto.HostStats{
		ListingID:  string(listingID),
		Year:       year,
		Last30Days: make([]dto.DailyProfit, profitWindow+1),
	}
	for i := range stats.Last30Days {
		stats.Last30Days[i].DaysAgo = i
	}

	var cents int64
	for _, b := range items {
		switch b.Status {
		case domainbooking.StatusPending:
			stats.PendingRequests++
			continue
		case domainbooking.StatusAccepted:
		default:
			continue
		}
		if b.Range.Start.Year() == year {
			stats.BookedDays += b.Range.Days()
			cents += b.TotalPrice.Amount
		}
		nights := max(b.Range.Nights(), 1)
		perNight := b.TotalPrice.Float() / float64(nights)
		for n := 0; n < nights; n++ {
			if ago := b.Range.Start.AddDays(n).DaysUntil(today); ago >= 0 && ago <= profitWindow {
				stats.Last30Days[ago].Profit += perNight
			}
		}
	}
	for i := range stats.Last30Days {
		stats.Last30Days[i].Profit = math.Round(stats.Last30Days[i].Profit*100) / 100
	}
	stats.Profit = money.Money{Amount: cents}.Float()
	return stats
}

var _ queries.Handler[HostStatsQuery, dto.HostStats] = (*HostStatsHandler)(nil)
