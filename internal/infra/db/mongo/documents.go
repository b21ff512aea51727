package mongo

import (
	"time"

	domainavailability "airbrb/internal/domain/availability"
	domainbooking "airbrb/internal/domain/booking"
	domainlistings "airbrb/internal/domain/listings"
	domainreviews "airbrb/internal/domain/reviews"
	"airbrb/internal/domain/shared/daterange"
	"airbrb/internal/domain/shared/money"
)

// Dates are stored as YYYY-MM-DD strings so range queries and sorting stay lexical.
type rangeDocument struct {
	Start string `bson:"start"`
	End   string `bson:"end"`
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

type listingDocument struct {
	ID           string          `bson:"_id"`
	Owner        string          `bson:"owner"`
	Title        string          `bson:"title"`
	Address      string          `bson:"address"`
	Price        moneyDocument   `bson:"price"`
	Published    bool            `bson:"published"`
	Availability []rangeDocument `bson:"availability"`
	PostedAt     int64           `bson:"posted_at,omitempty"`
	CreatedAt    int64           `bson:"created_at"`
	UpdatedAt    int64           `bson:"updated_at"`
	Version      int64           `bson:"version"`
}

type bookingDocument struct {
	ID         string        `bson:"_id"`
	ListingID  string        `bson:"listing_id"`
	GuestID    string        `bson:"guest_id"`
	Range      rangeDocument `bson:"range"`
	TotalPrice moneyDocument `bson:"total_price"`
	Status     string        `bson:"status"`
	CreatedAt  int64         `bson:"created_at"`
	UpdatedAt  int64         `bson:"updated_at"`
	Version    int64         `bson:"version"`
}

type reviewDocument struct {
	ID        string `bson:"_id"`
	BookingID string `bson:"booking_id"`
	ListingID string `bson:"listing_id"`
	AuthorID  string `bson:"author_id"`
	Rating    int    `bson:"rating"`
	Comment   string `bson:"comment"`
	CreatedAt int64  `bson:"created_at"`
	UpdatedAt int64  `bson:"updated_at"`
}

func newRangeDocument(r daterange.DateRange) rangeDocument {
	return rangeDocument{Start: r.Start.String(), End: r.End.String()}
}

func (d rangeDocument) toRange() (daterange.DateRange, error) {
	return daterange.Normalize(daterange.Raw{Start: d.Start, End: d.End})
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount, Currency: m.Currency}
}

func (d moneyDocument) toMoney() (money.Money, error) {
	currency := d.Currency
	if currency == "" {
		currency = money.DefaultCurrency
	}
	return money.New(d.Amount, currency)
}

func newListingDocument(l *domainlistings.Listing) listingDocument {
	windows := make([]rangeDocument, 0, len(l.Availability))
	for _, r := range l.Availability {
		windows = append(windows, newRangeDocument(r))
	}
	doc := listingDocument{
		ID:           string(l.ID),
		Owner:        string(l.Owner),
		Title:        l.Title,
		Address:      l.Address,
		Price:        newMoneyDocument(l.Price),
		Published:    l.Published,
		Availability: windows,
		CreatedAt:    l.CreatedAt.UnixMilli(),
		UpdatedAt:    l.UpdatedAt.UnixMilli(),
		Version:      l.Version,
	}
	if !l.PostedAt.IsZero() {
		doc.PostedAt = l.PostedAt.UnixMilli()
	}
	return doc
}

func (d listingDocument) toAggregate() (*domainlistings.Listing, error) {
	ranges := make([]daterange.DateRange, 0, len(d.Availability))
	for _, rd := range d.Availability {
		r, err := rd.toRange()
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	windows, err := domainavailability.NewWindows(ranges)
	if err != nil {
		return nil, err
	}
	price, err := d.Price.toMoney()
	if err != nil {
		return nil, err
	}
	l := &domainlistings.Listing{
		ID:           domainlistings.ListingID(d.ID),
		Owner:        domainlistings.HostID(d.Owner),
		Title:        d.Title,
		Address:      d.Address,
		Price:        price,
		Published:    d.Published,
		Availability: windows,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
		Version:      d.Version,
	}
	if d.PostedAt != 0 {
		l.PostedAt = timestampToTime(d.PostedAt)
	}
	return l, nil
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:         string(b.ID),
		ListingID:  string(b.ListingID),
		GuestID:    b.GuestID,
		Range:      newRangeDocument(b.Range),
		TotalPrice: newMoneyDocument(b.TotalPrice),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt.UnixMilli(),
		UpdatedAt:  b.UpdatedAt.UnixMilli(),
		Version:    b.Version,
	}
}

func (d bookingDocument) toAggregate() (*domainbooking.Booking, error) {
	r, err := d.Range.toRange()
	if err != nil {
		return nil, err
	}
	price, err := d.TotalPrice.toMoney()
	if err != nil {
		return nil, err
	}
	return &domainbooking.Booking{
		ID:         domainbooking.BookingID(d.ID),
		ListingID:  domainlistings.ListingID(d.ListingID),
		GuestID:    d.GuestID,
		Range:      r,
		TotalPrice: price,
		Status:     domainbooking.Status(d.Status),
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
		Version:    d.Version,
	}, nil
}

func newReviewDocument(r *domainreviews.Review) reviewDocument {
	return reviewDocument{
		ID:        string(r.ID),
		BookingID: string(r.BookingID),
		ListingID: string(r.ListingID),
		AuthorID:  r.AuthorID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt.UnixMilli(),
		UpdatedAt: r.UpdatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toAggregate() *domainreviews.Review {
	return &domainreviews.Review{
		ID:        domainreviews.ReviewID(d.ID),
		BookingID: domainbooking.BookingID(d.BookingID),
		ListingID: domainlistings.ListingID(d.ListingID),
		AuthorID:  d.AuthorID,
		Rating:    d.Rating,
		Comment:   d.Comment,
		CreatedAt: timestampToTime(d.CreatedAt),
		UpdatedAt: timestampToTime(d.UpdatedAt),
	}
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
