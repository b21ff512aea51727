package ginserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	gin "github.com/gin-gonic/gin"

	"airbrb/internal/app/apperr"
	"airbrb/internal/app/commands"
	"airbrb/internal/app/dto"
	bookingapp "airbrb/internal/app/handlers/booking"
	listingapp "airbrb/internal/app/handlers/listings"
	reviewapp "airbrb/internal/app/handlers/reviews"
	"airbrb/internal/app/queries"
	"airbrb/internal/domain/shared/daterange"
)

type ListingHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Stats(c *gin.Context)
	Publish(c *gin.Context)
	Unpublish(c *gin.Context)
	Review(c *gin.Context)
	Reviews(c *gin.Context)
}

type ListingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type listingRequest struct {
	Title   string  `json:"title"`
	Address string  `json:"address"`
	Price   float64 `json:"price"`
}

func (r listingRequest) details() listingapp.ListingDetails {
	return listingapp.ListingDetails{Title: r.Title, Address: r.Address, Price: r.Price}
}

type reviewRequest struct {
	Review struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	} `json:"review"`
}

type publishRequest struct {
	Availability []dto.DateRange `json:"availability"`
}

func (h ListingHandler) List(c *gin.Context) {
	published, _ := strconv.ParseBool(c.Query("published"))
	result, err := queries.Ask[listingapp.ListListingsQuery, dto.ListingCollection](c.Request.Context(), h.Queries, listingapp.ListListingsQuery{
		Owner:         c.Query("owner"),
		PublishedOnly: published,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Create(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := commands.Dispatch[listingapp.CreateListingCommand, *listingapp.CreateListingResult](c.Request.Context(), h.Commands, listingapp.CreateListingCommand{
		HostID:  callerID(c),
		Details: req.details(),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListingCreated{ListingID: result.ListingID})
}

func (h ListingHandler) Get(c *gin.Context) {
	result, err := queries.Ask[listingapp.GetListingQuery, dto.Listing](c.Request.Context(), h.Queries, listingapp.GetListingQuery{ListingID: c.Param("id")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListingEnvelope{Listing: result})
}

func (h ListingHandler) Update(c *gin.Context) {
	var req listingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	_, err := commands.Dispatch[listingapp.UpdateListingCommand, *struct{}](c.Request.Context(), h.Commands, listingapp.UpdateListingCommand{
		HostID:    callerID(c),
		ListingID: c.Param("id"),
		Details:   req.details(),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondEmpty(c)
}

func (h ListingHandler) Stats(c *gin.Context) {
	year := 0
	if raw := strings.TrimSpace(c.Query("year")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, h.Logger, apperr.Inputf("year %q is not a number", raw))
			return
		}
		year = parsed
	}
	result, err := queries.Ask[bookingapp.HostStatsQuery, dto.HostStats](c.Request.Context(), h.Queries, bookingapp.HostStatsQuery{
		HostID:    callerID(c),
		ListingID: c.Param("id"),
		Year:      year,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ListingHandler) Publish(c *gin.Context) {
	var req publishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ranges := make([]daterange.Raw, 0, len(req.Availability))
	for _, r := range req.Availability {
		ranges = append(ranges, r.Raw())
	}
	_, err := commands.Dispatch[listingapp.PublishListingCommand, *struct{}](c.Request.Context(), h.Commands, listingapp.PublishListingCommand{
		HostID:       callerID(c),
		ListingID:    c.Param("id"),
		Availability: ranges,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondEmpty(c)
}

func (h ListingHandler) Unpublish(c *gin.Context) {
	_, err := commands.Dispatch[listingapp.UnpublishListingCommand, *struct{}](c.Request.Context(), h.Commands, listingapp.UnpublishListingCommand{
		HostID:    callerID(c),
		ListingID: c.Param("id"),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondEmpty(c)
}

// Review leaves or revises the caller's review of an accepted booking.
func (h ListingHandler) Review(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	_, err := commands.Dispatch[reviewapp.SubmitReviewCommand, *dto.Review](c.Request.Context(), h.Commands, reviewapp.SubmitReviewCommand{
		AuthorID:  callerID(c),
		ListingID: c.Param("id"),
		BookingID: c.Param("bookingid"),
		Rating:    req.Review.Rating,
		Comment:   req.Review.Comment,
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondEmpty(c)
}

func (h ListingHandler) Reviews(c *gin.Context) {
	result, err := queries.Ask[reviewapp.ListListingReviewsQuery, dto.ReviewCollection](c.Request.Context(), h.Queries, reviewapp.ListListingReviewsQuery{ListingID: c.Param("id")})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ListingHTTP = ListingHandler{}
