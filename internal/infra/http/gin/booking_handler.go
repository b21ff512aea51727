package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"airbrb/internal/app/commands"
	"airbrb/internal/app/dto"
	bookingapp "airbrb/internal/app/handlers/booking"
	"airbrb/internal/app/queries"
)

type BookingHTTP interface {
	List(c *gin.Context)
	Mine(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Accept(c *gin.Context)
	Decline(c *gin.Context)
	Remove(c *gin.Context)
}

type BookingHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type createBookingRequest struct {
	DateRange  dto.DateRange `json:"dateRange"`
	TotalPrice *float64      `json:"totalPrice"`
}

func (h BookingHandler) Create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := commands.Dispatch[bookingapp.RequestBookingCommand, *bookingapp.RequestBookingResult](c.Request.Context(), h.Commands, bookingapp.RequestBookingCommand{
		GuestID:         callerID(c),
		ListingID:       c.Param("id"),
		Range:           req.DateRange.Raw(),
		TotalPrice:      req.TotalPrice,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.BookingCreated{BookingID: result.BookingID})
}

func (h BookingHandler) List(c *gin.Context) {
	result, err := queries.Ask[bookingapp.ListBookingsQuery, dto.BookingCollection](c.Request.Context(), h.Queries, bookingapp.ListBookingsQuery{
		UserID: callerID(c),
		Role:   c.Query("role"),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Mine(c *gin.Context) {
	result, err := queries.Ask[bookingapp.BookingFeedQuery, bookingapp.BookingFeed](c.Request.Context(), h.Queries, bookingapp.BookingFeedQuery{UserID: callerID(c)})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h BookingHandler) Get(c *gin.Context) {
	result, err := queries.Ask[bookingapp.GetBookingQuery, dto.Booking](c.Request.Context(), h.Queries, bookingapp.GetBookingQuery{
		UserID:    callerID(c),
		BookingID: c.Param("id"),
	})
	if err != nil {
		respondError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.BookingEnvelope{Booking: result})
}

func (h BookingHandler) Accept(c *gin.Context) {
	h.transition(c, bookingapp.AcceptBookingCommand{HostID: callerID(c), BookingID: c.Param("id")})
}

func (h BookingHandler) Decline(c *gin.Context) {
	h.transition(c, bookingapp.DeclineBookingCommand{HostID: callerID(c), BookingID: c.Param("id")})
}

func (h BookingHandler) Remove(c *gin.Context) {
	h.transition(c, bookingapp.RemoveBookingCommand{ActorUserID: callerID(c), BookingID: c.Param("id")})
}

func (h BookingHandler) transition(c *gin.Context, cmd commands.Command) {
	if _, err := h.Commands.Dispatch(c.Request.Context(), cmd); err != nil {
		respondError(c, h.Logger, err)
		return
	}
	respondEmpty(c)
}

var _ BookingHTTP = BookingHandler{}
