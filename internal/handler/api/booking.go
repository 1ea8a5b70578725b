package api

import (
	"errors"
	"net/http"
	"strconv"

	reqdto "velobook/internal/handler/dto/request"
	resdto "velobook/internal/handler/dto/response"
	"velobook/internal/handler/httperr"
	"velobook/internal/usecase/commands"
	"velobook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands commands.BookingCommands
	bookingQueries  queries.BookingQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, bookingQueries queries.BookingQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands: bookingCommands,
		bookingQueries:  bookingQueries,
	}
}

// @Summary Submit booking
// @Description Submit a booking for a slot with one or more riders
// @Tags bookings
// @Accept json
// @Produce json
// @Param request body reqdto.SubmitBookingRequest true "Booking request"
// @Success 201 {object} resdto.SubmitBookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 422 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /bookings [post]
func (h *BookingHandler) Submit(c *gin.Context) {
	var req reqdto.SubmitBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	draft, err := req.ToDraft()
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date or session", nil)
		return
	}

	result, err := h.bookingCommands.Submit(c.Request.Context(), draft, c.ClientIP())
	if err != nil {
		h.writeSubmitError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resdto.FromSubmitResult(result))
}

func (h *BookingHandler) writeSubmitError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrValidation):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking request", nil)
	case errors.Is(err, commands.ErrRateLimitExceeded):
		var rle *commands.RateLimitError
		if errors.As(err, &rle) {
			c.Header("Retry-After", strconv.Itoa(int(rle.RetryAfter.Seconds())))
		}
		httperr.AbortWithError(c, http.StatusTooManyRequests, err, "Too many booking attempts, please wait", nil)
	case errors.Is(err, commands.ErrSubmissionInFlight), errors.Is(err, commands.ErrCooldownActive):
		httperr.AbortWithError(c, http.StatusTooManyRequests, err, "A submission is already being processed", nil)
	case errors.Is(err, commands.ErrAvailabilityExceeded):
		// The body carries remaining capacity per size so clients can
		// adjust the party without another availability round trip.
		var ae *commands.AvailabilityError
		body := gin.H{"error": "Not enough bikes remaining for the requested slot"}
		if errors.As(err, &ae) {
			remaining := make(map[string]int, len(ae.Remaining))
			for size, n := range ae.Remaining {
				remaining[string(size)] = n
			}
			body["remaining"] = remaining
		}
		_ = c.Error(err)
		c.AbortWithStatusJSON(http.StatusConflict, body)
	case errors.Is(err, commands.ErrRaceCondition):
		httperr.AbortWithError(c, http.StatusConflict, err, "Inventory changed while booking, please retry", nil)
	case errors.Is(err, commands.ErrCouponInvalid):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid or already used coupon", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

// @Summary Get booking
// @Description Get booking by ID with rider assignments
// @Tags bookings
// @Produce json
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid booking ID format", nil)
		return
	}

	view, err := h.bookingQueries.GetByID(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, queries.ErrBookingNotFound):
			httperr.AbortWithError(c, http.StatusNotFound, err, "Booking not found", nil)
		default:
			httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}
