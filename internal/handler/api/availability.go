package api

import (
	"net/http"

	"velobook/internal/domain/booking"
	resdto "velobook/internal/handler/dto/response"
	"velobook/internal/handler/httperr"
	"velobook/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type AvailabilityHandler struct {
	availabilityQueries queries.AvailabilityQueries
}

func NewAvailabilityHandler(availabilityQueries queries.AvailabilityQueries) *AvailabilityHandler {
	return &AvailabilityHandler{
		availabilityQueries: availabilityQueries,
	}
}

// @Summary Slot availability
// @Description Remaining bikes per size class for one slot
// @Tags availability
// @Produce json
// @Param date query string true "Rental date (YYYY-MM-DD)"
// @Param session query string true "Session type (morning or daily)"
// @Success 200 {object} resdto.SlotAvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Router /availability [get]
func (h *AvailabilityHandler) SlotAvailability(c *gin.Context) {
	date, err := booking.ParseDate(c.Query("date"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid date format, expected YYYY-MM-DD", nil)
		return
	}
	session, err := booking.ParseSessionType(c.Query("session"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid session type", nil)
		return
	}
	slot, err := booking.NewSlot(date, session)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid slot", nil)
		return
	}

	view, err := h.availabilityQueries.SlotAvailability(c.Request.Context(), slot)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromSlotAvailabilityView(view))
}

// @Summary Range availability
// @Description Remaining bikes per size class for every slot in a date range
// @Tags availability
// @Produce json
// @Param from query string true "Range start (YYYY-MM-DD)"
// @Param to query string true "Range end (YYYY-MM-DD)"
// @Success 200 {array} resdto.SlotAvailabilityResponse
// @Failure 400 {object} httperr.Response
// @Router /availability/range [get]
func (h *AvailabilityHandler) RangeAvailability(c *gin.Context) {
	from, err := booking.ParseDate(c.Query("from"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid from date, expected YYYY-MM-DD", nil)
		return
	}
	to, err := booking.ParseDate(c.Query("to"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid to date, expected YYYY-MM-DD", nil)
		return
	}

	views, err := h.availabilityQueries.RangeAvailability(c.Request.Context(), from, to)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	response := make([]*resdto.SlotAvailabilityResponse, len(views))
	for i := range views {
		response[i] = resdto.FromSlotAvailabilityView(&views[i])
	}
	c.JSON(http.StatusOK, response)
}
