//go:build e2e

package booking_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"velobook/internal/domain/fleet"
	"velobook/internal/handler/dto/response"
	"velobook/tests/common/builder"
	"velobook/tests/common/dbtest"
	"velobook/tests/common/httptest"
	"velobook/tests/e2e"

	domainbooking "velobook/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	bookingsURL     = "/api/bookings"
	availabilityURL = "/api/availability"
)

type BookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(BookingSuite))
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

// =============================================================================
// TestSubmitBooking
// =============================================================================

func (s *BookingSuite) TestSubmitBooking() {
	s.Run("Normal case: booking persists with one bike per rider", func() {
		t := s.T()
		dbtest.SeedFleet(t, s.DB, 2, fleet.SizeM, fleet.SizeL)

		reqBody := builder.NewDraftBuilder().
			WithDate(futureDate(7)).
			WithRiders(
				domainbooking.DraftRider{Name: "Alice", HeightCm: 168},
				domainbooking.DraftRider{Name: "Bob", HeightCm: 182},
			).
			BuildRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody)
		require.Equal(t, http.StatusCreated, w.Code, "body: %s", w.Body.String())

		var created response.SubmitBookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &created))
		require.Len(t, created.Assignments, 2)
		require.NotEqual(t, created.Assignments[0].BikeID, created.Assignments[1].BikeID)
		require.Equal(t, "M", created.Assignments[0].Size)
		require.Equal(t, "L", created.Assignments[1].Size)
		require.Empty(t, created.FailedSideEffects)

		dw := httptest.PerformRequest(t, s.Router, http.MethodGet,
			bookingsURL+"/"+created.BookingID.String(), nil)
		require.Equal(t, http.StatusOK, dw.Code)

		var detail response.BookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, dw.Body, &detail))
		require.Equal(t, "pending", detail.Status)
		require.Len(t, detail.Riders, 2)
		require.Equal(t, "Alice", detail.Riders[0].Name)
	})

	s.Run("Error case: exceeding size capacity is rejected with remaining counts", func() {
		t := s.T()
		dbtest.SeedFleet(t, s.DB, 1, fleet.SizeM)

		reqBody := builder.NewDraftBuilder().
			WithDate(futureDate(7)).
			WithRiders(
				domainbooking.DraftRider{Name: "Alice", HeightCm: 168},
				domainbooking.DraftRider{Name: "Bob", HeightCm: 170},
			).
			BuildRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody)
		require.Equal(t, http.StatusConflict, w.Code, "body: %s", w.Body.String())

		var body struct {
			Remaining map[string]int `json:"remaining"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Equal(t, 1, body.Remaining["M"])
	})

	s.Run("Error case: previous day's daily rental blocks the morning slot", func() {
		t := s.T()
		ids := dbtest.SeedFleet(t, s.DB, 1, fleet.SizeM)
		date := futureDate(7)
		prevDate := time.Now().AddDate(0, 0, 6).Format("2006-01-02")
		dbtest.CreateTestBooking(t, s.DB, prevDate, "daily", "confirmed", ids[0])

		reqBody := builder.NewDraftBuilder().
			WithDate(date).
			WithSession("morning").
			WithRiders(domainbooking.DraftRider{Name: "Alice", HeightCm: 168}).
			BuildRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody)
		require.Equal(t, http.StatusConflict, w.Code, "body: %s", w.Body.String())
	})

	s.Run("Normal case: unassigned legacy rows shrink every size class", func() {
		t := s.T()
		dbtest.SeedFleet(t, s.DB, 2, fleet.SizeM, fleet.SizeL)
		date := futureDate(7)
		// one booking holding a bike of unknown size
		dbtest.CreateTestBooking(t, s.DB, date, "morning", "confirmed", uuid.Nil)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			availabilityURL+"?date="+date+"&session=morning", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Remaining   map[string]int `json:"remaining"`
			TotalBooked int            `json:"totalBooked"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Equal(t, 1, body.Remaining["M"])
		require.Equal(t, 1, body.Remaining["L"])
		require.Equal(t, 1, body.TotalBooked)
	})
}

// =============================================================================
// TestCouponRedemption
// =============================================================================

func (s *BookingSuite) TestCouponRedemption() {
	s.Run("Normal case: coupon is consumed by the first booking", func() {
		t := s.T()
		dbtest.SeedFleet(t, s.DB, 4, fleet.SizeM)
		dbtest.CreateTestCoupon(t, s.DB, "SUMMER10", "percent", 10)

		first := builder.NewDraftBuilder().
			WithDate(futureDate(7)).
			WithRiders(domainbooking.DraftRider{Name: "Alice", HeightCm: 168}).
			WithCoupon("SUMMER10").
			BuildRequestDTO()

		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, first)
		require.Equal(t, http.StatusCreated, w1.Code, "body: %s", w1.Body.String())

		var created response.SubmitBookingResponse
		require.NoError(t, httptest.DecodeResponseBody(t, w1.Body, &created))
		require.Empty(t, created.FailedSideEffects, "coupon mark-used must succeed")

		// second booking with the same coupon is refused outright
		second := builder.NewDraftBuilder().
			WithDate(futureDate(8)).
			WithRiders(domainbooking.DraftRider{Name: "Bob", HeightCm: 170}).
			WithCoupon("SUMMER10").
			BuildRequestDTO()

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, second)
		require.Equal(t, http.StatusUnprocessableEntity, w2.Code, "body: %s", w2.Body.String())
	})

	s.Run("Error case: unknown coupon rejects the submission", func() {
		t := s.T()
		dbtest.SeedFleet(t, s.DB, 2, fleet.SizeM)

		reqBody := builder.NewDraftBuilder().
			WithDate(futureDate(7)).
			WithRiders(domainbooking.DraftRider{Name: "Alice", HeightCm: 168}).
			WithCoupon("NOPE").
			BuildRequestDTO()

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL, reqBody)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

// =============================================================================
// TestAvailabilityEndpoints
// =============================================================================

func (s *BookingSuite) TestAvailabilityEndpoints() {
	s.Run("Normal case: slot availability reflects a committed booking", func() {
		t := s.T()
		ids := dbtest.SeedFleet(t, s.DB, 3, fleet.SizeM)
		date := futureDate(7)
		dbtest.CreateTestBooking(t, s.DB, date, "morning", "confirmed", ids[0])

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			availabilityURL+"?date="+date+"&session=morning", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Remaining   map[string]int `json:"remaining"`
			TotalBooked int            `json:"totalBooked"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Equal(t, 2, body.Remaining["M"])
		require.Equal(t, 1, body.TotalBooked)
	})

	s.Run("Normal case: range endpoint returns both sessions per date", func() {
		t := s.T()
		dbtest.SeedFleet(t, s.DB, 2, fleet.SizeM)
		from := futureDate(7)
		to := futureDate(8)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet,
			"/api/availability/range?from="+from+"&to="+to, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body []struct {
			Date    string `json:"date"`
			Session string `json:"session"`
		}
		require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &body))
		require.Len(t, body, 4)
		require.Equal(t, from, body[0].Date)
		require.Equal(t, "morning", body[0].Session)
	})
}

// =============================================================================
// TestBikeSlotConstraint
// =============================================================================

// exercises the store-side trigger directly: it is the last line of
// defense when two submissions race past revalidation, so it has to
// reject a duplicate bike across every pair of conflicting slots, not
// only within the identical one.
func (s *BookingSuite) TestBikeSlotConstraint() {
	assignBike := func(t *testing.T, date, session string, bikeID uuid.UUID) error {
		t.Helper()
		ctx := context.Background()
		bookingID := uuid.New()
		_, err := s.DB.Exec(ctx,
			"INSERT INTO bookings (id, ride_date, session, status) VALUES ($1, $2, $3, 'pending')",
			bookingID, date, session)
		require.NoError(t, err)
		var size string
		require.NoError(t, s.DB.QueryRow(ctx,
			"SELECT size_class FROM bikes WHERE id = $1", bikeID).Scan(&size))
		_, err = s.DB.Exec(ctx,
			"INSERT INTO riders (id, booking_id, position, name, height_cm, assigned_bike_id, assigned_size) VALUES ($1, $2, 0, 'Racer', 170, $3, $4)",
			uuid.New(), bookingID, bikeID, size)
		return err
	}

	requireConflict := func(t *testing.T, err error) {
		t.Helper()
		require.Error(t, err)
		var pgErr *pgconn.PgError
		require.ErrorAs(t, err, &pgErr)
		require.Equal(t, "23P01", pgErr.Code)
	}

	s.Run("Error case: same date, other session", func() {
		t := s.T()
		ids := dbtest.SeedFleet(t, s.DB, 1, fleet.SizeM)
		date := futureDate(7)
		dbtest.CreateTestBooking(t, s.DB, date, "daily", "confirmed", ids[0])

		requireConflict(t, assignBike(t, date, "morning", ids[0]))
	})

	s.Run("Error case: previous day's daily blocks the next day", func() {
		t := s.T()
		ids := dbtest.SeedFleet(t, s.DB, 1, fleet.SizeM)
		dbtest.CreateTestBooking(t, s.DB, futureDate(6), "daily", "confirmed", ids[0])

		requireConflict(t, assignBike(t, futureDate(7), "morning", ids[0]))
	})

	s.Run("Error case: a daily insert clashes with the next day's booking", func() {
		t := s.T()
		ids := dbtest.SeedFleet(t, s.DB, 1, fleet.SizeM)
		dbtest.CreateTestBooking(t, s.DB, futureDate(8), "morning", "confirmed", ids[0])

		requireConflict(t, assignBike(t, futureDate(7), "daily", ids[0]))
	})

	s.Run("Normal case: previous day's morning rental does not conflict", func() {
		t := s.T()
		ids := dbtest.SeedFleet(t, s.DB, 1, fleet.SizeM)
		dbtest.CreateTestBooking(t, s.DB, futureDate(6), "morning", "confirmed", ids[0])

		require.NoError(t, assignBike(t, futureDate(7), "morning", ids[0]))
	})

	s.Run("Normal case: cancelled bookings release the bike", func() {
		t := s.T()
		ids := dbtest.SeedFleet(t, s.DB, 1, fleet.SizeM)
		date := futureDate(7)
		dbtest.CreateTestBooking(t, s.DB, date, "daily", "cancelled", ids[0])

		require.NoError(t, assignBike(t, date, "morning", ids[0]))
	})
}
