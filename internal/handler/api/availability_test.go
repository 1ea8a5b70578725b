//go:build unit

package api_test

import (
	"net/http"
	"testing"

	"velobook/internal/domain/booking"
	"velobook/internal/domain/fleet"
	"velobook/internal/handler/api"
	"velobook/internal/pkg/errs"
	"velobook/internal/usecase/queries"
	"velobook/tests/common/httptest"
	queriesmock "velobook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockAvailabilityQueries
	handler     *api.AvailabilityHandler
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.handler = api.NewAvailabilityHandler(s.mockQueries)

	s.router.GET("/availability", s.handler.SlotAvailability)
	s.router.GET("/availability/range", s.handler.RangeAvailability)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

func (s *AvailabilityHandlerTestSuite) TestSlotAvailability() {
	view := &queries.SlotAvailabilityView{
		Date:        "2026-07-10",
		Session:     "morning",
		Remaining:   map[fleet.SizeClass]int{fleet.SizeM: 3, fleet.SizeL: 1},
		TotalBooked: 2,
	}

	s.Run("success: returns remaining per size", func() {
		s.mockQueries.EXPECT().SlotAvailability(gomock.Any(), gomock.Any()).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?date=2026-07-10&session=morning", nil)

		var body struct {
			Date        string         `json:"date"`
			Session     string         `json:"session"`
			Remaining   map[string]int `json:"remaining"`
			TotalBooked int            `json:"totalBooked"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("2026-07-10", body.Date)
		s.Equal("morning", body.Session)
		s.Equal(3, body.Remaining["M"])
		s.Equal(2, body.TotalBooked)
	})

	s.Run("error: 400 on bad query params", func() {
		cases := []struct {
			name string
			path string
		}{
			{name: "missing date", path: "/availability?session=morning"},
			{name: "malformed date", path: "/availability?date=07-10-2026&session=morning"},
			{name: "missing session", path: "/availability?date=2026-07-10"},
			{name: "unknown session", path: "/availability?date=2026-07-10&session=evening"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, tc.path, nil)
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 500 when the read fails", func() {
		s.mockQueries.EXPECT().SlotAvailability(gomock.Any(), gomock.Any()).
			Return(nil, errs.New("store unreachable")).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability?date=2026-07-10&session=morning", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "")
	})
}

func (s *AvailabilityHandlerTestSuite) TestRangeAvailability() {
	views := []queries.SlotAvailabilityView{
		{Date: "2026-07-10", Session: "morning", Remaining: map[fleet.SizeClass]int{fleet.SizeM: 3}},
		{Date: "2026-07-10", Session: "daily", Remaining: map[fleet.SizeClass]int{fleet.SizeM: 3}},
	}

	s.Run("success: returns every slot in the range", func() {
		from, _ := booking.ParseDate("2026-07-10")
		to, _ := booking.ParseDate("2026-07-10")
		s.mockQueries.EXPECT().RangeAvailability(gomock.Any(), from, to).
			Return(views, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/availability/range?from=2026-07-10&to=2026-07-10", nil)

		var body []struct {
			Date    string `json:"date"`
			Session string `json:"session"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 2)
		s.Equal("morning", body[0].Session)
		s.Equal("daily", body[1].Session)
	})

	s.Run("error: 400 on missing bounds", func() {
		for _, path := range []string{
			"/availability/range?to=2026-07-10",
			"/availability/range?from=2026-07-10",
			"/availability/range?from=bogus&to=2026-07-10",
		} {
			rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, path, nil)
			httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
		}
	})
}
