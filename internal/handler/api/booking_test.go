//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"velobook/internal/domain/fleet"
	"velobook/internal/handler/api"
	"velobook/internal/pkg/errs"
	"velobook/internal/usecase/commands"
	"velobook/internal/usecase/queries"
	"velobook/tests/common/builder"
	"velobook/tests/common/httptest"
	"velobook/tests/common/testutil"
	commandsmock "velobook/tests/mock/commands"
	queriesmock "velobook/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockBookingQueries
	handler      *api.BookingHandler
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockBookingQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)

	s.router.POST("/bookings", s.handler.Submit)
	s.router.GET("/bookings/:id", s.handler.Get)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

type testCaseBooking struct {
	name       string
	mutate     func(m map[string]any)
	expectCode int
}

// ================================================================================
// TestSubmit
// ================================================================================

func (s *BookingHandlerTestSuite) TestSubmit() {
	url := "/bookings"

	reqBody := builder.NewDraftBuilder().BuildRequestDTO()
	expectedResult := &commands.SubmitResult{
		BookingID: uuid.New(),
		Assignments: []commands.RiderAssignment{
			{RiderName: "Alice", HeightCm: 168, BikeID: uuid.New(), BikeNumber: "B-001", Size: fleet.SizeM},
			{RiderName: "Bob", HeightCm: 182, BikeID: uuid.New(), BikeNumber: "B-002", Size: fleet.SizeL},
		},
	}

	s.Run("success: returns 201 Created with assignments", func() {
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(expectedResult, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		var body struct {
			BookingID   string `json:"bookingId"`
			Assignments []struct {
				RiderName  string `json:"riderName"`
				BikeNumber string `json:"bikeNumber"`
				Size       string `json:"size"`
			} `json:"assignments"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(expectedResult.BookingID.String(), body.BookingID)
		s.Require().Len(body.Assignments, 2)
		s.Equal("Alice", body.Assignments[0].RiderName)
		s.Equal("M", body.Assignments[0].Size)
	})

	s.Run("error: 400 Bad Request on binding failures", func() {
		cases := []testCaseBooking{
			{name: "missing date", mutate: testutil.Field("date", nil), expectCode: http.StatusBadRequest},
			{name: "missing session", mutate: testutil.Field("session", nil), expectCode: http.StatusBadRequest},
			{name: "invalid session", mutate: testutil.Field("session", "evening"), expectCode: http.StatusBadRequest},
			{name: "no riders", mutate: testutil.Field("riders", []any{}), expectCode: http.StatusBadRequest},
			{name: "malformed date", mutate: testutil.Field("date", "07/10/2026"), expectCode: http.StatusBadRequest},
			{
				name: "rider height below binding minimum",
				mutate: testutil.Field("riders", []map[string]any{
					{"name": "Tiny", "heightCm": 90},
				}),
				expectCode: http.StatusBadRequest,
			},
			{
				name: "too many riders",
				mutate: func(m map[string]any) {
					riders := make([]map[string]any, 11)
					for i := range riders {
						riders[i] = map[string]any{"name": "R", "heightCm": 170}
					}
					m["riders"] = riders
				},
				expectCode: http.StatusBadRequest,
			},
		}

		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, "")
			})
		}
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{name: "validation", commandsError: commands.ErrValidation, expectedStatus: http.StatusBadRequest},
			{name: "availability exceeded", commandsError: commands.ErrAvailabilityExceeded, expectedStatus: http.StatusConflict},
			{name: "race condition", commandsError: commands.ErrRaceCondition, expectedStatus: http.StatusConflict},
			{name: "invalid coupon", commandsError: commands.ErrCouponInvalid, expectedStatus: http.StatusUnprocessableEntity},
			{name: "rate limited", commandsError: commands.ErrRateLimitExceeded, expectedStatus: http.StatusTooManyRequests},
			{name: "submission in flight", commandsError: commands.ErrSubmissionInFlight, expectedStatus: http.StatusTooManyRequests},
			{name: "cooldown active", commandsError: commands.ErrCooldownActive, expectedStatus: http.StatusTooManyRequests},
			{name: "persistence failure", commandsError: commands.ErrPersistenceFailed, expectedStatus: http.StatusInternalServerError},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})

	s.Run("error: 429 carries Retry-After header", func() {
		rateErr := &commands.RateLimitError{RetryAfter: 30 * time.Second}
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(rateErr, commands.ErrRateLimitExceeded)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusTooManyRequests, "")
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Retry-After": "30"})
	})

	s.Run("error: 409 for availability includes remaining capacity", func() {
		availErr := &commands.AvailabilityError{Remaining: map[fleet.SizeClass]int{fleet.SizeM: 1}}
		s.mockCommands.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(availErr, commands.ErrAvailabilityExceeded)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody)

		var body struct {
			Error     string         `json:"error"`
			Remaining map[string]int `json:"remaining"`
		}
		s.Equal(http.StatusConflict, rec.Code)
		s.NoError(httptest.DecodeResponseBody(s.T(), rec.Body, &body))
		s.Equal(1, body.Remaining["M"])
	})
}

// ================================================================================
// TestGet
// ================================================================================

func (s *BookingHandlerTestSuite) TestGet() {
	view := builder.NewDraftBuilder().BuildView()

	s.Run("success: returns booking with riders", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).
			Return(view, nil).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+view.ID.String(), nil)

		var body struct {
			ID     string `json:"id"`
			Status string `json:"status"`
			Riders []struct {
				Name string `json:"name"`
			} `json:"riders"`
		}
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID.String(), body.ID)
		s.Equal("pending", body.Status)
		s.Require().Len(body.Riders, 2)
		s.Equal("Alice", body.Riders[0].Name)
	})

	s.Run("error: 404 when booking does not exist", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).
			Return(nil, queries.ErrBookingNotFound).Times(1)
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/"+id.String(), nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "not found")
	})

	s.Run("error: 400 for malformed booking ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/bookings/not-a-uuid", nil)
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})
}

