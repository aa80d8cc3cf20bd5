//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"

	"bookhold/internal/domain/availability"
	"bookhold/internal/handler/api"
	resdto "bookhold/internal/handler/dto/response"
	"bookhold/internal/pkg/errs"
	"bookhold/internal/usecase/queries"
	"bookhold/tests/common/builder"
	"bookhold/tests/common/httptest"
	"bookhold/tests/common/testutil"
	commandsmock "bookhold/tests/mock/commands"
	queriesmock "bookhold/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type AvailabilityHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockAvailabilityCommands
	mockQueries  *queriesmock.MockAvailabilityQueries
	handler      *api.AvailabilityHandler

	actorID uuid.UUID
}

func (s *AvailabilityHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockAvailabilityCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockAvailabilityQueries(s.mockCtrl)
	s.handler = api.NewAvailabilityHandler(s.mockCommands, s.mockQueries)

	s.actorID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("party_id", s.actorID)
		c.Set("party_role", "guide")
		c.Next()
	}

	s.router.GET("/providers/:role/:id/slots", authMiddleware, s.handler.ListSlots)
	s.router.GET("/providers/:role/:id/slots/day", authMiddleware, s.handler.DayBreakdown)
	s.router.PUT("/slots/:id", authMiddleware, s.handler.UpsertSlot)
	s.router.DELETE("/slots/:id", authMiddleware, s.handler.RemoveSlot)
}

func (s *AvailabilityHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestAvailabilityHandlerSuite(t *testing.T) {
	suite.Run(t, new(AvailabilityHandlerTestSuite))
}

// ================================================================================
// TestListSlots
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestListSlots() {
	providerID := uuid.New()
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(7 * 24 * time.Hour)

	listURL := func(role, id string) string {
		q := url.Values{}
		q.Set("from", from.Format(time.RFC3339))
		q.Set("to", to.Format(time.RFC3339))
		return "/providers/" + role + "/" + id + "/slots?" + q.Encode()
	}

	s.Run("success: returns 200 OK with slots in range", func() {
		views := []*queries.SlotView{
			builder.NewSlotBuilder().BuildView(),
			builder.NewSlotBuilder().BuildView(),
		}
		s.mockQueries.EXPECT().ListSlots(gomock.Any(), gomock.Any(), from, to).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, listURL("guide", providerID.String()), nil, "bearer-token")

		var response []*resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
	})

	s.Run("error: 400 Bad Request for unknown provider role", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, listURL("driver", providerID.String()), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid provider role")
	})

	s.Run("error: 400 Bad Request for invalid provider ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, listURL("guide", "not-a-uuid"), nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid provider ID format")
	})

	s.Run("error: 400 Bad Request for malformed range", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/providers/guide/"+providerID.String()+"/slots?from=yesterday&to=tomorrow", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "RFC3339")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, listURL("guide", providerID.String()), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})
}

// ================================================================================
// TestDayBreakdown
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestDayBreakdown() {
	providerID := uuid.New()
	baseURL := "/providers/guide/" + providerID.String() + "/slots/day"

	s.Run("success: returns 24 hour buckets", func() {
		views := make([]*queries.HourStatusView, 24)
		for h := range views {
			views[h] = &queries.HourStatusView{Hour: h, Status: "unset"}
		}
		s.mockQueries.EXPECT().DayBreakdown(gomock.Any(), gomock.Any(), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL+"?date=2026-04-01", nil, "bearer-token")

		var response []*resdto.HourStatusResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 24)
		s.Equal(0, response[0].Hour)
		s.Equal(23, response[23].Hour)
	})

	s.Run("error: 400 Bad Request for malformed date", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL+"?date=01-04-2026", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "YYYY-MM-DD")
	})
}

// ================================================================================
// TestUpsertSlot
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestUpsertSlot() {
	slotID := uuid.New()
	url := "/slots/" + slotID.String()

	reqBody := builder.NewSlotBuilder().BuildUpsertRequestDTO()
	returnView := builder.NewSlotBuilder().BuildView()
	returnView.ID = slotID

	s.Run("success: returns 200 OK with the stored slot", func() {
		s.mockCommands.EXPECT().UpsertSlot(gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")

		var response resdto.SlotResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(slotID, response.ID)
		s.Equal(availability.StatusAvailable.String(), response.Status)
	})

	s.Run("error: 400 Bad Request on missing fields", func() {
		for _, field := range []string{"starts_at", "ends_at", "status"} {
			s.Run("missing "+field, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field(field, nil))
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 400 Bad Request for unknown status", func() {
		requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field("status", "busy"))
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, requestMap, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "validation error",
				commandsError:  errs.Mark(errs.New("inverted window"), errs.ErrValidation),
				expectedStatus: http.StatusBadRequest,
				expectedMsg:    "Invalid slot parameters",
			},
			{
				name:           "owned by someone else",
				commandsError:  errs.ErrForbidden,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Slot not found",
			},
			{
				name:           "internal server error",
				commandsError:  errors.New("database error"),
				expectedStatus: http.StatusInternalServerError,
				expectedMsg:    "Internal server error",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().UpsertSlot(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestRemoveSlot
// ================================================================================

func (s *AvailabilityHandlerTestSuite) TestRemoveSlot() {
	slotID := uuid.New()
	url := "/slots/" + slotID.String()

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().RemoveSlot(gomock.Any(), slotID, s.actorID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Empty(rec.Body.String())
	})

	s.Run("error: 409 Conflict when pinned by an accepted hold", func() {
		s.mockCommands.EXPECT().RemoveSlot(gomock.Any(), slotID, s.actorID).
			Return(errs.Mark(errs.New("pinned by accepted hold"), errs.ErrSlotReferenced)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "referenced by an accepted hold")
	})

	s.Run("error: 404 Not Found when owned by someone else", func() {
		s.mockCommands.EXPECT().RemoveSlot(gomock.Any(), slotID, s.actorID).
			Return(errs.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Slot not found")
	})

	s.Run("error: 400 Bad Request for invalid slot ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, "/slots/not-a-uuid", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid ID format")
	})
}
