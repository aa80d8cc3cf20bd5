//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

	"bookhold/internal/domain/hold"
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

type HoldHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockHoldCommands
	mockQueries  *queriesmock.MockHoldQueries
	handler      *api.HoldHandler

	actorID uuid.UUID
}

func (s *HoldHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockHoldCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockHoldQueries(s.mockCtrl)
	s.handler = api.NewHoldHandler(s.mockCommands, s.mockQueries)

	s.actorID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		c.Set("party_id", s.actorID)
		c.Set("party_role", "agency")
		c.Next()
	}

	s.router.POST("/holds", authMiddleware, s.handler.CreateHold)
	s.router.GET("/holds", authMiddleware, s.handler.ListHolds)
	s.router.GET("/holds/:id", authMiddleware, s.handler.GetHold)
	s.router.POST("/holds/:id/respond", authMiddleware, s.handler.RespondToHold)
	s.router.POST("/holds/:id/cancel", authMiddleware, s.handler.CancelHold)
}

func (s *HoldHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestHoldHandlerSuite(t *testing.T) {
	suite.Run(t, new(HoldHandlerTestSuite))
}

// ================================================================================
// TestCreateHold
// ================================================================================

func (s *HoldHandlerTestSuite) TestCreateHold() {
	url := "/holds"

	reqBody := builder.NewHoldBuilder().BuildCreateRequestDTO()
	returnView := builder.NewHoldBuilder().BuildView()

	s.Run("success: returns 201 Created for valid request", func() {
		s.mockCommands.EXPECT().CreateHold(gomock.Any(), gomock.Any()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.HoldResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(returnView.ID, response.ID)
		s.Equal("pending", response.Status)
	})

	s.Run("error: 400 Bad Request on missing fields", func() {
		missing := []string{"target_id", "target_role", "starts_at", "ends_at"}
		for _, field := range missing {
			s.Run("missing "+field, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, testutil.Field(field, nil))
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
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
				expectedMsg:    "Invalid hold parameters",
			},
			{
				name:           "window conflicts",
				commandsError:  errs.ErrSlotUnavailable,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "conflicts",
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
				s.mockCommands.EXPECT().CreateHold(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestRespondToHold
// ================================================================================

func (s *HoldHandlerTestSuite) TestRespondToHold() {
	holdID := uuid.New()
	url := "/holds/" + holdID.String() + "/respond"

	returnView := builder.NewHoldBuilder().WithStatus(hold.StatusAccepted).BuildView()
	returnView.ID = holdID

	s.Run("success: returns 200 OK with the transitioned hold", func() {
		s.mockCommands.EXPECT().RespondToHold(gomock.Any(), holdID, s.actorID, hold.DecisionAccepted).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{"decision": "accepted"}, "bearer-token")

		var response resdto.HoldResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(holdID, response.ID)
		s.Equal("accepted", response.Status)
	})

	s.Run("error: 400 Bad Request for unknown decision", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{"decision": "maybe"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/holds/invalid-uuid/respond", map[string]string{"decision": "accepted"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid ID format")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
			expectedMsg    string
		}{
			{
				name:           "not pending anymore",
				commandsError:  errs.Mark(errs.New("hold already answered"), errs.ErrInvalidTransition),
				expectedStatus: http.StatusConflict,
				expectedMsg:    "no longer pending",
			},
			{
				name:           "calendar changed underneath",
				commandsError:  errs.ErrSlotUnavailable,
				expectedStatus: http.StatusConflict,
				expectedMsg:    "conflicts",
			},
			{
				name:           "hold not found",
				commandsError:  errs.Mark(errs.New("no hold row"), errs.ErrHoldNotFound),
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Hold not found",
			},
			{
				name:           "non-party reads as not found",
				commandsError:  errs.ErrForbidden,
				expectedStatus: http.StatusNotFound,
				expectedMsg:    "Hold not found",
			},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().RespondToHold(gomock.Any(), holdID, s.actorID, hold.DecisionAccepted).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]string{"decision": "accepted"}, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})
}

// ================================================================================
// TestCancelHold
// ================================================================================

func (s *HoldHandlerTestSuite) TestCancelHold() {
	holdID := uuid.New()
	url := "/holds/" + holdID.String() + "/cancel"

	returnView := builder.NewHoldBuilder().WithStatus(hold.StatusCancelled).BuildView()
	returnView.ID = holdID

	s.Run("success: returns 200 OK with the cancelled hold", func() {
		s.mockCommands.EXPECT().CancelHold(gomock.Any(), holdID, s.actorID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")

		var response resdto.HoldResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal("cancelled", response.Status)
	})

	s.Run("error: 409 Conflict when no longer pending", func() {
		s.mockCommands.EXPECT().CancelHold(gomock.Any(), holdID, s.actorID).
			Return(nil, errs.ErrInvalidTransition).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "no longer pending")
	})

	s.Run("error: 404 Not Found when not the requester", func() {
		s.mockCommands.EXPECT().CancelHold(gomock.Any(), holdID, s.actorID).
			Return(nil, errs.ErrForbidden).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Hold not found")
	})
}

// ================================================================================
// TestGetHold / TestListHolds
// ================================================================================

func (s *HoldHandlerTestSuite) TestGetHold() {
	holdID := uuid.New()
	url := "/holds/" + holdID.String()

	returnView := builder.NewHoldBuilder().BuildView()
	returnView.ID = holdID

	s.Run("success: returns 200 OK with HoldResponse", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), holdID, s.actorID).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.HoldResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(holdID, response.ID)
	})

	s.Run("error: 404 Not Found for missing or foreign hold", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), holdID, s.actorID).
			Return(nil, errs.ErrHoldNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Hold not found")
	})
}

func (s *HoldHandlerTestSuite) TestListHolds() {
	url := "/holds"

	s.Run("success: returns the caller's holds", func() {
		viewA := builder.NewHoldBuilder().BuildView()
		viewB := builder.NewHoldBuilder().BuildView()
		s.mockQueries.EXPECT().ListForParty(gomock.Any(), s.actorID).
			Return([]*queries.HoldView{viewA, viewB}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response []*resdto.HoldResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response, 2)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Access token required")
	})
}
