//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"parkflow/internal/handler/api"
	resdto "parkflow/internal/handler/dto/response"
	"parkflow/internal/infra"
	"parkflow/internal/usecase/queries"
	"parkflow/tests/common/builder"
	"parkflow/tests/common/httptest"
	queriesmock "parkflow/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type SessionHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockCtrl    *gomock.Controller
	mockQueries *queriesmock.MockSessionQueries
	handler     *api.SessionHandler
}

func (s *SessionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockQueries = queriesmock.NewMockSessionQueries(s.mockCtrl)
	s.handler = api.NewSessionHandler(s.mockQueries)

	s.router.GET("/sessions", s.handler.ListSessions)
	s.router.GET("/sessions/:id", s.handler.GetSession)
	s.router.GET("/sessions/:id/events", s.handler.ListSessionEvents)
}

func (s *SessionHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestSessionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SessionHandlerTestSuite))
}

// ================================================================================
// TestGetSession
// ================================================================================

func (s *SessionHandlerTestSuite) TestGetSession() {
	view := builder.NewSessionBuilder().BuildView()

	s.Run("success: returns the full session view", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), view.ID).Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/"+view.ID.String(), nil, "")

		var body resdto.SessionResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(view.ID, body.ID)
		s.Equal(view.PlateNo, body.PlateNo)
		s.Equal(view.Status, body.Status)
	})

	s.Run("error: malformed id returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/not-a-uuid", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid session ID")
	})

	s.Run("error: unknown session returns 404", func() {
		missing := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), missing).
			Return(nil, infra.WrapRepoErr("session not found", nil, infra.KindNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/"+missing.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Session not found")
	})

	s.Run("error: storage failure returns 500", func() {
		id := uuid.New()
		s.mockQueries.EXPECT().GetByID(gomock.Any(), id).Return(nil, errors.New("boom")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/"+id.String(), nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestListSessions
// ================================================================================

func (s *SessionHandlerTestSuite) TestListSessions() {
	s.Run("success: returns a page with the next cursor", func() {
		items := []*queries.SessionListItem{
			builder.NewSessionBuilder().BuildListItem(),
			builder.NewSessionBuilder().BuildListItem(),
		}
		next := &queries.Cursor{After: queries.EncodeAfterCursor(items[1].EntryAt, items[1].ID)}

		s.mockQueries.EXPECT().List(gomock.Any(), queries.SessionListFilter{}, gomock.Nil(), 2).
			Return(items, next, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions?limit=2", nil, "")

		var body resdto.SessionListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Items, 2)
		s.Require().NotNil(body.NextCursor)
		s.Equal(next.After, *body.NextCursor)
	})

	s.Run("success: status and plate filters pass through", func() {
		status := "EXIT_PENDING"
		plate := "12GA3456"
		filter := queries.SessionListFilter{Status: &status, PlateNo: &plate}

		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Eq(filter), gomock.Nil(), 0).
			Return([]*queries.SessionListItem{}, nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/sessions?status=EXIT_PENDING&plate_no=12GA3456", nil, "")

		var body resdto.SessionListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Empty(body.Items)
		s.Nil(body.NextCursor)
	})

	s.Run("error: non-numeric limit returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions?limit=lots", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid limit")
	})

	s.Run("error: undecodable cursor returns 400", func() {
		s.mockQueries.EXPECT().List(gomock.Any(), gomock.Any(), gomock.Not(gomock.Nil()), 0).
			Return(nil, nil, errors.New("invalid cursor encoding")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions?after=garbage", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid cursor")
	})
}

// ================================================================================
// TestListSessionEvents
// ================================================================================

func (s *SessionHandlerTestSuite) TestListSessionEvents() {
	sessionID := uuid.New()

	s.Run("success: returns the capture history", func() {
		capturedAt := time.Now().Add(-time.Hour)
		events := []*queries.PlateEventView{
			{ID: uuid.New(), Direction: "ENTRY", PlateNo: "12GA3456", LaneID: uuid.New(), CapturedAt: capturedAt, SessionID: &sessionID},
			{ID: uuid.New(), Direction: "EXIT", PlateNo: "12GA3456", LaneID: uuid.New(), CapturedAt: capturedAt.Add(time.Hour), SessionID: &sessionID},
		}
		s.mockQueries.EXPECT().ListEventsBySession(gomock.Any(), sessionID).Return(events, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet,
			"/sessions/"+sessionID.String()+"/events", nil, "")

		var body []*resdto.PlateEventResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body, 2)
		s.Equal("ENTRY", body[0].Direction)
		s.Equal("EXIT", body[1].Direction)
	})

	s.Run("error: malformed id returns 400", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/sessions/xyz/events", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid session ID")
	})
}
