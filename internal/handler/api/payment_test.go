//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"parkflow/internal/domain/session"
	"parkflow/internal/handler/api"
	reqdto "parkflow/internal/handler/dto/request"
	resdto "parkflow/internal/handler/dto/response"
	"parkflow/internal/pkg/errs"
	"parkflow/internal/usecase/commands"
	"parkflow/tests/common/httptest"
	commandsmock "parkflow/tests/mock/commands"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PaymentHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockPaymentCommands
	handler      *api.PaymentHandler
}

func (s *PaymentHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockPaymentCommands(s.mockCtrl)
	s.handler = api.NewPaymentHandler(s.mockCommands)

	s.router.POST("/sessions/:id/payment", s.handler.ConfirmPayment)
	s.router.POST("/sessions/:id/force-close", s.handler.ForceClose)
}

func (s *PaymentHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPaymentHandlerSuite(t *testing.T) {
	suite.Run(t, new(PaymentHandlerTestSuite))
}

// ================================================================================
// TestConfirmPayment
// ================================================================================

func (s *PaymentHandlerTestSuite) TestConfirmPayment() {
	sessionID := uuid.New()
	url := "/sessions/" + sessionID.String() + "/payment"
	reqBody := reqdto.ConfirmPaymentRequest{Amount: 3500}

	s.Run("success: returns 200 OK with the paid session", func() {
		s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), commands.PaymentInput{SessionID: sessionID, Amount: 3500}).
			Return(&commands.PaymentResult{SessionID: sessionID, NewStatus: session.StatusPaid, PaidAt: time.Now()}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "kiosk-01")

		var body resdto.PaymentResultResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(sessionID, body.SessionID)
		s.Equal(string(session.StatusPaid), body.Status)
	})

	s.Run("error: 400 for malformed session ID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/sessions/not-a-uuid/payment", reqBody, "kiosk-01")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			commandsError  error
			expectedStatus int
		}{
			{name: "session not found", commandsError: errs.ErrSessionNotFound, expectedStatus: http.StatusNotFound},
			{name: "already closed", commandsError: errs.ErrSessionClosed, expectedStatus: http.StatusConflict},
			{name: "payment not due", commandsError: commands.ErrPaymentNotDue, expectedStatus: http.StatusConflict},
			{name: "amount mismatch", commandsError: commands.ErrAmountMismatch, expectedStatus: http.StatusUnprocessableEntity},
			{name: "internal error", commandsError: errors.New("database error"), expectedStatus: http.StatusInternalServerError},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().ConfirmPayment(gomock.Any(), gomock.Any()).
					Return(nil, tc.commandsError).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "kiosk-01")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, "")
			})
		}
	})
}

// ================================================================================
// TestForceClose
// ================================================================================

func (s *PaymentHandlerTestSuite) TestForceClose() {
	sessionID := uuid.New()
	url := "/sessions/" + sessionID.String() + "/force-close"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().ForceClose(gomock.Any(), sessionID).Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "ops-01")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 404 when the session does not exist", func() {
		s.mockCommands.EXPECT().ForceClose(gomock.Any(), sessionID).Return(errs.ErrSessionNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "ops-01")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "")
	})

	s.Run("error: 409 when already closed", func() {
		s.mockCommands.EXPECT().ForceClose(gomock.Any(), sessionID).Return(errs.ErrDomainValidation).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "ops-01")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "")
	})
}
