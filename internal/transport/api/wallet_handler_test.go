package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/internal/logger"
	"github.com/fsdevblog/datalink/internal/service"
	"github.com/fsdevblog/datalink/internal/service/tokens"
	"github.com/fsdevblog/datalink/internal/transport/api/mocks"
	"github.com/fsdevblog/datalink/internal/transport/api/testutils"
)

type WalletHandlerTestSuite struct {
	suite.Suite
	mockWallet    *mocks.MockWalletServicer
	mockReconcile *mocks.MockReconcileServicer
	router        *gin.Engine
	jwtSecret     []byte
	authHeader    string
}

func (s *WalletHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockWallet = mocks.NewMockWalletServicer(mockCtrl)
	s.mockReconcile = mocks.NewMockReconcileServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, routerErr := New(RouterArgs{
		Logger:           logger.New(io.Discard),
		WalletService:    s.mockWallet,
		ReconcileService: s.mockReconcile,
		JWTSecretKey:     s.jwtSecret,
	})
	s.Require().NoError(routerErr)
	s.router = router

	token, tokenErr := tokens.GenerateUserJWT(7, time.Hour, s.jwtSecret)
	s.Require().NoError(tokenErr)
	s.authHeader = "Bearer " + token
}

func TestWalletHandlerSuite(t *testing.T) {
	suite.Run(t, new(WalletHandlerTestSuite))
}

func (s *WalletHandlerTestSuite) TestBalance() {
	s.mockWallet.EXPECT().
		GetBalance(gomock.Any(), int64(7)).
		Return(int64(1250), nil)

	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + BalanceRoute,
	}, testutils.WithHeader("Authorization", s.authHeader))
	s.Require().NoError(err)
	s.Equal(http.StatusOK, res.StatusCode)

	var body BalanceResponse
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Equal(int64(1250), body.Balance)
	s.Require().NoError(res.Body.Close())
}

func (s *WalletHandlerTestSuite) TestBalance_Unauthorized() {
	res, err := testutils.MakeRequest(testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    RouteGroup + BalanceRoute,
	})
	s.Require().NoError(err)
	s.Equal(http.StatusUnauthorized, res.StatusCode)
	s.Require().NoError(res.Body.Close())
}

func (s *WalletHandlerTestSuite) TestTopupVerify() {
	balance := int64(600)
	cases := []struct {
		name       string
		result     *service.PurchaseResult
		wantStatus int
	}{
		{
			name: "credited",
			result: &service.PurchaseResult{
				Outcome:    service.OutcomeSuccess,
				Order:      &domain.Order{Reference: "DL-TOPUP-xyz", Status: domain.OrderStatusTopupCredited},
				NewBalance: balance,
			},
			wantStatus: http.StatusOK,
		}, {
			name:       "processing",
			result:     &service.PurchaseResult{Outcome: service.OutcomeProcessing},
			wantStatus: http.StatusAccepted,
		}, {
			name: "already processed",
			result: &service.PurchaseResult{
				Outcome: service.OutcomeAlreadyProcessed,
				Order:   &domain.Order{Reference: "DL-TOPUP-xyz", Status: domain.OrderStatusTopupCredited},
			},
			wantStatus: http.StatusOK,
		}, {
			name:       "mismatch",
			result:     &service.PurchaseResult{Outcome: service.OutcomeGatewayMismatch},
			wantStatus: http.StatusConflict,
		}, {
			name:       "payment failed",
			result:     &service.PurchaseResult{Outcome: service.OutcomePaymentFailed},
			wantStatus: http.StatusPaymentRequired,
		},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			s.mockReconcile.EXPECT().
				ConfirmTopup(gomock.Any(), int64(7), "DL-TOPUP-abc123", int64(600)).
				Return(t.result, nil)

			payload, _ := json.Marshal(TopupVerifyParams{Reference: "DL-TOPUP-abc123", Amount: 600})
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + TopupVerifyRoute,
				Body:   bytes.NewReader(payload),
			}, testutils.WithHeader("Authorization", s.authHeader))
			s.Require().NoError(err)
			s.Equal(t.wantStatus, res.StatusCode)
			s.Require().NoError(res.Body.Close())
		})
	}
}

func (s *WalletHandlerTestSuite) TestTopupVerify_BadParams() {
	cases := []struct {
		name   string
		params TopupVerifyParams
	}{
		{name: "foreign reference", params: TopupVerifyParams{Reference: "PS-abc", Amount: 600}},
		{name: "oversized reference", params: TopupVerifyParams{
			Reference: "DL-" + testutils.GenerateOverBytesUnderRunes(20), Amount: 600}},
		{name: "zero amount", params: TopupVerifyParams{Reference: "DL-TOPUP-abc", Amount: 0}},
		{name: "negative amount", params: TopupVerifyParams{Reference: "DL-TOPUP-abc", Amount: -5}},
	}

	for _, t := range cases {
		s.Run(t.name, func() {
			payload, _ := json.Marshal(t.params)
			res, err := testutils.MakeRequest(testutils.RequestArgs{
				Router: s.router,
				Method: http.MethodPost,
				URL:    RouteGroup + TopupVerifyRoute,
				Body:   bytes.NewReader(payload),
			}, testutils.WithHeader("Authorization", s.authHeader))
			s.Require().NoError(err)
			s.Equal(http.StatusBadRequest, res.StatusCode)
			s.Require().NoError(res.Body.Close())
		})
	}
}
