package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/datalink/internal/domain"
	domainmocks "github.com/fsdevblog/datalink/internal/domain/mocks"
	"github.com/fsdevblog/datalink/pkg/uow"
	uowmocks "github.com/fsdevblog/datalink/pkg/uow/mocks"
)

type OrderServiceTestSuite struct {
	suite.Suite
	mockCtrl      *gomock.Controller
	mockUOW       *uowmocks.MockUOW
	mockTX        *uowmocks.MockTX
	mockOrderRepo *domainmocks.MockOrderRepository
	orderService  *OrderService
}

func TestOrderServiceSuite(t *testing.T) {
	suite.Run(t, new(OrderServiceTestSuite))
}

func (s *OrderServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockOrderRepo = domainmocks.NewMockOrderRepository(s.mockCtrl)

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(domain.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(domain.OrderRepoName)).
		Return(s.mockOrderRepo, nil).AnyTimes()
	s.mockUOW.EXPECT().
		Do(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()

	testLogger := logrus.New()
	testLogger.SetOutput(io.Discard)

	orderService, servErr := NewOrderService(s.mockUOW, testLogger)
	s.Require().NoError(servErr)
	s.orderService = orderService
}

func (s *OrderServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *OrderServiceTestSuite) TestGetByUserID() {
	orders := []domain.Order{
		{ID: 2, UserID: 1, Status: domain.OrderStatusDispatched},
		{ID: 1, UserID: 1, Status: domain.OrderStatusTopupCredited},
	}
	s.mockOrderRepo.EXPECT().
		GetByUserID(gomock.Any(), int64(1)).
		Return(orders, nil)

	got, err := s.orderService.GetByUserID(context.Background(), 1)
	s.Require().NoError(err)
	s.Equal(orders, got)
}

func (s *OrderServiceTestSuite) TestMarkReviewed() {
	resolved := domain.Order{ID: 5, Status: domain.OrderStatusDispatched}

	s.mockOrderRepo.EXPECT().
		UpdateStatus(gomock.Any(), int64(5), domain.OrderStatusUnderReview, domain.OrderStatusDispatched, "carrier confirmed delivery").
		Return(&resolved, nil)

	order, err := s.orderService.MarkReviewed(
		context.Background(), 5, domain.OrderStatusDispatched, "carrier confirmed delivery")
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusDispatched, order.Status)
}

func (s *OrderServiceTestSuite) TestMarkReviewed_BadOutcome() {
	// Из under_review разрешены только терминальные исходы.
	_, err := s.orderService.MarkReviewed(
		context.Background(), 5, domain.OrderStatusPaymentConfirmed, "")
	s.Require().ErrorIs(err, domain.ErrInvalidRequest)
}

// TestMarkReviewed_TerminalOrder повторный сигнал по терминальному заказу
// игнорируется, возвращается текущее состояние без ошибки.
func (s *OrderServiceTestSuite) TestMarkReviewed_TerminalOrder() {
	terminal := domain.Order{ID: 5, Reference: "DL-PURCHASE-aaa", Status: domain.OrderStatusDispatched}

	s.mockOrderRepo.EXPECT().
		UpdateStatus(gomock.Any(), int64(5), domain.OrderStatusUnderReview, domain.OrderStatusFailed, gomock.Any()).
		Return(nil, domain.NewTerminalOrderError(&terminal))

	order, err := s.orderService.MarkReviewed(
		context.Background(), 5, domain.OrderStatusFailed, "late rejection signal")
	s.Require().NoError(err)
	s.Equal(domain.OrderStatusDispatched, order.Status)
}

func (s *OrderServiceTestSuite) TestParkStale() {
	stale := []domain.Order{
		{ID: 1, Status: domain.OrderStatusPaymentConfirmed},
		{ID: 2, Status: domain.OrderStatusPaymentConfirmed},
	}

	s.mockOrderRepo.EXPECT().
		GetStaleConfirmed(gomock.Any(), 10*time.Minute, uint(50)).
		Return(stale, nil)

	for _, order := range stale {
		parked := order
		parked.Status = domain.OrderStatusUnderReview
		s.mockOrderRepo.EXPECT().
			UpdateStatus(gomock.Any(), order.ID, domain.OrderStatusPaymentConfirmed, domain.OrderStatusUnderReview, gomock.Any()).
			Return(&parked, nil)
	}

	parked, err := s.orderService.ParkStale(context.Background(), 10*time.Minute, 50)
	s.Require().NoError(err)
	s.Equal(2, parked)
}

// TestParkStale_SkipsConcurrentlyResolved заказ, разрешенный между выборкой и
// обновлением, пропускается без отката всей пачки.
func (s *OrderServiceTestSuite) TestParkStale_SkipsConcurrentlyResolved() {
	stale := []domain.Order{
		{ID: 1, Status: domain.OrderStatusPaymentConfirmed},
		{ID: 2, Status: domain.OrderStatusPaymentConfirmed},
	}

	s.mockOrderRepo.EXPECT().
		GetStaleConfirmed(gomock.Any(), 10*time.Minute, uint(50)).
		Return(stale, nil)

	first := stale[0]
	first.Status = domain.OrderStatusUnderReview
	s.mockOrderRepo.EXPECT().
		UpdateStatus(gomock.Any(), int64(1), domain.OrderStatusPaymentConfirmed, domain.OrderStatusUnderReview, gomock.Any()).
		Return(&first, nil)

	resolved := domain.Order{ID: 2, Status: domain.OrderStatusDispatched}
	s.mockOrderRepo.EXPECT().
		UpdateStatus(gomock.Any(), int64(2), domain.OrderStatusPaymentConfirmed, domain.OrderStatusUnderReview, gomock.Any()).
		Return(nil, domain.NewTerminalOrderError(&resolved))

	parked, err := s.orderService.ParkStale(context.Background(), 10*time.Minute, 50)
	s.Require().NoError(err)
	s.Equal(1, parked)
}

func (s *OrderServiceTestSuite) TestParkStale_Empty() {
	s.mockOrderRepo.EXPECT().
		GetStaleConfirmed(gomock.Any(), 10*time.Minute, uint(50)).
		Return(nil, nil)

	parked, err := s.orderService.ParkStale(context.Background(), 10*time.Minute, 50)
	s.Require().NoError(err)
	s.Zero(parked)
}
