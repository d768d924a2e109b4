package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/fsdevblog/datalink/internal/monitor/mocks"
)

type MonitorTestSuite struct {
	suite.Suite
	monitor    *Monitor
	mockOrders *mocks.MockOrderServicer
	mockClaims *mocks.MockClaimServicer
	ctrl       *gomock.Controller
}

func (s *MonitorTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.mockOrders = mocks.NewMockOrderServicer(s.ctrl)
	s.mockClaims = mocks.NewMockClaimServicer(s.ctrl)

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	s.monitor = New(s.mockOrders, s.mockClaims, logger).
		SetReviewAfter(10 * time.Minute).
		SetLimitPerSweep(50)
}

func (s *MonitorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestMonitorSuite(t *testing.T) {
	suite.Run(t, new(MonitorTestSuite))
}

func (s *MonitorTestSuite) TestSweep() {
	s.mockOrders.EXPECT().
		ParkStale(gomock.Any(), 10*time.Minute, uint(50)).
		Return(2, nil)
	s.mockClaims.EXPECT().
		PurgeExpiredClaims(gomock.Any()).
		Return(int64(3), nil)

	err := s.monitor.sweep(context.Background())
	s.NoError(err)
}

// TestSweep_ParkError проверяет, что ошибка парковки не блокирует следующую итерацию.
func (s *MonitorTestSuite) TestSweep_ParkError() {
	parkErr := errors.New("db gone")
	s.mockOrders.EXPECT().
		ParkStale(gomock.Any(), 10*time.Minute, uint(50)).
		Return(0, parkErr)

	err := s.monitor.sweep(context.Background())
	s.ErrorIs(err, parkErr)
}

func (s *MonitorTestSuite) TestSweep_PurgeError() {
	purgeErr := errors.New("db gone")
	s.mockOrders.EXPECT().
		ParkStale(gomock.Any(), 10*time.Minute, uint(50)).
		Return(0, nil)
	s.mockClaims.EXPECT().
		PurgeExpiredClaims(gomock.Any()).
		Return(int64(0), purgeErr)

	err := s.monitor.sweep(context.Background())
	s.ErrorIs(err, purgeErr)
}

// TestRun_Stops проверяет, что Run завершается по отмене контекста.
func (s *MonitorTestSuite) TestRun_Stops() {
	s.mockOrders.EXPECT().
		ParkStale(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(0, nil).
		AnyTimes()
	s.mockClaims.EXPECT().
		PurgeExpiredClaims(gomock.Any()).
		Return(int64(0), nil).
		AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		s.monitor.SetInterval(5 * time.Millisecond).Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("monitor did not stop after context cancel")
	}
}
