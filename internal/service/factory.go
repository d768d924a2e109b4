package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/datalink/internal/service/psswd"
	"github.com/fsdevblog/datalink/pkg/uow"
)

type AppServices struct {
	UserService      *UserService
	WalletService    *WalletService
	OrderService     *OrderService
	ReconcileService *ReconcileService
	Fees             *FeeCalculator
}

type FactoryArgs struct {
	JWTSecret    []byte
	TopupFeeRate float64
	MinTopup     int64
	ClaimTTL     time.Duration
	Gateway      GatewayVerifier
	Dispatcher   FulfillmentDispatcher
	Logger       *logrus.Logger
}

func Factory(unitOfWork uow.UOW, args FactoryArgs) (*AppServices, error) {
	fees := NewFeeCalculator(args.TopupFeeRate, args.MinTopup)

	userService, userServiceErr := NewUserService(unitOfWork, psswd.PasswordHash(""), args.JWTSecret)
	if userServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", userServiceErr.Error())
	}

	walletService, walletServiceErr := NewWalletService(unitOfWork)
	if walletServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", walletServiceErr.Error())
	}

	orderService, orderServiceErr := NewOrderService(unitOfWork, args.Logger)
	if orderServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", orderServiceErr.Error())
	}

	reconcileService, reconcileServiceErr := NewReconcileService(
		unitOfWork, fees, args.Gateway, args.Dispatcher, args.ClaimTTL, args.Logger)
	if reconcileServiceErr != nil {
		return nil, fmt.Errorf("service factory: %s", reconcileServiceErr.Error())
	}

	return &AppServices{
		UserService:      userService,
		WalletService:    walletService,
		OrderService:     orderService,
		ReconcileService: reconcileService,
		Fees:             fees,
	}, nil
}
