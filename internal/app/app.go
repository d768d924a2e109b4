package app

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/datalink/internal/config"
	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/internal/monitor"
	"github.com/fsdevblog/datalink/internal/repository/pgrepo"
	"github.com/fsdevblog/datalink/internal/service"
	"github.com/fsdevblog/datalink/internal/transport/api"
	"github.com/fsdevblog/datalink/internal/transport/fulfillment"
	"github.com/fsdevblog/datalink/internal/transport/gateway"
	"github.com/fsdevblog/datalink/pkg/uow"

	// driver for migration applying postgres.
	_ "github.com/golang-migrate/migrate/v4/database/postgres" //nolint:revive
	// driver to get migrations from files (*.sql in our case).
	_ "github.com/golang-migrate/migrate/v4/source/file" //nolint:revive
	"github.com/jackc/pgx/v5/pgxpool"
)

type App struct {
	Config *config.Config
	Logger *logrus.Logger
}

func New(conf *config.Config, l *logrus.Logger) *App {
	return &App{
		Config: conf,
		Logger: l,
	}
}

func (a *App) Run() error {
	notifyCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.Logger.Infof("Starting app on %s", a.Config.RunAddress)
	conn, connErr := pgrepo.Connect(notifyCtx, a.Config.MigrationsDir, a.Config.DatabaseDSN, a.Logger)
	if connErr != nil {
		return fmt.Errorf("app run: %s", connErr.Error())
	}
	defer conn.Close()

	unitOfWork, uowErr := initUOW(conn)
	if uowErr != nil {
		return fmt.Errorf("app run: %s", uowErr.Error())
	}

	gatewayClient := gateway.New(a.Config.GatewayAPIAddress, a.Config.GatewaySecretKey, a.Config.GatewayTimeout)
	fulfillmentClient := fulfillment.New(a.Config.FulfillmentAPIAddress, a.Config.FulfillmentTimeout)

	services, sErr := service.Factory(unitOfWork, service.FactoryArgs{
		JWTSecret:    []byte(a.Config.JWTUserSecret),
		TopupFeeRate: a.Config.TopupFeeRate,
		MinTopup:     a.Config.MinTopupAmount,
		ClaimTTL:     a.Config.ClaimTTL,
		Gateway:      gatewayClient,
		Dispatcher:   fulfillmentClient,
		Logger:       a.Logger,
	})
	if sErr != nil {
		return fmt.Errorf("app run: %s", sErr.Error())
	}

	router, routerErr := api.New(api.RouterArgs{
		Logger:           a.Logger,
		UserService:      services.UserService,
		WalletService:    services.WalletService,
		OrderService:     services.OrderService,
		ReconcileService: services.ReconcileService,
		JWTSecretKey:     []byte(a.Config.JWTUserSecret),
	})
	if routerErr != nil {
		return fmt.Errorf("app run: %s", routerErr.Error())
	}

	errChan := make(chan error, 1)

	go func() {
		if runErr := router.Run(a.Config.RunAddress); runErr != nil {
			errChan <- runErr
		}
	}()

	sweeper := monitor.New(services.OrderService, services.ReconcileService, a.Logger).
		SetInterval(a.Config.MonitorInterval).
		SetReviewAfter(a.Config.ReviewAfter).
		SetLimitPerSweep(a.Config.MonitorLimit)

	go sweeper.Run(notifyCtx)

	select {
	case <-notifyCtx.Done():
		return notifyCtx.Err() //nolint:wrapcheck
	case err := <-errChan:
		return err
	}
}

func initUOW(conn *pgxpool.Pool) (*uow.UnitOfWork, error) {
	unitOfWork := uow.NewUnitOfWork(conn)

	// user repo
	userRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewUserRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(domain.UserRepoName), userRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// order repo
	orderRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewOrderRepository(dbtx)
	}
	if regErr := unitOfWork.Register(uow.RepositoryName(domain.OrderRepoName), orderRepoFactoryFn); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	// payment reference repo
	referenceRepoFactoryFn := func(dbtx uow.DBTX) uow.Repository {
		return pgrepo.NewPaymentReferenceRepository(dbtx)
	}
	if regErr := unitOfWork.Register(
		uow.RepositoryName(domain.PaymentReferenceRepoName),
		referenceRepoFactoryFn,
	); regErr != nil {
		return nil, fmt.Errorf("init UOW: %s", regErr.Error())
	}

	return unitOfWork, nil
}
