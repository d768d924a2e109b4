package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/datalink/internal/transport/api/middlewares"
)

const (
	DefaultServiceTimeout = 3 * time.Second

	// DispatchServiceTimeout таймаут для операций с походом к шлюзу и оператору.
	DispatchServiceTimeout = 30 * time.Second
)

const (
	RouteGroup          = "/api"
	RegisterRoute       = "/user/register"
	LoginRoute          = "/user/login"
	OrdersRoute         = "/user/orders"
	BalanceRoute        = "/user/balance"
	PurchaseWalletRoute = "/purchase/wallet"
	PurchaseVerifyRoute = "/purchase/verify"
	TopupVerifyRoute    = "/topup/verify"

	HealthRoute  = "/healthz"
	MetricsRoute = "/metrics"
)

type RouterArgs struct {
	Logger           *logrus.Logger
	UserService      UserServicer
	WalletService    WalletServicer
	OrderService     OrderServicer
	ReconcileService ReconcileServicer
	JWTSecretKey     []byte
}

func New(args RouterArgs) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if args.Logger != nil {
		r.Use(middlewares.Logger(args.Logger))
	}
	r.Use(middlewares.Metrics())
	r.Use(middlewares.Errors())

	authHandler := NewAuthHandler(args.UserService)
	ordersHandler := NewOrdersHandler(args.OrderService)
	walletHandler := NewWalletHandler(args.WalletService, args.ReconcileService)
	purchaseHandler := NewPurchaseHandler(args.ReconcileService)

	r.GET(HealthRoute, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET(MetricsRoute, gin.WrapH(promhttp.Handler()))

	api := r.Group(RouteGroup)

	api.POST(RegisterRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Register)
	api.POST(LoginRoute, middlewares.NonAuthRequired(args.JWTSecretKey), authHandler.Login)

	api.Use(middlewares.AuthRequired(args.JWTSecretKey))
	// ниже все роуты группы требуют авторизованного пользователя.
	api.GET(OrdersRoute, ordersHandler.Index)
	api.GET(BalanceRoute, walletHandler.Balance)

	api.POST(PurchaseWalletRoute, purchaseHandler.PurchaseWallet)
	api.POST(PurchaseVerifyRoute, purchaseHandler.PurchaseVerify)
	api.POST(TopupVerifyRoute, walletHandler.TopupVerify)
	return r, nil
}
