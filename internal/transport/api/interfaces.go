package api

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/internal/service"
)

// UserServicer интерфейс исключительно для моков.
type UserServicer interface {
	Register(ctx context.Context, args service.RegisterUserArgs) (*domain.User, string, error)
	Login(ctx context.Context, username string, password string) (*domain.User, string, error)
}

type WalletServicer interface {
	GetBalance(ctx context.Context, userID int64) (int64, error)
}

type OrderServicer interface {
	GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error)
}

type ReconcileServicer interface {
	PurchaseWithWallet(ctx context.Context, userID int64, args service.PurchaseArgs) (*service.PurchaseResult, error)
	ConfirmPurchase(
		ctx context.Context,
		userID int64,
		reference string,
		args service.PurchaseArgs,
	) (*service.PurchaseResult, error)
	ConfirmTopup(ctx context.Context, userID int64, reference string, netAmount int64) (*service.PurchaseResult, error)
}
