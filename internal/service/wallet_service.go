package service

import (
	"context"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/pkg/uow"
)

type WalletService struct {
	uow      uow.UOW
	userRepo domain.UserRepository
}

func NewWalletService(u uow.UOW) (*WalletService, error) {
	userRepo, err := uow.GetRepositoryAs[domain.UserRepository](u, uow.RepositoryName(domain.UserRepoName))
	if err != nil {
		return nil, err
	}
	return &WalletService{
		uow:      u,
		userRepo: userRepo,
	}, nil
}

// GetBalance возвращает текущий баланс кошелька юзера в песевах.
func (w *WalletService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	user, err := w.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}
	return user.Balance, nil
}
