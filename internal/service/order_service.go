package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/pkg/uow"
)

type OrderService struct {
	uow       uow.UOW
	orderRepo domain.OrderRepository
	logger    *logrus.Entry
}

func NewOrderService(u uow.UOW, logger *logrus.Logger) (*OrderService, error) {
	orderRepo, err := uow.GetRepositoryAs[domain.OrderRepository](u, uow.RepositoryName(domain.OrderRepoName))
	if err != nil {
		return nil, err
	}
	return &OrderService{
		uow:       u,
		orderRepo: orderRepo,
		logger:    logger.WithField("module", "orders"),
	}, nil
}

// GetByUserID возвращает заказы юзера отсортированные по дате создания по убыванию.
func (o *OrderService) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := o.orderRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return orders, nil
}

// GetEvents возвращает append-only журнал переходов статусов заказа.
func (o *OrderService) GetEvents(ctx context.Context, orderID int64) ([]domain.OrderEvent, error) {
	events, err := o.orderRepo.GetEvents(ctx, orderID)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	return events, nil
}

// MarkReviewed ручное разрешение заказа из under_review оператором. Деньги здесь
// не трогаются: решение о возврате принимает оператор отдельной операцией.
func (o *OrderService) MarkReviewed(
	ctx context.Context,
	orderID int64,
	outcome domain.OrderStatusType,
	note string,
) (*domain.Order, error) {
	if outcome != domain.OrderStatusDispatched && outcome != domain.OrderStatusFailed {
		return nil, fmt.Errorf("review outcome `%s`: %w", outcome, domain.ErrInvalidRequest)
	}
	var order *domain.Order
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[domain.OrderRepository](tx, uow.RepositoryName(domain.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		var updErr error
		order, updErr = repo.UpdateStatus(c, orderID, domain.OrderStatusUnderReview, outcome, note)
		return updErr //nolint:wrapcheck
	})
	if txErr != nil {
		// Сигнал по терминальному заказу логируется и игнорируется, состояние не меняется.
		var terminalErr *domain.TerminalOrderError
		if errors.As(txErr, &terminalErr) {
			o.logger.WithField("order_id", orderID).Info("review signal for terminal order ignored")
			return terminalErr.Order, nil
		}
		return nil, fmt.Errorf("marking order reviewed: %w", txErr)
	}
	return order, nil
}

// ParkStale переводит зависшие в payment_confirmed заказы в under_review.
// Повторная отправка оператору отсюда не выполняется: исход первой попытки
// неизвестен и автоматический повтор грозит двойной доставкой.
func (o *OrderService) ParkStale(ctx context.Context, olderThan time.Duration, limit uint) (int, error) {
	stale, staleErr := o.orderRepo.GetStaleConfirmed(ctx, olderThan, limit)
	if staleErr != nil {
		return 0, staleErr //nolint:wrapcheck
	}
	if len(stale) == 0 {
		return 0, nil
	}

	var parked int
	txErr := o.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		repo, repoErr := uow.GetAs[domain.OrderRepository](tx, uow.RepositoryName(domain.OrderRepoName))
		if repoErr != nil {
			return repoErr //nolint:wrapcheck
		}
		for _, order := range stale {
			_, updErr := repo.UpdateStatus(
				c, order.ID, domain.OrderStatusPaymentConfirmed, domain.OrderStatusUnderReview,
				"stalled waiting for dispatch result",
			)
			if updErr != nil {
				// Заказ ушел из payment_confirmed конкурентно, пропускаем его.
				var terminalErr *domain.TerminalOrderError
				var transitionErr *domain.InvalidTransitionError
				if errors.As(updErr, &terminalErr) || errors.As(updErr, &transitionErr) {
					o.logger.WithField("order_id", order.ID).Info("stale order resolved concurrently, skipping")
					continue
				}
				return updErr //nolint:wrapcheck
			}
			parked++
		}
		return nil
	})
	if txErr != nil {
		return 0, fmt.Errorf("parking stale orders: %w", txErr)
	}
	return parked, nil
}
