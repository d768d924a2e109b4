package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/pkg/uow"
)

type OutcomeType string

const (
	OutcomeSuccess           OutcomeType = "success"
	OutcomeProcessing        OutcomeType = "processing"
	OutcomeInsufficientFunds OutcomeType = "insufficient_funds"
	OutcomeInvalidRequest    OutcomeType = "invalid_request"
	OutcomeGatewayMismatch   OutcomeType = "gateway_mismatch"
	OutcomePaymentFailed     OutcomeType = "payment_failed"
	OutcomeAlreadyProcessed  OutcomeType = "already_processed"
)

// PurchaseResult бизнес-исход операции. Ожидаемые отказы (нехватка средств,
// расхождение сумм, отклоненный платеж) приходят сюда, а не ошибкой: ошибка
// означает инфраструктурный сбой и ничего не зафиксированного в БД.
type PurchaseResult struct {
	Outcome    OutcomeType
	Order      *domain.Order
	NewBalance int64
}

const (
	referencePrefix  = "DL-"
	maxReferenceLen  = 64
	amountToleranceP = 1
)

var phonePattern = regexp.MustCompile(`^0\d{9}$`)

// ReconcileService сердце кошелька: покупки с баланса и сверка платежей шлюза.
// Все мутации баланса и заказов проходят через UnitOfWork транзакции, внешние
// вызовы (шлюз, оператор) выполняются строго вне транзакций.
type ReconcileService struct {
	uow        uow.UOW
	userRepo   domain.UserRepository
	orderRepo  domain.OrderRepository
	refRepo    domain.PaymentReferenceRepository
	fees       *FeeCalculator
	gateway    GatewayVerifier
	dispatcher FulfillmentDispatcher
	claimTTL   time.Duration
	logger     *logrus.Entry
}

func NewReconcileService(
	u uow.UOW,
	fees *FeeCalculator,
	gateway GatewayVerifier,
	dispatcher FulfillmentDispatcher,
	claimTTL time.Duration,
	logger *logrus.Logger,
) (*ReconcileService, error) {
	userRepo, userErr := uow.GetRepositoryAs[domain.UserRepository](u, uow.RepositoryName(domain.UserRepoName))
	if userErr != nil {
		return nil, userErr
	}
	orderRepo, orderErr := uow.GetRepositoryAs[domain.OrderRepository](u, uow.RepositoryName(domain.OrderRepoName))
	if orderErr != nil {
		return nil, orderErr
	}
	refRepo, refErr := uow.GetRepositoryAs[domain.PaymentReferenceRepository](
		u, uow.RepositoryName(domain.PaymentReferenceRepoName))
	if refErr != nil {
		return nil, refErr
	}
	return &ReconcileService{
		uow:        u,
		userRepo:   userRepo,
		orderRepo:  orderRepo,
		refRepo:    refRepo,
		fees:       fees,
		gateway:    gateway,
		dispatcher: dispatcher,
		claimTTL:   claimTTL,
		logger:     logger.WithField("module", "reconcile"),
	}, nil
}

type PurchaseArgs struct {
	Network     string
	PlanID      string
	PhoneNumber string
}

// PurchaseWithWallet покупка пакета данных с баланса кошелька.
//
// Алгоритм работы:
//  1. Валидация телефона и тарифа по каталогу. Цена берется только из каталога.
//  2. Транзакция: списание с баланса и создание заказа payment_confirmed.
//     Нехватка средств откатывает все, заказ не создается.
//  3. Отправка оператору вне транзакции. Отказ оператора компенсируется
//     возвратом на баланс, неоднозначный исход уводит заказ на ручной разбор
//     без возврата.
func (r *ReconcileService) PurchaseWithWallet(
	ctx context.Context,
	userID int64,
	args PurchaseArgs,
) (*PurchaseResult, error) {
	plan, planOk := domain.FindPlan(args.Network, args.PlanID)
	if !planOk || !phonePattern.MatchString(args.PhoneNumber) {
		return &PurchaseResult{Outcome: OutcomeInvalidRequest}, nil
	}

	var order *domain.Order
	var newBalance int64
	txErr := r.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[domain.UserRepository](tx, uow.RepositoryName(domain.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[domain.OrderRepository](tx, uow.RepositoryName(domain.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}

		var adjErr error
		newBalance, adjErr = userRepo.AdjustBalance(c, userID, -plan.Price)
		if adjErr != nil {
			return adjErr //nolint:wrapcheck
		}

		var createErr error
		order, createErr = orderRepo.CreateOrder(c, domain.OrderCreateDTO{
			UserID:        userID,
			Reference:     newReference(domain.OrderKindDataPurchase),
			Kind:          domain.OrderKindDataPurchase,
			Network:       args.Network,
			PlanID:        args.PlanID,
			PhoneNumber:   args.PhoneNumber,
			Amount:        plan.Price,
			PaymentMethod: domain.PaymentMethodWallet,
			Status:        domain.OrderStatusPaymentConfirmed,
		})
		return createErr //nolint:wrapcheck
	})

	if txErr != nil {
		if errors.Is(txErr, domain.ErrNotEnoughBalance) {
			return &PurchaseResult{Outcome: OutcomeInsufficientFunds}, nil
		}
		return nil, fmt.Errorf("wallet purchase: %w", txErr)
	}

	return r.finishDispatch(ctx, order, newBalance)
}

// ConfirmTopup сверка пополнения кошелька, оплаченного через платежный шлюз.
// netAmount - заявленная клиентом нетто-сумма зачисления; фактическое списание
// пересчитывается на сервере и сверяется с цифрой шлюза.
func (r *ReconcileService) ConfirmTopup(
	ctx context.Context,
	userID int64,
	reference string,
	netAmount int64,
) (*PurchaseResult, error) {
	if !validReference(reference) {
		return &PurchaseResult{Outcome: OutcomeInvalidRequest}, nil
	}

	// Сначала захват: повтор по уже разрешенному референсу возвращает
	// сохраненный исход независимо от суммы в запросе.
	if claimRes, claimErr := r.claimOrShortcut(ctx, reference); claimErr != nil || claimRes != nil {
		return claimRes, claimErr
	}

	expected, chargeErr := r.fees.ChargeFor(netAmount)
	if chargeErr != nil {
		r.releaseClaim(ctx, reference)
		if errors.Is(chargeErr, domain.ErrAmountOutOfRange) {
			return &PurchaseResult{Outcome: OutcomeInvalidRequest}, nil
		}
		return nil, chargeErr
	}

	verification, verifyRes, verifyErr := r.verifyClaimed(ctx, userID, reference, domain.OrderKindWalletTopup, netAmount)
	if verifyErr != nil || verifyRes != nil {
		return verifyRes, verifyErr
	}

	if mismatch(verification.Amount, expected) {
		return r.rejectClaim(ctx, userID, reference, domain.OrderKindWalletTopup, netAmount,
			OutcomeGatewayMismatch, fmt.Sprintf("gateway charged %d, expected %d", verification.Amount, expected))
	}

	var order *domain.Order
	var newBalance int64
	txErr := r.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		userRepo, userRepoErr := uow.GetAs[domain.UserRepository](tx, uow.RepositoryName(domain.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}
		orderRepo, orderRepoErr := uow.GetAs[domain.OrderRepository](tx, uow.RepositoryName(domain.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		refRepo, refRepoErr := uow.GetAs[domain.PaymentReferenceRepository](
			tx, uow.RepositoryName(domain.PaymentReferenceRepoName))
		if refRepoErr != nil {
			return refRepoErr //nolint:wrapcheck
		}

		var adjErr error
		newBalance, adjErr = userRepo.AdjustBalance(c, userID, netAmount)
		if adjErr != nil {
			return adjErr //nolint:wrapcheck
		}

		var createErr error
		order, createErr = orderRepo.CreateOrder(c, domain.OrderCreateDTO{
			UserID:        userID,
			Reference:     newReference(domain.OrderKindWalletTopup),
			Kind:          domain.OrderKindWalletTopup,
			Amount:        netAmount,
			PaymentMethod: domain.PaymentMethodGateway,
			ExternalRef:   reference,
			Status:        domain.OrderStatusTopupCredited,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		return refRepo.Resolve(c, reference, domain.ReferenceStatusApplied, order.ID) //nolint:wrapcheck
	})

	if txErr != nil {
		if errors.Is(txErr, domain.ErrClaimLost) {
			return &PurchaseResult{Outcome: OutcomeProcessing}, nil
		}
		return nil, fmt.Errorf("confirming topup `%s`: %w", reference, txErr)
	}

	return &PurchaseResult{Outcome: OutcomeSuccess, Order: order, NewBalance: newBalance}, nil
}

// ConfirmPurchase сверка покупки пакета данных, оплаченной через платежный шлюз.
func (r *ReconcileService) ConfirmPurchase(
	ctx context.Context,
	userID int64,
	reference string,
	args PurchaseArgs,
) (*PurchaseResult, error) {
	if !validReference(reference) {
		return &PurchaseResult{Outcome: OutcomeInvalidRequest}, nil
	}
	plan, planOk := domain.FindPlan(args.Network, args.PlanID)
	if !planOk || !phonePattern.MatchString(args.PhoneNumber) {
		return &PurchaseResult{Outcome: OutcomeInvalidRequest}, nil
	}

	if claimRes, claimErr := r.claimOrShortcut(ctx, reference); claimErr != nil || claimRes != nil {
		return claimRes, claimErr
	}

	verification, verifyRes, verifyErr := r.verifyClaimed(ctx, userID, reference, domain.OrderKindDataPurchase, plan.Price)
	if verifyErr != nil || verifyRes != nil {
		return verifyRes, verifyErr
	}

	// Клиент платит шлюзу цену каталога плюс комиссию, сверяемся с полной суммой.
	expected := r.fees.GrossCharge(plan.Price)
	if mismatch(verification.Amount, expected) {
		return r.rejectClaim(ctx, userID, reference, domain.OrderKindDataPurchase, plan.Price,
			OutcomeGatewayMismatch, fmt.Sprintf("gateway charged %d, expected %d", verification.Amount, expected))
	}

	var order *domain.Order
	txErr := r.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[domain.OrderRepository](tx, uow.RepositoryName(domain.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		refRepo, refRepoErr := uow.GetAs[domain.PaymentReferenceRepository](
			tx, uow.RepositoryName(domain.PaymentReferenceRepoName))
		if refRepoErr != nil {
			return refRepoErr //nolint:wrapcheck
		}

		var createErr error
		order, createErr = orderRepo.CreateOrder(c, domain.OrderCreateDTO{
			UserID:        userID,
			Reference:     newReference(domain.OrderKindDataPurchase),
			Kind:          domain.OrderKindDataPurchase,
			Network:       args.Network,
			PlanID:        args.PlanID,
			PhoneNumber:   args.PhoneNumber,
			Amount:        plan.Price,
			PaymentMethod: domain.PaymentMethodGateway,
			ExternalRef:   reference,
			Status:        domain.OrderStatusPaymentConfirmed,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		return refRepo.Resolve(c, reference, domain.ReferenceStatusApplied, order.ID) //nolint:wrapcheck
	})

	if txErr != nil {
		if errors.Is(txErr, domain.ErrClaimLost) {
			return &PurchaseResult{Outcome: OutcomeProcessing}, nil
		}
		return nil, fmt.Errorf("confirming purchase `%s`: %w", reference, txErr)
	}

	return r.finishDispatch(ctx, order, -1)
}

// claimOrShortcut захватывает референс. Ненулевой результат означает что
// обработка не нужна: референс уже разрешен ранее или захвачен другим воркером.
// nil, nil - захват получен, вызывающий продолжает сверку.
func (r *ReconcileService) claimOrShortcut(
	ctx context.Context,
	reference string,
) (*PurchaseResult, error) {
	claim, claimErr := r.refRepo.TryClaim(ctx, reference, r.claimTTL)
	if claimErr != nil {
		return nil, fmt.Errorf("claiming `%s`: %w", reference, claimErr)
	}

	switch claim.State {
	case domain.ClaimStateInProgress:
		return &PurchaseResult{Outcome: OutcomeProcessing}, nil
	case domain.ClaimStateResolved:
		result := &PurchaseResult{Outcome: OutcomeAlreadyProcessed}
		if claim.Status == domain.ReferenceStatusRejected {
			result.Outcome = OutcomePaymentFailed
		}
		if claim.OrderID != nil {
			order, orderErr := r.orderRepo.FindByID(ctx, *claim.OrderID)
			if orderErr != nil {
				return nil, fmt.Errorf("loading resolved order for `%s`: %w", reference, orderErr)
			}
			result.Order = order
		}
		return result, nil
	case domain.ClaimStateClaimed:
	}
	return nil, nil
}

// verifyClaimed опрашивает шлюз по захваченному референсу. Ненулевой результат
// означает что зачисление невозможно: платеж отклонен, еще не завершен или шлюз
// недоступен. nil в результате дает право продолжать сверку сумм.
func (r *ReconcileService) verifyClaimed(
	ctx context.Context,
	userID int64,
	reference string,
	kind domain.OrderKindType,
	amount int64,
) (*domain.GatewayVerification, *PurchaseResult, error) {
	verification, verifyErr := r.gateway.VerifyTransaction(ctx, reference)
	if verifyErr != nil {
		// Исход неизвестен, захват снимается и клиент повторит позже.
		r.releaseClaim(ctx, reference)
		r.logger.WithError(verifyErr).WithField("reference", reference).
			Warn("gateway verification unavailable")
		return nil, &PurchaseResult{Outcome: OutcomeProcessing}, nil
	}

	switch verification.Status {
	case domain.GatewayStatusPending:
		r.releaseClaim(ctx, reference)
		return nil, &PurchaseResult{Outcome: OutcomeProcessing}, nil
	case domain.GatewayStatusFailed:
		result, rejectErr := r.rejectClaim(ctx, userID, reference, kind, amount,
			OutcomePaymentFailed, "gateway reported payment failed")
		return nil, result, rejectErr
	case domain.GatewayStatusSuccess:
	}
	return verification, nil, nil
}

// rejectClaim фиксирует отказ: создает терминально неуспешный заказ для журнала
// и разрешает референс как rejected в той же транзакции. Баланс не трогается.
func (r *ReconcileService) rejectClaim(
	ctx context.Context,
	userID int64,
	reference string,
	kind domain.OrderKindType,
	amount int64,
	outcome OutcomeType,
	note string,
) (*PurchaseResult, error) {
	var order *domain.Order
	txErr := r.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[domain.OrderRepository](tx, uow.RepositoryName(domain.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		refRepo, refRepoErr := uow.GetAs[domain.PaymentReferenceRepository](
			tx, uow.RepositoryName(domain.PaymentReferenceRepoName))
		if refRepoErr != nil {
			return refRepoErr //nolint:wrapcheck
		}

		var createErr error
		order, createErr = orderRepo.CreateOrder(c, domain.OrderCreateDTO{
			UserID:        userID,
			Reference:     newReference(kind),
			Kind:          kind,
			Amount:        amount,
			PaymentMethod: domain.PaymentMethodGateway,
			ExternalRef:   reference,
			Status:        domain.OrderStatusFailed,
		})
		if createErr != nil {
			return createErr //nolint:wrapcheck
		}

		return refRepo.Resolve(c, reference, domain.ReferenceStatusRejected, order.ID) //nolint:wrapcheck
	})

	if txErr != nil {
		if errors.Is(txErr, domain.ErrClaimLost) {
			return &PurchaseResult{Outcome: OutcomeProcessing}, nil
		}
		return nil, fmt.Errorf("rejecting `%s`: %w", reference, txErr)
	}
	r.logger.WithFields(logrus.Fields{"reference": reference, "order_id": order.ID}).Info(note)
	return &PurchaseResult{Outcome: outcome, Order: order}, nil
}

// finishDispatch отправляет оплаченный заказ оператору и завершает его жизненный цикл.
// newBalance < 0 означает что баланс в этой операции не менялся и в результат не попадет.
func (r *ReconcileService) finishDispatch(
	ctx context.Context,
	order *domain.Order,
	newBalance int64,
) (*PurchaseResult, error) {
	verdict, dispatchErr := r.dispatcher.Dispatch(ctx, domain.DispatchRequest{
		Reference:   order.Reference,
		Network:     order.Network,
		PlanID:      order.PlanID,
		PhoneNumber: order.PhoneNumber,
	})
	if dispatchErr != nil {
		r.logger.WithError(dispatchErr).WithField("order_id", order.ID).
			Warn("dispatch outcome unknown")
		verdict = domain.DispatchAmbiguous
	}

	switch verdict {
	case domain.DispatchAccepted:
		updated, updErr := r.transition(ctx, order.ID, domain.OrderStatusDispatched, "carrier accepted")
		if updErr != nil {
			return nil, updErr
		}
		return &PurchaseResult{Outcome: OutcomeSuccess, Order: updated, NewBalance: newBalance}, nil

	case domain.DispatchRejected:
		updated, refunded, refundErr := r.refundRejected(ctx, order)
		if refundErr != nil {
			return nil, refundErr
		}
		return &PurchaseResult{Outcome: OutcomePaymentFailed, Order: updated, NewBalance: refunded}, nil

	default:
		// Неизвестный исход: деньги не возвращаются, заказ ждет ручного разбора.
		updated, updErr := r.transition(ctx, order.ID, domain.OrderStatusUnderReview, "dispatch outcome unknown")
		if updErr != nil {
			return nil, updErr
		}
		return &PurchaseResult{Outcome: OutcomeProcessing, Order: updated, NewBalance: newBalance}, nil
	}
}

// refundRejected переводит заказ в fulfillment_failed и возвращает его стоимость
// на кошелек одной транзакцией. Для заказов, оплаченных через шлюз, компенсация
// также зачисляется на кошелек.
func (r *ReconcileService) refundRejected(ctx context.Context, order *domain.Order) (*domain.Order, int64, error) {
	var updated *domain.Order
	var refunded int64
	txErr := r.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[domain.OrderRepository](tx, uow.RepositoryName(domain.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		userRepo, userRepoErr := uow.GetAs[domain.UserRepository](tx, uow.RepositoryName(domain.UserRepoName))
		if userRepoErr != nil {
			return userRepoErr //nolint:wrapcheck
		}

		var updErr error
		updated, updErr = orderRepo.UpdateStatus(
			c, order.ID, domain.OrderStatusPaymentConfirmed, domain.OrderStatusFailed,
			"carrier rejected, wallet refunded")
		if updErr != nil {
			return updErr //nolint:wrapcheck
		}

		var adjErr error
		refunded, adjErr = userRepo.AdjustBalance(c, order.UserID, order.Amount)
		return adjErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, 0, fmt.Errorf("refunding rejected order %d: %w", order.ID, txErr)
	}
	return updated, refunded, nil
}

func (r *ReconcileService) transition(
	ctx context.Context,
	orderID int64,
	to domain.OrderStatusType,
	note string,
) (*domain.Order, error) {
	var updated *domain.Order
	txErr := r.uow.Do(ctx, func(c context.Context, tx uow.TX) error {
		orderRepo, orderRepoErr := uow.GetAs[domain.OrderRepository](tx, uow.RepositoryName(domain.OrderRepoName))
		if orderRepoErr != nil {
			return orderRepoErr //nolint:wrapcheck
		}
		var updErr error
		updated, updErr = orderRepo.UpdateStatus(c, orderID, domain.OrderStatusPaymentConfirmed, to, note)
		return updErr //nolint:wrapcheck
	})
	if txErr != nil {
		return nil, fmt.Errorf("transitioning order %d to %s: %w", orderID, to, txErr)
	}
	return updated, nil
}

func (r *ReconcileService) releaseClaim(ctx context.Context, reference string) {
	if err := r.refRepo.Release(ctx, reference); err != nil {
		// Захват истечет по ttl и будет перехвачен повтором, терять ошибку можно.
		r.logger.WithError(err).WithField("reference", reference).Warn("releasing claim")
	}
}

// PurgeExpiredClaims удаляет захваты референсов старше claimTTL. Вызывается
// фоновым монитором, возвращает кол-во удаленных записей.
func (r *ReconcileService) PurgeExpiredClaims(ctx context.Context) (int64, error) {
	deleted, delErr := r.refRepo.DeleteExpired(ctx, r.claimTTL)
	if delErr != nil {
		return 0, fmt.Errorf("purging expired claims: %w", delErr)
	}
	return deleted, nil
}

func validReference(reference string) bool {
	return strings.HasPrefix(reference, referencePrefix) && len(reference) <= maxReferenceLen
}

func mismatch(actual, expected int64) bool {
	diff := actual - expected
	if diff < 0 {
		diff = -diff
	}
	return diff > amountToleranceP
}

// newReference генерирует системный референс заказа вида DL-PURCHASE-a1b2c3d4e5f6.
func newReference(kind domain.OrderKindType) string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)
	infix := "PURCHASE"
	if kind == domain.OrderKindWalletTopup {
		infix = "TOPUP"
	}
	return referencePrefix + infix + "-" + hex.EncodeToString(buf)
}
