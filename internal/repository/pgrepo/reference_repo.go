package pgrepo

import (
	"context"
	"errors"
	"time"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/pkg/uow"
)

type PaymentReferenceRepository struct {
	db uow.DBTX
}

func NewPaymentReferenceRepository(db uow.DBTX) *PaymentReferenceRepository {
	return &PaymentReferenceRepository{db: db}
}

// TryClaim пытается захватить референс для эксклюзивной обработки одним запросом:
// вставка новой записи либо перехват брошенного захвата старше ttl. Конкурентные
// вызовы сериализуются блокировкой строки по уникальному ключу, выигрывает ровно один.
//
// Исходы:
//   - запись вставлена или перехвачена - ClaimStateClaimed;
//   - референс уже разрешен - ClaimStateResolved с записанным ранее исходом;
//   - референс захвачен другим живым воркером - ClaimStateInProgress.
func (r *PaymentReferenceRepository) TryClaim(
	ctx context.Context,
	reference string,
	ttl time.Duration,
) (*domain.ClaimResult, error) {
	var status domain.ReferenceStatusType
	err := r.db.QueryRow(ctx,
		`INSERT INTO payment_references (reference, status, claimed_at)
		 VALUES ($1, $2, now())
		 ON CONFLICT (reference) DO UPDATE
		 SET claimed_at = now()
		 WHERE payment_references.status = $2
		   AND payment_references.claimed_at < now() - make_interval(secs => $3)
		 RETURNING status`,
		reference, domain.ReferenceStatusClaimed, ttl.Seconds(),
	).Scan(&status)

	if err == nil {
		return &domain.ClaimResult{State: domain.ClaimStateClaimed, Status: status}, nil
	}

	converted := convertErr(err, "claiming reference `%s`", reference)
	if !errors.Is(converted, domain.ErrRecordNotFound) {
		return nil, converted
	}

	// Конфликт без обновления: запись существует. Смотрим ее состояние.
	var existing domain.PaymentReference
	if findErr := r.db.QueryRow(ctx,
		`SELECT reference, status, order_id, claimed_at, resolved_at
		 FROM payment_references WHERE reference = $1`,
		reference,
	).Scan(
		&existing.Reference, &existing.Status, &existing.OrderID,
		&existing.ClaimedAt, &existing.ResolvedAt,
	); findErr != nil {
		if errors.Is(convertErr(findErr, "reading reference `%s`", reference), domain.ErrRecordNotFound) {
			// Запись успела исчезнуть (Release конкурентного воркера). Повтор разберется.
			return &domain.ClaimResult{State: domain.ClaimStateInProgress}, nil
		}
		return nil, convertErr(findErr, "reading reference `%s`", reference)
	}

	if existing.Status == domain.ReferenceStatusClaimed {
		return &domain.ClaimResult{State: domain.ClaimStateInProgress}, nil
	}
	return &domain.ClaimResult{
		State:   domain.ClaimStateResolved,
		Status:  existing.Status,
		OrderID: existing.OrderID,
	}, nil
}

// Resolve фиксирует исход обработки референса. Обновляется только запись в статусе
// claimed: если захват истек и был перехвачен, вернется ErrClaimLost и вызывающая
// транзакция обязана откатиться.
func (r *PaymentReferenceRepository) Resolve(
	ctx context.Context,
	reference string,
	status domain.ReferenceStatusType,
	orderID int64,
) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE payment_references
		 SET status = $2, order_id = $3, resolved_at = now()
		 WHERE reference = $1 AND status = $4`,
		reference, status, orderID, domain.ReferenceStatusClaimed,
	)
	if err != nil {
		return convertErr(err, "resolving reference `%s`", reference)
	}
	if tag.RowsAffected() == 0 {
		return convertErr(domain.ErrClaimLost, "resolving reference `%s`", reference)
	}
	return nil
}

// Release снимает незавершенный захват, позволяя будущему повтору пройти заново.
// Разрешенные записи не трогаются.
func (r *PaymentReferenceRepository) Release(ctx context.Context, reference string) error {
	_, err := r.db.Exec(ctx,
		`DELETE FROM payment_references WHERE reference = $1 AND status = $2`,
		reference, domain.ReferenceStatusClaimed,
	)
	if err != nil {
		return convertErr(err, "releasing reference `%s`", reference)
	}
	return nil
}

// DeleteExpired удаляет брошенные захваты старше ttl. Возвращает количество удаленных.
func (r *PaymentReferenceRepository) DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM payment_references
		 WHERE status = $1 AND claimed_at < now() - make_interval(secs => $2)`,
		domain.ReferenceStatusClaimed, ttl.Seconds(),
	)
	if err != nil {
		return 0, convertErr(err, "deleting expired claims")
	}
	return tag.RowsAffected(), nil
}
