package pgrepo

import (
	"context"
	"errors"
	"time"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/pkg/uow"
)

const orderColumns = `id, created_at, updated_at, user_id, reference, kind, network,
	plan_id, phone_number, amount, payment_method, external_ref, status`

type OrderRepository struct {
	db uow.DBTX
}

func NewOrderRepository(db uow.DBTX) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateOrder создает заказ в статусе args.Status и пишет событие создания в журнал.
// Дубликат референса или external_ref вернется как ErrDuplicateKey.
func (r *OrderRepository) CreateOrder(ctx context.Context, args domain.OrderCreateDTO) (*domain.Order, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO orders
		 (user_id, reference, kind, network, plan_id, phone_number, amount, payment_method, external_ref, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)
		 RETURNING `+orderColumns,
		args.UserID, args.Reference, args.Kind, args.Network, args.PlanID,
		args.PhoneNumber, args.Amount, args.PaymentMethod, args.ExternalRef, args.Status,
	)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "creating order with reference `%s`", args.Reference)
	}

	if eventErr := r.appendEvent(ctx, order.ID, "", order.Status, "created"); eventErr != nil {
		return nil, eventErr
	}
	return order, nil
}

func (r *OrderRepository) FindByReference(ctx context.Context, reference string) (*domain.Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE reference = $1`, reference)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by reference `%s`", reference)
	}
	return order, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	order, err := scanOrder(row)
	if err != nil {
		return nil, convertErr(err, "finding order by id `%d`", id)
	}
	return order, nil
}

// GetByUserID возвращает заказы юзера отсортированные по дате создания по убыванию.
func (r *OrderRepository) GetByUserID(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, convertErr(err, "getting orders by userID `%d`", userID)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning order for userID `%d`", userID)
		}
		orders = append(orders, *order)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating orders for userID `%d`", userID)
	}
	return orders, nil
}

// UpdateStatus переводит заказ из from в to и добавляет событие перехода.
// Переход проверяется дважды: в домене (допустимость) и в WHERE условии (конкурентность).
// Для терминального заказа возвращается TerminalOrderError, состояние не меняется.
func (r *OrderRepository) UpdateStatus(
	ctx context.Context,
	orderID int64,
	from, to domain.OrderStatusType,
	note string,
) (*domain.Order, error) {
	if !from.CanTransitionTo(to) {
		return nil, &domain.InvalidTransitionError{From: from, To: to}
	}

	row := r.db.QueryRow(ctx,
		`UPDATE orders SET status = $3, updated_at = now()
		 WHERE id = $1 AND status = $2
		 RETURNING `+orderColumns,
		orderID, from, to,
	)
	order, err := scanOrder(row)
	if err == nil {
		if eventErr := r.appendEvent(ctx, order.ID, from, to, note); eventErr != nil {
			return nil, eventErr
		}
		return order, nil
	}

	converted := convertErr(err, "updating status of order `%d` to `%s`", orderID, to)
	if !errors.Is(converted, domain.ErrRecordNotFound) {
		return nil, converted
	}

	// Строка не обновилась: заказа нет или статус изменился конкурентно.
	current, findErr := r.FindByID(ctx, orderID)
	if findErr != nil {
		return nil, findErr
	}
	if current.Status.IsTerminal() {
		return nil, domain.NewTerminalOrderError(current)
	}
	return nil, &domain.InvalidTransitionError{From: current.Status, To: to}
}

// GetStaleConfirmed возвращает заказы зависшие в payment_confirmed дольше olderThan.
// Используется фоновым монитором для перевода потерянных заказов в under_review.
func (r *OrderRepository) GetStaleConfirmed(
	ctx context.Context,
	olderThan time.Duration,
	limit uint,
) ([]domain.Order, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE status = $1 AND updated_at < now() - make_interval(secs => $2)
		 ORDER BY updated_at
		 LIMIT $3`,
		domain.OrderStatusPaymentConfirmed, olderThan.Seconds(), int64(limit),
	)
	if err != nil {
		return nil, convertErr(err, "getting stale confirmed orders")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, scanErr := scanOrder(rows)
		if scanErr != nil {
			return nil, convertErr(scanErr, "scanning stale confirmed order")
		}
		orders = append(orders, *order)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating stale confirmed orders")
	}
	return orders, nil
}

// GetEvents возвращает журнал переходов заказа в порядке записи.
func (r *OrderRepository) GetEvents(ctx context.Context, orderID int64) ([]domain.OrderEvent, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, created_at, order_id, COALESCE(from_status, ''), to_status, note
		 FROM order_events WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, convertErr(err, "getting events for order `%d`", orderID)
	}
	defer rows.Close()

	var events []domain.OrderEvent
	for rows.Next() {
		var e domain.OrderEvent
		if scanErr := rows.Scan(
			&e.ID, &e.CreatedAt, &e.OrderID, &e.FromStatus, &e.ToStatus, &e.Note,
		); scanErr != nil {
			return nil, convertErr(scanErr, "scanning event for order `%d`", orderID)
		}
		events = append(events, e)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, convertErr(rowsErr, "iterating events for order `%d`", orderID)
	}
	return events, nil
}

// appendEvent добавляет запись в append-only журнал переходов. Журнал только растет,
// существующие записи никогда не обновляются.
func (r *OrderRepository) appendEvent(
	ctx context.Context,
	orderID int64,
	from, to domain.OrderStatusType,
	note string,
) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO order_events (order_id, from_status, to_status, note)
		 VALUES ($1, NULLIF($2, ''), $3, $4)`,
		orderID, string(from), to, note,
	)
	if err != nil {
		return convertErr(err, "appending event for order `%d`", orderID)
	}
	return nil
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var network, planID, phoneNumber, externalRef *string
	if err := row.Scan(
		&o.ID, &o.CreatedAt, &o.UpdatedAt, &o.UserID, &o.Reference, &o.Kind,
		&network, &planID, &phoneNumber, &o.Amount, &o.PaymentMethod, &externalRef, &o.Status,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	o.Network = derefStr(network)
	o.PlanID = derefStr(planID)
	o.PhoneNumber = derefStr(phoneNumber)
	o.ExternalRef = derefStr(externalRef)
	return &o, nil
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
