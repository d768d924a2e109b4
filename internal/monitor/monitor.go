// Package monitor выполняет фоновое обслуживание: паркует заказы зависшие
// в ожидании ответа оператора и чистит брошенные захваты платежных референсов.
package monitor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultServiceTimeout      = 3 * time.Second
	defaultInterval            = time.Minute
	defaultReviewAfter         = 15 * time.Minute
	defaultLimitPerSweep  uint = 100
)

// Monitor периодически обходит БД и разруливает подвисшие состояния.
type Monitor struct {
	orders        OrderServicer
	claims        ClaimServicer
	l             *logrus.Entry
	interval      time.Duration
	reviewAfter   time.Duration
	limitPerSweep uint
}

// New создает новый экземпляр фонового монитора.
func New(orders OrderServicer, claims ClaimServicer, l *logrus.Logger) *Monitor {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "monitor",
		"module":    "sweeper",
	})

	return &Monitor{
		orders:        orders,
		claims:        claims,
		l:             loggerEntry,
		interval:      defaultInterval,
		reviewAfter:   defaultReviewAfter,
		limitPerSweep: defaultLimitPerSweep,
	}
}

// SetInterval устанавливает период между итерациями обхода.
func (m *Monitor) SetInterval(interval time.Duration) *Monitor {
	m.interval = interval
	return m
}

// SetReviewAfter устанавливает срок, после которого подтвержденный заказ
// без ответа оператора уходит на ручной разбор.
func (m *Monitor) SetReviewAfter(after time.Duration) *Monitor {
	m.reviewAfter = after
	return m
}

// SetLimitPerSweep устанавливает кол-во заказов, обрабатываемых за одну итерацию.
func (m *Monitor) SetLimitPerSweep(limit uint) *Monitor {
	m.limitPerSweep = limit
	return m
}

// Run запускает обход в бесконечном цикле до отмены контекста.
//
// Алгоритм работы:
//  1. Раз в interval переводит заказы, зависшие в payment_confirmed дольше
//     reviewAfter, в under_review. Объем лимитируется через SetLimitPerSweep.
//  2. Удаляет захваты платежных референсов, брошенные упавшими обработчиками.
func (m *Monitor) Run(ctx context.Context) {
	m.l.WithFields(logrus.Fields{
		"interval":      m.interval,
		"reviewAfter":   m.reviewAfter,
		"limitPerSweep": m.limitPerSweep,
	}).Info("Starting")

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.l.Info("Got stop signal, exiting...")
			return
		case <-ticker.C:
			if err := m.sweep(ctx); err != nil {
				m.l.WithError(err).Error("sweep error")
			}
		}
	}
}

// sweep выполняет одну итерацию обхода: парковка зависших заказов и очистка захватов.
func (m *Monitor) sweep(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	parked, parkErr := m.orders.ParkStale(reqCtx, m.reviewAfter, m.limitPerSweep)
	if parkErr != nil {
		return parkErr //nolint:wrapcheck
	}
	if parked > 0 {
		m.l.WithField("parked", parked).Info("stale orders sent to review")
	}

	deleted, delErr := m.claims.PurgeExpiredClaims(reqCtx)
	if delErr != nil {
		return delErr //nolint:wrapcheck
	}
	if deleted > 0 {
		m.l.WithField("deleted", deleted).Info("expired claims purged")
	}
	return nil
}
