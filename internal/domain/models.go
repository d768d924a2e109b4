package domain

import (
	"time"
)

type OrderStatusType string

const (
	// OrderStatusPaymentConfirmed оплата зафиксирована, заказ ждет отправки данных оператору.
	OrderStatusPaymentConfirmed OrderStatusType = "payment_confirmed"
	// OrderStatusDispatched пакет данных принят оператором. Успешный терминальный статус.
	OrderStatusDispatched OrderStatusType = "fulfillment_dispatched"
	// OrderStatusUnderReview исход доставки неоднозначен, заказ ждет ручного разбора.
	OrderStatusUnderReview OrderStatusType = "under_review"
	// OrderStatusFailed доставка не состоялась. Неуспешный терминальный статус.
	OrderStatusFailed OrderStatusType = "fulfillment_failed"
	// OrderStatusTopupCredited пополнение кошелька зачислено. Терминальный статус для top-up заказов.
	OrderStatusTopupCredited OrderStatusType = "topup_credited"
)

// orderTransitions описывает допустимые переходы статусов заказа. Статусы отсутствующие
// в мапе - терминальные. Из under_review выходы только ручные (разбор оператором).
var orderTransitions = map[OrderStatusType][]OrderStatusType{
	OrderStatusPaymentConfirmed: {OrderStatusDispatched, OrderStatusFailed, OrderStatusUnderReview},
	OrderStatusUnderReview:      {OrderStatusDispatched, OrderStatusFailed},
}

// CanTransitionTo сообщает, допустим ли переход из текущего статуса в next.
func (s OrderStatusType) CanTransitionTo(next OrderStatusType) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal возвращает true для статусов, из которых нет переходов.
func (s OrderStatusType) IsTerminal() bool {
	return len(orderTransitions[s]) == 0
}

type OrderKindType string

const (
	OrderKindDataPurchase OrderKindType = "data_purchase"
	OrderKindWalletTopup  OrderKindType = "wallet_topup"
)

type PaymentMethodType string

const (
	PaymentMethodWallet  PaymentMethodType = "wallet"
	PaymentMethodGateway PaymentMethodType = "gateway"
)

type ReferenceStatusType string

const (
	ReferenceStatusClaimed  ReferenceStatusType = "claimed"
	ReferenceStatusApplied  ReferenceStatusType = "applied"
	ReferenceStatusRejected ReferenceStatusType = "rejected"
)

// User владелец кошелька. Balance хранится в песевах (минимальных единицах валюты)
// и меняется исключительно через UserRepository.AdjustBalance.
type User struct {
	ID        int64
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string
	Email     string
	Password  string
	Balance   int64
}

// Order запись о попытке покупки пакета данных или пополнения кошелька.
// Amount всегда нетто-сумма в песевах: цена тарифа для покупок, чистый депозит для пополнений.
type Order struct {
	ID            int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	UserID        int64
	Reference     string
	Kind          OrderKindType
	Network       string
	PlanID        string
	PhoneNumber   string
	Amount        int64
	PaymentMethod PaymentMethodType
	ExternalRef   string
	Status        OrderStatusType
}

// OrderEvent элемент append-only журнала переходов статусов заказа.
// Записи никогда не обновляются, история заказа восстанавливается по журналу.
type OrderEvent struct {
	ID         int64
	CreatedAt  time.Time
	OrderID    int64
	FromStatus OrderStatusType
	ToStatus   OrderStatusType
	Note       string
}

// PaymentReference запись гаранта идемпотентности. Одна на каждый внешний референс,
// когда-либо поступавший на проверку.
type PaymentReference struct {
	Reference  string
	Status     ReferenceStatusType
	OrderID    *int64
	ClaimedAt  time.Time
	ResolvedAt *time.Time
}

type GatewayStatusType string

const (
	GatewayStatusSuccess GatewayStatusType = "success"
	GatewayStatusFailed  GatewayStatusType = "failed"
	GatewayStatusPending GatewayStatusType = "pending"
)

// GatewayVerification авторитетные данные платежного шлюза по референсу.
// Amount - фактически списанная сумма в песевах (с учетом комиссии).
type GatewayVerification struct {
	Reference  string
	Status     GatewayStatusType
	Amount     int64
	PayerEmail string
}

type DispatchResultType string

const (
	DispatchAccepted DispatchResultType = "accepted"
	DispatchRejected DispatchResultType = "rejected"
	// DispatchAmbiguous исход неизвестен (таймаут, 5xx). Заказ уходит в under_review,
	// автоматический повтор запрещен из-за риска двойной отправки пакета.
	DispatchAmbiguous DispatchResultType = "ambiguous"
)
