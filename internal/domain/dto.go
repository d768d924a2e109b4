package domain

// OrderCreateDTO аргументы создания заказа. Статус задается сразу при создании:
// payment_confirmed для покупок, topup_credited для успешных пополнений,
// fulfillment_failed для отклоненных шлюзом попыток.
type OrderCreateDTO struct {
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

// DispatchRequest заявка оператору на отправку пакета данных абоненту.
type DispatchRequest struct {
	Reference   string
	Network     string
	PlanID      string
	PhoneNumber string
}

type ClaimStateType string

const (
	// ClaimStateClaimed захват получен, вызывающий обязан разрешить или освободить референс.
	ClaimStateClaimed ClaimStateType = "claimed"
	// ClaimStateResolved референс уже разрешен ранее, повторная обработка запрещена.
	ClaimStateResolved ClaimStateType = "resolved"
	// ClaimStateInProgress референс захвачен другим воркером и срок захвата не истек.
	ClaimStateInProgress ClaimStateType = "in_progress"
)

// ClaimResult итог попытки захвата внешнего референса. Для ClaimStateResolved
// поля Status и OrderID содержат ранее записанный исход.
type ClaimResult struct {
	State   ClaimStateType
	Status  ReferenceStatusType
	OrderID *int64
}
