package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")

	ErrNotEnoughBalance = errors.New("not enough balance")
	ErrInvalidRequest   = errors.New("invalid request")
	ErrAmountOutOfRange = errors.New("amount out of range")

	// ErrClaimInProgress референс уже захвачен другим воркером и еще не разрешен.
	ErrClaimInProgress = errors.New("reference claim in progress")
	// ErrClaimLost захват референса истек и был перехвачен, текущая попытка должна откатиться.
	ErrClaimLost = errors.New("reference claim lost")
)

// TerminalOrderError сигнал по заказу в терминальном статусе. Такие сигналы логируются
// и игнорируются, состояние заказа не меняется.
type TerminalOrderError struct {
	Order *Order
}

func NewTerminalOrderError(order *Order) error {
	return &TerminalOrderError{Order: order}
}

func (e *TerminalOrderError) Error() string {
	return fmt.Sprintf(
		"order %s is in terminal status %s",
		e.Order.Reference,
		e.Order.Status,
	)
}

// InvalidTransitionError недопустимый переход статуса заказа.
type InvalidTransitionError struct {
	From OrderStatusType
	To   OrderStatusType
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}
