package service

import (
	"context"

	"github.com/fsdevblog/datalink/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

type PasswordHasher interface {
	HashPassword(password string) (string, error)
	ComparePassword(password string, hashedPassword string) bool
}

// GatewayVerifier авторитетный источник исхода платежа по внешнему референсу.
// Суммы из запросов клиента носят справочный характер, финальное слово за шлюзом.
type GatewayVerifier interface {
	VerifyTransaction(ctx context.Context, reference string) (*domain.GatewayVerification, error)
}

// FulfillmentDispatcher отправка пакета данных оператору. Повторный Dispatch по
// одному референсу запрещен: при неоднозначном исходе заказ уходит на ручной разбор.
type FulfillmentDispatcher interface {
	Dispatch(ctx context.Context, req domain.DispatchRequest) (domain.DispatchResultType, error)
}
