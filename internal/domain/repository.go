package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mocks/mocks.go -package=mocks
type RepositoryName string

const (
	UserRepoName             RepositoryName = "user"
	OrderRepoName            RepositoryName = "order"
	PaymentReferenceRepoName RepositoryName = "payment_reference"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user User) (*User, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
	// AdjustBalance атомарно меняет баланс юзера на delta (может быть отрицательной)
	// и возвращает новый баланс. Проверка достаточности средств и запись выполняются
	// одним UPDATE, конкурентные изменения одного счета сериализуются блокировкой строки.
	AdjustBalance(ctx context.Context, userID int64, delta int64) (int64, error)
}

type OrderRepository interface {
	// CreateOrder создает заказ в начальном статусе и пишет событие создания в журнал.
	CreateOrder(ctx context.Context, args OrderCreateDTO) (*Order, error)
	FindByReference(ctx context.Context, reference string) (*Order, error)
	FindByID(ctx context.Context, id int64) (*Order, error)
	GetByUserID(ctx context.Context, userID int64) ([]Order, error)
	// UpdateStatus переводит заказ из from в to и добавляет событие перехода.
	// Переход проверяется и в домене и в WHERE условии запроса: терминальный заказ
	// не меняется никогда, возвращается TerminalOrderError.
	UpdateStatus(ctx context.Context, orderID int64, from, to OrderStatusType, note string) (*Order, error)
	// GetStaleConfirmed возвращает заказы, зависшие в payment_confirmed дольше olderThan.
	GetStaleConfirmed(ctx context.Context, olderThan time.Duration, limit uint) ([]Order, error)
	GetEvents(ctx context.Context, orderID int64) ([]OrderEvent, error)
}

type PaymentReferenceRepository interface {
	// TryClaim пытается захватить референс для эксклюзивной обработки. Захват старше ttl
	// считается брошенным и перехватывается. Разрешенный референс возвращается с записанным
	// ранее исходом и больше никогда не мутирует ledger.
	TryClaim(ctx context.Context, reference string, ttl time.Duration) (*ClaimResult, error)
	// Resolve фиксирует исход обработки. Выполняется в той же транзакции, что и мутации
	// ledger/orders. Если захват уже потерян, возвращает ErrClaimLost.
	Resolve(ctx context.Context, reference string, status ReferenceStatusType, orderID int64) error
	// Release снимает захват, позволяя будущему повтору пройти заново.
	Release(ctx context.Context, reference string) error
	// DeleteExpired удаляет брошенные захваты старше ttl, возвращает кол-во удаленных.
	DeleteExpired(ctx context.Context, ttl time.Duration) (int64, error)
}
