package pgrepo

import (
	"context"
	"errors"

	"github.com/fsdevblog/datalink/internal/domain"
	"github.com/fsdevblog/datalink/pkg/uow"
)

const userColumns = "id, created_at, updated_at, username, email, password, balance"

type UserRepository struct {
	db uow.DBTX
}

func NewUserRepository(db uow.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser создает юзера с нулевым балансом кошелька.
func (r *UserRepository) CreateUser(ctx context.Context, user domain.User) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password, balance)
		 VALUES ($1, $2, $3, 0)
		 RETURNING `+userColumns,
		user.Username, user.Email, user.Password,
	)
	created, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "creating user `%s`", user.Username)
	}
	return created, nil
}

func (r *UserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by username `%s`", username)
	}
	return user, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		return nil, convertErr(err, "finding user by id `%d`", id)
	}
	return user, nil
}

// AdjustBalance атомарно меняет баланс на delta и возвращает новый баланс.
// Проверка достаточности средств входит в условие UPDATE: два конкурентных списания
// не могут оба пройти по устаревшему чтению баланса, строка счета сериализует их.
func (r *UserRepository) AdjustBalance(ctx context.Context, userID int64, delta int64) (int64, error) {
	var balance int64
	err := r.db.QueryRow(ctx,
		`UPDATE users
		 SET balance = balance + $2, updated_at = now()
		 WHERE id = $1 AND balance + $2 >= 0
		 RETURNING balance`,
		userID, delta,
	).Scan(&balance)

	if err == nil {
		return balance, nil
	}

	converted := convertErr(err, "adjusting balance for user `%d`", userID)
	if !errors.Is(converted, domain.ErrRecordNotFound) {
		return 0, converted
	}

	// UPDATE не нашел строку: либо юзера нет, либо не хватило средств. Разделяем случаи.
	var exists bool
	if existsErr := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, userID,
	).Scan(&exists); existsErr != nil {
		return 0, convertErr(existsErr, "checking user `%d` existence", userID)
	}
	if !exists {
		return 0, converted
	}
	return 0, convertErr(domain.ErrNotEnoughBalance, "adjusting balance for user `%d`", userID)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID, &u.CreatedAt, &u.UpdatedAt, &u.Username, &u.Email, &u.Password, &u.Balance,
	); err != nil {
		return nil, err //nolint:wrapcheck
	}
	return &u, nil
}
