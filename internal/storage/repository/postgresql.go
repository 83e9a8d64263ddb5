// Package repository реализует хранилище данных на основе PostgreSQL
// для счетов пользователей, журнала транзакций, заявок и настроек.
// Все многошаговые каскады (одобрение продажи, возврат при отклонении
// вывода, выплата комиссий) выполняются в одной серверной транзакции,
// а изменение баланса — атомарным инкрементом на стороне базы.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Ошибки доменного уровня, возвращаемые хранилищем. Сервисы проверяют их
// через errors.Is и превращают в ответы-конфликты без частичных записей.
var (
	// ErrUserNotFound — пользователь с указанным идентификатором не существует.
	ErrUserNotFound = errors.New("user not found")
	// ErrInsufficientBalance — списание превышает текущий баланс.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrAlreadyProcessed — запись уже в терминальном статусе, повторный
	// переход запрещён.
	ErrAlreadyProcessed = errors.New("already processed")
	// ErrDuplicateActive — у пользователя уже есть активная заявка этого типа.
	ErrDuplicateActive = errors.New("active request already exists")
	// ErrNotFound — запрошенная запись не найдена.
	ErrNotFound = errors.New("not found")
)

// Storage инкапсулирует соединение с базой данных PostgreSQL
// и реализует методы работы со счетами, транзакциями и заявками.
type Storage struct {
	DB *sql.DB
}

// New создаёт подключение к PostgreSQL и проверяет его доступность.
func New(storageConnectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady проверяет готовность базы данных.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'transactions'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table transactions missing or query error: %w", err)
	}
	return nil
}

// withTx выполняет fn в транзакции: при ошибке откатывает, иначе фиксирует.
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}
