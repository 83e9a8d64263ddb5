package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mrhason/aitaskify/internal/models"
)

const trxColumns = `id, user_id, type, category, amount, coin_amount, status,
			  details, method, sender_number, trx_id, proof_url, task_id,
			  referral_user_id, created_at`

// CreateTransaction вставляет одиночную запись журнала и возвращает её ID.
// Для многошаговых операций (вывод, бонусы, одобрения) используются
// транзакционные методы.
func (s *Storage) CreateTransaction(ctx context.Context, trx models.Transaction) (string, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		newID, err = insertTrxTx(ctx, tx, trx)
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicateActive)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetTransaction возвращает запись журнала по ID.
func (s *Storage) GetTransaction(ctx context.Context, trxID string) (*models.Transaction, error) {
	const op = "storage.GetTransaction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+trxColumns+` FROM transactions WHERE id = $1`, trxID)
	t, err := scanTrx(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// ListTransactionsByUser возвращает журнал пользователя, сначала новые записи.
func (s *Storage) ListTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	const op = "storage.ListTransactionsByUser"
	return s.listTransactions(ctx, op,
		`SELECT `+trxColumns+` FROM transactions WHERE user_id = $1 ORDER BY created_at DESC`,
		userID)
}

// ListAllTransactions возвращает полный журнал, сначала новые записи.
func (s *Storage) ListAllTransactions(ctx context.Context) ([]*models.Transaction, error) {
	const op = "storage.ListAllTransactions"
	return s.listTransactions(ctx, op,
		`SELECT `+trxColumns+` FROM transactions ORDER BY created_at DESC`)
}

// ListTaskTransactionsByUser возвращает записи категории task пользователя,
// кроме отклонённых. По ним определяется доступность заданий.
func (s *Storage) ListTaskTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	const op = "storage.ListTaskTransactionsByUser"
	return s.listTransactions(ctx, op,
		`SELECT `+trxColumns+` FROM transactions
		 WHERE user_id = $1 AND category = $2 AND status <> $3
		 ORDER BY created_at DESC`,
		userID, models.CategoryTask, models.StatusRejected)
}

func (s *Storage) listTransactions(ctx context.Context, op, query string, args ...any) ([]*models.Transaction, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var trxs []*models.Transaction
	for rows.Next() {
		t, err := scanTrx(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		trxs = append(trxs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return trxs, nil
}

// CreateWithdraw списывает монеты и создаёт pending-заявку на вывод в одной
// транзакции. Amount — сумма в така, coinAmount — списанные монеты; ровно
// coinAmount возвращается при отклонении заявки.
func (s *Storage) CreateWithdraw(ctx context.Context, trx models.Transaction) (string, error) {
	const op = "storage.CreateWithdraw"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var trxID string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if err := debitUserTx(ctx, tx, trx.UserID, trx.CoinAmount); err != nil {
			return err
		}
		var err error
		trxID, err = insertTrxTx(ctx, tx, trx)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return trxID, nil
}

// ApproveTransaction переводит pending-запись в approved и применяет
// последствия в той же транзакции: для вывода — обновляет счётчики выплат,
// для остальных типов — зачисляет сумму на баланс. Повторное одобрение
// возвращает ErrAlreadyProcessed.
func (s *Storage) ApproveTransaction(ctx context.Context, trxID string) (*models.Transaction, error) {
	const op = "storage.ApproveTransaction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var trx *models.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		trx, err = transitionTrxTx(ctx, tx, trxID, models.StatusApproved)
		if err != nil {
			return err
		}
		switch trx.Type {
		case models.TrxTypeWithdraw:
			_, err = tx.ExecContext(ctx,
				`UPDATE users SET total_withdraw = total_withdraw + $1,
				     withdraw_count = withdraw_count + 1
				 WHERE id = $2`,
				trx.Amount, trx.UserID)
			return err
		case models.TrxTypeExpense:
			// Cредства уже списаны при создании записи.
			return nil
		default:
			return creditUserTx(ctx, tx, trx.UserID, trx.Amount)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return trx, nil
}

// RejectTransaction переводит pending-запись в rejected. Для вывода
// зарезервированные монеты (coin_amount) возвращаются на баланс в той же
// транзакции.
func (s *Storage) RejectTransaction(ctx context.Context, trxID string) (*models.Transaction, error) {
	const op = "storage.RejectTransaction"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var trx *models.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		trx, err = transitionTrxTx(ctx, tx, trxID, models.StatusRejected)
		if err != nil {
			return err
		}
		if trx.Type == models.TrxTypeWithdraw {
			return creditUserTx(ctx, tx, trx.UserID, trx.CoinAmount)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return trx, nil
}

// transitionTrxTx выполняет единственный разрешённый переход статуса
// pending -> status и возвращает запись. Запись не в pending даёт
// ErrAlreadyProcessed, отсутствующая — ErrNotFound.
func transitionTrxTx(ctx context.Context, tx *sql.Tx, trxID, status string) (*models.Transaction, error) {
	row := tx.QueryRowContext(ctx,
		`UPDATE transactions SET status = $1
		 WHERE id = $2 AND status = $3
		 RETURNING `+trxColumns,
		status, trxID, models.StatusPending)
	trx, err := scanTrx(row)
	if err == nil {
		return trx, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE id = $1)`, trxID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrAlreadyProcessed
}

func scanTrx(row rowScanner) (*models.Transaction, error) {
	t := &models.Transaction{}
	var details, method, senderNumber, trxRef, proofURL, taskID, referralUserID sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.Type, &t.Category, &t.Amount,
		&t.CoinAmount, &t.Status, &details, &method, &senderNumber, &trxRef,
		&proofURL, &taskID, &referralUserID, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Details = details.String
	t.Method = method.String
	t.SenderNumber = senderNumber.String
	t.TrxID = trxRef.String
	t.ProofURL = proofURL.String
	t.TaskID = taskID.String
	t.ReferralUserID = referralUserID.String
	return t, nil
}
