package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mrhason/aitaskify/internal/models"
)

// creditUserTx атомарно увеличивает баланс пользователя внутри транзакции.
func creditUserTx(ctx context.Context, tx *sql.Tx, userID string, amount int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET balance_free = balance_free + $1 WHERE id = $2`,
		amount, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// debitUserTx атомарно списывает amount с баланса пользователя внутри
// транзакции. Списание выполняется только если баланса достаточно.
func debitUserTx(ctx context.Context, tx *sql.Tx, userID string, amount int64) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE users SET balance_free = balance_free - $1
		 WHERE id = $2 AND balance_free >= $1`,
		amount, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n != 0 {
		return nil
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrUserNotFound
	}
	return ErrInsufficientBalance
}

// insertTrxTx вставляет запись журнала внутри транзакции и возвращает её ID.
func insertTrxTx(ctx context.Context, tx *sql.Tx, trx models.Transaction) (string, error) {
	var newID string
	query := `INSERT INTO transactions (user_id, type, category, amount, coin_amount,
			      status, details, method, sender_number, trx_id, proof_url,
			      task_id, referral_user_id)
			  VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), NULLIF($8, ''),
			      NULLIF($9, ''), NULLIF($10, ''), NULLIF($11, ''),
			      NULLIF($12, '')::uuid, NULLIF($13, '')::uuid)
			  RETURNING id;`
	if err := tx.QueryRowContext(ctx, query,
		trx.UserID, trx.Type, trx.Category, trx.Amount, trx.CoinAmount,
		trx.Status, trx.Details, trx.Method, trx.SenderNumber, trx.TrxID,
		trx.ProofURL, trx.TaskID, trx.ReferralUserID).Scan(&newID); err != nil {
		return "", err
	}
	return newID, nil
}

// ClaimJoiningBonus зачисляет бонус за вступление ровно один раз: флаг
// joining_bonus_claimed, зачисление и запись журнала — в одной транзакции.
// Непустой uplineRefCode в той же транзакции закрепляет пригласившего.
func (s *Storage) ClaimJoiningBonus(ctx context.Context, userID, uplineRefCode string, amount int64) (string, error) {
	const op = "storage.ClaimJoiningBonus"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var trxID string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE users SET joining_bonus_claimed = TRUE,
			     upline_ref_code = COALESCE(NULLIF($2, ''), upline_ref_code)
			 WHERE id = $1 AND NOT joining_bonus_claimed`, userID, uplineRefCode)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			var exists bool
			if err := tx.QueryRowContext(ctx,
				`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, userID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrUserNotFound
			}
			return ErrAlreadyProcessed
		}
		if err := creditUserTx(ctx, tx, userID, amount); err != nil {
			return err
		}
		trxID, err = insertTrxTx(ctx, tx, models.Transaction{
			UserID:   userID,
			Type:     models.TrxTypeBonus,
			Category: models.CategoryJoiningBonus,
			Amount:   amount,
			Status:   models.StatusApproved,
			Details:  "joining bonus",
		})
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return trxID, nil
}

// ClaimReferralBonus зачисляет бонус за приглашённого пользователя. Повторный
// запрос по тому же рефералу отклоняется частичным уникальным индексом.
func (s *Storage) ClaimReferralBonus(ctx context.Context, userID, referralUserID string, amount int64) (string, error) {
	const op = "storage.ClaimReferralBonus"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var trxID string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		trxID, err = insertTrxTx(ctx, tx, models.Transaction{
			UserID:         userID,
			Type:           models.TrxTypeBonus,
			Category:       models.CategoryReferralBonus,
			Amount:         amount,
			Status:         models.StatusApproved,
			Details:        "referral bonus",
			ReferralUserID: referralUserID,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return ErrAlreadyProcessed
			}
			return err
		}
		return creditUserTx(ctx, tx, userID, amount)
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return trxID, nil
}

// isUniqueViolation сообщает, вызвана ли ошибка нарушением уникального
// ограничения PostgreSQL (код 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
