package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mrhason/aitaskify/internal/models"
)

const premiumColumns = `id, user_id, method, sender_number, trx_id, amount,
			  status, created_at`

// CreatePremiumRequest создаёт pending-заявку на премиум. Вторая pending-заявка
// того же пользователя отклоняется частичным уникальным индексом.
func (s *Storage) CreatePremiumRequest(ctx context.Context, req models.PremiumRequest) (string, error) {
	const op = "storage.CreatePremiumRequest"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO premium_requests (user_id, method, sender_number, trx_id, amount, status)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		req.UserID, req.Method, req.SenderNumber, req.TrxID, req.Amount,
		models.StatusPending).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicateActive)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetPremiumRequest возвращает заявку по ID.
func (s *Storage) GetPremiumRequest(ctx context.Context, requestID string) (*models.PremiumRequest, error) {
	const op = "storage.GetPremiumRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+premiumColumns+` FROM premium_requests WHERE id = $1`, requestID)
	p, err := scanPremiumRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// GetPendingPremiumRequest возвращает pending-заявку пользователя.
func (s *Storage) GetPendingPremiumRequest(ctx context.Context, userID string) (*models.PremiumRequest, error) {
	const op = "storage.GetPendingPremiumRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+premiumColumns+` FROM premium_requests
		 WHERE user_id = $1 AND status = $2`,
		userID, models.StatusPending)
	p, err := scanPremiumRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListPremiumRequests возвращает все заявки на премиум, сначала новые.
func (s *Storage) ListPremiumRequests(ctx context.Context) ([]*models.PremiumRequest, error) {
	const op = "storage.ListPremiumRequests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+premiumColumns+` FROM premium_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var reqs []*models.PremiumRequest
	for rows.Next() {
		p, err := scanPremiumRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		reqs = append(reqs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reqs, nil
}

// ApprovePremiumRequest одобряет заявку: переводит её в approved, помечает
// аккаунт пользователя премиальным и фиксирует покупку approved-записью
// expense/premium_purchase без движения монет. Если указан аплайн и бонус
// больше нуля, аплайну зачисляется upgradeBonus отдельной записью
// referral_bonus с привязкой к перешедшему пользователю; бонус за пару
// аплайн-реферал выплачивается не более одного раза. Все шаги — в одной
// транзакции.
func (s *Storage) ApprovePremiumRequest(ctx context.Context, requestID, uplineUserID string, upgradeBonus int64) (*models.PremiumRequest, error) {
	const op = "storage.ApprovePremiumRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var req *models.PremiumRequest
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		req, err = transitionPremiumTx(ctx, tx, requestID, models.StatusApproved)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET account_type = $1 WHERE id = $2`,
			models.AccountPremium, req.UserID); err != nil {
			return err
		}
		if _, err := insertTrxTx(ctx, tx, models.Transaction{
			UserID:       req.UserID,
			Type:         models.TrxTypeExpense,
			Category:     models.CategoryPremiumPurchase,
			Amount:       req.Amount,
			Status:       models.StatusApproved,
			Details:      "premium purchased via " + req.Method,
			Method:       req.Method,
			SenderNumber: req.SenderNumber,
		}); err != nil {
			return err
		}
		if uplineUserID == "" || upgradeBonus <= 0 {
			return nil
		}

		var alreadyPaid bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM transactions
			 WHERE user_id = $1 AND referral_user_id = $2 AND category = $3)`,
			uplineUserID, req.UserID, models.CategoryReferralBonus).Scan(&alreadyPaid); err != nil {
			return err
		}
		if alreadyPaid {
			return nil
		}
		if _, err := insertTrxTx(ctx, tx, models.Transaction{
			UserID:         uplineUserID,
			Type:           models.TrxTypeBonus,
			Category:       models.CategoryReferralBonus,
			Amount:         upgradeBonus,
			Status:         models.StatusApproved,
			Details:        "referral bonus for premium upgrade",
			ReferralUserID: req.UserID,
		}); err != nil {
			return err
		}
		return creditUserTx(ctx, tx, uplineUserID, upgradeBonus)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

// RejectPremiumRequest переводит pending-заявку в rejected.
func (s *Storage) RejectPremiumRequest(ctx context.Context, requestID string) (*models.PremiumRequest, error) {
	const op = "storage.RejectPremiumRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var req *models.PremiumRequest
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		req, err = transitionPremiumTx(ctx, tx, requestID, models.StatusRejected)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return req, nil
}

func transitionPremiumTx(ctx context.Context, tx *sql.Tx, requestID, status string) (*models.PremiumRequest, error) {
	row := tx.QueryRowContext(ctx,
		`UPDATE premium_requests SET status = $1
		 WHERE id = $2 AND status = $3
		 RETURNING `+premiumColumns,
		status, requestID, models.StatusPending)
	req, err := scanPremiumRequest(row)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM premium_requests WHERE id = $1)`, requestID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}
	return nil, ErrAlreadyProcessed
}

func scanPremiumRequest(row rowScanner) (*models.PremiumRequest, error) {
	p := &models.PremiumRequest{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Method, &p.SenderNumber, &p.TrxID,
		&p.Amount, &p.Status, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}
