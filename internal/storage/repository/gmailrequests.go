package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mrhason/aitaskify/internal/models"
)

const gmailColumns = `id, user_id, status, admin_first_name, admin_last_name,
			  admin_password, admin_recovery_email, user_created_email,
			  sell_transaction_id, created_at`

// CreateGmailRequest создаёт новую заявку на продажу в статусе requested.
// Вторая незавершённая заявка того же пользователя отклоняется частичным
// уникальным индексом.
func (s *Storage) CreateGmailRequest(ctx context.Context, userID string) (string, error) {
	const op = "storage.CreateGmailRequest"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO gmail_requests (user_id, status)
			  VALUES ($1, $2)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query, userID, models.GmailRequested).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicateActive)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetGmailRequest возвращает заявку по ID.
func (s *Storage) GetGmailRequest(ctx context.Context, requestID string) (*models.GmailRequest, error) {
	const op = "storage.GetGmailRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+gmailColumns+` FROM gmail_requests WHERE id = $1`, requestID)
	g, err := scanGmailRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return g, nil
}

// GetActiveGmailRequest возвращает незавершённую заявку пользователя.
func (s *Storage) GetActiveGmailRequest(ctx context.Context, userID string) (*models.GmailRequest, error) {
	const op = "storage.GetActiveGmailRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+gmailColumns+` FROM gmail_requests
		 WHERE user_id = $1 AND status NOT IN ($2, $3)`,
		userID, models.GmailApproved, models.GmailRejected)
	g, err := scanGmailRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return g, nil
}

// ListGmailRequests возвращает все заявки, сначала новые.
func (s *Storage) ListGmailRequests(ctx context.Context) ([]*models.GmailRequest, error) {
	const op = "storage.ListGmailRequests"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+gmailColumns+` FROM gmail_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var reqs []*models.GmailRequest
	for rows.Next() {
		g, err := scanGmailRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		reqs = append(reqs, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reqs, nil
}

// SetGmailCredentials записывает выданные администратором реквизиты и
// переводит заявку requested -> credentials_sent.
func (s *Storage) SetGmailCredentials(ctx context.Context, requestID, firstName, lastName, password string) error {
	const op = "storage.SetGmailCredentials"
	return s.transitionGmail(ctx, op,
		`UPDATE gmail_requests
		 SET status = $1, admin_first_name = $2, admin_last_name = $3, admin_password = $4
		 WHERE id = $5 AND status = $6`,
		requestID,
		models.GmailCredentialsSent, firstName, lastName, password, requestID, models.GmailRequested)
}

// RequestGmailRecovery переводит заявку credentials_sent -> recovery_requested.
// Переход доступен только владельцу заявки.
func (s *Storage) RequestGmailRecovery(ctx context.Context, requestID, userID string) error {
	const op = "storage.RequestGmailRecovery"
	return s.transitionGmail(ctx, op,
		`UPDATE gmail_requests SET status = $1
		 WHERE id = $2 AND user_id = $3 AND status = $4`,
		requestID,
		models.GmailRecoveryRequested, requestID, userID, models.GmailCredentialsSent)
}

// SetGmailRecoveryEmail записывает резервную почту и переводит заявку
// recovery_requested -> recovery_sent.
func (s *Storage) SetGmailRecoveryEmail(ctx context.Context, requestID, recoveryEmail string) error {
	const op = "storage.SetGmailRecoveryEmail"
	return s.transitionGmail(ctx, op,
		`UPDATE gmail_requests SET status = $1, admin_recovery_email = $2
		 WHERE id = $3 AND status = $4`,
		requestID,
		models.GmailRecoverySent, recoveryEmail, requestID, models.GmailRecoveryRequested)
}

// SubmitGmail фиксирует созданный пользователем адрес, переводит заявку
// recovery_sent -> submitted и создаёт связанную pending-запись категории
// sell на сумму ставки, действующей в момент сдачи, — всё в одной транзакции.
func (s *Storage) SubmitGmail(ctx context.Context, requestID, userID, createdEmail string, sellAmount int64) (string, error) {
	const op = "storage.SubmitGmail"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var sellTrxID string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE gmail_requests SET status = $1, user_created_email = $2
			 WHERE id = $3 AND user_id = $4 AND status = $5`,
			models.GmailSubmitted, createdEmail, requestID, userID, models.GmailRecoverySent)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return gmailTransitionErr(ctx, tx, requestID)
		}

		sellTrxID, err = insertTrxTx(ctx, tx, models.Transaction{
			UserID:   userID,
			Type:     models.TrxTypeEarning,
			Category: models.CategorySell,
			Amount:   sellAmount,
			Status:   models.StatusPending,
			Details:  createdEmail,
		})
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE gmail_requests SET sell_transaction_id = $1 WHERE id = $2`,
			sellTrxID, requestID)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return sellTrxID, nil
}

// ApproveGmailRequest завершает заявку: переводит её в approved, одобряет
// связанную sell-запись, зачисляет продавцу её сумму и, если передан
// commissionUserID, зачисляет аплайну комиссию отдельной approved-записью.
// Все шаги — в одной транзакции.
func (s *Storage) ApproveGmailRequest(ctx context.Context, requestID, commissionUserID string, commission int64) (*models.Transaction, error) {
	const op = "storage.ApproveGmailRequest"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var sellTrx *models.Transaction
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var sellTrxID sql.NullString
		row := tx.QueryRowContext(ctx,
			`UPDATE gmail_requests SET status = $1
			 WHERE id = $2 AND status = $3
			 RETURNING sell_transaction_id`,
			models.GmailApproved, requestID, models.GmailSubmitted)
		if err := row.Scan(&sellTrxID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return gmailTransitionErr(ctx, tx, requestID)
			}
			return err
		}
		if !sellTrxID.Valid {
			return ErrNotFound
		}

		var err error
		sellTrx, err = transitionTrxTx(ctx, tx, sellTrxID.String, models.StatusApproved)
		if err != nil {
			return err
		}
		if err := creditUserTx(ctx, tx, sellTrx.UserID, sellTrx.Amount); err != nil {
			return err
		}

		if commissionUserID == "" || commission <= 0 {
			return nil
		}
		if _, err := insertTrxTx(ctx, tx, models.Transaction{
			UserID:         commissionUserID,
			Type:           models.TrxTypeEarning,
			Category:       models.CategoryReferralCommission,
			Amount:         commission,
			Status:         models.StatusApproved,
			ReferralUserID: sellTrx.UserID,
		}); err != nil {
			return err
		}
		return creditUserTx(ctx, tx, commissionUserID, commission)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sellTrx, nil
}

// RejectGmailRequest переводит заявку в rejected из любого незавершённого
// статуса и отклоняет связанную sell-запись, если она была создана.
func (s *Storage) RejectGmailRequest(ctx context.Context, requestID string) error {
	const op = "storage.RejectGmailRequest"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var sellTrxID sql.NullString
		row := tx.QueryRowContext(ctx,
			`UPDATE gmail_requests SET status = $1
			 WHERE id = $2 AND status NOT IN ($1, $3)
			 RETURNING sell_transaction_id`,
			models.GmailRejected, requestID, models.GmailApproved)
		if err := row.Scan(&sellTrxID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return gmailTransitionErr(ctx, tx, requestID)
			}
			return err
		}
		if !sellTrxID.Valid {
			return nil
		}
		_, err := transitionTrxTx(ctx, tx, sellTrxID.String, models.StatusRejected)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// DeleteGmailRequest удаляет заявку. Связанные записи журнала сохраняются.
func (s *Storage) DeleteGmailRequest(ctx context.Context, requestID string) error {
	const op = "storage.DeleteGmailRequest"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM gmail_requests WHERE id = $1`, requestID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// transitionGmail выполняет охраняемый UPDATE статуса одной заявки.
func (s *Storage) transitionGmail(ctx context.Context, op, query, requestID string, args ...any) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return gmailTransitionErr(ctx, tx, requestID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// gmailTransitionErr уточняет причину несработавшего перехода: заявка либо
// отсутствует, либо не в ожидаемом статусе.
func gmailTransitionErr(ctx context.Context, tx *sql.Tx, requestID string) error {
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM gmail_requests WHERE id = $1)`, requestID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrAlreadyProcessed
}

func scanGmailRequest(row rowScanner) (*models.GmailRequest, error) {
	g := &models.GmailRequest{}
	var firstName, lastName, password, recoveryEmail, createdEmail, sellTrxID sql.NullString
	if err := row.Scan(&g.ID, &g.UserID, &g.Status, &firstName, &lastName,
		&password, &recoveryEmail, &createdEmail, &sellTrxID, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.AdminFirstName = firstName.String
	g.AdminLastName = lastName.String
	g.AdminPassword = password.String
	g.AdminRecoveryEmail = recoveryEmail.String
	g.UserCreatedEmail = createdEmail.String
	g.SellTransactionID = sellTrxID.String
	return g, nil
}
