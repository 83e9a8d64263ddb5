package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mrhason/aitaskify/internal/models"
)

const userColumns = `id, full_name, phone, email, password_hash, ref_code,
			  upline_ref_code, role, account_type, balance_free, total_withdraw,
			  withdraw_count, is_blocked, joining_bonus_claimed, profile_image, created_at`

// CreateUser сохраняет нового пользователя в базу данных и возвращает его ID.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO users (full_name, phone, email, password_hash, ref_code,
			      upline_ref_code, role, account_type, balance_free)
			  VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.FullName, user.Phone, user.Email, user.PasswordHash, user.RefCode,
		user.UplineRefCode, user.Role, user.AccountType, user.BalanceFree).Scan(&newID); err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("%s: %w", op, ErrDuplicateActive)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByPhone возвращает пользователя по номеру телефона.
func (s *Storage) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	const op = "storage.GetUserByPhone"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = $1`, phone)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUserByRefCode возвращает пользователя по его реферальному коду.
func (s *Storage) GetUserByRefCode(ctx context.Context, refCode string) (*models.User, error) {
	const op = "storage.GetUserByRefCode"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE ref_code = $1`, refCode)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, сначала новых.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// ListReferrals возвращает пользователей, зарегистрированных по указанному
// реферальному коду, сначала новых.
func (s *Storage) ListReferrals(ctx context.Context, refCode string) ([]*models.User, error) {
	const op = "storage.ListReferrals"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE upline_ref_code = $1 ORDER BY created_at DESC`,
		refCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Leaderboard возвращает limit пользователей с наибольшим балансом,
// без заблокированных и администраторов.
func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	const op = "storage.Leaderboard"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+userColumns+`
		 FROM users
		 WHERE role = $1 AND NOT is_blocked
		 ORDER BY balance_free DESC, created_at ASC
		 LIMIT $2`,
		models.RoleUser, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var users []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// UpdateProfile обновляет изменяемые пользователем поля профиля.
func (s *Storage) UpdateProfile(ctx context.Context, userID, fullName, email, profileImage string) error {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET full_name = $1, email = $2, profile_image = NULLIF($3, '')
		 WHERE id = $4`,
		fullName, email, profileImage, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// SetBlocked выставляет или снимает блокировку аккаунта.
func (s *Storage) SetBlocked(ctx context.Context, userID string, blocked bool) error {
	const op = "storage.SetBlocked"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET is_blocked = $1 WHERE id = $2`, blocked, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// DeleteUser удаляет пользователя вместе с его транзакциями и заявками
// (каскадно по внешним ключам).
func (s *Storage) DeleteUser(ctx context.Context, userID string) error {
	const op = "storage.DeleteUser"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	return nil
}

// AdjustBalance изменяет баланс пользователя на delta (может быть
// отрицательной) и записывает одобренную транзакцию-корректировку. Списание
// больше текущего баланса отклоняется целиком.
func (s *Storage) AdjustBalance(ctx context.Context, userID string, delta int64, details string) (string, error) {
	const op = "storage.AdjustBalance"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	trx := models.Transaction{
		UserID:   userID,
		Type:     models.TrxTypeBonus,
		Category: models.CategoryMain,
		Amount:   delta,
		Status:   models.StatusApproved,
		Details:  details,
	}
	if delta < 0 {
		trx.Type = models.TrxTypeExpense
		trx.Amount = -delta
	}

	var trxID string
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if delta >= 0 {
			if err := creditUserTx(ctx, tx, userID, delta); err != nil {
				return err
			}
		} else {
			if err := debitUserTx(ctx, tx, userID, -delta); err != nil {
				return err
			}
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	u := &models.User{}
	var uplineRefCode, profileImage sql.NullString
	if err := row.Scan(&u.ID, &u.FullName, &u.Phone, &u.Email, &u.PasswordHash,
		&u.RefCode, &uplineRefCode, &u.Role, &u.AccountType, &u.BalanceFree,
		&u.TotalWithdraw, &u.WithdrawCount, &u.IsBlocked, &u.JoiningBonusClaimed,
		&profileImage, &u.CreatedAt); err != nil {
		return nil, err
	}
	if uplineRefCode.Valid {
		u.UplineRefCode = uplineRefCode.String
	}
	if profileImage.Valid {
		u.ProfileImage = profileImage.String
	}
	return u, nil
}
