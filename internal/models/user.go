// Package models содержит доменные структуры платформы микрозаработка:
// пользователей, транзакции, заявки и настройки. Структуры используются
// в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли и типы аккаунтов пользователя.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	AccountFree    = "free"
	AccountPremium = "premium"
)

// User представляет зарегистрированного пользователя системы.
//
// BalanceFree — монетный баланс в целых монетах; после любой зафиксированной
// операции он не может быть отрицательным (гарантируется хранилищем).
type User struct {
	ID                  string    // Уникальный идентификатор пользователя
	FullName            string    // Полное имя
	Phone               string    // Номер телефона, ключ входа (уникальный)
	Email               string    // Электронная почта
	PasswordHash        string    // Хэш пароля пользователя
	RefCode             string    // Собственный реферальный код (уникальный)
	UplineRefCode       string    // Код пригласившего пользователя, может быть пустым
	Role                string    // Роль пользователя, admin или user
	AccountType         string    // Тип аккаунта, free или premium
	BalanceFree         int64     // Баланс в монетах
	TotalWithdraw       int64     // Сумма одобренных выводов в така
	WithdrawCount       int       // Количество одобренных выводов
	IsBlocked           bool      // Признак блокировки аккаунта
	JoiningBonusClaimed bool      // Признак полученного бонуса за вступление
	ProfileImage        string    // Ссылка на аватар
	CreatedAt           time.Time // Дата регистрации
}

// PublicUser — представление пользователя без чувствительных полей,
// отдаваемое в HTTP-ответах.
type PublicUser struct {
	ID                  string    `json:"id"`
	FullName            string    `json:"full_name"`
	Phone               string    `json:"phone"`
	Email               string    `json:"email"`
	RefCode             string    `json:"ref_code"`
	UplineRefCode       string    `json:"upline_ref_code,omitempty"`
	Role                string    `json:"role"`
	AccountType         string    `json:"account_type"`
	BalanceFree         int64     `json:"balance_free"`
	TotalWithdraw       int64     `json:"total_withdraw"`
	WithdrawCount       int       `json:"withdraw_count"`
	IsBlocked           bool      `json:"is_blocked"`
	JoiningBonusClaimed bool      `json:"joining_bonus_claimed"`
	ProfileImage        string    `json:"profile_image,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
}

// Public возвращает представление пользователя без хэша пароля.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:                  u.ID,
		FullName:            u.FullName,
		Phone:               u.Phone,
		Email:               u.Email,
		RefCode:             u.RefCode,
		UplineRefCode:       u.UplineRefCode,
		Role:                u.Role,
		AccountType:         u.AccountType,
		BalanceFree:         u.BalanceFree,
		TotalWithdraw:       u.TotalWithdraw,
		WithdrawCount:       u.WithdrawCount,
		IsBlocked:           u.IsBlocked,
		JoiningBonusClaimed: u.JoiningBonusClaimed,
		ProfileImage:        u.ProfileImage,
		CreatedAt:           u.CreatedAt,
	}
}
