package models

import "time"

// Статусы заявки на продажу Gmail-аккаунта. Машина состояний строго
// линейная: requested -> credentials_sent -> recovery_requested ->
// recovery_sent -> submitted -> {approved | rejected}.
const (
	GmailRequested         = "requested"
	GmailCredentialsSent   = "credentials_sent"
	GmailRecoveryRequested = "recovery_requested"
	GmailRecoverySent      = "recovery_sent"
	GmailSubmitted         = "submitted"
	GmailApproved          = "approved"
	GmailRejected          = "rejected"
)

// GmailRequest — совместная заявка пользователя и администратора на
// создание и продажу почтового аккаунта. У пользователя может быть не более
// одной незавершённой заявки (обеспечивается частичным уникальным индексом).
//
// SellTransactionID связывает заявку с pending-записью категории sell,
// созданной при переходе в submitted; при одобрении эта же запись
// переводится в approved вместо вставки дубликата.
type GmailRequest struct {
	ID                 string    `json:"id"`
	UserID             string    `json:"user_id"`
	Status             string    `json:"status"`
	AdminFirstName     string    `json:"admin_first_name,omitempty"`
	AdminLastName      string    `json:"admin_last_name,omitempty"`
	AdminPassword      string    `json:"admin_password,omitempty"`
	AdminRecoveryEmail string    `json:"admin_recovery_email,omitempty"`
	UserCreatedEmail   string    `json:"user_created_email,omitempty"`
	SellTransactionID  string    `json:"sell_transaction_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// IsTerminal сообщает, завершена ли заявка.
func (g *GmailRequest) IsTerminal() bool {
	return g.Status == GmailApproved || g.Status == GmailRejected
}

// PremiumRequest — заявка на переход в premium с доказательством оплаты
// через bKash/Nagad. Не более одной pending-заявки на пользователя.
type PremiumRequest struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	Method       string    `json:"method"`
	SenderNumber string    `json:"sender_number"`
	TrxID        string    `json:"trx_id"`
	Amount       int64     `json:"amount"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}
