// Package models содержит доменные структуры, описывающие транзакции —
// журнал всех событий, влияющих на баланс пользователя.
package models

import "time"

// Типы транзакций. Знак суммы определяется типом: withdraw и expense
// уменьшают баланс, earning и bonus увеличивают; сумма хранится как модуль.
const (
	TrxTypeWithdraw = "withdraw"
	TrxTypeEarning  = "earning"
	TrxTypeExpense  = "expense"
	TrxTypeBonus    = "bonus"
)

// Категории транзакций — закрытый словарь вместо свободных строк.
const (
	CategoryTask               = "task"
	CategorySell               = "sell"
	CategoryMain               = "main"
	CategoryJoiningBonus       = "joining_bonus"
	CategoryReferralBonus      = "referral_bonus"
	CategoryReferralCommission = "referral_commission"
	CategoryPremiumPurchase    = "premium_purchase"
)

// Статусы транзакций и заявок. Переход возможен только pending -> approved
// или pending -> rejected, ровно один раз.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Transaction — запись журнала балансовых событий. Записи неизменяемы,
// кроме единственного перехода поля Status из pending в терминальный статус.
//
// Amount для выводов хранится в така, для остальных категорий — в монетах.
// CoinAmount у вывода фиксирует, сколько монет было списано при создании
// заявки: ровно столько возвращается при отклонении.
type Transaction struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Type           string    `json:"type"`
	Category       string    `json:"category"`
	Amount         int64     `json:"amount"`
	CoinAmount     int64     `json:"coin_amount,omitempty"`
	Status         string    `json:"status"`
	Details        string    `json:"details,omitempty"`
	Method         string    `json:"method,omitempty"`
	SenderNumber   string    `json:"sender_number,omitempty"`
	TrxID          string    `json:"trx_id,omitempty"`
	ProofURL       string    `json:"proof_url,omitempty"`
	TaskID         string    `json:"task_id,omitempty"`
	ReferralUserID string    `json:"referral_user_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// IsTerminal сообщает, завершена ли запись (approved или rejected).
func (t *Transaction) IsTerminal() bool {
	return t.Status == StatusApproved || t.Status == StatusRejected
}

// TrxEvent — событие изменения статуса транзакции, публикуемое в очередь
// уведомлений после фиксации в хранилище.
type TrxEvent struct {
	TransactionID string    `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Type          string    `json:"type"`
	Category      string    `json:"category"`
	Amount        int64     `json:"amount"`
	Status        string    `json:"status"`
	OccurredAt    time.Time `json:"occurred_at"`
}
