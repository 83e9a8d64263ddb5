package models

// Структуры Dummy* принимают данные из тела JSON-запроса и проверяются
// валидатором до передачи в бизнес-логику.

// DummyRegister — данные регистрации нового пользователя.
type DummyRegister struct {
	FullName      string `json:"full_name" validate:"required,min=2,max=80"`
	Phone         string `json:"phone" validate:"required,len=11,numeric"`
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=6,max=72"`
	UplineRefCode string `json:"upline_ref_code" validate:"omitempty,numeric"`
}

// DummyJoiningClaim — необязательный реферальный код при получении
// бонуса за вступление.
type DummyJoiningClaim struct {
	RefCode string `json:"ref_code" validate:"omitempty,numeric"`
}

// DummyLogin — данные входа по телефону и паролю.
type DummyLogin struct {
	Phone    string `json:"phone" validate:"required,len=11,numeric"`
	Password string `json:"password" validate:"required"`
}

// DummyProfileUpdate — изменяемые пользователем поля профиля.
type DummyProfileUpdate struct {
	FullName     string `json:"full_name" validate:"required,min=2,max=80"`
	Email        string `json:"email" validate:"required,email"`
	ProfileImage string `json:"profile_image" validate:"omitempty,url"`
}

// DummyWithdraw — заявка на вывод средств. Amount - сумма в така.
type DummyWithdraw struct {
	Amount       int64  `json:"amount" validate:"required,gt=0"`
	Method       string `json:"method" validate:"required,oneof=bkash nagad"`
	SenderNumber string `json:"sender_number" validate:"required,len=11,numeric"`
}

// DummyPremium — заявка на переход в premium с доказательством оплаты.
type DummyPremium struct {
	Method       string `json:"method" validate:"required,oneof=bkash nagad"`
	SenderNumber string `json:"sender_number" validate:"required,len=11,numeric"`
	TrxID        string `json:"trx_id" validate:"required,min=4,max=40"`
}

// DummyTaskSubmit — сдача выполненного задания.
type DummyTaskSubmit struct {
	TaskID   string `json:"task_id" validate:"required,uuid"`
	ProofURL string `json:"proof_url" validate:"omitempty,url"`
}

// DummyGmailCredentials — реквизиты аккаунта, выдаваемые администратором.
type DummyGmailCredentials struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

// DummyGmailRecovery — резервная почта, выдаваемая администратором.
type DummyGmailRecovery struct {
	RecoveryEmail string `json:"recovery_email" validate:"required,email"`
}

// DummyGmailSubmit — адрес созданного пользователем аккаунта.
type DummyGmailSubmit struct {
	CreatedEmail string `json:"created_email" validate:"required,email"`
}

// DummyAction — решение администратора по pending-записи или заявке.
type DummyAction struct {
	ID     string `json:"id" validate:"required,uuid"`
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

// DummyBlock — блокировка или разблокировка аккаунта администратором.
type DummyBlock struct {
	Blocked *bool `json:"blocked" validate:"required"`
}

// DummyAdjustBalance — ручная корректировка баланса администратором.
// Delta может быть отрицательной.
type DummyAdjustBalance struct {
	UserID  string `json:"user_id" validate:"required,uuid"`
	Delta   int64  `json:"delta" validate:"required"`
	Details string `json:"details" validate:"required,max=200"`
}
