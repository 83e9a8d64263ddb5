package models

// WithdrawPreset — пресет суммы вывода, показываемый пользователю.
type WithdrawPreset struct {
	Tk    int64 `json:"tk"`
	Coins int64 `json:"coins"`
}

// Settings — единственная запись конфигурации платформы. Читается всеми
// рабочими процессами и передаётся в них значением; изменяется только через
// экран настроек администратора. Отсутствующие в хранилище поля заполняются
// значениями DefaultSettings.
type Settings struct {
	AppName                   string           `json:"appName"`
	CoinRate                  int64            `json:"coinRate"`
	MinWithdraw               int64            `json:"minWithdraw"`
	GmailRateFree             int64            `json:"gmailRateFree"`
	GmailRatePremium          int64            `json:"gmailRatePremium"`
	PremiumCost               int64            `json:"premiumCost"`
	PremiumUpgradeBonus       int64            `json:"premiumUpgradeBonus"`
	ReferralCommissionPercent int64            `json:"referralCommissionPercent"`
	JoiningBonusAmount        int64            `json:"joiningBonusAmount"`
	ReferralBonusAmount       int64            `json:"referralBonusAmount"`
	WithdrawPresets           []WithdrawPreset `json:"withdrawPresets"`
	WithdrawEnabled           bool             `json:"withdrawEnabled"`
	TaskSystemEnabled         bool             `json:"taskSystemEnabled"`
	GmailSystemEnabled        bool             `json:"gmailSystemEnabled"`
	Bkash                     string           `json:"bkash"`
	Nagad                     string           `json:"nagad"`
	TelegramChannelLink       string           `json:"telegramChannelLink"`
	AdminContactLink          string           `json:"adminContactLink"`
	WorkVideoLink             string           `json:"workVideoLink"`
	AboutText                 string           `json:"aboutText"`
	GmailInstructionHTML      string           `json:"gmailInstructionHtml"`
	PremiumDesc               string           `json:"premiumDesc"`
	ImageUploadSiteLink       string           `json:"imageUploadSiteLink"`
}

// DefaultSettings возвращает конфигурацию по умолчанию, применяемую когда
// запись настроек отсутствует или заполнена частично.
func DefaultSettings() Settings {
	return Settings{
		AppName:                   "Aitaskify",
		CoinRate:                  1000,
		MinWithdraw:               100,
		GmailRateFree:             12000,
		GmailRatePremium:          13000,
		PremiumCost:               500,
		PremiumUpgradeBonus:       50,
		ReferralCommissionPercent: 5,
		JoiningBonusAmount:        100,
		ReferralBonusAmount:       50,
		WithdrawPresets: []WithdrawPreset{
			{Tk: 3000, Coins: 3000000},
			{Tk: 1200, Coins: 1200000},
			{Tk: 600, Coins: 600000},
			{Tk: 130, Coins: 130000},
		},
		WithdrawEnabled:      true,
		TaskSystemEnabled:    true,
		GmailSystemEnabled:   true,
		Bkash:                "01700000000",
		Nagad:                "01800000000",
		TelegramChannelLink:  "https://t.me/your_channel_link",
		AdminContactLink:     "https://t.me/admin_username",
		WorkVideoLink:        "https://youtube.com",
		AboutText:            "<p>Welcome to our platform. We provide the best micro-tasking experience.</p>",
		GmailInstructionHTML: "<p>1. Create a fresh Gmail account.<br>2. Use the exact Name provided.<br>3. Set the password as provided.<br>4. Do not add recovery phone number.</p>",
		PremiumDesc:          "<ul><li>Get 5% Commission on Referral Gmail Sells</li><li>Priority Withdrawals</li><li>Premium Badge</li></ul>",
		ImageUploadSiteLink:  "https://imgbb.com",
	}
}

// GmailRate возвращает ставку за проданный Gmail-аккаунт в монетах
// в зависимости от типа аккаунта продавца.
func (s Settings) GmailRate(accountType string) int64 {
	if accountType == AccountPremium {
		return s.GmailRatePremium
	}
	return s.GmailRateFree
}

// Commission считает комиссию премиум-аплайна от суммы продажи,
// округляя вниз до целой монеты.
func (s Settings) Commission(amount int64) int64 {
	return amount * s.ReferralCommissionPercent / 100
}
