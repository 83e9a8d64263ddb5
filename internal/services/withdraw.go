package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mrhason/aitaskify/internal/models"
)

// Ошибки бизнес-логики вывода средств.
var (
	ErrWithdrawDisabled = errors.New("withdrawals are disabled")
	ErrBelowMinWithdraw = errors.New("amount is below minimum withdrawal")
)

type WithdrawRepository interface {
	CreateWithdraw(ctx context.Context, trx models.Transaction) (string, error)
	GetTransaction(ctx context.Context, trxID string) (*models.Transaction, error)
}

// WithdrawService создаёт заявки на вывод. Монеты списываются в момент
// создания заявки по текущему курсу; зарезервированная сумма фиксируется
// в записи и возвращается при отклонении.
type WithdrawService struct {
	repo     WithdrawRepository
	settings *SettingsService
	events   EventPublisher
	log      *slog.Logger
}

func NewWithdrawService(repo WithdrawRepository, settings *SettingsService, events EventPublisher, log *slog.Logger) *WithdrawService {
	return &WithdrawService{
		repo:     repo,
		settings: settings,
		events:   events,
		log:      log,
	}
}

// Create создаёт pending-заявку на вывод req.Amount така, атомарно списывая
// эквивалент в монетах. Недостаточный баланс отклоняет заявку целиком.
func (s *WithdrawService) Create(ctx context.Context, userID string, req models.DummyWithdraw) (*models.Transaction, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.WithdrawEnabled {
		return nil, ErrWithdrawDisabled
	}
	if req.Amount < settings.MinWithdraw {
		return nil, ErrBelowMinWithdraw
	}

	trx := models.Transaction{
		UserID:       userID,
		Type:         models.TrxTypeWithdraw,
		Category:     models.CategoryMain,
		Amount:       req.Amount,
		CoinAmount:   req.Amount * settings.CoinRate,
		Status:       models.StatusPending,
		Method:       req.Method,
		SenderNumber: req.SenderNumber,
	}
	trxID, err := s.repo.CreateWithdraw(ctx, trx)
	if err != nil {
		return nil, err
	}

	created, err := s.repo.GetTransaction(ctx, trxID)
	if err != nil {
		return nil, err
	}

	s.log.Info("withdraw requested",
		slog.String("trx_id", created.ID),
		slog.Int64("amount", created.Amount))
	s.publishCreated(created)
	return created, nil
}

func (s *WithdrawService) publishCreated(trx *models.Transaction) {
	event := models.TrxEvent{
		TransactionID: trx.ID,
		UserID:        trx.UserID,
		Type:          trx.Type,
		Category:      trx.Category,
		Amount:        trx.Amount,
		Status:        trx.Status,
		OccurredAt:    time.Now(),
	}
	if err := s.events.PublishTrxEvent(event); err != nil {
		s.log.Warn("failed to publish withdraw event", slog.String("trx_id", trx.ID))
	}
}
