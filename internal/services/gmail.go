package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mrhason/aitaskify/internal/metrics"
	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

// ErrGmailSystemDisabled — продажа аккаунтов выключена в настройках.
var ErrGmailSystemDisabled = errors.New("gmail selling is disabled")

type GmailRepository interface {
	CreateGmailRequest(ctx context.Context, userID string) (string, error)
	GetGmailRequest(ctx context.Context, requestID string) (*models.GmailRequest, error)
	GetActiveGmailRequest(ctx context.Context, userID string) (*models.GmailRequest, error)
	ListGmailRequests(ctx context.Context) ([]*models.GmailRequest, error)
	SetGmailCredentials(ctx context.Context, requestID, firstName, lastName, password string) error
	RequestGmailRecovery(ctx context.Context, requestID, userID string) error
	SetGmailRecoveryEmail(ctx context.Context, requestID, recoveryEmail string) error
	SubmitGmail(ctx context.Context, requestID, userID, createdEmail string, sellAmount int64) (string, error)
	ApproveGmailRequest(ctx context.Context, requestID, commissionUserID string, commission int64) (*models.Transaction, error)
	RejectGmailRequest(ctx context.Context, requestID string) error
	DeleteGmailRequest(ctx context.Context, requestID string) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByRefCode(ctx context.Context, refCode string) (*models.User, error)
	GetTransaction(ctx context.Context, trxID string) (*models.Transaction, error)
}

// GmailService проводит заявку на продажу почтового аккаунта через её
// машину состояний. Ставка продажи фиксируется при сдаче заявки, зачисление
// и комиссия аплайна проводятся при одобрении в одной транзакции хранилища.
type GmailService struct {
	repo     GmailRepository
	settings *SettingsService
	events   EventPublisher
	log      *slog.Logger
}

func NewGmailService(repo GmailRepository, settings *SettingsService, events EventPublisher, log *slog.Logger) *GmailService {
	return &GmailService{
		repo:     repo,
		settings: settings,
		events:   events,
		log:      log,
	}
}

// Request открывает новую заявку. Пока предыдущая не завершена, вторая не
// создаётся.
func (s *GmailService) Request(ctx context.Context, userID string) (string, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	if !settings.GmailSystemEnabled {
		return "", ErrGmailSystemDisabled
	}
	requestID, err := s.repo.CreateGmailRequest(ctx, userID)
	if err != nil {
		return "", err
	}
	s.log.Info("gmail request opened", slog.String("request_id", requestID))
	return requestID, nil
}

// Current возвращает незавершённую заявку пользователя.
func (s *GmailService) Current(ctx context.Context, userID string) (*models.GmailRequest, error) {
	return s.repo.GetActiveGmailRequest(ctx, userID)
}

// RequestRecovery запрашивает у администратора резервную почту.
func (s *GmailService) RequestRecovery(ctx context.Context, requestID, userID string) error {
	return s.repo.RequestGmailRecovery(ctx, requestID, userID)
}

// Submit фиксирует созданный пользователем адрес. Ставка берётся из текущих
// настроек по типу аккаунта продавца и с этого момента не меняется.
func (s *GmailService) Submit(ctx context.Context, requestID, userID string, req models.DummyGmailSubmit) (string, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}

	sellTrxID, err := s.repo.SubmitGmail(ctx, requestID, userID, req.CreatedEmail, settings.GmailRate(user.AccountType))
	if err != nil {
		return "", err
	}
	s.log.Info("gmail submitted",
		slog.String("request_id", requestID),
		slog.String("trx_id", sellTrxID))
	return sellTrxID, nil
}

// List возвращает все заявки для администратора.
func (s *GmailService) List(ctx context.Context) ([]*models.GmailRequest, error) {
	return s.repo.ListGmailRequests(ctx)
}

// SetCredentials выдаёт реквизиты создаваемого аккаунта.
func (s *GmailService) SetCredentials(ctx context.Context, requestID string, req models.DummyGmailCredentials) error {
	return s.repo.SetGmailCredentials(ctx, requestID, req.FirstName, req.LastName, req.Password)
}

// SetRecoveryEmail выдаёт резервную почту.
func (s *GmailService) SetRecoveryEmail(ctx context.Context, requestID string, req models.DummyGmailRecovery) error {
	return s.repo.SetGmailRecoveryEmail(ctx, requestID, req.RecoveryEmail)
}

// Resolve применяет решение администратора по сданной заявке. При одобрении
// продавцу зачисляется зафиксированная ставка, а премиум-аплайну — комиссия;
// при отклонении связанная запись журнала также отклоняется.
func (s *GmailService) Resolve(ctx context.Context, requestID, action string) error {
	if action != "approve" {
		if err := s.repo.RejectGmailRequest(ctx, requestID); err != nil {
			return err
		}
		metrics.RequestsResolved.WithLabelValues("gmail", models.StatusRejected).Inc()
		s.log.Info("gmail request rejected", slog.String("request_id", requestID))
		return nil
	}

	commissionUserID, commission, err := s.commissionFor(ctx, requestID)
	if err != nil {
		return err
	}
	sellTrx, err := s.repo.ApproveGmailRequest(ctx, requestID, commissionUserID, commission)
	if err != nil {
		return err
	}

	metrics.RequestsResolved.WithLabelValues("gmail", models.StatusApproved).Inc()
	s.log.Info("gmail request approved",
		slog.String("request_id", requestID),
		slog.Int64("amount", sellTrx.Amount),
		slog.Int64("commission", commission))
	s.publish(sellTrx)
	return nil
}

// Remove удаляет заявку из списка администратора.
func (s *GmailService) Remove(ctx context.Context, requestID string) error {
	return s.repo.DeleteGmailRequest(ctx, requestID)
}

// commissionFor вычисляет комиссию аплайна продавца. Комиссия положена
// только премиум-аплайну.
func (s *GmailService) commissionFor(ctx context.Context, requestID string) (string, int64, error) {
	request, err := s.repo.GetGmailRequest(ctx, requestID)
	if err != nil {
		return "", 0, err
	}
	seller, err := s.repo.GetUser(ctx, request.UserID)
	if err != nil {
		return "", 0, err
	}
	if seller.UplineRefCode == "" || request.SellTransactionID == "" {
		return "", 0, nil
	}

	upline, err := s.repo.GetUserByRefCode(ctx, seller.UplineRefCode)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", 0, nil
		}
		return "", 0, err
	}
	if upline.AccountType != models.AccountPremium {
		return "", 0, nil
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", 0, err
	}
	// Комиссия считается от ставки, зафиксированной при сдаче заявки.
	sellTrx, err := s.repo.GetTransaction(ctx, request.SellTransactionID)
	if err != nil {
		return "", 0, err
	}
	return upline.ID, settings.Commission(sellTrx.Amount), nil
}

func (s *GmailService) publish(trx *models.Transaction) {
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
		s.log.Warn("failed to publish sell event", slog.String("trx_id", trx.ID))
	}
}
