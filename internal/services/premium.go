package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrhason/aitaskify/internal/metrics"
	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

// ErrAlreadyPremium — аккаунт уже премиальный.
var ErrAlreadyPremium = errors.New("account is already premium")

type PremiumRepository interface {
	CreatePremiumRequest(ctx context.Context, req models.PremiumRequest) (string, error)
	GetPremiumRequest(ctx context.Context, requestID string) (*models.PremiumRequest, error)
	GetPendingPremiumRequest(ctx context.Context, userID string) (*models.PremiumRequest, error)
	ListPremiumRequests(ctx context.Context) ([]*models.PremiumRequest, error)
	ApprovePremiumRequest(ctx context.Context, requestID, uplineUserID string, upgradeBonus int64) (*models.PremiumRequest, error)
	RejectPremiumRequest(ctx context.Context, requestID string) (*models.PremiumRequest, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByRefCode(ctx context.Context, refCode string) (*models.User, error)
}

// PremiumService проводит заявки на премиум-аккаунт. Оплата подтверждается
// вне платформы (bKash/Nagad), сумма заявки равна стоимости из настроек.
type PremiumService struct {
	repo     PremiumRepository
	settings *SettingsService
	log      *slog.Logger
}

func NewPremiumService(repo PremiumRepository, settings *SettingsService, log *slog.Logger) *PremiumService {
	return &PremiumService{
		repo:     repo,
		settings: settings,
		log:      log,
	}
}

// Create создаёт pending-заявку с доказательством оплаты. Вторая pending-
// заявка того же пользователя не создаётся.
func (s *PremiumService) Create(ctx context.Context, userID string, req models.DummyPremium) (string, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if user.AccountType == models.AccountPremium {
		return "", ErrAlreadyPremium
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}

	requestID, err := s.repo.CreatePremiumRequest(ctx, models.PremiumRequest{
		UserID:       userID,
		Method:       req.Method,
		SenderNumber: req.SenderNumber,
		TrxID:        req.TrxID,
		Amount:       settings.PremiumCost,
	})
	if err != nil {
		return "", err
	}
	s.log.Info("premium requested", slog.String("request_id", requestID))
	return requestID, nil
}

// Pending возвращает pending-заявку пользователя.
func (s *PremiumService) Pending(ctx context.Context, userID string) (*models.PremiumRequest, error) {
	return s.repo.GetPendingPremiumRequest(ctx, userID)
}

// List возвращает все заявки для администратора.
func (s *PremiumService) List(ctx context.Context) ([]*models.PremiumRequest, error) {
	return s.repo.ListPremiumRequests(ctx)
}

// Resolve применяет решение администратора. Одобрение делает аккаунт
// премиальным, фиксирует покупку записью журнала и, если у пользователя
// есть аплайн, зачисляет аплайну бонус за переход из текущих настроек.
func (s *PremiumService) Resolve(ctx context.Context, requestID, action string) (*models.PremiumRequest, error) {
	if action != "approve" {
		req, err := s.repo.RejectPremiumRequest(ctx, requestID)
		if err != nil {
			return nil, err
		}
		metrics.RequestsResolved.WithLabelValues("premium", models.StatusRejected).Inc()
		return req, nil
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	uplineID, err := s.uplineFor(ctx, requestID)
	if err != nil {
		return nil, err
	}
	req, err := s.repo.ApprovePremiumRequest(ctx, requestID, uplineID, settings.PremiumUpgradeBonus)
	if err != nil {
		return nil, err
	}
	metrics.RequestsResolved.WithLabelValues("premium", models.StatusApproved).Inc()
	s.log.Info("premium approved",
		slog.String("request_id", req.ID),
		slog.String("user_id", req.UserID))
	return req, nil
}

// uplineFor ищет аплайна перешедшего пользователя. Исчезнувший или пустой
// рефкод не блокирует одобрение — бонус просто не выплачивается.
func (s *PremiumService) uplineFor(ctx context.Context, requestID string) (string, error) {
	request, err := s.repo.GetPremiumRequest(ctx, requestID)
	if err != nil {
		return "", err
	}
	user, err := s.repo.GetUser(ctx, request.UserID)
	if err != nil {
		return "", err
	}
	if user.UplineRefCode == "" {
		return "", nil
	}
	upline, err := s.repo.GetUserByRefCode(ctx, user.UplineRefCode)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", nil
		}
		return "", err
	}
	return upline.ID, nil
}
