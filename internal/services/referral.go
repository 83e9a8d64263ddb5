package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

// Ошибки бизнес-логики реферальной программы.
var (
	ErrNotYourReferral     = errors.New("user is not your referral")
	ErrSelfReferral        = errors.New("cannot use your own referral code")
	ErrReferralNotEligible = errors.New("referral has not claimed the joining bonus")
)

type ReferralRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetUserByRefCode(ctx context.Context, refCode string) (*models.User, error)
	ListReferrals(ctx context.Context, refCode string) ([]*models.User, error)
	ClaimJoiningBonus(ctx context.Context, userID, uplineRefCode string, amount int64) (string, error)
	ClaimReferralBonus(ctx context.Context, userID, referralUserID string, amount int64) (string, error)
}

// ReferralService отдаёт команду пользователя и проводит разовые бонусы:
// за вступление и за каждого приглашённого. Размеры бонусов берутся из
// настроек, повторные начисления блокирует хранилище.
type ReferralService struct {
	repo           ReferralRepository
	settings       *SettingsService
	defaultRefCode string
	log            *slog.Logger
}

func NewReferralService(repo ReferralRepository, settings *SettingsService, defaultRefCode string, log *slog.Logger) *ReferralService {
	return &ReferralService{
		repo:           repo,
		settings:       settings,
		defaultRefCode: defaultRefCode,
		log:            log,
	}
}

// Team возвращает приглашённых пользователем участников.
func (s *ReferralService) Team(ctx context.Context, userID string) ([]*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListReferrals(ctx, user.RefCode)
}

// ClaimJoiningBonus зачисляет бонус за вступление, один раз за аккаунт.
// Непустой refCode проверяется и закрепляет пригласившего, если аплайн
// ещё не задан или равен коду администратора по умолчанию.
func (s *ReferralService) ClaimJoiningBonus(ctx context.Context, userID, refCode string) (string, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}

	uplineCode := ""
	if refCode != "" {
		referrer, err := s.repo.GetUserByRefCode(ctx, refCode)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return "", ErrUnknownRefCode
			}
			return "", err
		}
		if referrer.ID == userID {
			return "", ErrSelfReferral
		}
		user, err := s.repo.GetUser(ctx, userID)
		if err != nil {
			return "", err
		}
		if user.UplineRefCode == "" || user.UplineRefCode == s.defaultRefCode {
			uplineCode = referrer.RefCode
		}
	}

	trxID, err := s.repo.ClaimJoiningBonus(ctx, userID, uplineCode, settings.JoiningBonusAmount)
	if err != nil {
		return "", err
	}
	s.log.Info("joining bonus claimed",
		slog.String("user_id", userID),
		slog.String("trx_id", trxID))
	return trxID, nil
}

// ClaimReferralBonus зачисляет бонус за приглашённого пользователя, один
// раз за каждого реферала.
func (s *ReferralService) ClaimReferralBonus(ctx context.Context, userID, referralUserID string) (string, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	referral, err := s.repo.GetUser(ctx, referralUserID)
	if err != nil {
		return "", err
	}
	if referral.UplineRefCode != user.RefCode {
		return "", ErrNotYourReferral
	}
	if !referral.JoiningBonusClaimed {
		return "", ErrReferralNotEligible
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	trxID, err := s.repo.ClaimReferralBonus(ctx, userID, referralUserID, settings.ReferralBonusAmount)
	if err != nil {
		return "", err
	}
	s.log.Info("referral bonus claimed",
		slog.String("user_id", userID),
		slog.String("referral_user_id", referralUserID))
	return trxID, nil
}
