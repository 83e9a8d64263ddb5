package services

import (
	"context"
	"log/slog"

	"github.com/mrhason/aitaskify/internal/cache"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
)

// Размер таблицы лидеров.
const leaderboardSize = 20

type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	Leaderboard(ctx context.Context, limit int) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID, fullName, email, profileImage string) error
	SetBlocked(ctx context.Context, userID string, blocked bool) error
	DeleteUser(ctx context.Context, userID string) error
	AdjustBalance(ctx context.Context, userID string, delta int64, details string) (string, error)
}

// UserService обслуживает профиль пользователя, таблицу лидеров и
// административное управление аккаунтами.
type UserService struct {
	repo  UserRepository
	cache Cache
	log   *slog.Logger
}

func NewUserService(repo UserRepository, c Cache, log *slog.Logger) *UserService {
	return &UserService{
		repo:  repo,
		cache: c,
		log:   log,
	}
}

// Get возвращает пользователя по ID.
func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	return s.repo.GetUser(ctx, userID)
}

// UpdateProfile обновляет изменяемые пользователем поля профиля.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.DummyProfileUpdate) (*models.User, error) {
	if err := s.repo.UpdateProfile(ctx, userID, req.FullName, req.Email, req.ProfileImage); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, userID)
}

// Leaderboard возвращает таблицу лидеров по балансу, с коротким кешем.
func (s *UserService) Leaderboard(ctx context.Context) ([]models.PublicUser, error) {
	var leaders []models.PublicUser
	found, err := s.cache.Get(cache.KeyLeaderboard, &leaders)
	if err != nil {
		s.log.Warn("failed to read leaderboard from cache", sl.Err(err))
	}
	if found {
		return leaders, nil
	}

	users, err := s.repo.Leaderboard(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	leaders = make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		leaders = append(leaders, u.Public())
	}

	if err := s.cache.Set(cache.KeyLeaderboard, leaders, cache.LeaderboardTTL); err != nil {
		s.log.Warn("failed to cache leaderboard", sl.Err(err))
	}
	return leaders, nil
}

// List возвращает всех пользователей для администратора.
func (s *UserService) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.ListUsers(ctx)
}

// SetBlocked выставляет или снимает блокировку аккаунта.
func (s *UserService) SetBlocked(ctx context.Context, userID string, blocked bool) error {
	if err := s.repo.SetBlocked(ctx, userID, blocked); err != nil {
		return err
	}
	s.log.Info("user block state changed",
		slog.String("user_id", userID),
		slog.Bool("blocked", blocked))
	return nil
}

// Remove удаляет аккаунт вместе с его записями.
func (s *UserService) Remove(ctx context.Context, userID string) error {
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.log.Info("user removed", slog.String("user_id", userID))
	return nil
}

// AdjustBalance проводит ручную корректировку баланса администратором.
func (s *UserService) AdjustBalance(ctx context.Context, req models.DummyAdjustBalance) (string, error) {
	trxID, err := s.repo.AdjustBalance(ctx, req.UserID, req.Delta, req.Details)
	if err != nil {
		return "", err
	}
	s.log.Info("balance adjusted",
		slog.String("user_id", req.UserID),
		slog.Int64("delta", req.Delta))
	return trxID, nil
}
