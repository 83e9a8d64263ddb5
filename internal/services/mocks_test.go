package services

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/mrhason/aitaskify/internal/models"
)

// RepoMock покрывает интерфейсы репозитория всех сервисов пакета.
type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetUser(ctx context.Context, userID string) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetUserByRefCode(ctx context.Context, refCode string) (*models.User, error) {
	args := m.Called(ctx, refCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) ListUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *RepoMock) ListReferrals(ctx context.Context, refCode string) ([]*models.User, error) {
	args := m.Called(ctx, refCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *RepoMock) Leaderboard(ctx context.Context, limit int) ([]*models.User, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *RepoMock) UpdateProfile(ctx context.Context, userID, fullName, email, profileImage string) error {
	return m.Called(ctx, userID, fullName, email, profileImage).Error(0)
}

func (m *RepoMock) SetBlocked(ctx context.Context, userID string, blocked bool) error {
	return m.Called(ctx, userID, blocked).Error(0)
}

func (m *RepoMock) DeleteUser(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *RepoMock) AdjustBalance(ctx context.Context, userID string, delta int64, details string) (string, error) {
	args := m.Called(ctx, userID, delta, details)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetSettings(ctx context.Context) (models.Settings, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.Settings), args.Error(1)
}

func (m *RepoMock) SaveSettings(ctx context.Context, settings models.Settings) error {
	return m.Called(ctx, settings).Error(0)
}

func (m *RepoMock) CreateTransaction(ctx context.Context, trx models.Transaction) (string, error) {
	args := m.Called(ctx, trx)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetTransaction(ctx context.Context, trxID string) (*models.Transaction, error) {
	args := m.Called(ctx, trxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *RepoMock) ListTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *RepoMock) ListAllTransactions(ctx context.Context) ([]*models.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *RepoMock) ListTaskTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Transaction), args.Error(1)
}

func (m *RepoMock) CreateWithdraw(ctx context.Context, trx models.Transaction) (string, error) {
	args := m.Called(ctx, trx)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) ApproveTransaction(ctx context.Context, trxID string) (*models.Transaction, error) {
	args := m.Called(ctx, trxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *RepoMock) RejectTransaction(ctx context.Context, trxID string) (*models.Transaction, error) {
	args := m.Called(ctx, trxID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *RepoMock) ClaimJoiningBonus(ctx context.Context, userID, uplineRefCode string, amount int64) (string, error) {
	args := m.Called(ctx, userID, uplineRefCode, amount)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) ClaimReferralBonus(ctx context.Context, userID, referralUserID string, amount int64) (string, error) {
	args := m.Called(ctx, userID, referralUserID, amount)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) CreateTask(ctx context.Context, task models.Task) (string, error) {
	args := m.Called(ctx, task)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *RepoMock) ListTasks(ctx context.Context, activeOnly bool) ([]*models.Task, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *RepoMock) UpdateTask(ctx context.Context, task models.Task) error {
	return m.Called(ctx, task).Error(0)
}

func (m *RepoMock) DeleteTask(ctx context.Context, taskID string) error {
	return m.Called(ctx, taskID).Error(0)
}

func (m *RepoMock) CreateGmailRequest(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetGmailRequest(ctx context.Context, requestID string) (*models.GmailRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GmailRequest), args.Error(1)
}

func (m *RepoMock) GetActiveGmailRequest(ctx context.Context, userID string) (*models.GmailRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GmailRequest), args.Error(1)
}

func (m *RepoMock) ListGmailRequests(ctx context.Context) ([]*models.GmailRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GmailRequest), args.Error(1)
}

func (m *RepoMock) SetGmailCredentials(ctx context.Context, requestID, firstName, lastName, password string) error {
	return m.Called(ctx, requestID, firstName, lastName, password).Error(0)
}

func (m *RepoMock) RequestGmailRecovery(ctx context.Context, requestID, userID string) error {
	return m.Called(ctx, requestID, userID).Error(0)
}

func (m *RepoMock) SetGmailRecoveryEmail(ctx context.Context, requestID, recoveryEmail string) error {
	return m.Called(ctx, requestID, recoveryEmail).Error(0)
}

func (m *RepoMock) SubmitGmail(ctx context.Context, requestID, userID, createdEmail string, sellAmount int64) (string, error) {
	args := m.Called(ctx, requestID, userID, createdEmail, sellAmount)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) ApproveGmailRequest(ctx context.Context, requestID, commissionUserID string, commission int64) (*models.Transaction, error) {
	args := m.Called(ctx, requestID, commissionUserID, commission)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func (m *RepoMock) RejectGmailRequest(ctx context.Context, requestID string) error {
	return m.Called(ctx, requestID).Error(0)
}

func (m *RepoMock) DeleteGmailRequest(ctx context.Context, requestID string) error {
	return m.Called(ctx, requestID).Error(0)
}

func (m *RepoMock) CreatePremiumRequest(ctx context.Context, req models.PremiumRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetPremiumRequest(ctx context.Context, requestID string) (*models.PremiumRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PremiumRequest), args.Error(1)
}

func (m *RepoMock) GetPendingPremiumRequest(ctx context.Context, userID string) (*models.PremiumRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PremiumRequest), args.Error(1)
}

func (m *RepoMock) ListPremiumRequests(ctx context.Context) ([]*models.PremiumRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PremiumRequest), args.Error(1)
}

func (m *RepoMock) ApprovePremiumRequest(ctx context.Context, requestID, uplineUserID string, upgradeBonus int64) (*models.PremiumRequest, error) {
	args := m.Called(ctx, requestID, uplineUserID, upgradeBonus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PremiumRequest), args.Error(1)
}

func (m *RepoMock) RejectPremiumRequest(ctx context.Context, requestID string) (*models.PremiumRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PremiumRequest), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type EventsMock struct{ mock.Mock }

func (m *EventsMock) PublishTrxEvent(event models.TrxEvent) error {
	return m.Called(event).Error(0)
}

// stubSettingsRepo всегда отдаёт заданные настройки.
type stubSettingsRepo struct{ settings models.Settings }

func (s stubSettingsRepo) GetSettings(_ context.Context) (models.Settings, error) {
	return s.settings, nil
}

func (s stubSettingsRepo) SaveSettings(_ context.Context, _ models.Settings) error {
	return nil
}

// noopCache всегда промахивается и молча принимает записи.
type noopCache struct{}

func (noopCache) Get(_ string, _ any) (bool, error)          { return false, nil }
func (noopCache) Set(_ string, _ any, _ time.Duration) error { return nil }
func (noopCache) Invalidate(_ string) error                  { return nil }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// settingsWith собирает SettingsService поверх фиксированных настроек.
func settingsWith(s models.Settings) *SettingsService {
	return NewSettingsService(stubSettingsRepo{settings: s}, noopCache{}, newNoopLogger())
}
