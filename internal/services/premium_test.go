package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrhason/aitaskify/internal/metrics"
	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

func TestPremiumService_Create(t *testing.T) {
	settings := models.DefaultSettings()
	req := models.DummyPremium{
		Method:       "nagad",
		SenderNumber: "01812345678",
		TrxID:        "NAG12345",
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name: "success with cost from settings",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, "user-1").
					Return(&models.User{ID: "user-1", AccountType: models.AccountFree}, nil).Once()
				r.On("CreatePremiumRequest", mock.Anything, mock.MatchedBy(func(pr models.PremiumRequest) bool {
					return pr.UserID == "user-1" &&
						pr.Method == req.Method &&
						pr.Amount == settings.PremiumCost
				})).Return("req-1", nil).Once()
			},
		},
		{
			name: "already premium",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, "user-1").
					Return(&models.User{ID: "user-1", AccountType: models.AccountPremium}, nil).Once()
			},
			wantErr: ErrAlreadyPremium,
		},
		{
			name: "pending request exists",
			setupMocks: func(r *RepoMock) {
				r.On("GetUser", mock.Anything, "user-1").
					Return(&models.User{ID: "user-1", AccountType: models.AccountFree}, nil).Once()
				r.On("CreatePremiumRequest", mock.Anything, mock.Anything).
					Return("", repository.ErrDuplicateActive).Once()
			},
			wantErr: repository.ErrDuplicateActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewPremiumService(repo, settingsWith(settings), newNoopLogger())

			tt.setupMocks(repo)

			requestID, err := svc.Create(context.Background(), "user-1", req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "req-1", requestID)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestPremiumService_Resolve(t *testing.T) {
	settings := models.DefaultSettings()
	pending := &models.PremiumRequest{
		ID:     "req-1",
		UserID: "user-1",
		Amount: settings.PremiumCost,
		Status: models.StatusPending,
	}
	approved := &models.PremiumRequest{
		ID:     "req-1",
		UserID: "user-1",
		Amount: settings.PremiumCost,
		Status: models.StatusApproved,
	}
	rejected := &models.PremiumRequest{
		ID:     "req-1",
		UserID: "user-1",
		Status: models.StatusRejected,
	}

	t.Run("approve pays upgrade bonus to upline", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewPremiumService(repo, settingsWith(settings), newNoopLogger())

		repo.On("GetPremiumRequest", mock.Anything, "req-1").Return(pending, nil).Once()
		repo.On("GetUser", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", UplineRefCode: "22223333"}, nil).Once()
		repo.On("GetUserByRefCode", mock.Anything, "22223333").
			Return(&models.User{ID: "upline-1", RefCode: "22223333"}, nil).Once()
		repo.On("ApprovePremiumRequest", mock.Anything, "req-1", "upline-1", settings.PremiumUpgradeBonus).
			Return(approved, nil).Once()

		before := testutil.ToFloat64(metrics.RequestsResolved.WithLabelValues("premium", models.StatusApproved))

		got, err := svc.Resolve(context.Background(), "req-1", "approve")
		assert.NoError(t, err)
		assert.Equal(t, models.StatusApproved, got.Status)
		assert.Equal(t, before+1,
			testutil.ToFloat64(metrics.RequestsResolved.WithLabelValues("premium", models.StatusApproved)))

		repo.AssertExpectations(t)
	})

	t.Run("approve without upline code skips bonus", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewPremiumService(repo, settingsWith(settings), newNoopLogger())

		repo.On("GetPremiumRequest", mock.Anything, "req-1").Return(pending, nil).Once()
		repo.On("GetUser", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1"}, nil).Once()
		repo.On("ApprovePremiumRequest", mock.Anything, "req-1", "", settings.PremiumUpgradeBonus).
			Return(approved, nil).Once()

		_, err := svc.Resolve(context.Background(), "req-1", "approve")
		assert.NoError(t, err)

		repo.AssertExpectations(t)
	})

	t.Run("approve with vanished upline skips bonus", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewPremiumService(repo, settingsWith(settings), newNoopLogger())

		repo.On("GetPremiumRequest", mock.Anything, "req-1").Return(pending, nil).Once()
		repo.On("GetUser", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1", UplineRefCode: "22223333"}, nil).Once()
		repo.On("GetUserByRefCode", mock.Anything, "22223333").
			Return(nil, repository.ErrUserNotFound).Once()
		repo.On("ApprovePremiumRequest", mock.Anything, "req-1", "", settings.PremiumUpgradeBonus).
			Return(approved, nil).Once()

		_, err := svc.Resolve(context.Background(), "req-1", "approve")
		assert.NoError(t, err)

		repo.AssertExpectations(t)
	})

	t.Run("reject", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewPremiumService(repo, settingsWith(settings), newNoopLogger())

		repo.On("RejectPremiumRequest", mock.Anything, "req-1").Return(rejected, nil).Once()

		got, err := svc.Resolve(context.Background(), "req-1", "reject")
		assert.NoError(t, err)
		assert.Equal(t, models.StatusRejected, got.Status)

		repo.AssertExpectations(t)
	})

	t.Run("already processed", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewPremiumService(repo, settingsWith(settings), newNoopLogger())

		repo.On("GetPremiumRequest", mock.Anything, "req-1").Return(approved, nil).Once()
		repo.On("GetUser", mock.Anything, "user-1").
			Return(&models.User{ID: "user-1"}, nil).Once()
		repo.On("ApprovePremiumRequest", mock.Anything, "req-1", "", settings.PremiumUpgradeBonus).
			Return(nil, repository.ErrAlreadyProcessed).Once()

		_, err := svc.Resolve(context.Background(), "req-1", "approve")
		assert.ErrorIs(t, err, repository.ErrAlreadyProcessed)

		repo.AssertExpectations(t)
	})
}

func TestPremiumService_List(t *testing.T) {
	repo := new(RepoMock)
	svc := NewPremiumService(repo, settingsWith(models.DefaultSettings()), newNoopLogger())

	reqs := []*models.PremiumRequest{
		{ID: "req-1", UserID: "user-1", Status: models.StatusPending},
		{ID: "req-2", UserID: "user-2", Status: models.StatusApproved},
	}
	repo.On("ListPremiumRequests", mock.Anything).Return(reqs, nil).Once()

	got, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, reqs, got)

	repo.AssertExpectations(t)
}
