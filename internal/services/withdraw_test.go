package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

func TestWithdrawService_Create(t *testing.T) {
	settings := models.DefaultSettings()
	req := models.DummyWithdraw{
		Amount:       130,
		Method:       "bkash",
		SenderNumber: "01712345678",
	}
	created := &models.Transaction{
		ID:         "9a1b2c3d-1111-4222-8333-944455556666",
		UserID:     "user-1",
		Type:       models.TrxTypeWithdraw,
		Amount:     130,
		CoinAmount: 130 * settings.CoinRate,
		Status:     models.StatusPending,
	}

	tests := []struct {
		name       string
		settings   models.Settings
		setupMocks func(r *RepoMock, e *EventsMock)
		req        models.DummyWithdraw
		wantErr    error
	}{
		{
			name:     "success reserves coins at current rate",
			settings: settings,
			setupMocks: func(r *RepoMock, e *EventsMock) {
				r.On("CreateWithdraw", mock.Anything, mock.MatchedBy(func(trx models.Transaction) bool {
					return trx.Type == models.TrxTypeWithdraw &&
						trx.Amount == req.Amount &&
						trx.CoinAmount == req.Amount*settings.CoinRate &&
						trx.Status == models.StatusPending
				})).Return(created.ID, nil).Once()
				r.On("GetTransaction", mock.Anything, created.ID).Return(created, nil).Once()
				e.On("PublishTrxEvent", mock.MatchedBy(func(event models.TrxEvent) bool {
					return event.TransactionID == created.ID &&
						event.Status == models.StatusPending
				})).Return(nil).Once()
			},
			req: req,
		},
		{
			name: "withdrawals disabled",
			settings: func() models.Settings {
				s := models.DefaultSettings()
				s.WithdrawEnabled = false
				return s
			}(),
			setupMocks: func(_ *RepoMock, _ *EventsMock) {},
			req:        req,
			wantErr:    ErrWithdrawDisabled,
		},
		{
			name:       "amount below minimum",
			settings:   settings,
			setupMocks: func(_ *RepoMock, _ *EventsMock) {},
			req: models.DummyWithdraw{
				Amount:       settings.MinWithdraw - 1,
				Method:       "bkash",
				SenderNumber: "01712345678",
			},
			wantErr: ErrBelowMinWithdraw,
		},
		{
			name:     "insufficient balance",
			settings: settings,
			setupMocks: func(r *RepoMock, _ *EventsMock) {
				r.On("CreateWithdraw", mock.Anything, mock.Anything).
					Return("", repository.ErrInsufficientBalance).Once()
			},
			req:     req,
			wantErr: repository.ErrInsufficientBalance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			events := new(EventsMock)
			svc := NewWithdrawService(repo, settingsWith(tt.settings), events, newNoopLogger())

			tt.setupMocks(repo, events)

			got, err := svc.Create(context.Background(), "user-1", tt.req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, created.ID, got.ID)
				assert.Equal(t, created.CoinAmount, got.CoinAmount)
			}

			repo.AssertExpectations(t)
			events.AssertExpectations(t)
		})
	}
}
