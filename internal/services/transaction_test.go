package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

func TestTransactionService_Resolve(t *testing.T) {
	approved := &models.Transaction{
		ID:     "trx-1",
		UserID: "user-1",
		Type:   models.TrxTypeWithdraw,
		Amount: 130,
		Status: models.StatusApproved,
	}
	rejected := &models.Transaction{
		ID:     "trx-1",
		UserID: "user-1",
		Type:   models.TrxTypeWithdraw,
		Amount: 130,
		Status: models.StatusRejected,
	}

	tests := []struct {
		name       string
		action     string
		setupMocks func(r *RepoMock, e *EventsMock)
		wantStatus string
		wantErr    error
	}{
		{
			name:   "approve publishes event",
			action: "approve",
			setupMocks: func(r *RepoMock, e *EventsMock) {
				r.On("ApproveTransaction", mock.Anything, "trx-1").Return(approved, nil).Once()
				e.On("PublishTrxEvent", mock.MatchedBy(func(event models.TrxEvent) bool {
					return event.TransactionID == "trx-1" &&
						event.Status == models.StatusApproved
				})).Return(nil).Once()
			},
			wantStatus: models.StatusApproved,
		},
		{
			name:   "reject publishes event",
			action: "reject",
			setupMocks: func(r *RepoMock, e *EventsMock) {
				r.On("RejectTransaction", mock.Anything, "trx-1").Return(rejected, nil).Once()
				e.On("PublishTrxEvent", mock.Anything).Return(nil).Once()
			},
			wantStatus: models.StatusRejected,
		},
		{
			name:   "second decision rejected",
			action: "approve",
			setupMocks: func(r *RepoMock, _ *EventsMock) {
				r.On("ApproveTransaction", mock.Anything, "trx-1").
					Return(nil, repository.ErrAlreadyProcessed).Once()
			},
			wantErr: repository.ErrAlreadyProcessed,
		},
		{
			name:   "publish failure does not fail the decision",
			action: "approve",
			setupMocks: func(r *RepoMock, e *EventsMock) {
				r.On("ApproveTransaction", mock.Anything, "trx-1").Return(approved, nil).Once()
				e.On("PublishTrxEvent", mock.Anything).
					Return(errors.New("broker down")).Once()
			},
			wantStatus: models.StatusApproved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			events := new(EventsMock)
			svc := NewTransactionService(repo, events, newNoopLogger())

			tt.setupMocks(repo, events)

			trx, err := svc.Resolve(context.Background(), "trx-1", tt.action)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantStatus, trx.Status)
			}

			repo.AssertExpectations(t)
			events.AssertExpectations(t)
		})
	}
}

func TestTransactionService_List(t *testing.T) {
	entries := []*models.Transaction{
		{ID: "trx-1", UserID: "user-1"},
		{ID: "trx-2", UserID: "user-1"},
	}

	t.Run("for user", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewTransactionService(repo, new(EventsMock), newNoopLogger())

		repo.On("ListTransactionsByUser", mock.Anything, "user-1").Return(entries, nil).Once()

		got, err := svc.ListForUser(context.Background(), "user-1")
		assert.NoError(t, err)
		assert.Equal(t, entries, got)

		repo.AssertExpectations(t)
	})

	t.Run("all for admin", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewTransactionService(repo, new(EventsMock), newNoopLogger())

		repo.On("ListAllTransactions", mock.Anything).Return(entries, nil).Once()

		got, err := svc.ListAll(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, entries, got)

		repo.AssertExpectations(t)
	})
}
