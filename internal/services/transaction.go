package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/metrics"
	"github.com/mrhason/aitaskify/internal/models"
)

type TransactionRepository interface {
	GetTransaction(ctx context.Context, trxID string) (*models.Transaction, error)
	ListTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
	ListAllTransactions(ctx context.Context) ([]*models.Transaction, error)
	ApproveTransaction(ctx context.Context, trxID string) (*models.Transaction, error)
	RejectTransaction(ctx context.Context, trxID string) (*models.Transaction, error)
}

// TransactionService отдаёт журнал и проводит решения администратора по
// pending-записям. Последствия решения (зачисление, возврат, счётчики
// выплат) применяет хранилище в одной транзакции.
type TransactionService struct {
	repo   TransactionRepository
	events EventPublisher
	log    *slog.Logger
}

func NewTransactionService(repo TransactionRepository, events EventPublisher, log *slog.Logger) *TransactionService {
	return &TransactionService{
		repo:   repo,
		events: events,
		log:    log,
	}
}

// ListForUser возвращает журнал пользователя.
func (s *TransactionService) ListForUser(ctx context.Context, userID string) ([]*models.Transaction, error) {
	return s.repo.ListTransactionsByUser(ctx, userID)
}

// ListAll возвращает полный журнал для администратора.
func (s *TransactionService) ListAll(ctx context.Context) ([]*models.Transaction, error) {
	return s.repo.ListAllTransactions(ctx)
}

// Resolve применяет решение администратора к pending-записи и публикует
// событие смены статуса.
func (s *TransactionService) Resolve(ctx context.Context, trxID, action string) (*models.Transaction, error) {
	var trx *models.Transaction
	var err error
	if action == "approve" {
		trx, err = s.repo.ApproveTransaction(ctx, trxID)
	} else {
		trx, err = s.repo.RejectTransaction(ctx, trxID)
	}
	if err != nil {
		return nil, err
	}

	metrics.RequestsResolved.WithLabelValues(trx.Type, trx.Status).Inc()
	s.log.Info("transaction resolved",
		slog.String("trx_id", trx.ID),
		slog.String("status", trx.Status))
	s.publish(trx)
	return trx, nil
}

func (s *TransactionService) publish(trx *models.Transaction) {
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
		s.log.Warn("failed to publish transaction event",
			slog.String("trx_id", trx.ID), sl.Err(err))
	}
}
