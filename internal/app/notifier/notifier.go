// Package notifier собирает сервис почтовых уведомлений: он читает события
// журнала из брокера и рассылает письма пользователям.
package notifier

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/mrhason/aitaskify/internal/config"
	"github.com/mrhason/aitaskify/internal/lib/smtp"
	"github.com/mrhason/aitaskify/internal/rabbitmq"
	senderservice "github.com/mrhason/aitaskify/internal/services/sender"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	db            *repository.Storage
	senderService *senderservice.SenderService
	logger        *slog.Logger
	queue         string
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.AmqpURL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}

	queues := rabbitmq.GetNotificationQueues()
	ch, err := rabbitmq.SetupChannel(conn, queues)
	if err != nil {
		conn.Close()
		return nil, err
	}

	newTransport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(newTransport, db, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		db:            db,
		senderService: senderService,
		logger:        logger,
		queue:         cfg.RabbitMQ.EventQueue,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumerMessage(ctx, a.ch, a.queue, a.senderService.SendTrxStatusNotification)
	if err != nil {
		a.logger.Error("failed to start notification consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("notifier service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}
	a.db.DB.Close()

	return nil
}
