package aitaskify

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/mrhason/aitaskify/internal/cache"
	"github.com/mrhason/aitaskify/internal/config"
	"github.com/mrhason/aitaskify/internal/lib/jwt"
	"github.com/mrhason/aitaskify/internal/migrations"
	"github.com/mrhason/aitaskify/internal/rabbitmq"
	"github.com/mrhason/aitaskify/internal/services"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.AmqpURL, cfg.RabbitMQ.MaxRetries, cfg.RabbitMQ.RetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetNotificationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	events := rabbitmq.NewTrxEventPublisher(ch)

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	settingsService := services.NewSettingsService(db, cacheRedis, logger)
	authService := services.NewAuthService(db, jwtMaker, cfg.Bootstrap.AdminRefCode, logger)
	userService := services.NewUserService(db, cacheRedis, logger)
	transactionService := services.NewTransactionService(db, events, logger)
	withdrawService := services.NewWithdrawService(db, settingsService, events, logger)
	taskService := services.NewTaskService(db, settingsService, logger)
	gmailService := services.NewGmailService(db, settingsService, events, logger)
	premiumService := services.NewPremiumService(db, settingsService, logger)
	referralService := services.NewReferralService(db, settingsService, cfg.Bootstrap.AdminRefCode, logger)

	if err := authService.EnsureAdmin(ctx, cfg.Bootstrap); err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, &Services{
		Auth:        authService,
		User:        userService,
		Settings:    settingsService,
		Transaction: transactionService,
		Withdraw:    withdrawService,
		Task:        taskService,
		Gmail:       gmailService,
		Premium:     premiumService,
		Referral:    referralService,
		Storage:     db,
	}, jwtMaker)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.ch.Close()
		a.conn.Close()
		a.db.DB.Close()
		return err
	}
}
