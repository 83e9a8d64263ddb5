// Package services реализует бизнес-логику платформы: регистрацию и вход,
// журнал транзакций, выводы, задания, продажу почтовых аккаунтов, премиум и
// реферальную программу. Сервисы работают поверх репозитория PostgreSQL,
// кеша Redis и издателя событий RabbitMQ.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/mrhason/aitaskify/internal/cache"
	"github.com/mrhason/aitaskify/internal/lib/sl"
	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

// Cache описывает кеш типа ключ-значение с JSON-сериализацией.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// EventPublisher публикует события журнала транзакций в очередь уведомлений.
type EventPublisher interface {
	PublishTrxEvent(event models.TrxEvent) error
}

type SettingsRepository interface {
	GetSettings(ctx context.Context) (models.Settings, error)
	SaveSettings(ctx context.Context, settings models.Settings) error
}

// SettingsService отдаёт настройки платформы всем рабочим процессам.
// Отсутствующая запись не является ошибкой: возвращаются значения
// по умолчанию.
type SettingsService struct {
	repo  SettingsRepository
	cache Cache
	log   *slog.Logger
}

func NewSettingsService(repo SettingsRepository, c Cache, log *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:  repo,
		cache: c,
		log:   log,
	}
}

// Get возвращает текущие настройки: сначала из кеша, затем из хранилища.
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	var settings models.Settings
	found, err := s.cache.Get(cache.KeySettings, &settings)
	if err != nil {
		s.log.Warn("failed to read settings from cache", sl.Err(err))
	}
	if found {
		return settings, nil
	}

	settings, err = s.repo.GetSettings(ctx)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return settings, err
	}

	if err := s.cache.Set(cache.KeySettings, settings, cache.SettingsTTL); err != nil {
		s.log.Warn("failed to cache settings", sl.Err(err))
	}
	return settings, nil
}

// Save заменяет настройки и сбрасывает кеш.
func (s *SettingsService) Save(ctx context.Context, settings models.Settings) error {
	if err := s.repo.SaveSettings(ctx, settings); err != nil {
		return err
	}
	if err := s.cache.Invalidate(cache.KeySettings); err != nil {
		s.log.Warn("failed to invalidate settings cache", sl.Err(err))
	}
	s.log.Info("settings updated")
	return nil
}
