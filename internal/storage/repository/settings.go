package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mrhason/aitaskify/internal/models"
)

// GetSettings возвращает единственную запись настроек. Отсутствующие в
// сохранённом документе поля остаются значениями DefaultSettings: документ
// разбирается поверх значений по умолчанию.
func (s *Storage) GetSettings(ctx context.Context) (models.Settings, error) {
	const op = "storage.GetSettings"
	settings := models.DefaultSettings()
	select {
	case <-ctx.Done():
		return settings, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var doc []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT value FROM app_settings WHERE id = 1`).Scan(&doc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return settings, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return settings, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(doc, &settings); err != nil {
		return settings, fmt.Errorf("%s: %w", op, err)
	}
	return settings, nil
}

// SaveSettings целиком заменяет запись настроек.
func (s *Storage) SaveSettings(ctx context.Context, settings models.Settings) error {
	const op = "storage.SaveSettings"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	doc, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO app_settings (id, value) VALUES (1, $1)
		 ON CONFLICT (id) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		doc)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
