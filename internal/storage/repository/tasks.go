package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mrhason/aitaskify/internal/models"
)

const taskColumns = `id, title, description, link, image, reward, type, status, created_at`

// CreateTask добавляет задание в каталог и возвращает его ID.
func (s *Storage) CreateTask(ctx context.Context, task models.Task) (string, error) {
	const op = "storage.CreateTask"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO tasks (title, description, link, image, reward, type, status)
			  VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7)
			  RETURNING id;`
	if err := s.DB.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Link, task.Image, task.Reward,
		task.Type, task.Status).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetTask возвращает задание по ID.
func (s *Storage) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	const op = "storage.GetTask"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	row := s.DB.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE id = $1`, taskID)
	t, err := scanTask(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// ListTasks возвращает задания каталога, сначала новые. При activeOnly
// отдаются только активные задания.
func (s *Storage) ListTasks(ctx context.Context, activeOnly bool) ([]*models.Task, error) {
	const op = "storage.ListTasks"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC`
	args := []any{}
	if activeOnly {
		query = `SELECT ` + taskColumns + ` FROM tasks WHERE status = $1 ORDER BY created_at DESC`
		args = append(args, models.TaskActive)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return tasks, nil
}

// UpdateTask обновляет поля существующего задания.
func (s *Storage) UpdateTask(ctx context.Context, task models.Task) error {
	const op = "storage.UpdateTask"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE tasks SET title = $1, description = $2, link = $3,
		     image = NULLIF($4, ''), reward = $5, type = $6, status = $7
		 WHERE id = $8`,
		task.Title, task.Description, task.Link, task.Image, task.Reward,
		task.Type, task.Status, task.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

// DeleteTask удаляет задание из каталога. Записи журнала по нему сохраняются.
func (s *Storage) DeleteTask(ctx context.Context, taskID string) error {
	const op = "storage.DeleteTask"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, taskID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	t := &models.Task{}
	var image sql.NullString
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Link, &image,
		&t.Reward, &t.Type, &t.Status, &t.CreatedAt); err != nil {
		return nil, err
	}
	t.Image = image.String
	return t, nil
}
