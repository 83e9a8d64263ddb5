package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

// Ошибки бизнес-логики заданий.
var (
	ErrTaskSystemDisabled = errors.New("task system is disabled")
	ErrTaskUnavailable    = errors.New("task is unavailable")
	ErrTaskAlreadyTaken   = errors.New("task already submitted")
)

type TaskRepository interface {
	CreateTask(ctx context.Context, task models.Task) (string, error)
	GetTask(ctx context.Context, taskID string) (*models.Task, error)
	ListTasks(ctx context.Context, activeOnly bool) ([]*models.Task, error)
	UpdateTask(ctx context.Context, task models.Task) error
	DeleteTask(ctx context.Context, taskID string) error
	CreateTransaction(ctx context.Context, trx models.Transaction) (string, error)
	ListTaskTransactionsByUser(ctx context.Context, userID string) ([]*models.Transaction, error)
}

// UserTask — задание каталога вместе со статусом записи пользователя по
// нему. Пустой RecordStatus означает, что задание доступно.
type UserTask struct {
	models.Task
	RecordStatus string `json:"record_status,omitempty"`
}

// TaskService отдаёт каталог заданий и принимает их сдачу. Вознаграждение
// зачисляется не при сдаче, а при одобрении записи администратором.
type TaskService struct {
	repo     TaskRepository
	settings *SettingsService
	log      *slog.Logger
}

func NewTaskService(repo TaskRepository, settings *SettingsService, log *slog.Logger) *TaskService {
	return &TaskService{
		repo:     repo,
		settings: settings,
		log:      log,
	}
}

// ListForUser возвращает активные задания со статусом записи пользователя.
func (s *TaskService) ListForUser(ctx context.Context, userID string) ([]UserTask, error) {
	tasks, err := s.repo.ListTasks(ctx, true)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.ListTaskTransactionsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	statusByTask := make(map[string]string, len(records))
	for _, r := range records {
		statusByTask[r.TaskID] = r.Status
	}

	result := make([]UserTask, 0, len(tasks))
	for _, t := range tasks {
		result = append(result, UserTask{
			Task:         *t,
			RecordStatus: statusByTask[t.ID],
		})
	}
	return result, nil
}

// ListAll возвращает весь каталог для администратора.
func (s *TaskService) ListAll(ctx context.Context) ([]*models.Task, error) {
	return s.repo.ListTasks(ctx, false)
}

// Submit создаёт pending-запись о выполнении задания. Повторная сдача того
// же задания отклоняется, пока предыдущая запись не отклонена.
func (s *TaskService) Submit(ctx context.Context, userID string, req models.DummyTaskSubmit) (string, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return "", err
	}
	if !settings.TaskSystemEnabled {
		return "", ErrTaskSystemDisabled
	}

	task, err := s.repo.GetTask(ctx, req.TaskID)
	if err != nil {
		return "", err
	}
	if task.Status != models.TaskActive {
		return "", ErrTaskUnavailable
	}

	trxID, err := s.repo.CreateTransaction(ctx, models.Transaction{
		UserID:   userID,
		Type:     models.TrxTypeEarning,
		Category: models.CategoryTask,
		Amount:   task.Reward,
		Status:   models.StatusPending,
		Details:  task.Title,
		ProofURL: req.ProofURL,
		TaskID:   task.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateActive) {
			return "", ErrTaskAlreadyTaken
		}
		return "", err
	}

	s.log.Info("task submitted",
		slog.String("task_id", task.ID),
		slog.String("trx_id", trxID))
	return trxID, nil
}

// Save создаёт или обновляет задание каталога.
func (s *TaskService) Save(ctx context.Context, taskID string, req models.DummyTask) (string, error) {
	task := models.Task{
		ID:          taskID,
		Title:       req.Title,
		Description: req.Description,
		Link:        req.Link,
		Image:       req.Image,
		Reward:      req.Reward,
		Type:        req.Type,
		Status:      req.Status,
	}
	if task.Status == "" {
		task.Status = models.TaskActive
	}
	if taskID == "" {
		return s.repo.CreateTask(ctx, task)
	}
	return taskID, s.repo.UpdateTask(ctx, task)
}

// Remove удаляет задание из каталога.
func (s *TaskService) Remove(ctx context.Context, taskID string) error {
	return s.repo.DeleteTask(ctx, taskID)
}
