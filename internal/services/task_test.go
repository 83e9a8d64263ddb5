package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mrhason/aitaskify/internal/models"
	"github.com/mrhason/aitaskify/internal/storage/repository"
)

func TestTaskService_Submit(t *testing.T) {
	settings := models.DefaultSettings()
	disabled := models.DefaultSettings()
	disabled.TaskSystemEnabled = false

	task := &models.Task{
		ID:     "5f6a7b8c-1111-4222-8333-944455556666",
		Title:  "Subscribe to channel",
		Reward: 500,
		Status: models.TaskActive,
	}
	inactive := &models.Task{
		ID:     task.ID,
		Title:  task.Title,
		Reward: task.Reward,
		Status: models.TaskInactive,
	}
	req := models.DummyTaskSubmit{TaskID: task.ID, ProofURL: "https://imgbb.com/proof.png"}

	tests := []struct {
		name       string
		settings   models.Settings
		setupMocks func(r *RepoMock)
		wantErr    error
	}{
		{
			name:     "success creates pending task record",
			settings: settings,
			setupMocks: func(r *RepoMock) {
				r.On("GetTask", mock.Anything, task.ID).Return(task, nil).Once()
				r.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(trx models.Transaction) bool {
					return trx.Category == models.CategoryTask &&
						trx.Status == models.StatusPending &&
						trx.Amount == task.Reward &&
						trx.TaskID == task.ID &&
						trx.ProofURL == req.ProofURL
				})).Return("trx-1", nil).Once()
			},
		},
		{
			name:       "task system disabled",
			settings:   disabled,
			setupMocks: func(_ *RepoMock) {},
			wantErr:    ErrTaskSystemDisabled,
		},
		{
			name:     "inactive task is unavailable",
			settings: settings,
			setupMocks: func(r *RepoMock) {
				r.On("GetTask", mock.Anything, task.ID).Return(inactive, nil).Once()
			},
			wantErr: ErrTaskUnavailable,
		},
		{
			name:     "resubmission rejected",
			settings: settings,
			setupMocks: func(r *RepoMock) {
				r.On("GetTask", mock.Anything, task.ID).Return(task, nil).Once()
				r.On("CreateTransaction", mock.Anything, mock.Anything).
					Return("", repository.ErrDuplicateActive).Once()
			},
			wantErr: ErrTaskAlreadyTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			svc := NewTaskService(repo, settingsWith(tt.settings), newNoopLogger())

			tt.setupMocks(repo)

			trxID, err := svc.Submit(context.Background(), "user-1", req)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "trx-1", trxID)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestTaskService_ListForUser(t *testing.T) {
	tasks := []*models.Task{
		{ID: "task-1", Title: "Subscribe", Status: models.TaskActive},
		{ID: "task-2", Title: "Watch video", Status: models.TaskActive},
	}
	records := []*models.Transaction{
		{TaskID: "task-1", Status: models.StatusPending},
	}

	repo := new(RepoMock)
	svc := NewTaskService(repo, settingsWith(models.DefaultSettings()), newNoopLogger())

	repo.On("ListTasks", mock.Anything, true).Return(tasks, nil).Once()
	repo.On("ListTaskTransactionsByUser", mock.Anything, "user-1").Return(records, nil).Once()

	got, err := svc.ListForUser(context.Background(), "user-1")
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, models.StatusPending, got[0].RecordStatus)
	assert.Empty(t, got[1].RecordStatus)

	repo.AssertExpectations(t)
}

func TestTaskService_Save(t *testing.T) {
	req := models.DummyTask{
		Title:       "Subscribe",
		Description: "Subscribe to the channel and send a screenshot",
		Link:        "https://youtube.com/channel",
		Reward:      500,
		Type:        models.TaskTypeSubmit,
	}

	t.Run("empty id creates with active status", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewTaskService(repo, settingsWith(models.DefaultSettings()), newNoopLogger())

		repo.On("CreateTask", mock.Anything, mock.MatchedBy(func(task models.Task) bool {
			return task.ID == "" && task.Status == models.TaskActive
		})).Return("task-1", nil).Once()

		taskID, err := svc.Save(context.Background(), "", req)
		assert.NoError(t, err)
		assert.Equal(t, "task-1", taskID)

		repo.AssertExpectations(t)
	})

	t.Run("existing id updates", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewTaskService(repo, settingsWith(models.DefaultSettings()), newNoopLogger())

		repo.On("UpdateTask", mock.Anything, mock.MatchedBy(func(task models.Task) bool {
			return task.ID == "task-1"
		})).Return(nil).Once()

		taskID, err := svc.Save(context.Background(), "task-1", req)
		assert.NoError(t, err)
		assert.Equal(t, "task-1", taskID)

		repo.AssertExpectations(t)
	})
}
