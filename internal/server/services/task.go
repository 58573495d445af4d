package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/dmitrijs2005/todokeeper/internal/server/models"
	"github.com/dmitrijs2005/todokeeper/internal/server/repositories/repomanager"
)

// TaskService scopes every task operation to the user id taken from the
// session. Tasks owned by someone else yield common.ErrForbidden.
type TaskService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewTaskService(db *sql.DB, m repomanager.RepositoryManager) *TaskService {
	return &TaskService{db: db, repomanager: m, now: time.Now}
}

// List returns the user's tasks in insertion order.
func (s *TaskService) List(ctx context.Context, userID int64) ([]models.Task, error) {
	tasks, err := s.repomanager.Tasks(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, userID int64, title, body string) (*models.Task, error) {
	task := &models.Task{UserID: userID, Title: title, Body: body, CreatedAt: s.now()}

	created, err := s.repomanager.Tasks(s.db).Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("error creating task: %w", err)
	}
	return created, nil
}

// Get returns the task if userID owns it.
func (s *TaskService) Get(ctx context.Context, userID, taskID int64) (*models.Task, error) {
	task, err := s.repomanager.Tasks(s.db).Get(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error fetching task: %w", err)
	}
	if task.UserID != userID {
		return nil, common.ErrForbidden
	}
	return task, nil
}

// Update overwrites title and body. The creation time and owner are kept.
func (s *TaskService) Update(ctx context.Context, userID, taskID int64, title, body string) (*models.Task, error) {
	task, err := s.Get(ctx, userID, taskID)
	if err != nil {
		return nil, err
	}

	if err := s.repomanager.Tasks(s.db).Update(ctx, taskID, title, body); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error updating task: %w", err)
	}

	task.Title = title
	task.Body = body
	return task, nil
}

// Delete removes the task if userID owns it; otherwise the row is left intact.
func (s *TaskService) Delete(ctx context.Context, userID, taskID int64) error {
	if _, err := s.Get(ctx, userID, taskID); err != nil {
		return err
	}

	if err := s.repomanager.Tasks(s.db).Delete(ctx, taskID); err != nil {
		return fmt.Errorf("error deleting task: %w", err)
	}
	return nil
}
