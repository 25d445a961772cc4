package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/todo-service/internal/domain"
	"github.com/spec-kit/todo-service/internal/events"
	"github.com/spec-kit/todo-service/internal/repository"
	apperrors "github.com/spec-kit/todo-service/pkg/util"
)

// TaskService coordinates task workflows for an authenticated owner.
type TaskService struct {
	tasks      repository.TaskRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TaskDependencies bundles collaborators for the task service.
type TaskDependencies struct {
	TaskRepo   repository.TaskRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// TaskCreateInput describes task creation payload.
type TaskCreateInput struct {
	Title       string
	Description string
	Status      domain.TaskStatus
}

// NewTaskService constructs the service.
func NewTaskService(deps TaskDependencies) *TaskService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskService{tasks: deps.TaskRepo, dispatcher: deps.Dispatcher, logger: logger}
}

// CreateTask creates a task owned by userID.
func (s *TaskService) CreateTask(ctx context.Context, userID string, input TaskCreateInput) (*domain.Task, error) {
	task := &domain.Task{
		UserID:      userID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Status:      input.Status,
	}
	if task.Status == "" {
		task.Status = domain.TaskStatusPending
	}
	if err := validateTask(task.Title, task.Status); err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.EventTaskCreated, task)
	return task, nil
}

// ListTasks returns the owner's tasks, newest first.
func (s *TaskService) ListTasks(ctx context.Context, userID string) ([]domain.Task, error) {
	tasks, err := s.tasks.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return tasks, nil
}

// GetTask returns one task if userID owns it.
func (s *TaskService) GetTask(ctx context.Context, userID, id string) (*domain.Task, error) {
	task, err := s.tasks.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, mapStoreError(err, "task")
	}
	return task, nil
}

// UpdateTask applies a partial update to a task userID owns.
func (s *TaskService) UpdateTask(ctx context.Context, userID, id string, update domain.TaskUpdate) (*domain.Task, error) {
	if update.Title != nil {
		trimmed := strings.TrimSpace(*update.Title)
		update.Title = &trimmed
		if trimmed == "" {
			return nil, apperrors.NewValidationError("title must not be empty", nil)
		}
	}
	if update.Description != nil {
		trimmed := strings.TrimSpace(*update.Description)
		update.Description = &trimmed
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, invalidStatus(*update.Status)
	}

	task, err := s.tasks.UpdateForUser(ctx, userID, id, update)
	if err != nil {
		return nil, mapStoreError(err, "task")
	}
	s.publish(ctx, events.EventTaskUpdated, task)
	return task, nil
}

// DeleteTask removes a task userID owns.
func (s *TaskService) DeleteTask(ctx context.Context, userID, id string) error {
	if err := s.tasks.DeleteForUser(ctx, userID, id); err != nil {
		return mapStoreError(err, "task")
	}
	s.publish(ctx, events.EventTaskDeleted, &domain.Task{ID: id, UserID: userID})
	return nil
}

func (s *TaskService) publish(ctx context.Context, eventType events.EventType, task *domain.Task) {
	publishEvent(ctx, s.dispatcher, s.logger, events.Event{
		Type:    eventType,
		UserID:  task.UserID,
		Payload: events.TaskPayload{TaskID: task.ID, Status: string(task.Status)},
	})
}

func validateTask(title string, status domain.TaskStatus) error {
	if title == "" {
		return apperrors.NewValidationError("title is required", nil)
	}
	if !status.Valid() {
		return invalidStatus(status)
	}
	return nil
}

func invalidStatus(status domain.TaskStatus) error {
	return apperrors.NewValidationError("invalid task status", map[string]any{
		"status":  string(status),
		"allowed": []string{string(domain.TaskStatusPending), string(domain.TaskStatusCompleted)},
	})
}
