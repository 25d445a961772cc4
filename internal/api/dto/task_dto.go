package dto

import (
	"time"

	"github.com/spec-kit/todo-service/internal/domain"
)

// CreateTaskRequest payload.
type CreateTaskRequest struct {
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"max=2000"`
	Status      domain.TaskStatus `json:"status" validate:"omitempty,oneof=pending completed"`
}

// UpdateTaskRequest payload. Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string            `json:"title" validate:"omitempty,max=200"`
	Description *string            `json:"description" validate:"omitempty,max=2000"`
	Status      *domain.TaskStatus `json:"status" validate:"omitempty,oneof=pending completed"`
}

// ToTaskUpdate converts the request into a domain update.
func (r UpdateTaskRequest) ToTaskUpdate() domain.TaskUpdate {
	return domain.TaskUpdate{Title: r.Title, Description: r.Description, Status: r.Status}
}

// TaskResponse is the public view of a task.
type TaskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Status      domain.TaskStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewTaskResponse maps a domain task.
func NewTaskResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
