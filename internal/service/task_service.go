package service

import (
	"context"
	"errors"
	"strings"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// Domain errors for task flows.
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTaskForbidden = errors.New("task belongs to another user")
)

// List parameter policy.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// sortKeys is the allow-list of sortable fields. Anything else is silently
// ignored and the listing keeps insertion order.
var sortKeys = map[string]string{
	"id":     "id",
	"title":  "title",
	"status": "status",
}

// TaskService enforces ownership and list-parameter policy on top of the
// task repository.
type TaskService struct {
	taskRepo repository.Tasks
}

func NewTaskService(repo repository.Tasks) *TaskService {
	return &TaskService{taskRepo: repo}
}

// Create stores a new task stamped with the caller's id. A missing status
// defaults to "new".
func (s *TaskService) Create(ctx context.Context, ownerID int, in models.CreateTaskRequest) (models.Task, error) {
	status := in.Status
	if status == "" {
		status = models.StatusNew
	}
	t := models.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		UserID:      ownerID,
	}
	id, err := s.taskRepo.Create(ctx, t)
	if err != nil {
		return models.Task{}, err
	}
	t.ID = id
	return t, nil
}

// GetByID returns the task if it exists and belongs to the caller.
func (s *TaskService) GetByID(ctx context.Context, ownerID, taskID int) (models.Task, error) {
	return s.ownedTask(ctx, ownerID, taskID)
}

// Update applies the provided fields to the caller's task.
func (s *TaskService) Update(ctx context.Context, ownerID, taskID int, in models.UpdateTaskRequest) (models.Task, error) {
	t, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if in.Title != nil {
		t.Title = *in.Title
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if err := s.taskRepo.Update(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// Delete removes the caller's task.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID int) error {
	t, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return err
	}
	return s.taskRepo.Delete(ctx, t.ID)
}

// Complete sets the task status to completed regardless of its prior state,
// so repeating the call changes nothing.
func (s *TaskService) Complete(ctx context.Context, ownerID, taskID int) (models.Task, error) {
	t, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return models.Task{}, err
	}
	t.Status = models.StatusCompleted
	if err := s.taskRepo.Update(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// List returns one page of the caller's tasks after normalizing the query.
func (s *TaskService) List(ctx context.Context, ownerID int, q ListQuery) ([]models.Task, error) {
	return s.taskRepo.ListByOwner(ctx, ownerID, normalizeListQuery(q))
}

// ownedTask checks existence first, ownership second. A missing task is
// ErrTaskNotFound; an existing task of another user is ErrTaskForbidden.
// The order is deliberate and must not change.
func (s *TaskService) ownedTask(ctx context.Context, ownerID, taskID int) (models.Task, error) {
	t, err := s.taskRepo.GetByID(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if t == nil {
		return models.Task{}, ErrTaskNotFound
	}
	if t.UserID != ownerID {
		return models.Task{}, ErrTaskForbidden
	}
	return *t, nil
}

// normalizeListQuery applies defaults, clamps the limit and resolves the
// sort parameters against the allow-list.
func normalizeListQuery(q ListQuery) repository.TaskFilter {
	f := repository.TaskFilter{
		Status: q.Status,
		Offset: q.Offset,
		Limit:  q.Limit,
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if col, ok := sortKeys[strings.ToLower(strings.TrimSpace(q.SortBy))]; ok {
		f.SortBy = col
		f.SortDesc = strings.EqualFold(strings.TrimSpace(q.SortOrder), "desc")
	}
	return f
}
