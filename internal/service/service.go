package service

import (
	"context"

	"task_tracker/internal/models"
	"task_tracker/internal/repository"
)

// Authorization covers the unauthenticated boundary (register, login) and
// token-to-user resolution for everything behind it.
type Authorization interface {
	Register(ctx context.Context, in models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (models.User, error)
}

// ListQuery carries the raw list parameters; the service normalizes them
// (defaults, clamping, sort allow-list) before they reach the repository.
type ListQuery struct {
	Offset    int
	Limit     int
	SortBy    string
	SortOrder string
	Status    *models.TaskStatus
}

// Tasks exposes owner-bound task operations. Every call takes the
// authenticated owner's id; single-resource operations check existence
// first, ownership second.
type Tasks interface {
	Create(ctx context.Context, ownerID int, in models.CreateTaskRequest) (models.Task, error)
	GetByID(ctx context.Context, ownerID, taskID int) (models.Task, error)
	Update(ctx context.Context, ownerID, taskID int, in models.UpdateTaskRequest) (models.Task, error)
	Delete(ctx context.Context, ownerID, taskID int) error
	Complete(ctx context.Context, ownerID, taskID int) (models.Task, error)
	List(ctx context.Context, ownerID int, q ListQuery) ([]models.Task, error)
}

// Service aggregates all sub-services.
type Service struct {
	Authorization
	Tasks
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, authCfg AuthConfig) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Auth, authCfg),
		Tasks:         NewTaskService(repos.Tasks),
	}
}
