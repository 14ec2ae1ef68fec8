package repository

import (
	"context"
	"database/sql"

	"task_tracker/internal/models"
	repodb "task_tracker/internal/repository/db"
)

type Authorization interface {
	Create(ctx context.Context, u models.User) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}

// TaskFilter narrows and orders a single owner's task listing. SortBy is a
// symbolic column name resolved through a fixed table; anything outside it
// leaves the rows in insertion order.
type TaskFilter struct {
	Status   *models.TaskStatus
	SortBy   string
	SortDesc bool
	Offset   int
	Limit    int
}

type Tasks interface {
	Create(ctx context.Context, t models.Task) (int, error)
	GetByID(ctx context.Context, id int) (*models.Task, error)
	Update(ctx context.Context, t models.Task) error
	Delete(ctx context.Context, id int) error
	ListByOwner(ctx context.Context, ownerID int, f TaskFilter) ([]models.Task, error)
}

type Repository struct {
	Auth  Authorization
	Tasks Tasks
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:  NewUserRepository(db),
		Tasks: NewTaskRepository(db),
	}
}

// InitDB opens the SQLite store and bootstraps the schema.
func InitDB(path string) (*sql.DB, error) {
	return repodb.InitDB(path)
}
