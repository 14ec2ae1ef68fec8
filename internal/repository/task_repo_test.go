// task_repo_test.go
package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"task_tracker/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockTaskRepo(t *testing.T) (*TaskRepository, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	repo := NewTaskRepository(db)
	cleanup := func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Fatalf("unmet sqlmock expectations: %v", err)
		}
		_ = db.Close()
	}
	return repo, mock, cleanup
}

func taskRows(tasks ...models.Task) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "title", "description", "status", "user_id"})
	for _, t := range tasks {
		rows.AddRow(t.ID, t.Title, t.Description, string(t.Status), t.UserID)
	}
	return rows
}

func TestTaskRepository_Create(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(insertTaskSQL)).
		WithArgs("Buy milk", "2 liters", "new", 5).
		WillReturnResult(sqlmock.NewResult(11, 1))

	id, err := repo.Create(context.Background(), models.Task{
		Title:       "Buy milk",
		Description: "2 liters",
		Status:      models.StatusNew,
		UserID:      5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != 11 {
		t.Fatalf("expected id=11, got %d", id)
	}
}

func TestTaskRepository_Create_EmptyDescriptionIsNull(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(insertTaskSQL)).
		WithArgs("Walk dog", nil, "new", 3).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if _, err := repo.Create(context.Background(), models.Task{
		Title:  "Walk dog",
		Status: models.StatusNew,
		UserID: 3,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskRepository_GetByID(t *testing.T) {
	tests := []struct {
		name       string
		id         int
		mockExpect func(sqlmock.Sqlmock)
		wantTask   *models.Task
		wantErr    bool
	}{
		{
			name: "found",
			id:   11,
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
					WithArgs(11).
					WillReturnRows(taskRows(models.Task{ID: 11, Title: "Buy milk", Description: "2 liters", Status: models.StatusNew, UserID: 5}))
			},
			wantTask: &models.Task{ID: 11, Title: "Buy milk", Description: "2 liters", Status: models.StatusNew, UserID: 5},
		},
		{
			name: "not found (ErrNoRows)",
			id:   99,
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
					WithArgs(99).
					WillReturnError(sql.ErrNoRows)
			},
			wantTask: nil,
		},
		{
			name: "query error",
			id:   12,
			mockExpect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta(selectTaskByIDSQL)).
					WithArgs(12).
					WillReturnError(errors.New("db query failed"))
			},
			wantTask: nil,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		tt := tt // capture
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockTaskRepo(t)
			defer cleanup()

			tt.mockExpect(mock)

			got, err := repo.GetByID(context.Background(), tt.id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantTask == nil {
				if got != nil {
					t.Fatalf("expected nil task, got %+v", got)
				}
				return
			}
			if got == nil || *got != *tt.wantTask {
				t.Fatalf("unexpected task: want %+v, got %+v", tt.wantTask, got)
			}
		})
	}
}

func TestTaskRepository_Update(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(updateTaskSQL)).
		WithArgs("New title", "new desc", "completed", 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), models.Task{
		ID:          11,
		Title:       "New title",
		Description: "new desc",
		Status:      models.StatusCompleted,
		UserID:      5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTaskRepository_Delete(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectExec(regexp.QuoteMeta(deleteTaskSQL)).
		WithArgs(11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Delete(context.Background(), 11); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// The exact SQL shape matters here: the owner predicate must always be
// present, the sort column must come from the fixed table, and pagination is
// always last.
func TestTaskRepository_ListByOwner_QueryShapes(t *testing.T) {
	inProgress := models.StatusInProgress

	tests := []struct {
		name     string
		filter   TaskFilter
		wantSQL  string
		wantArgs []driver.Value
	}{
		{
			name:     "defaults: owner predicate only",
			filter:   TaskFilter{Limit: 10, Offset: 0},
			wantSQL:  `SELECT id, title, description, status, user_id FROM tasks WHERE user_id = ? LIMIT ? OFFSET ?`,
			wantArgs: []driver.Value{5, 10, 0},
		},
		{
			name:     "status filter narrows",
			filter:   TaskFilter{Status: &inProgress, Limit: 10},
			wantSQL:  `SELECT id, title, description, status, user_id FROM tasks WHERE user_id = ? AND status = ? LIMIT ? OFFSET ?`,
			wantArgs: []driver.Value{5, "in-progress", 10, 0},
		},
		{
			name:     "sorted ascending",
			filter:   TaskFilter{SortBy: "title", Limit: 10},
			wantSQL:  `SELECT id, title, description, status, user_id FROM tasks WHERE user_id = ? ORDER BY title LIMIT ? OFFSET ?`,
			wantArgs: []driver.Value{5, 10, 0},
		},
		{
			name:     "sorted descending",
			filter:   TaskFilter{SortBy: "id", SortDesc: true, Limit: 25, Offset: 50},
			wantSQL:  `SELECT id, title, description, status, user_id FROM tasks WHERE user_id = ? ORDER BY id DESC LIMIT ? OFFSET ?`,
			wantArgs: []driver.Value{5, 25, 50},
		},
		{
			name:     "unknown sort key keeps insertion order",
			filter:   TaskFilter{SortBy: "password_hash", Limit: 10},
			wantSQL:  `SELECT id, title, description, status, user_id FROM tasks WHERE user_id = ? LIMIT ? OFFSET ?`,
			wantArgs: []driver.Value{5, 10, 0},
		},
	}

	for _, tt := range tests {
		tt := tt // capture
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, cleanup := newMockTaskRepo(t)
			defer cleanup()

			mock.ExpectQuery(regexp.QuoteMeta(tt.wantSQL)).
				WithArgs(tt.wantArgs...).
				WillReturnRows(taskRows(models.Task{ID: 1, Title: "t1", Status: models.StatusNew, UserID: 5}))

			got, err := repo.ListByOwner(context.Background(), 5, tt.filter)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != 1 || got[0].UserID != 5 {
				t.Fatalf("unexpected result: %+v", got)
			}
		})
	}
}

func TestTaskRepository_ListByOwner_EmptyPage(t *testing.T) {
	repo, mock, cleanup := newMockTaskRepo(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, description, status, user_id FROM tasks WHERE user_id = ? LIMIT ? OFFSET ?`)).
		WithArgs(5, 10, 1000).
		WillReturnRows(taskRows())

	got, err := repo.ListByOwner(context.Background(), 5, TaskFilter{Limit: 10, Offset: 1000})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty page, got %+v", got)
	}
}
