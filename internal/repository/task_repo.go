package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"task_tracker/internal/models"
)

type TaskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

var _ Tasks = (*TaskRepository)(nil)

const (
	insertTaskSQL = `INSERT INTO tasks (title, description, status, user_id) VALUES (?, ?, ?, ?)`

	selectTaskByIDSQL = `SELECT id, title, description, status, user_id FROM tasks WHERE id = ?`

	updateTaskSQL = `UPDATE tasks SET title = ?, description = ?, status = ? WHERE id = ?`

	deleteTaskSQL = `DELETE FROM tasks WHERE id = ?`
)

// sortColumns is the fixed mapping from symbolic sort keys to real columns.
// Anything outside it is not sortable and keeps insertion order.
var sortColumns = map[string]string{
	"id":     "id",
	"title":  "title",
	"status": "status",
}

// Create inserts a new task and returns its ID.
func (r *TaskRepository) Create(ctx context.Context, t models.Task) (int, error) {
	res, err := r.db.ExecContext(ctx, insertTaskSQL, t.Title, nullableText(t.Description), string(t.Status), t.UserID)
	if err != nil {
		return 0, fmt.Errorf("insert task %q: %w", t.Title, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for task %q: %w", t.Title, err)
	}
	return int(lastID), nil
}

// GetByID fetches a task by ID. Returns (nil, nil) if not found.
func (r *TaskRepository) GetByID(ctx context.Context, id int) (*models.Task, error) {
	t, err := scanTask(r.db.QueryRowContext(ctx, selectTaskByIDSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select task %d: %w", id, err)
	}
	return t, nil
}

// Update persists title, description and status of an existing task. The
// owner column is never touched.
func (r *TaskRepository) Update(ctx context.Context, t models.Task) error {
	if _, err := r.db.ExecContext(ctx, updateTaskSQL, t.Title, nullableText(t.Description), string(t.Status), t.ID); err != nil {
		return fmt.Errorf("update task %d: %w", t.ID, err)
	}
	return nil
}

// Delete removes a task by ID.
func (r *TaskRepository) Delete(ctx context.Context, id int) error {
	if _, err := r.db.ExecContext(ctx, deleteTaskSQL, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

// ListByOwner returns the owner's tasks narrowed by the filter. The owner
// predicate is always present, so no combination of parameters can reach
// another user's rows.
func (r *TaskRepository) ListByOwner(ctx context.Context, ownerID int, f TaskFilter) ([]models.Task, error) {
	conds := []string{"user_id = ?"}
	args := []any{ownerID}

	if f.Status != nil {
		conds = append(conds, "status = ?")
		args = append(args, string(*f.Status))
	}

	q := `SELECT id, title, description, status, user_id FROM tasks WHERE ` + strings.Join(conds, " AND ")

	if col, ok := sortColumns[f.SortBy]; ok {
		q += " ORDER BY " + col
		if f.SortDesc {
			q += " DESC"
		}
	}

	q += " LIMIT ? OFFSET ?"
	args = append(args, f.Limit, f.Offset)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks for user %d: %w", ownerID, err)
	}
	defer rows.Close()

	out := make([]models.Task, 0, f.Limit)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task row: %w", err)
		}
		out = append(out, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate task rows: %w", err)
	}
	return out, nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner) (*models.Task, error) {
	var (
		t    models.Task
		desc sql.NullString
	)
	if err := s.Scan(&t.ID, &t.Title, &desc, &t.Status, &t.UserID); err != nil {
		return nil, err
	}
	t.Description = desc.String
	return &t, nil
}
