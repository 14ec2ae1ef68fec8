package models

// TaskStatus is the closed set of task lifecycle states.
type TaskStatus string

const (
	StatusNew        TaskStatus = "new"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Task is a unit of work owned by exactly one user. UserID is set once at
// creation and never changes.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      TaskStatus `json:"status"`
	UserID      int        `json:"user_id"`
}

// CreateTaskRequest is the POST /tasks/ payload. Any client-supplied owner
// field is ignored; the owner is always the authenticated caller.
type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required,min=3,max=54"`
	Description string     `json:"description" binding:"omitempty"`
	Status      TaskStatus `json:"status" binding:"omitempty,oneof=new in-progress completed"`
}

// UpdateTaskRequest is the PATCH /tasks/{id} payload. Nil fields are left
// untouched.
type UpdateTaskRequest struct {
	Title       *string     `json:"title" binding:"omitempty,min=3,max=54"`
	Description *string     `json:"description"`
	Status      *TaskStatus `json:"status" binding:"omitempty,oneof=new in-progress completed"`
}
