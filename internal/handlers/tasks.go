package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// Common detail strings to avoid typos between handlers and tests.
const (
	statusOK = "ok"

	errTaskNotFound   = "Task not found."
	errNoTasksFound   = "No tasks found."
	errNotOwnerAccess = "Not authorized to access this task."
	errNotOwnerUpdate = "Not authorized to update this task."
	errNotOwnerDelete = "Not authorized to delete this task."
	errInvalidTaskID  = "Invalid task id."
	errInvalidOffset  = "Query param 'offset' must be a non-negative integer."
	errInvalidLimit   = "Query param 'limit' must be a positive integer."
	errInvalidStatus  = "Query param 'status_filter' must be one of: new, in-progress, completed."
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err, "request_id", c.GetString("requestID")}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"detail": userMsg})
}

// taskError maps task domain errors to HTTP responses. The not-found check
// always wins over the ownership check, so a caller probing foreign ids only
// learns about tasks that actually exist.
func (h *Handler) taskError(c *gin.Context, err error, forbiddenDetail string) {
	switch {
	case errors.Is(err, service.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": errTaskNotFound})
	case errors.Is(err, service.ErrTaskForbidden):
		c.JSON(http.StatusForbidden, gin.H{"detail": forbiddenDetail})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, "internal error", "task_op_failed", err)
	}
}

// taskIDParam parses the :id path segment. Returns false if the request was
// already answered.
func (h *Handler) taskIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": errInvalidTaskID})
		return 0, false
	}
	return id, true
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        body  body      models.CreateTaskRequest  true  "Task payload"
// @Success      201   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /tasks/ [post]
// @Security     BearerAuth
func (h *Handler) createTask(c *gin.Context) {
	var input models.CreateTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user := currentUser(c)
	task, err := h.services.Tasks.Create(c.Request.Context(), user.ID, input)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to create task", "task_create_failed", err, "user_id", user.ID)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// @Summary      List own tasks
// @Tags         tasks
// @Produce      json
// @Param        offset         query  int     false  "Rows to skip (default 0)"
// @Param        limit          query  int     false  "Page size, 1-100 (default 10)"
// @Param        sort_by        query  string  false  "Sort field"  Enums(id,title,status)
// @Param        sort_order     query  string  false  "Sort direction"  Enums(asc,desc)
// @Param        status_filter  query  string  false  "Status filter"  Enums(new,in-progress,completed)
// @Success      200  {array}   models.Task
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/ [get]
// @Security     BearerAuth
func (h *Handler) listTasks(c *gin.Context) {
	q, ok := h.parseListQuery(c)
	if !ok {
		return
	}

	user := currentUser(c)
	tasks, err := h.services.Tasks.List(c.Request.Context(), user.ID, q)
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to list tasks", "task_list_failed", err, "user_id", user.ID)
		return
	}
	if len(tasks) == 0 {
		// Empty page is reported as a missing resource rather than [].
		c.JSON(http.StatusNotFound, gin.H{"detail": errNoTasksFound})
		return
	}

	c.JSON(http.StatusOK, tasks)
}

// @Summary      Get a task
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [get]
// @Security     BearerAuth
func (h *Handler) getTask(c *gin.Context) {
	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	user := currentUser(c)
	task, err := h.services.Tasks.GetByID(c.Request.Context(), user.ID, id)
	if err != nil {
		h.taskError(c, err, errNotOwnerAccess)
		return
	}

	c.JSON(http.StatusOK, task)
}

// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "Task ID"
// @Param        body  body      models.UpdateTaskRequest  true  "Fields to change"
// @Success      200   {object}  models.Task
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /tasks/{id} [patch]
// @Security     BearerAuth
func (h *Handler) updateTask(c *gin.Context) {
	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	var input models.UpdateTaskRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user := currentUser(c)
	task, err := h.services.Tasks.Update(c.Request.Context(), user.ID, id, input)
	if err != nil {
		h.taskError(c, err, errNotOwnerUpdate)
		return
	}

	c.JSON(http.StatusOK, task)
}

// @Summary      Delete a task
// @Tags         tasks
// @Param        id  path  int  true  "Task ID"
// @Success      204
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteTask(c *gin.Context) {
	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	user := currentUser(c)
	if err := h.services.Tasks.Delete(c.Request.Context(), user.ID, id); err != nil {
		h.taskError(c, err, errNotOwnerDelete)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary      Complete a task
// @Description  Sets status to completed regardless of prior state; repeating the call is a no-op.
// @Tags         tasks
// @Produce      json
// @Param        id   path      int  true  "Task ID"
// @Success      200  {object}  models.Task
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /tasks/{id}/complete [put]
// @Security     BearerAuth
func (h *Handler) completeTask(c *gin.Context) {
	id, ok := h.taskIDParam(c)
	if !ok {
		return
	}

	user := currentUser(c)
	task, err := h.services.Tasks.Complete(c.Request.Context(), user.ID, id)
	if err != nil {
		h.taskError(c, err, errNotOwnerUpdate)
		return
	}

	c.JSON(http.StatusOK, task)
}

// parseListQuery validates the list query params. Out-of-range offset/limit
// and unknown status values are client errors; an unknown sort_by is not —
// it is silently ignored downstream.
func (h *Handler) parseListQuery(c *gin.Context) (service.ListQuery, bool) {
	var q service.ListQuery

	if qs := c.Query("offset"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": errInvalidOffset})
			return q, false
		}
		q.Offset = n
	}

	if qs := c.Query("limit"); qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": errInvalidLimit})
			return q, false
		}
		q.Limit = n
	}

	if qs := c.Query("status_filter"); qs != "" {
		status := models.TaskStatus(qs)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"detail": errInvalidStatus})
			return q, false
		}
		q.Status = &status
	}

	// sort_by outside the allow-list and sort_order other than "desc" are
	// not errors; the service treats them as unsorted/ascending.
	q.SortBy = c.Query("sort_by")
	q.SortOrder = strings.ToLower(c.Query("sort_order"))

	return q, true
}
