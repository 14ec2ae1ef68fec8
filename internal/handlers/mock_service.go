package handlers

import (
	"context"
	"net/http"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser models.User
	registerErr  error
	loginToken   string
	loginErr     error
	authUser     models.User
	authErr      error

	lastRegister  models.RegisterRequest
	lastLoginUser string
	lastLoginPass string
	lastAuthToken string
}

func (m *mockAuth) Register(_ context.Context, in models.RegisterRequest) (models.User, error) {
	m.lastRegister = in
	return m.registerUser, m.registerErr
}

func (m *mockAuth) Login(_ context.Context, username, password string) (string, error) {
	m.lastLoginUser = username
	m.lastLoginPass = password
	return m.loginToken, m.loginErr
}

func (m *mockAuth) Authenticate(_ context.Context, accessToken string) (models.User, error) {
	m.lastAuthToken = accessToken
	return m.authUser, m.authErr
}

type mockTasks struct {
	createTask  models.Task
	createErr   error
	getTask     models.Task
	getErr      error
	updateTask  models.Task
	updateErr   error
	deleteErr   error
	completeRes models.Task
	completeErr error
	listRes     []models.Task
	listErr     error

	lastCreateOwner int
	lastCreateIn    models.CreateTaskRequest
	lastOwner       int
	lastTaskID      int
	lastUpdateIn    models.UpdateTaskRequest
	lastListQuery   service.ListQuery
}

func (m *mockTasks) Create(_ context.Context, ownerID int, in models.CreateTaskRequest) (models.Task, error) {
	m.lastCreateOwner = ownerID
	m.lastCreateIn = in
	return m.createTask, m.createErr
}

func (m *mockTasks) GetByID(_ context.Context, ownerID, taskID int) (models.Task, error) {
	m.lastOwner = ownerID
	m.lastTaskID = taskID
	return m.getTask, m.getErr
}

func (m *mockTasks) Update(_ context.Context, ownerID, taskID int, in models.UpdateTaskRequest) (models.Task, error) {
	m.lastOwner = ownerID
	m.lastTaskID = taskID
	m.lastUpdateIn = in
	return m.updateTask, m.updateErr
}

func (m *mockTasks) Delete(_ context.Context, ownerID, taskID int) error {
	m.lastOwner = ownerID
	m.lastTaskID = taskID
	return m.deleteErr
}

func (m *mockTasks) Complete(_ context.Context, ownerID, taskID int) (models.Task, error) {
	m.lastOwner = ownerID
	m.lastTaskID = taskID
	return m.completeRes, m.completeErr
}

func (m *mockTasks) List(_ context.Context, ownerID int, q service.ListQuery) ([]models.Task, error) {
	m.lastOwner = ownerID
	m.lastListQuery = q
	return m.listRes, m.listErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
