package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a protected endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.Use(h.requestIDMiddleware)
	r.GET("/secure", h.authMiddleware, func(c *gin.Context) {
		u := currentUser(c)
		c.JSON(http.StatusOK, gin.H{"ok": true, "userId": u.ID})
	})
	return r
}

func TestAuthMiddleware_FailuresAreUniform(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		authErr error
	}{
		{name: "missing header", header: ""},
		{name: "invalid scheme", header: "Token abc"},
		{name: "bearer without token", header: "Bearer"},
		{name: "rejected token", header: "Bearer expired", authErr: service.ErrInvalidCredentials},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{authErr: tc.authErr}
			s := &service.Service{Authorization: auth}
			r := newMiddlewareOnlyRouter(s)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, http.StatusUnauthorized, w.Body.String())
			}
			if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
				t.Fatalf("WWW-Authenticate: got %q, want %q", got, "Bearer")
			}

			var out struct {
				Detail string `json:"detail"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			// Every failure mode must produce the same detail so callers
			// cannot probe which case occurred.
			if out.Detail != errCouldNotValidate {
				t.Fatalf("detail: got %q, want %q", out.Detail, errCouldNotValidate)
			}
		})
	}
}

func TestAuthMiddleware_SuccessStoresUserAndProceeds(t *testing.T) {
	auth := &mockAuth{authUser: models.User{ID: 123, Username: "alice"}}
	s := &service.Service{Authorization: auth}
	r := newMiddlewareOnlyRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want %d; body=%s", w.Code, http.StatusOK, w.Body.String())
	}

	var resp struct {
		OK     bool `json:"ok"`
		UserID int  `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.OK || resp.UserID != 123 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if auth.lastAuthToken != "good-token" {
		t.Fatalf("Authenticate got %q, want %q", auth.lastAuthToken, "good-token")
	}
}

func TestRequestIDMiddleware_SetsHeader(t *testing.T) {
	auth := &mockAuth{authUser: models.User{ID: 1}}
	s := &service.Service{Authorization: auth}
	r := newMiddlewareOnlyRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer t")
	r.ServeHTTP(w, req)

	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func TestRequestIDMiddleware_KeepsClientProvidedID(t *testing.T) {
	auth := &mockAuth{authUser: models.User{ID: 1}}
	s := &service.Service{Authorization: auth}
	r := newMiddlewareOnlyRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer t")
	req.Header.Set("X-Request-ID", "client-id-1")
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "client-id-1" {
		t.Fatalf("X-Request-ID: got %q, want %q", got, "client-id-1")
	}
}
