package handlers

import (
	"net/http"
	"strings"

	"task_tracker/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	currentUserKey  = "currentUser"
	requestIDHeader = "X-Request-ID"

	// Single detail for every authentication failure: missing/invalid
	// header, bad signature, expired token, unknown subject. Callers must
	// not be able to tell these apart.
	errCouldNotValidate = "Could not validate credentials"
)

// requestIDMiddleware tags each request with an id for log correlation.
func (h *Handler) requestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("requestID", id)
	c.Header(requestIDHeader, id)
	c.Next()
}

// authMiddleware resolves the bearer token to a user and stores it in the
// request context. Every protected route runs behind it.
func (h *Handler) authMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		h.abortUnauthenticated(c)
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		h.abortUnauthenticated(c)
		return
	}

	user, err := h.services.Authenticate(c.Request.Context(), parts[1])
	if err != nil {
		if h.log != nil {
			h.log.Infow("auth_token_rejected", "request_id", c.GetString("requestID"), "err", err)
		}
		h.abortUnauthenticated(c)
		return
	}

	c.Set(currentUserKey, user)
	c.Next()
}

func (h *Handler) abortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": errCouldNotValidate})
}

// currentUser returns the user stored by authMiddleware.
func currentUser(c *gin.Context) models.User {
	u, _ := c.Get(currentUserKey)
	user, _ := u.(models.User)
	return user
}
