package handlers

import (
	"errors"
	"net/http"

	"task_tracker/internal/models"
	"task_tracker/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errUsernameRegistered = "Username already registered"
	errIncorrectLogin     = "Incorrect username or password"

	tokenTypeBearer = "bearer"
)

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 JSON on failure.
// Returns false if the request was already handled (aborted), true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "request_id", c.GetString("requestID"), "err", err)
		}
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return false
	}
	return true
}

// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "User payload"
// @Success      201   {object}  models.User
// @Failure      400   {object}  map[string]string
// @Router       /register/ [post]
func (h *Handler) register(c *gin.Context) {
	var input models.RegisterRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	user, err := h.services.Register(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": errUsernameRegistered})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to register user", "register_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// @Summary      Obtain an access token
// @Description  OAuth2 password flow: form-encoded username and password.
// @Tags         auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  models.TokenResponse
// @Failure      401  {object}  map[string]string
// @Router       /token [post]
func (h *Handler) login(c *gin.Context) {
	var input models.LoginRequest
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	token, err := h.services.Login(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			if h.log != nil {
				h.log.Infow("login_rejected", "request_id", c.GetString("requestID"), "username", input.Username)
			}
			c.Header("WWW-Authenticate", "Bearer")
			c.JSON(http.StatusUnauthorized, gin.H{"detail": errIncorrectLogin})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, "failed to log in", "login_failed", err, "username", input.Username)
		return
	}

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   tokenTypeBearer,
	})
}
