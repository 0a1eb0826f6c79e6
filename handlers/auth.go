package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/docugrade/docugrade/internal/users"
	"github.com/docugrade/docugrade/pkg/logger"
	"github.com/docugrade/docugrade/pkg/metrics"
)

// credentialsRequest is the body for both register and login.
type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler exposes registration and login.
type AuthHandler struct {
	usersSvc *users.Service
}

func NewAuthHandler(u *users.Service) *AuthHandler {
	return &AuthHandler{usersSvc: u}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/register", h.RegisterUser)
	a.POST("/login", h.Login)
}

// RegisterUser creates an account and returns it without the password hash.
// A duplicate email is a client error; the message is identical whether the
// duplicate was caught by the pre-check or by the storage constraint.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrDuplicateEmail) {
			metrics.AuthAttempts.WithLabelValues("register", "duplicate").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
			return
		}
		logger.Errorf("registration failed: %v", err)
		metrics.AuthAttempts.WithLabelValues("register", "error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration failed: " + err.Error()})
		return
	}
	metrics.AuthAttempts.WithLabelValues("register", "ok").Inc()
	c.JSON(http.StatusOK, u)
}

// Login exchanges credentials for a bearer token. Unknown email and wrong
// password share one message by design.
func (h *AuthHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tok, err := h.usersSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			metrics.AuthAttempts.WithLabelValues("login", "denied").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect email or password"})
			return
		}
		logger.Errorf("login failed: %v", err)
		metrics.AuthAttempts.WithLabelValues("login", "error").Inc()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Login failed"})
		return
	}
	metrics.AuthAttempts.WithLabelValues("login", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"access_token": tok, "token_type": "bearer"})
}
