package handler

import (
	"errors"
	"net/http"

	"session-proxy/internal/auth/backend"
	"session-proxy/internal/logger"
	"session-proxy/internal/session"

	"github.com/gin-gonic/gin"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login forwards credentials to the backend and mints a session on
// success. Input validation happens before any backend call; a 401
// from the backend is preserved, everything else upstream collapses
// to 500.
func (h *Handler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	result, err := h.backend.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var se *backend.StatusError
		if errors.As(err, &se) && se.Status == http.StatusUnauthorized {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		logger.Error("login backend call failed", map[string]any{
			"email": req.Email,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during login"})
		return
	}

	if !result.LoginSuccess {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Login failed"})
		return
	}

	user := &session.User{
		ID:             result.ID,
		Email:          result.Email,
		EmailValidated: result.EmailValidated,
	}

	if err := h.establishSession(c, user); err != nil {
		logger.Error("session save failed during login", map[string]any{
			"email": user.Email,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session save failed"})
		return
	}

	logger.Info("user logged in", map[string]any{"email": user.Email})

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"user":       user,
		"message":    result.Message,
		"redirectTo": "/dashboard",
	})
}
