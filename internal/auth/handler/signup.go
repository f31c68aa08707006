package handler

import (
	"errors"
	"net/http"

	"session-proxy/internal/auth/backend"
	"session-proxy/internal/logger"
	"session-proxy/internal/session"

	"github.com/gin-gonic/gin"
)

// Signup forwards account creation to the backend and logs the new
// user straight in. The backend's signup payload carries no
// emailValidated field, so the snapshot starts unverified.
func (h *Handler) Signup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email and password are required"})
		return
	}

	result, err := h.backend.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var se *backend.StatusError
		if errors.As(err, &se) {
			// backend supplied structured data; pass status and message through
			c.JSON(se.Status, gin.H{"error": orDefault(se.Message, "Signup failed")})
			return
		}
		logger.Error("signup backend call failed", map[string]any{
			"email": req.Email,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during signup"})
		return
	}

	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"error": orDefault(result.Message, "Signup failed")})
		return
	}

	user := &session.User{
		ID:             result.ID,
		Email:          result.Email,
		EmailValidated: result.EmailValidated,
	}

	if err := h.establishSession(c, user); err != nil {
		logger.Error("session save failed during signup", map[string]any{
			"email": user.Email,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session save failed"})
		return
	}

	logger.Info("user signed up", map[string]any{"email": user.Email})

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"user":       user,
		"message":    orDefault(result.Message, "Account created successfully"),
		"redirectTo": "/dashboard",
	})
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
