package handler

import (
	"errors"
	"net/http"
	"time"

	"session-proxy/internal/auth/backend"
	"session-proxy/internal/logger"

	"github.com/gin-gonic/gin"
)

// VerifyEmail forwards a verification token to the backend. On success
// an authenticated caller's snapshot is opportunistically marked
// verified. That update is best-effort convenience only — the token is
// not re-checked against the session's own user, and RefreshUser
// remains the canonical sync path.
func (h *Handler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Verification token is required"})
		return
	}

	message, err := h.backend.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		var se *backend.StatusError
		if errors.As(err, &se) {
			c.JSON(se.Status, gin.H{"error": orDefault(se.Message, "Email verification failed")})
			return
		}
		logger.Error("verify backend call failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during email verification"})
		return
	}

	h.markSessionVerified(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": orDefault(message, "Email verified successfully"),
	})
}

func (h *Handler) markSessionVerified(c *gin.Context) {
	sessionID := h.sessionIDFromCookie(c)
	if sessionID == "" {
		return
	}

	h.locks.Lock(sessionID)
	defer h.locks.Unlock(sessionID)

	rec, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil || !rec.Authenticated() {
		return
	}
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return
	}

	rec.User.EmailValidated = true
	if err := h.store.Put(c.Request.Context(), sessionID, rec, ttl); err != nil {
		logger.Warn("session update failed after verification", map[string]any{
			"error": err.Error(),
		})
	}
}

type resendRequest struct {
	Email string `json:"email"`
}

// ResendVerification asks the backend to send a fresh verification
// email. No local state is involved, so repeated calls are harmless.
func (h *Handler) ResendVerification(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	message, err := h.backend.ResendVerification(c.Request.Context(), req.Email)
	if err != nil {
		var se *backend.StatusError
		if errors.As(err, &se) {
			c.JSON(se.Status, gin.H{"error": orDefault(se.Message, "Failed to resend verification email")})
			return
		}
		logger.Error("resend backend call failed", map[string]any{
			"email": req.Email,
			"error": err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during resend verification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": orDefault(message, "Verification email sent successfully"),
	})
}
