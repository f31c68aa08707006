package handler

import (
	"errors"
	"net/http"
	"time"

	"session-proxy/internal/auth/backend"
	"session-proxy/internal/logger"
	"session-proxy/internal/middleware"
	"session-proxy/internal/session"

	"github.com/gin-gonic/gin"
)

// RefreshUser re-reads the caller's user from the backend and replaces
// the cached snapshot wholesale. This is the canonical path by which
// backend-side changes (an email verified from another browser) reach
// the session.
//
// A backend 404 means the user is gone at the source of truth. That is
// reported as a forced-logout signal but the record is left alone: the
// proxy detects, the caller destroys. Any other backend failure leaves
// the snapshot untouched so a transient outage never logs anyone out.
func (h *Handler) RefreshUser(c *gin.Context) {
	sessionID, rec, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	result, err := h.backend.LookupUser(c.Request.Context(), rec.User.ID)
	if err != nil {
		var se *backend.StatusError
		if errors.As(err, &se) && se.Status == http.StatusNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error":        "User no longer exists in database",
				"shouldLogout": true,
			})
			return
		}
		logger.Error("refresh backend call failed", map[string]any{
			"user_id": rec.User.ID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error during refresh"})
		return
	}

	if !result.LoginSuccess {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to refresh user data"})
		return
	}

	user := &session.User{
		ID:             result.ID,
		Email:          result.Email,
		EmailValidated: result.EmailValidated,
	}

	h.locks.Lock(sessionID)
	defer h.locks.Unlock(sessionID)

	// the session may have been logged out while we waited on the
	// backend; a destroyed session must not be resurrected
	current, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session save failed"})
		return
	}
	ttl := time.Duration(0)
	if current != nil {
		ttl = time.Until(current.ExpiresAt)
	}
	if !current.Authenticated() || ttl <= 0 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	current.User = user
	if err := h.store.Put(c.Request.Context(), sessionID, current, ttl); err != nil {
		logger.Error("session save failed during refresh", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session save failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"message": "User data refreshed successfully",
	})
}
