// Package handler implements the session proxy surface: every route
// either reads the cookie-keyed session record or forwards a
// credential operation to the identity backend and reconciles the
// record with the backend's answer.
package handler

import (
	"net/http"
	"time"

	"session-proxy/internal/auth/backend"
	"session-proxy/internal/middleware"
	"session-proxy/internal/session"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	backend    backend.Client
	store      session.Store
	locks      *session.Locker
	ttl        time.Duration
	cookieOpts session.CookieOptions
}

func NewHandler(
	client backend.Client,
	store session.Store,
	ttl time.Duration,
	cookieOpts session.CookieOptions,
) *Handler {
	return &Handler{
		backend:    client,
		store:      store,
		locks:      session.NewLocker(),
		ttl:        ttl,
		cookieOpts: cookieOpts,
	}
}

// RegisterRoutes wires the proxy surface. The debug endpoint is only
// registered outside release mode.
func (h *Handler) RegisterRoutes(r *gin.Engine, auth *middleware.AuthMiddleware, debug bool) {
	r.GET("/health", h.Health)

	r.GET("/session", h.GetSession)
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.GET("/verify-email", h.VerifyEmail)
	r.POST("/resend-verification", h.ResendVerification)

	requireAuth := auth.RequireAuth()
	r.POST("/logout", requireAuth, h.Logout)
	r.POST("/refresh-user", requireAuth, h.RefreshUser)
	r.GET("/dashboard", requireAuth, h.Dashboard)

	if debug {
		r.GET("/debug-session", h.DebugSession)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "session-proxy",
	})
}

// GetSession reports whether the caller holds an authenticated
// session. Side-effect-free and never touches the backend, so the
// browser client can poll it cheaply.
func (h *Handler) GetSession(c *gin.Context) {
	rec := h.currentRecord(c)

	if rec.Authenticated() {
		c.JSON(http.StatusOK, gin.H{
			"authenticated": true,
			"user":          rec.User,
			"redirectTo":    "/dashboard",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": false,
		"user":          nil,
		"redirectTo":    "/login",
	})
}

// DebugSession exposes the raw record for troubleshooting.
func (h *Handler) DebugSession(c *gin.Context) {
	sessionID := h.sessionIDFromCookie(c)
	rec := h.currentRecord(c)

	resp := gin.H{
		"sessionID": sessionID,
		"session":   rec,
		"hasUser":   rec.Authenticated(),
		"userID":    nil,
		"userEmail": nil,
	}
	if rec.Authenticated() {
		resp["userID"] = rec.User.ID
		resp["userEmail"] = rec.User.Email
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) sessionIDFromCookie(c *gin.Context) string {
	cookie, err := c.Request.Cookie(session.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// currentRecord loads the caller's record, or nil for anonymous and
// expired sessions.
func (h *Handler) currentRecord(c *gin.Context) *session.Record {
	sessionID := h.sessionIDFromCookie(c)
	if sessionID == "" {
		return nil
	}
	rec, err := h.store.Get(c.Request.Context(), sessionID)
	if err != nil || rec == nil {
		return nil
	}
	if time.Now().After(rec.ExpiresAt) {
		return nil
	}
	return rec
}

// establishSession rotates the session ID, persists a fresh record
// carrying the snapshot and issues the cookie. Login and signup both
// fully replace any prior snapshot.
func (h *Handler) establishSession(c *gin.Context, user *session.User) error {
	// drop whatever record the browser's old cookie pointed at
	if old := h.sessionIDFromCookie(c); old != "" {
		h.locks.Lock(old)
		_ = h.store.Delete(c.Request.Context(), old)
		h.locks.Unlock(old)
	}

	sessionID, err := session.GenerateID()
	if err != nil {
		return err
	}

	now := time.Now()
	rec := &session.Record{
		SessionID: sessionID,
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(h.ttl),
	}

	if err := h.store.Put(c.Request.Context(), sessionID, rec, h.ttl); err != nil {
		return err
	}

	session.SetCookie(c.Writer, sessionID, rec.ExpiresAt, h.cookieOpts)
	return nil
}
