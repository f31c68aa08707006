package middleware

import (
	"net/http"
	"time"

	"session-proxy/internal/session"

	"github.com/gin-gonic/gin"
)

const (
	contextSessionIDKey = "session.id"
	contextRecordKey    = "session.record"
)

// SessionFromContext returns the authenticated session record attached
// by RequireAuth.
func SessionFromContext(c *gin.Context) (string, *session.Record, bool) {
	id, ok := c.Get(contextSessionIDKey)
	if !ok {
		return "", nil, false
	}
	rec, ok := c.Get(contextRecordKey)
	if !ok {
		return "", nil, false
	}
	record, ok := rec.(*session.Record)
	if !ok {
		return "", nil, false
	}
	return id.(string), record, true
}

type AuthMiddleware struct {
	Store session.Store
}

func NewAuthMiddleware(store session.Store) *AuthMiddleware {
	return &AuthMiddleware{Store: store}
}

// RequireAuth rejects requests without an authenticated, non-expired
// session. Auth decisions are session-based only; the backend is never
// consulted here.
func (a *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Request.Cookie(session.CookieName)
		if err != nil || cookie.Value == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		sessionID := cookie.Value

		rec, err := a.Store.Get(c.Request.Context(), sessionID)
		if err != nil || rec == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		// enforce expiry even if the store has not reaped the record yet
		if time.Now().After(rec.ExpiresAt) {
			_ = a.Store.Delete(c.Request.Context(), sessionID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		if rec.User == nil {
			// anonymous record, authorizes nothing
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		c.Set(contextSessionIDKey, sessionID)
		c.Set(contextRecordKey, rec)
		c.Next()
	}
}
