package handler

import (
	"fmt"
	"net/http"
	"time"

	"session-proxy/internal/middleware"

	"github.com/gin-gonic/gin"
)

const (
	verifiedMessage   = "✅ Your email is verified! You have full access to the portal."
	unverifiedMessage = "⚠️ Please verify your email to access all features. Check your inbox for the verification email."
)

// Dashboard is a pure projection of the cached snapshot. It derives no
// new truth and never calls the backend.
func (h *Handler) Dashboard(c *gin.Context) {
	_, rec, ok := middleware.SessionFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	user := rec.User

	message := unverifiedMessage
	if user.EmailValidated {
		message = verifiedMessage
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
		"emailStatus": gin.H{
			"isValidated":       user.EmailValidated,
			"message":           message,
			"needsVerification": !user.EmailValidated,
		},
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"welcomeMessage": fmt.Sprintf("Welcome back, %s!", user.Email),
	})
}
