package app

import (
	"context"
	"net/http"

	"session-proxy/internal/auth/backend"
	"session-proxy/internal/auth/handler"
	"session-proxy/internal/config"
	"session-proxy/internal/middleware"
	"session-proxy/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func setupHTTP(_ context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	store, cleanup, err := setupInfra(cfg)
	if err != nil {
		return nil, nil, err
	}

	gin.SetMode(cfg.GinMode)

	backendClient := backend.NewHTTPClient(cfg.BackendURL, cfg.BackendTimeout)

	router := BuildRouter(cfg, store, backendClient)

	return router, cleanup, nil
}

// BuildRouter assembles the full middleware chain and route surface
// around the given store and backend client. Split out from setupHTTP
// so tests can run the real router against stub dependencies.
func BuildRouter(cfg config.Config, store session.Store, backendClient backend.Client) *gin.Engine {

	cookieOpts := session.CookieOptions{
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteLaxMode,
	}

	authHandler := handler.NewHandler(backendClient, store, cfg.SessionTTL, cookieOpts)
	authMiddleware := middleware.NewAuthMiddleware(store)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecureHeaders())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.FrontendURL}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	authHandler.RegisterRoutes(router, authMiddleware, cfg.GinMode != gin.ReleaseMode)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	return router
}
