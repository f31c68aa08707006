package app

import (
	"fmt"

	"session-proxy/internal/config"
	"session-proxy/internal/logger"
	"session-proxy/internal/redis"
	"session-proxy/internal/session"
)

// setupInfra builds the session store backing the proxy. The store is
// the only durable state in the system; everything else is stateless.
func setupInfra(cfg config.Config) (session.Store, func() error, error) {
	switch cfg.SessionStore {
	case "memory":
		logger.Info("using in-memory session store", nil)
		return session.NewMemoryStore(), nil, nil

	case "redis":
		client, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("redis session store ready", map[string]any{
			"addr": cfg.RedisAddr,
		})
		return session.NewRedisStore(client), client.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown session store %q", cfg.SessionStore)
	}
}
