package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/tastebook/v1/internal/infrastructure/config"
)

// ErrNotFound is returned when no session exists for the given ID
var ErrNotFound = errors.New("session not found")

// Store persists sessions keyed by ID
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// NewStore builds the session store named by the configuration
func NewStore(cfg *config.Config, log *zap.Logger) (Store, error) {
	switch cfg.Session.Backend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.RedisAddr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.Database,
			MaxRetries:   cfg.Redis.MaxRetries,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
		})
		log.Info("Using Redis session store", zap.String("addr", cfg.RedisAddr()))
		return NewRedisStore(client, cfg.Session.TTL), nil
	case "memory":
		log.Info("Using in-memory session store")
		return NewMemoryStore(cfg.Session.TTL), nil
	default:
		return nil, errors.New("unknown session backend: " + cfg.Session.Backend)
	}
}
