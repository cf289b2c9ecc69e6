package database

import (
	"fmt"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/portfolio/internal/config"
)

// NewRedis returns nil without error when no address is configured; callers
// fall back to in-process caching.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	if cfg.Addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Pass,
		DB:       cfg.DB,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}
