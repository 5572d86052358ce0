package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/imirazimi/shortlink/config"
	"github.com/redis/go-redis/v9"
)

const defaultDialTimeout = 30 * time.Second

// NewClient builds a redis client using app config and verifies connectivity via PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	host := cfg.Host
	if host == "" {
		host = "localhost"
	}

	port := cfg.Port
	if port == 0 {
		port = 6379
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, defaultDialTimeout)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}

	return rdb, nil
}
