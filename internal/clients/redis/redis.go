package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/thesurvey/api/internal/platform/logger"
	"github.com/thesurvey/api/internal/utils"
)

// NewClient connects to the redis instance backing the distributed lock
// service and verifies the connection with a ping.
func NewClient(log *logger.Logger) (*goredis.Client, error) {
	addr := utils.GetEnv("REDIS_ADDR", "localhost:6379", log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info("Connected to redis", "addr", addr)
	return rdb, nil
}
