package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"file-manager-api/config"
)

// RedisNotifier publishes lifecycle notifications as plain key -> value
// sets so upstream services can poll a file's terminal state by uuid.
type RedisNotifier struct {
	log    *zap.Logger
	client *redis.Client
}

func New(ctx context.Context, logger *zap.Logger, cfg config.Redis, addr string) (*RedisNotifier, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("redis notifier connected successfully")

	return &RedisNotifier{
		log:    logger,
		client: client,
	}, nil
}

// Publish is best-effort: a failed publish is logged and swallowed, it must
// never block or fail the calling orchestrator.
func (n *RedisNotifier) Publish(ctx context.Context, key, value string) {
	if err := n.client.Set(ctx, key, value, 0).Err(); err != nil {
		n.log.Error("notification publish failed",
			zap.String("key", key),
			zap.String("value", value),
			zap.Error(err),
		)
	}
}

func (n *RedisNotifier) Close() error {
	return n.client.Close()
}
