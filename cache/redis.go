package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fitclub-backend/config"
)

var client *redis.Client

func Init() error {
	client = redis.NewClient(&redis.Options{
		Addr:     config.Cfg.RedisAddr,
		Password: config.Cfg.RedisPassword,
		DB:       config.Cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

func Close() {
	if client != nil {
		_ = client.Close()
	}
}

func key(parts ...string) string {
	return config.Cfg.RedisPrefix + ":" + strings.Join(parts, ":")
}
