package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

var Cfg Config

type Config struct {
	// Server
	ServerPort  string `env:"SERVER_PORT" envDefault:"5300"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"` // development, staging, production
	ServiceName string `env:"SERVICE_NAME" envDefault:"fitclub-backend"`

	// PostgreSQL
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"postgres"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	PostgresDatabase string `env:"POSTGRES_DATABASE" envDefault:"fitclub"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Redis: leave REDIS_ADDR empty to run without Redis (single-instance dev)
	RedisAddr     string `env:"REDIS_ADDR" envDefault:""`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"fitclub"`

	// RabbitMQ: leave RABBITMQ_ADDR empty to disable event publishing
	RabbitMQAddr     string `env:"RABBITMQ_ADDR" envDefault:""`
	RabbitMQPort     string `env:"RABBITMQ_PORT" envDefault:"5672"`
	RabbitMQUsername string `env:"RABBITMQ_USERNAME" envDefault:"guest"`
	RabbitMQPassword string `env:"RABBITMQ_PASSWORD" envDefault:"guest"`
	RabbitMQVhost    string `env:"RABBITMQ_VHOST" envDefault:"/"`

	// R2/S3 object storage for achievement icons
	CloudflareAccountID string `env:"CLOUDFLARE_ACCOUNT_ID"`
	R2AccessKeyID       string `env:"R2_ACCESS_KEY_ID"`
	R2AccessKeySecret   string `env:"R2_ACCESS_KEY_SECRET"`
	R2BucketName        string `env:"R2_BUCKET_NAME"`
	CDNBaseURL          string `env:"CDN_BASE_URL"`

	// Background sweeps
	StreakSweepMinutes        int `env:"STREAK_SWEEP_MINUTES" envDefault:"60"`
	NotificationSweepHours    int `env:"NOTIFICATION_SWEEP_HOURS" envDefault:"24"`
	NotificationRetentionDays int `env:"NOTIFICATION_RETENTION_DAYS" envDefault:"30"`

	// Logging
	LoggerLevel string `env:"LOGGER_LEVEL" envDefault:"info"`
	LoggerFile  string `env:"LOGGER_FILE" envDefault:""`

	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000"`
}

func Load() error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading environment variables directly")
	}
	if err := env.Parse(&Cfg); err != nil {
		return fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return nil
}

func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.PostgresHost, c.PostgresPort, c.PostgresUser, c.PostgresPassword,
		c.PostgresDatabase, c.PostgresSSLMode)
}

func (c Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s%s",
		c.RabbitMQUsername, c.RabbitMQPassword, c.RabbitMQAddr, c.RabbitMQPort, c.RabbitMQVhost)
}

func (c Config) RedisEnabled() bool    { return c.RedisAddr != "" }
func (c Config) RabbitMQEnabled() bool { return c.RabbitMQAddr != "" }
func (c Config) R2Enabled() bool       { return c.R2BucketName != "" }
