package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"fitclub-backend/models"
	"fitclub-backend/pkg/logger"
)

// EventPublisher is what the services depend on; the amqp implementation is
// swapped for a no-op when RabbitMQ is not configured, and faked in tests.
type EventPublisher interface {
	PublishGamificationEvent(ctx context.Context, event models.GamificationEvent) error
}

type amqpPublisher struct{}

func NewPublisher() EventPublisher { return amqpPublisher{} }

func (amqpPublisher) PublishGamificationEvent(ctx context.Context, event models.GamificationEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	ch, err := connection().Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx, Exchange, GamificationRoutingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         body,
	})
	if err != nil {
		logger.Logger.Error("failed to publish gamification event",
			zap.String("type", string(event.Type)),
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Logger.Info("published gamification event",
		zap.String("type", string(event.Type)),
		zap.String("user_id", event.UserID),
	)
	return nil
}

// NoopPublisher drops events; used when RabbitMQ is not configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishGamificationEvent(context.Context, models.GamificationEvent) error {
	return nil
}
