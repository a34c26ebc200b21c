package queue

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"fitclub-backend/pkg/logger"
)

type MessageHandler func([]byte) error

type ConsumeOptions struct {
	Queue         string
	ConsumerTag   string
	PrefetchCount int
	Handler       MessageHandler
}

// Consume blocks draining the queue until the context is cancelled or the
// delivery channel closes. Failed messages are nack'd back onto the queue.
func Consume(ctx context.Context, opts ConsumeOptions) error {
	if connection() == nil {
		return fmt.Errorf("rabbitmq connection is nil")
	}

	ch, err := connection().Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if opts.PrefetchCount > 0 {
		if err := ch.Qos(opts.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	msgs, err := ch.Consume(opts.Queue, opts.ConsumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Logger.Info("started consuming messages",
		zap.String("queue", opts.Queue),
		zap.String("consumer_tag", opts.ConsumerTag),
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := opts.Handler(msg.Body); err != nil {
				logger.Logger.Error("failed to process message",
					zap.String("queue", opts.Queue),
					zap.Error(err),
				)
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
	}
}
