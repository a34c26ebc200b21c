package queue

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"fitclub-backend/config"
)

const (
	Exchange               = "fitclub.events"
	GamificationQueue      = "fitclub.gamification.events"
	GamificationRoutingKey = "gamification.event"
)

var conn *amqp.Connection

// Init dials RabbitMQ and declares the exchange/queue topology.
func Init() error {
	var err error
	conn, err = amqp.Dial(config.Cfg.RabbitMQURL())
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if err := ch.ExchangeDeclare(Exchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	q, err := ch.QueueDeclare(GamificationQueue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, GamificationRoutingKey, Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	return nil
}

func Close() {
	if conn != nil {
		_ = conn.Close()
	}
}

func connection() *amqp.Connection { return conn }
