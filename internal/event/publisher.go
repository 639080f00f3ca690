package event

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Publisher interface {
	PublishQuizEvent(ctx context.Context, event *QuizEvent) error
	Close() error
}

// amqpChannel is the part of *amqp091.Channel the publisher uses.
type amqpChannel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

type EventPublisher struct {
	conn         *amqp091.Connection
	channel      amqpChannel
	exchangeName string
	enabled      bool
	logger       *zap.Logger
}

// NewEventPublisher connects to RabbitMQ and declares the topic exchange. An
// empty URI yields a disabled publisher that drops every event.
func NewEventPublisher(rabbitURI, exchangeName string, logger *zap.Logger) (*EventPublisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if rabbitURI == "" {
		logger.Warn("RabbitMQ URI is empty, event publishing is disabled")
		return &EventPublisher{enabled: false, logger: logger}, nil
	}

	conn, err := amqp091.Dial(rabbitURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchangeName, // name
		"topic",      // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &EventPublisher{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		enabled:      true,
		logger:       logger,
	}, nil
}

func (p *EventPublisher) PublishQuizEvent(ctx context.Context, event *QuizEvent) error {
	if !p.enabled {
		p.logger.Debug("event publishing is disabled, skipping event", zap.String("routing_key", event.EventType))
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = p.channel.PublishWithContext(
		pubCtx,
		p.exchangeName,  // exchange
		event.EventType, // routing key
		false,           // mandatory
		false,           // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.EventID,
			Timestamp:    event.Timestamp,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published event", zap.String("routing_key", event.EventType), zap.String("event_id", event.EventID))
	return nil
}

func (p *EventPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	if p.channel != nil {
		if err := p.channel.Close(); err != nil {
			p.logger.Warn("error closing RabbitMQ channel", zap.Error(err))
		}
	}

	if p.conn != nil {
		if err := p.conn.Close(); err != nil {
			return fmt.Errorf("error closing RabbitMQ connection: %w", err)
		}
	}
	return nil
}
