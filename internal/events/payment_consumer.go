package events

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/unimentor/service-booking/internal/platform/kafka"
)

// PaymentEventHandler settles transactions in response to gateway events.
type PaymentEventHandler interface {
	HandleTransactionSucceeded(ctx context.Context, event TransactionSucceededEvent) error
	HandleTransactionFailed(ctx context.Context, event TransactionFailedEvent) error
}

// PaymentEventConsumer consumes the payment topic and dispatches settlement
// events to the handler. Malformed or unknown messages are logged and
// committed; a failing handler is retried in place, so its offset is never
// committed past and the event is not lost.
type PaymentEventConsumer struct {
	consumer *kafka.Consumer
	handler  PaymentEventHandler
	logger   *zap.Logger
}

// NewPaymentEventConsumer creates a consumer bound to the payment topic.
func NewPaymentEventConsumer(brokers []string, groupID string, handler PaymentEventHandler, logger *zap.Logger) *PaymentEventConsumer {
	return &PaymentEventConsumer{
		consumer: kafka.NewConsumer(brokers, groupID, TopicPaymentEvents, logger),
		handler:  handler,
		logger:   logger,
	}
}

// Start consumes until the context is cancelled.
func (c *PaymentEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka reader.
func (c *PaymentEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *PaymentEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	event, err := kafka.UnmarshalCloudEvent(msg.Value)
	if err != nil {
		c.logger.Warn("skipping malformed message",
			zap.Int64("offset", msg.Offset),
			zap.Error(err),
		)
		return nil
	}

	switch event.Type {
	case TransactionSucceeded:
		var payload TransactionSucceededEvent
		if err := event.ParseData(&payload); err != nil {
			c.logger.Warn("skipping malformed payload",
				zap.String("event_type", event.Type),
				zap.Error(err),
			)
			return nil
		}
		return c.handler.HandleTransactionSucceeded(ctx, payload)

	case TransactionFailed:
		var payload TransactionFailedEvent
		if err := event.ParseData(&payload); err != nil {
			c.logger.Warn("skipping malformed payload",
				zap.String("event_type", event.Type),
				zap.Error(err),
			)
			return nil
		}
		return c.handler.HandleTransactionFailed(ctx, payload)

	case TransactionInitiated:
		// Our own outbound event on the same topic, nothing to do.
		return nil

	default:
		c.logger.Debug("ignoring unknown event type", zap.String("event_type", event.Type))
		return nil
	}
}
