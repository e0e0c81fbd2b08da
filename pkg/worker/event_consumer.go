package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jwalitptl/push-api/pkg/logger"
	"github.com/jwalitptl/push-api/pkg/messaging"
	"github.com/jwalitptl/push-api/pkg/metrics"
)

// Event is a broker envelope with its payload left undecoded.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Handler processes one event. A returned error is logged and counted;
// consumption continues.
type Handler func(ctx context.Context, evt Event) error

type EventConsumer struct {
	broker  messaging.Broker
	channel string
	handler Handler
	logger  *logger.Logger
	metrics *metrics.ConsumerMetrics
}

func NewEventConsumer(
	broker messaging.Broker,
	channel string,
	handler Handler,
	logger *logger.Logger,
	metrics *metrics.ConsumerMetrics,
) *EventConsumer {
	if channel == "" {
		panic("channel must not be empty")
	}
	if handler == nil {
		panic("handler must not be nil")
	}

	return &EventConsumer{
		broker:  broker,
		channel: channel,
		handler: handler,
		logger:  logger,
		metrics: metrics,
	}
}

// Start subscribes and consumes until ctx is done or the subscription closes.
func (c *EventConsumer) Start(ctx context.Context) error {
	msgs, err := c.broker.Subscribe(ctx, c.channel)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	c.logger.Info("Starting event consumer", "channel", c.channel)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("Shutting down event consumer")
			return nil
		case raw, ok := <-msgs:
			if !ok {
				c.logger.Warn("subscription closed", "channel", c.channel)
				return nil
			}
			c.process(ctx, raw)
		}
	}
}

func (c *EventConsumer) process(ctx context.Context, raw []byte) {
	var evt Event
	if err := json.Unmarshal(raw, &evt); err != nil {
		c.metrics.EventsFailed.WithLabelValues("undecodable").Inc()
		c.logger.Error(err, "Failed to decode event", "channel", c.channel)
		return
	}

	c.metrics.EventsReceived.WithLabelValues(evt.Type).Inc()
	if err := c.handler(ctx, evt); err != nil {
		c.metrics.EventsFailed.WithLabelValues(evt.Type).Inc()
		c.logger.Error(err, "Failed to process event", "event_type", evt.Type)
	}
}
