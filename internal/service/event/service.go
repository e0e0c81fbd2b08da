package event

import (
	"context"
	"time"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/pkg/logger"
	"github.com/jwalitptl/push-api/pkg/messaging"
	"github.com/jwalitptl/push-api/pkg/metrics"
)

const (
	TypeDeliverySent   = "delivery.sent"
	TypeDeliveryFailed = "delivery.failed"

	publishTimeout = 2 * time.Second
)

// Emitter announces ledger transitions. Emitting never fails the caller.
type Emitter interface {
	DeliveryFinished(ctx context.Context, ev model.DeliveryEvent)
}

type EventService struct {
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

func NewEventService(publisher messaging.Publisher, m *metrics.Metrics, log *logger.Logger) *EventService {
	if publisher == nil {
		publisher = messaging.NopPublisher{}
	}
	return &EventService{
		publisher: publisher,
		metrics:   m,
		logger:    log,
	}
}

func (s *EventService) DeliveryFinished(ctx context.Context, ev model.DeliveryEvent) {
	eventType := TypeDeliverySent
	if ev.Status == model.DeliveryStatusFailed {
		eventType = TypeDeliveryFailed
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := s.publisher.Publish(ctx, eventType, ev); err != nil {
		s.metrics.EventsPublished.WithLabelValues("error").Inc()
		s.logger.Error(err, "failed to publish delivery event",
			"delivery_id", ev.DeliveryID,
			"message_id", ev.MessageID,
			"type", eventType,
		)
		return
	}
	s.metrics.EventsPublished.WithLabelValues("ok").Inc()
}
