package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/pkg/logger"
	"github.com/jwalitptl/push-api/pkg/metrics"
)

// NewDeliveryLogHandler logs each delivery event and records how long it
// took to arrive.
func NewDeliveryLogHandler(log *logger.Logger, m *metrics.ConsumerMetrics) Handler {
	return func(_ context.Context, evt Event) error {
		var ev model.DeliveryEvent
		if err := json.Unmarshal(evt.Payload, &ev); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", evt.Type, err)
		}

		if !ev.OccurredAt.IsZero() {
			m.EventLag.Observe(time.Since(ev.OccurredAt).Seconds())
		}

		if ev.Status == model.DeliveryStatusFailed {
			log.Warn("delivery failed",
				"delivery_id", ev.DeliveryID,
				"message_id", ev.MessageID,
				"error", ev.Error,
			)
			return nil
		}
		log.Info("delivery sent",
			"delivery_id", ev.DeliveryID,
			"message_id", ev.MessageID,
			"provider_message_id", ev.ProviderMessageID,
		)
		return nil
	}
}
