package dispatch

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/service/delivery"
	"github.com/jwalitptl/push-api/internal/service/event"
	"github.com/jwalitptl/push-api/internal/service/message"
	"github.com/jwalitptl/push-api/internal/service/token"
	apperrors "github.com/jwalitptl/push-api/pkg/errors"
	"github.com/jwalitptl/push-api/pkg/logger"
	"github.com/jwalitptl/push-api/pkg/metrics"
	"github.com/jwalitptl/push-api/pkg/push"
)

const DefaultConcurrency = 8

type Servicer interface {
	Send(ctx context.Context, req *model.SendMessageRequest) (*model.Message, []model.DeliveryResult, error)
}

type Config struct {
	// Concurrency bounds in-flight provider sends per message. 1 sends
	// strictly in recipient order.
	Concurrency int
}

type Dispatcher struct {
	messages    message.Servicer
	tokens      token.Servicer
	ledger      delivery.Ledger
	sender      push.Sender
	events      event.Emitter
	metrics     *metrics.Metrics
	logger      *logger.Logger
	concurrency int
}

func NewDispatcher(
	messages message.Servicer,
	tokens token.Servicer,
	ledger delivery.Ledger,
	sender push.Sender,
	events event.Emitter,
	m *metrics.Metrics,
	log *logger.Logger,
	cfg Config,
) *Dispatcher {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Dispatcher{
		messages:    messages,
		tokens:      tokens,
		ledger:      ledger,
		sender:      sender,
		events:      events,
		metrics:     m,
		logger:      log,
		concurrency: concurrency,
	}
}

// Send persists the message, resolves its recipients and delivers to each
// token. Provider failures are recorded per delivery; only store failures
// fail the call. Results follow recipient order.
//
// The fan-out ignores cancellation of ctx so a disconnecting client does
// not leave deliveries half-recorded.
func (d *Dispatcher) Send(ctx context.Context, req *model.SendMessageRequest) (*model.Message, []model.DeliveryResult, error) {
	ctx = context.WithoutCancel(ctx)
	start := time.Now()

	data, err := push.CoerceData(req.Data)
	if err != nil {
		return nil, nil, apperrors.Validation("data must be a JSON object", err)
	}

	msg, err := d.messages.CreateMessage(ctx, req.Title, req.Body, req.Data)
	if err != nil {
		return nil, nil, err
	}

	recipients, err := d.resolveRecipients(ctx, req.UserID)
	if err != nil {
		return nil, nil, err
	}
	d.metrics.FanoutRecipients.Observe(float64(len(recipients)))

	notification := push.Notification{
		Title: deref(req.Title),
		Body:  deref(req.Body),
		Data:  data,
	}

	results := make([]model.DeliveryResult, len(recipients))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)
	for i, tok := range recipients {
		g.Go(func() error {
			res, err := d.deliver(gctx, msg, tok, notification)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		d.logger.Error(err, "fan-out aborted by store failure", "message_id", msg.ID)
		return nil, nil, err
	}

	d.metrics.DispatchDuration.Observe(time.Since(start).Seconds())
	d.logger.Info("message dispatched",
		"message_id", msg.ID,
		"recipients", len(recipients),
		"sent", countStatus(results, model.DeliveryStatusSent),
		"failed", countStatus(results, model.DeliveryStatusFailed),
	)
	return msg, results, nil
}

// resolveRecipients targets one user when userID is set and non-zero, and
// every owned token otherwise.
func (d *Dispatcher) resolveRecipients(ctx context.Context, userID *model.FlexibleID) ([]*model.DeviceToken, error) {
	if userID != nil && *userID != 0 {
		return d.tokens.ListForUser(ctx, int64(*userID))
	}
	return d.tokens.ListAll(ctx)
}

func (d *Dispatcher) deliver(ctx context.Context, msg *model.Message, tok *model.DeviceToken, n push.Notification) (model.DeliveryResult, error) {
	if err := ctx.Err(); err != nil {
		return model.DeliveryResult{}, err
	}

	row, err := d.ledger.Queue(ctx, model.QueueDeliveryParams{
		MessageID: msg.ID,
		UserID:    tok.UserID,
		TokenID:   &tok.ID,
	})
	if err != nil {
		return model.DeliveryResult{}, err
	}

	sendStart := time.Now()
	providerID, sendErr := d.sender.Send(ctx, tok.Token, n)
	d.metrics.ProviderLatency.Observe(time.Since(sendStart).Seconds())

	if sendErr != nil {
		if errors.Is(sendErr, push.ErrUnregistered) {
			d.logger.Warn("device token rejected as unregistered",
				"token_id", tok.ID,
				"delivery_id", row.ID,
			)
		} else {
			d.logger.Error(sendErr, "push send failed",
				"token_id", tok.ID,
				"delivery_id", row.ID,
			)
		}

		if _, err := d.ledger.MarkFailed(ctx, row.ID, sendErr.Error()); err != nil {
			return model.DeliveryResult{}, err
		}
		d.finished(ctx, row, model.DeliveryStatusFailed, sendErr.Error(), "")
		return model.DeliveryResult{
			Token:  tok.Token,
			Status: model.DeliveryStatusFailed,
			Error:  sendErr.Error(),
		}, nil
	}

	if _, err := d.ledger.MarkSent(ctx, row.ID); err != nil {
		return model.DeliveryResult{}, err
	}
	d.finished(ctx, row, model.DeliveryStatusSent, "", providerID)
	return model.DeliveryResult{
		Token:             tok.Token,
		Status:            model.DeliveryStatusSent,
		ProviderMessageID: providerID,
	}, nil
}

func (d *Dispatcher) finished(ctx context.Context, row *model.Delivery, status model.DeliveryStatus, errText, providerID string) {
	d.metrics.DeliveriesTotal.WithLabelValues(string(status)).Inc()
	d.events.DeliveryFinished(ctx, model.DeliveryEvent{
		DeliveryID:        row.ID,
		MessageID:         row.MessageID,
		UserID:            row.UserID,
		TokenID:           row.TokenID,
		Status:            status,
		Error:             errText,
		ProviderMessageID: providerID,
		OccurredAt:        time.Now().UTC(),
	})
}

func countStatus(results []model.DeliveryResult, status model.DeliveryStatus) int {
	n := 0
	for _, r := range results {
		if r.Status == status {
			n++
		}
	}
	return n
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
