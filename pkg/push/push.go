// Package push defines the provider boundary used by the dispatcher.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jwalitptl/push-api/pkg/logger"
)

// ErrUnregistered marks a token the provider no longer accepts.
var ErrUnregistered = errors.New("device token is not registered")

// Notification is the provider-neutral payload of one send.
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers a notification to a single device token and returns the
// provider's message id.
type Sender interface {
	Send(ctx context.Context, token string, n Notification) (string, error)
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, token string, n Notification) (string, error)

func (f SenderFunc) Send(ctx context.Context, token string, n Notification) (string, error) {
	return f(ctx, token, n)
}

// CoerceData flattens an arbitrary JSON object into the string map that
// push providers accept. Strings pass through; every other value is
// JSON-encoded.
func CoerceData(data map[string]interface{}) (map[string]string, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(data))
	for k, v := range data {
		if s, ok := v.(string); ok {
			out[k] = s
			continue
		}
		b, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to encode data field %q: %w", k, err)
		}
		out[k] = string(b)
	}
	return out, nil
}

// LogSender is a dry-run provider: it logs each send and reports success.
type LogSender struct {
	log *logger.Logger
	seq atomic.Int64
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(_ context.Context, token string, n Notification) (string, error) {
	id := fmt.Sprintf("dry-run/%d", s.seq.Add(1))
	s.log.Info("push dry run",
		"token", token,
		"title", n.Title,
		"body", n.Body,
		"data_keys", len(n.Data),
		"provider_message_id", id,
	)
	return id, nil
}
