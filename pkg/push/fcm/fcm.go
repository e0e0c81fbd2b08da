// Package fcm implements push.Sender on Firebase Cloud Messaging.
package fcm

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"github.com/jwalitptl/push-api/pkg/logger"
	"github.com/jwalitptl/push-api/pkg/push"
)

// Client wraps Firebase Cloud Messaging functionality
type Client struct {
	messagingClient *messaging.Client
}

// Config selects the credential source. When GOOGLE_APPLICATION_CREDENTIALS
// is set the ambient credential wins over CredentialsFile.
type Config struct {
	CredentialsFile string
	ProjectID       string
}

// NewClient creates a new FCM client.
func NewClient(ctx context.Context, cfg Config, log *logger.Logger) (*Client, error) {
	var opts []option.ClientOption
	switch {
	case os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != "":
		log.Info("fcm using application default credentials")
	case cfg.CredentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		log.Info("fcm using service account file", "path", cfg.CredentialsFile)
	default:
		log.Warn("no fcm credentials configured, falling back to application default credentials")
	}

	var appCfg *firebase.Config
	if cfg.ProjectID != "" {
		appCfg = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appCfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	messagingClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &Client{messagingClient: messagingClient}, nil
}

// Send delivers one message to one device token.
func (c *Client) Send(ctx context.Context, token string, n push.Notification) (string, error) {
	id, err := c.messagingClient.Send(ctx, BuildMessage(token, n))
	if err != nil {
		if messaging.IsUnregistered(err) {
			return "", fmt.Errorf("%w: %v", push.ErrUnregistered, err)
		}
		return "", fmt.Errorf("failed to send FCM message: %w", err)
	}
	return id, nil
}

// BuildMessage produces the wire message for one token. The notification
// block is omitted for data-only sends.
func BuildMessage(token string, n push.Notification) *messaging.Message {
	msg := &messaging.Message{
		Token: token,
		Data:  n.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
		},
	}
	if n.Title != "" || n.Body != "" {
		msg.Notification = &messaging.Notification{
			Title: n.Title,
			Body:  n.Body,
		}
	}
	return msg
}
