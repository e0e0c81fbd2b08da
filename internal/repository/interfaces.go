package repository

import (
	"context"
	"time"

	"github.com/jwalitptl/push-api/internal/model"
)

type UserRepository interface {
	// CreateOrGet returns the first user matching email or externalID,
	// inserting a new one when nothing matches.
	CreateOrGet(ctx context.Context, externalID, name, email *string) (*model.User, error)
	Get(ctx context.Context, id int64) (*model.User, error)
	Delete(ctx context.Context, id int64) error
}

type DeviceTokenRepository interface {
	// Upsert inserts the token or reassigns an existing one to userID.
	Upsert(ctx context.Context, userID int64, token string, platform *string, seenAt time.Time) (*model.DeviceToken, error)
	GetByToken(ctx context.Context, token string) (*model.DeviceToken, error)
	ListByUser(ctx context.Context, userID int64) ([]*model.DeviceToken, error)
	// ListAll returns every token whose owner still exists.
	ListAll(ctx context.Context) ([]*model.DeviceToken, error)
}

type MessageRepository interface {
	Create(ctx context.Context, title, body *string, data model.JSONMap, createdAt time.Time) (*model.Message, error)
	Get(ctx context.Context, id int64) (*model.Message, error)
	Delete(ctx context.Context, id int64) error
	// ListUserHistory returns the user's deliveries joined with their
	// message, newest first.
	ListUserHistory(ctx context.Context, userID int64) ([]*model.HistoryEntry, error)
}

type DeliveryRepository interface {
	Create(ctx context.Context, params model.QueueDeliveryParams, createdAt time.Time) (*model.Delivery, error)
	Get(ctx context.Context, id int64) (*model.Delivery, error)
	// Transition moves a queued delivery to a terminal status. It reports
	// false when the row is missing or no longer queued.
	Transition(ctx context.Context, id int64, status model.DeliveryStatus, errText *string, sentAt *time.Time) (bool, error)
	ListByMessage(ctx context.Context, messageID int64) ([]*model.Delivery, error)
}

// Pinger is satisfied by the store handle; used by the health check.
type Pinger interface {
	PingContext(ctx context.Context) error
}
