package model

import "time"

type DeliveryStatus string

const (
	DeliveryStatusQueued DeliveryStatus = "queued"
	DeliveryStatusSent   DeliveryStatus = "sent"
	DeliveryStatusFailed DeliveryStatus = "failed"
)

// Valid reports whether s is one of the three ledger states.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryStatusQueued, DeliveryStatusSent, DeliveryStatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s DeliveryStatus) Terminal() bool {
	return s == DeliveryStatusSent || s == DeliveryStatusFailed
}

// Delivery is one attempt to send one message to one device token.
type Delivery struct {
	ID        int64          `json:"id" db:"id"`
	MessageID int64          `json:"message_id" db:"message_id"`
	UserID    *int64         `json:"user_id" db:"user_id"`
	TokenID   *int64         `json:"token_id" db:"token_id"`
	Status    DeliveryStatus `json:"status" db:"status"`
	Error     *string        `json:"error" db:"error"`
	SentAt    *time.Time     `json:"sent_at" db:"sent_at"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// QueueDeliveryParams describes a new ledger row. Status defaults to queued.
type QueueDeliveryParams struct {
	MessageID int64
	UserID    *int64
	TokenID   *int64
	Status    DeliveryStatus
	Error     *string
	SentAt    *time.Time
}

// DeliveryResult is the per-token outcome returned by a fan-out.
type DeliveryResult struct {
	Token             string         `json:"token"`
	Status            DeliveryStatus `json:"status"`
	Error             string         `json:"error,omitempty"`
	ProviderMessageID string         `json:"providerMessageId,omitempty"`
}

// DeliveryEvent is published on the event broker after each terminal transition.
type DeliveryEvent struct {
	DeliveryID        int64          `json:"delivery_id"`
	MessageID         int64          `json:"message_id"`
	UserID            *int64         `json:"user_id,omitempty"`
	TokenID           *int64         `json:"token_id,omitempty"`
	Status            DeliveryStatus `json:"status"`
	Error             string         `json:"error,omitempty"`
	ProviderMessageID string         `json:"provider_message_id,omitempty"`
	OccurredAt        time.Time      `json:"occurred_at"`
}
