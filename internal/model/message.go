package model

import "time"

// Message is immutable once stored.
type Message struct {
	ID        int64     `json:"id" db:"id"`
	Title     *string   `json:"title" db:"title"`
	Body      *string   `json:"body" db:"body"`
	Data      JSONMap   `json:"data" db:"data"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type SendMessageRequest struct {
	Title  *string     `json:"title"`
	Body   *string     `json:"body"`
	Data   JSONMap     `json:"data"`
	UserID *FlexibleID `json:"userId"`
}

// MessageSummary is the message part of a history entry.
type MessageSummary struct {
	ID    int64   `json:"id"`
	Title *string `json:"title"`
	Body  *string `json:"body"`
	Data  JSONMap `json:"data"`
}

// HistoryEntry is one delivery to a user together with its message.
type HistoryEntry struct {
	ID        int64          `json:"id"`
	Status    DeliveryStatus `json:"status"`
	Error     *string        `json:"error"`
	SentAt    *time.Time     `json:"sentAt"`
	CreatedAt time.Time      `json:"createdAt"`
	Message   MessageSummary `json:"message"`
}
