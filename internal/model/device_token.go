package model

import "time"

// DeviceToken associates a provider token string with its current owner.
// UserID becomes nil when the owner is deleted.
type DeviceToken struct {
	ID         int64      `json:"id" db:"id"`
	UserID     *int64     `json:"user_id" db:"user_id"`
	Token      string     `json:"token" db:"token"`
	Platform   *string    `json:"platform" db:"platform"`
	LastSeenAt *time.Time `json:"last_seen_at" db:"last_seen_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

type RegisterTokenRequest struct {
	UserID   FlexibleID `json:"userId" binding:"required"`
	Token    string     `json:"token" binding:"required"`
	Platform *string    `json:"platform" binding:"omitempty,max=32"`
}
