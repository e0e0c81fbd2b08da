package model

import "time"

// User is an entry in the user directory. A user is identified by email or
// external id; either may be absent.
type User struct {
	ID         int64     `json:"id" db:"id"`
	ExternalID *string   `json:"external_id" db:"external_id"`
	Name       *string   `json:"name" db:"name"`
	Email      *string   `json:"email" db:"email"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

type CreateUserRequest struct {
	ExternalID *string `json:"externalId"`
	Name       *string `json:"name"`
	Email      *string `json:"email"`
}
