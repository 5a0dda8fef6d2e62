package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account row. The password hash never leaves the service layer.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	CreatedAt    time.Time `json:"created_at"`
}
