package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Don't return password hash in JSON
	IsActive     bool   `json:"is_active"`
}
