package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Account is a dashboard login (a streamer or moderator). Viewers never have
// accounts; they are Users keyed by their platform id.
type Account struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Validate checks basic account fields
func (a *Account) Validate() error {
	if a.Email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(a.Email, "@") {
		return fmt.Errorf("invalid email")
	}
	if a.DisplayName == "" {
		return fmt.Errorf("display name is required")
	}
	if len(a.DisplayName) < 2 || len(a.DisplayName) > 100 {
		return fmt.Errorf("display name length invalid")
	}
	return nil
}

type CreateAccountRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string  `json:"token"`
	Account Account `json:"account"`
}
