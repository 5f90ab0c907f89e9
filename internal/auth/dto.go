package auth

import (
	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/internal/users"
)

// RegisterRequest is the registration payload. Role selects the requested
// role; the effective role is decided by the registration policy.
type RegisterRequest struct {
	Name       string     `json:"name" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	Password   string     `json:"password" validate:"required,min=8"`
	Role       string     `json:"role" validate:"required"`
	HostelID   *uuid.UUID `json:"hostel_id,omitempty"`
	SecretCode string     `json:"secret_code,omitempty"`
}

// LoginRequest carries user credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse returns the minted token and the user's public shape.
type AuthResponse struct {
	AccessToken string         `json:"access_token"`
	User        *users.UserDTO `json:"user"`
}
