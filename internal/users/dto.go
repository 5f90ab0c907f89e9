package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         enums.Role `json:"role"`
	HostelID     *uuid.UUID `json:"hostel_id,omitempty"`
	HostelName   *string    `json:"hostel_name,omitempty"`
	StaffRequest bool       `json:"staff_request"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	Name         string
	Role         enums.Role
	HostelID     *uuid.UUID
	StaffRequest bool
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	dto := &UserDTO{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		Role:         u.Role,
		HostelID:     u.HostelID,
		StaffRequest: u.StaffRequest,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
	if u.Hostel != nil {
		dto.HostelName = &u.Hostel.Name
	}
	return dto
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleCitizen
	}
	return &models.User{
		ID:           uuid.New(),
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Name:         c.Name,
		Role:         role,
		HostelID:     c.HostelID,
		StaffRequest: c.StaffRequest,
	}
}
