package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	Name         string     `gorm:"type:text;not null"`
	Role         enums.Role `gorm:"type:text;not null;default:'citizen'"`
	HostelID     *uuid.UUID `gorm:"type:uuid;column:hostel_id"`
	StaffRequest bool       `gorm:"column:staff_request;not null;default:false"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Hostel *Hostel `gorm:"foreignKey:HostelID"`
}
