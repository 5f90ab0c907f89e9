package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
)

// Complaint is the unit of work moving through the resolution lifecycle.
type Complaint struct {
	ID          uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string                `gorm:"type:text;not null"`
	Description string                `gorm:"type:text;not null"`
	Category    string                `gorm:"type:text;not null"`
	Area        string                `gorm:"type:text;not null"`
	PhotoURL    *string               `gorm:"column:photo_url"`
	Status      enums.ComplaintStatus `gorm:"type:text;not null;default:'OPEN'"`

	ReporterID   uuid.UUID  `gorm:"type:uuid;column:reporter_id;not null"`
	AssignedToID *uuid.UUID `gorm:"type:uuid;column:assigned_to_id"`
	HostelID     uuid.UUID  `gorm:"type:uuid;column:hostel_id;not null"`

	SLAHours      int        `gorm:"column:sla_hours;not null;default:24"`
	ResolvedAt    *time.Time `gorm:"column:resolved_at"`
	Breached      bool       `gorm:"not null;default:false"`
	Escalated     bool       `gorm:"not null;default:false"`
	EscalatedByID *uuid.UUID `gorm:"type:uuid;column:escalated_by_id"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Reporter   *User   `gorm:"foreignKey:ReporterID"`
	AssignedTo *User   `gorm:"foreignKey:AssignedToID"`
	Hostel     *Hostel `gorm:"foreignKey:HostelID"`
}
