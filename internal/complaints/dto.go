package complaints

import (
	"time"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
)

// ComplaintDTO is the transport shape for a complaint.
type ComplaintDTO struct {
	ID            uuid.UUID             `json:"id"`
	Title         string                `json:"title"`
	Description   string                `json:"description"`
	Category      string                `json:"category"`
	Area          string                `json:"area"`
	PhotoURL      *string               `json:"photo_url,omitempty"`
	Status        enums.ComplaintStatus `json:"status"`
	ReporterID    uuid.UUID             `json:"reporter_id"`
	ReporterName  *string               `json:"reporter_name,omitempty"`
	AssignedToID  *uuid.UUID            `json:"assigned_to_id,omitempty"`
	AssigneeName  *string               `json:"assignee_name,omitempty"`
	HostelID      uuid.UUID             `json:"hostel_id"`
	HostelName    *string               `json:"hostel_name,omitempty"`
	SLAHours      int                   `json:"sla_hours"`
	ResolvedAt    *time.Time            `json:"resolved_at,omitempty"`
	Breached      bool                  `json:"breached"`
	Escalated     bool                  `json:"escalated"`
	EscalatedByID *uuid.UUID            `json:"escalated_by_id,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// CreateComplaintInput holds the validated payload to file a complaint.
type CreateComplaintInput struct {
	Title       string
	Description string
	Category    string
	Area        string
	PhotoURL    *string
	HostelID    uuid.UUID
	SLAHours    int
}

func FromModel(c *models.Complaint) *ComplaintDTO {
	if c == nil {
		return nil
	}

	dto := &ComplaintDTO{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		Category:      c.Category,
		Area:          c.Area,
		PhotoURL:      c.PhotoURL,
		Status:        c.Status,
		ReporterID:    c.ReporterID,
		AssignedToID:  c.AssignedToID,
		HostelID:      c.HostelID,
		SLAHours:      c.SLAHours,
		ResolvedAt:    c.ResolvedAt,
		Breached:      c.Breached,
		Escalated:     c.Escalated,
		EscalatedByID: c.EscalatedByID,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.Reporter != nil {
		dto.ReporterName = &c.Reporter.Name
	}
	if c.AssignedTo != nil {
		dto.AssigneeName = &c.AssignedTo.Name
	}
	if c.Hostel != nil {
		dto.HostelName = &c.Hostel.Name
	}
	return dto
}

func toDTOs(complaints []models.Complaint) []ComplaintDTO {
	dtos := make([]ComplaintDTO, 0, len(complaints))
	for i := range complaints {
		dtos = append(dtos, *FromModel(&complaints[i]))
	}
	return dtos
}
