package authz

import (
	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
)

// Actor is the authenticated identity every policy decision consumes.
// HostelID is nil for citizens without an assignment and for chief admins.
type Actor struct {
	UserID   uuid.UUID
	Role     enums.Role
	HostelID *uuid.UUID
}

// InHostel reports whether the actor is scoped to the given hostel.
func (a Actor) InHostel(hostelID uuid.UUID) bool {
	return a.HostelID != nil && *a.HostelID == hostelID
}
