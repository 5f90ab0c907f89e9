package authz

import (
	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
)

// ScopeKind names the visibility window a role gets over complaints.
type ScopeKind string

const (
	// ScopeOwn limits visibility to complaints the actor reported.
	ScopeOwn ScopeKind = "own"
	// ScopeAssigned limits visibility to complaints assigned to the actor.
	ScopeAssigned ScopeKind = "assigned"
	// ScopeHostel limits visibility to the actor's hostel.
	ScopeHostel ScopeKind = "hostel"
	// ScopeAll grants unscoped visibility.
	ScopeAll ScopeKind = "all"
)

// ComplaintScope describes which complaints an actor may see. Repositories
// translate it into a WHERE clause; the policy never touches storage.
type ComplaintScope struct {
	Kind     ScopeKind
	UserID   uuid.UUID
	HostelID uuid.UUID
}

// ComplaintScopeFor derives the list/read scope for the actor's role.
func ComplaintScopeFor(actor Actor) ComplaintScope {
	switch actor.Role {
	case enums.RoleStaff:
		return ComplaintScope{Kind: ScopeAssigned, UserID: actor.UserID}
	case enums.RoleAdmin:
		scope := ComplaintScope{Kind: ScopeHostel}
		if actor.HostelID != nil {
			scope.HostelID = *actor.HostelID
		}
		return scope
	case enums.RoleChiefAdmin:
		return ComplaintScope{Kind: ScopeAll}
	default:
		return ComplaintScope{Kind: ScopeOwn, UserID: actor.UserID}
	}
}

// ReportScope describes which complaints feed an actor's reports. Nil
// HostelID means unscoped.
type ReportScope struct {
	HostelID *uuid.UUID
}

// ReportScopeFor derives the reporting scope: admins see their hostel,
// chief admins see everything. Callers must gate access with
// CanAccessReports first.
func ReportScopeFor(actor Actor) ReportScope {
	if actor.Role == enums.RoleAdmin && actor.HostelID != nil {
		return ReportScope{HostelID: actor.HostelID}
	}
	return ReportScope{}
}
