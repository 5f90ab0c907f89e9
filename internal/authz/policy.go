// Package authz holds the pure role/hostel authorization policy. Every
// decision is a function of the actor and its target; nothing in this
// package reads storage or performs I/O.
package authz

import (
	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

// statusesStaffMaySet is the only set of target statuses a staff assignee
// can request. Anything else is an invalid transition, not a scope issue.
var statusesStaffMaySet = map[enums.ComplaintStatus]bool{
	enums.ComplaintStatusInProgress: true,
	enums.ComplaintStatusResolved:   true,
}

// CanCreateComplaint allows only citizens to file complaints.
func CanCreateComplaint(actor Actor) error {
	if actor.Role != enums.RoleCitizen {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only citizens may file complaints")
	}
	return nil
}

// CanViewComplaint checks the actor's visibility scope against one complaint.
func CanViewComplaint(actor Actor, complaint *models.Complaint) error {
	scope := ComplaintScopeFor(actor)
	switch scope.Kind {
	case ScopeAll:
		return nil
	case ScopeHostel:
		if actor.InHostel(complaint.HostelID) {
			return nil
		}
	case ScopeAssigned:
		if complaint.AssignedToID != nil && *complaint.AssignedToID == actor.UserID {
			return nil
		}
	case ScopeOwn:
		if complaint.ReporterID == actor.UserID {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "complaint is outside your scope")
}

// CanDeleteComplaint allows citizens to delete their own complaints and
// admins/chief admins to delete any complaint.
func CanDeleteComplaint(actor Actor, complaint *models.Complaint) error {
	switch actor.Role {
	case enums.RoleCitizen:
		if complaint.ReporterID == actor.UserID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeForbidden, "citizens may only delete their own complaints")
	case enums.RoleAdmin, enums.RoleChiefAdmin:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role may not delete complaints")
	}
}

// CanUpdateStatus gates status transitions. Staff must be the assignee and
// may only request IN_PROGRESS or RESOLVED; admins and chief admins may
// request any status; citizens never transition complaints.
func CanUpdateStatus(actor Actor, complaint *models.Complaint, target enums.ComplaintStatus) error {
	switch actor.Role {
	case enums.RoleStaff:
		if complaint.AssignedToID == nil || *complaint.AssignedToID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "complaint is not assigned to you")
		}
		if !statusesStaffMaySet[target] {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "staff may only set status to IN_PROGRESS or RESOLVED")
		}
		return nil
	case enums.RoleAdmin, enums.RoleChiefAdmin:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role may not update complaint status")
	}
}

// CanAssignComplaint gates the assign action. Admins must share a hostel
// with both the complaint and the target staff member; chief admins are
// unrestricted. The target's role is validated by the caller.
func CanAssignComplaint(actor Actor, complaint *models.Complaint, staff *models.User) error {
	switch actor.Role {
	case enums.RoleAdmin:
		if !actor.InHostel(complaint.HostelID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "complaint belongs to another hostel")
		}
		if staff.HostelID == nil || !actor.InHostel(*staff.HostelID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "staff member belongs to another hostel")
		}
		return nil
	case enums.RoleChiefAdmin:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role may not assign complaints")
	}
}

// CanReviewStaffRequests gates listing/approving/rejecting staff requests.
func CanReviewStaffRequests(actor Actor) error {
	if actor.Role == enums.RoleAdmin || actor.Role == enums.RoleChiefAdmin {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "role may not review staff requests")
}

// CanPromoteUser gates promoting or rejecting a specific citizen. Admins
// are limited to users in their own hostel.
func CanPromoteUser(actor Actor, target *models.User) error {
	switch actor.Role {
	case enums.RoleAdmin:
		if target.HostelID == nil || !actor.InHostel(*target.HostelID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "user belongs to another hostel")
		}
		return nil
	case enums.RoleChiefAdmin:
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeForbidden, "role may not manage staff requests")
	}
}

// CanAccessReports gates CSV export, SLA stats, and the heatmap. Citizens
// and staff are denied outright; scoping is applied via ReportScopeFor.
func CanAccessReports(actor Actor) error {
	if actor.Role == enums.RoleAdmin || actor.Role == enums.RoleChiefAdmin {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeForbidden, "role may not access reports")
}
