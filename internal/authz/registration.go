package authz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

// RegistrationRules carries the deployment-configured secrets and limits
// consumed by registration-time role resolution.
type RegistrationRules struct {
	AllowedEmailDomain string
	AdminCode          string
	ChiefAdminCode     string
	MaxAdminsPerHostel int
}

// RegistrationInput is the shape-validated registration payload.
type RegistrationInput struct {
	Email         string
	RequestedRole enums.Role
	HostelID      *uuid.UUID
	SecretCode    string
}

// RoleResolution is the effective identity a new account receives.
type RoleResolution struct {
	Role         enums.Role
	HostelID     *uuid.UUID
	StaffRequest bool
}

// ResolveRegistration maps a requested role onto the effective role a new
// account gets. adminCountInHostel is the current number of admins in the
// requested hostel, supplied by the caller; it is only consulted for admin
// requests. Entitlement failures are policy violations, distinct from
// malformed input.
func ResolveRegistration(input RegistrationInput, rules RegistrationRules, adminCountInHostel int) (RoleResolution, error) {
	switch input.RequestedRole {
	case enums.RoleCitizen:
		if !hasEmailDomain(input.Email, rules.AllowedEmailDomain) {
			return RoleResolution{}, pkgerrors.New(pkgerrors.CodePolicy,
				fmt.Sprintf("citizen accounts require an @%s email address", rules.AllowedEmailDomain))
		}
		return RoleResolution{Role: enums.RoleCitizen}, nil

	case enums.RoleStaff:
		if input.HostelID == nil {
			return RoleResolution{}, pkgerrors.New(pkgerrors.CodePolicy, "staff requests require a hostel")
		}
		// Effective role stays citizen until an admin approves the request.
		return RoleResolution{Role: enums.RoleCitizen, HostelID: input.HostelID, StaffRequest: true}, nil

	case enums.RoleAdmin:
		if input.HostelID == nil {
			return RoleResolution{}, pkgerrors.New(pkgerrors.CodePolicy, "admin accounts require a hostel")
		}
		if input.SecretCode == "" || input.SecretCode != rules.AdminCode {
			return RoleResolution{}, pkgerrors.New(pkgerrors.CodePolicy, "invalid admin code")
		}
		if adminCountInHostel >= rules.MaxAdminsPerHostel {
			return RoleResolution{}, pkgerrors.New(pkgerrors.CodePolicy,
				fmt.Sprintf("hostel already has %d admins", rules.MaxAdminsPerHostel))
		}
		return RoleResolution{Role: enums.RoleAdmin, HostelID: input.HostelID}, nil

	case enums.RoleChiefAdmin:
		if input.SecretCode == "" || input.SecretCode != rules.ChiefAdminCode {
			return RoleResolution{}, pkgerrors.New(pkgerrors.CodePolicy, "invalid chief admin code")
		}
		return RoleResolution{Role: enums.RoleChiefAdmin}, nil

	default:
		return RoleResolution{}, pkgerrors.New(pkgerrors.CodeValidation, "unknown requested role")
	}
}

func hasEmailDomain(email, domain string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return false
	}
	return strings.EqualFold(email[at+1:], domain)
}
