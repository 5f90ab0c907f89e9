package authz

import (
	"testing"

	"github.com/google/uuid"

	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

func testRules() RegistrationRules {
	return RegistrationRules{
		AllowedEmailDomain: "mnnit.ac.in",
		AdminCode:          "admin-code",
		ChiefAdminCode:     "chief-code",
		MaxAdminsPerHostel: 3,
	}
}

func TestResolveRegistrationCitizen(t *testing.T) {
	t.Run("institutionalEmail", func(t *testing.T) {
		res, err := ResolveRegistration(RegistrationInput{
			Email:         "student@mnnit.ac.in",
			RequestedRole: enums.RoleCitizen,
		}, testRules(), 0)
		if err != nil {
			t.Fatalf("expected citizen resolution, got %v", err)
		}
		if res.Role != enums.RoleCitizen || res.StaffRequest || res.HostelID != nil {
			t.Fatalf("unexpected resolution %+v", res)
		}
	})

	t.Run("foreignEmailDomain", func(t *testing.T) {
		_, err := ResolveRegistration(RegistrationInput{
			Email:         "stranger@gmail.com",
			RequestedRole: enums.RoleCitizen,
		}, testRules(), 0)
		expectCode(t, err, pkgerrors.CodePolicy)
	})
}

func TestResolveRegistrationStaff(t *testing.T) {
	hostelID := uuid.New()

	t.Run("pendingApproval", func(t *testing.T) {
		res, err := ResolveRegistration(RegistrationInput{
			Email:         "applicant@mnnit.ac.in",
			RequestedRole: enums.RoleStaff,
			HostelID:      &hostelID,
		}, testRules(), 0)
		if err != nil {
			t.Fatalf("expected staff-request resolution, got %v", err)
		}
		if res.Role != enums.RoleCitizen {
			t.Fatalf("effective role should stay citizen until approval, got %s", res.Role)
		}
		if !res.StaffRequest {
			t.Fatal("staff request flag should be set")
		}
		if res.HostelID == nil || *res.HostelID != hostelID {
			t.Fatalf("hostel should be recorded, got %+v", res.HostelID)
		}
	})

	t.Run("missingHostel", func(t *testing.T) {
		_, err := ResolveRegistration(RegistrationInput{
			Email:         "applicant@mnnit.ac.in",
			RequestedRole: enums.RoleStaff,
		}, testRules(), 0)
		expectCode(t, err, pkgerrors.CodePolicy)
	})
}

func TestResolveRegistrationAdmin(t *testing.T) {
	hostelID := uuid.New()

	t.Run("validCode", func(t *testing.T) {
		res, err := ResolveRegistration(RegistrationInput{
			Email:         "warden@mnnit.ac.in",
			RequestedRole: enums.RoleAdmin,
			HostelID:      &hostelID,
			SecretCode:    "admin-code",
		}, testRules(), 2)
		if err != nil {
			t.Fatalf("expected admin resolution, got %v", err)
		}
		if res.Role != enums.RoleAdmin || res.HostelID == nil || *res.HostelID != hostelID {
			t.Fatalf("unexpected resolution %+v", res)
		}
	})

	t.Run("wrongCode", func(t *testing.T) {
		_, err := ResolveRegistration(RegistrationInput{
			Email:         "warden@mnnit.ac.in",
			RequestedRole: enums.RoleAdmin,
			HostelID:      &hostelID,
			SecretCode:    "guess",
		}, testRules(), 0)
		expectCode(t, err, pkgerrors.CodePolicy)
	})

	t.Run("hostelFull", func(t *testing.T) {
		_, err := ResolveRegistration(RegistrationInput{
			Email:         "warden@mnnit.ac.in",
			RequestedRole: enums.RoleAdmin,
			HostelID:      &hostelID,
			SecretCode:    "admin-code",
		}, testRules(), 3)
		expectCode(t, err, pkgerrors.CodePolicy)
	})

	t.Run("missingHostel", func(t *testing.T) {
		_, err := ResolveRegistration(RegistrationInput{
			Email:         "warden@mnnit.ac.in",
			RequestedRole: enums.RoleAdmin,
			SecretCode:    "admin-code",
		}, testRules(), 0)
		expectCode(t, err, pkgerrors.CodePolicy)
	})
}

func TestResolveRegistrationChiefAdmin(t *testing.T) {
	t.Run("validCode", func(t *testing.T) {
		res, err := ResolveRegistration(RegistrationInput{
			Email:         "chief@mnnit.ac.in",
			RequestedRole: enums.RoleChiefAdmin,
			SecretCode:    "chief-code",
		}, testRules(), 0)
		if err != nil {
			t.Fatalf("expected chief admin resolution, got %v", err)
		}
		if res.Role != enums.RoleChiefAdmin || res.HostelID != nil {
			t.Fatalf("chief admin should be hostel-less, got %+v", res)
		}
	})

	t.Run("wrongCode", func(t *testing.T) {
		_, err := ResolveRegistration(RegistrationInput{
			Email:         "chief@mnnit.ac.in",
			RequestedRole: enums.RoleChiefAdmin,
			SecretCode:    "guess",
		}, testRules(), 0)
		expectCode(t, err, pkgerrors.CodePolicy)
	})
}

func TestResolveRegistrationUnknownRole(t *testing.T) {
	_, err := ResolveRegistration(RegistrationInput{
		Email:         "anyone@mnnit.ac.in",
		RequestedRole: enums.Role("superuser"),
	}, testRules(), 0)
	expectCode(t, err, pkgerrors.CodeValidation)
}
