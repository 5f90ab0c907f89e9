package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hosteldesk/hosteldesk-backend/internal/authz"
	"github.com/hosteldesk/hosteldesk-backend/internal/notifications"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

// Service exposes staff management operations for admins.
type Service interface {
	ListStaff(ctx context.Context, actor authz.Actor) ([]UserDTO, error)
	ListStaffRequests(ctx context.Context, actor authz.Actor) ([]UserDTO, error)
	Promote(ctx context.Context, actor authz.Actor, userID uuid.UUID) (*UserDTO, error)
	Reject(ctx context.Context, actor authz.Actor, userID uuid.UUID) (*UserDTO, error)
}

type service struct {
	repo     *Repository
	notifier notifications.Notifier
}

// NewService wires staff management dependencies.
func NewService(repo *Repository, notifier notifications.Notifier) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	return &service{repo: repo, notifier: notifier}, nil
}

func (s *service) ListStaff(ctx context.Context, actor authz.Actor) ([]UserDTO, error) {
	if err := authz.CanReviewStaffRequests(actor); err != nil {
		return nil, err
	}

	scope := authz.ReportScopeFor(actor)
	staff, err := s.repo.ListStaff(ctx, scope.HostelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff")
	}
	return toDTOs(staff), nil
}

func (s *service) ListStaffRequests(ctx context.Context, actor authz.Actor) ([]UserDTO, error) {
	if err := authz.CanReviewStaffRequests(actor); err != nil {
		return nil, err
	}

	scope := authz.ReportScopeFor(actor)
	requests, err := s.repo.ListStaffRequests(ctx, scope.HostelID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list staff requests")
	}
	return toDTOs(requests), nil
}

func (s *service) Promote(ctx context.Context, actor authz.Actor, userID uuid.UUID) (*UserDTO, error) {
	target, err := s.loadTarget(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	if !target.StaffRequest {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user has no pending staff request")
	}

	updated, err := s.repo.Promote(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "promote user")
	}
	if !updated {
		// A concurrent approval or rejection handled the request first.
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "staff request already handled")
	}

	promoted, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload user")
	}

	s.notifier.StaffPromoted(ctx, promoted)
	return FromModel(promoted), nil
}

func (s *service) Reject(ctx context.Context, actor authz.Actor, userID uuid.UUID) (*UserDTO, error) {
	target, err := s.loadTarget(ctx, actor, userID)
	if err != nil {
		return nil, err
	}
	if !target.StaffRequest {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user has no pending staff request")
	}

	updated, err := s.repo.Reject(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject staff request")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "staff request already handled")
	}

	rejected, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload user")
	}

	s.notifier.StaffRejected(ctx, rejected)
	return FromModel(rejected), nil
}

func (s *service) loadTarget(ctx context.Context, actor authz.Actor, userID uuid.UUID) (*models.User, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}

	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find user")
	}
	if err := authz.CanPromoteUser(actor, user); err != nil {
		return nil, err
	}
	return user, nil
}

func toDTOs(users []models.User) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, *FromModel(&users[i]))
	}
	return dtos
}
