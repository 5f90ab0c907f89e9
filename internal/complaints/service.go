package complaints

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hosteldesk/hosteldesk-backend/internal/authz"
	"github.com/hosteldesk/hosteldesk-backend/internal/hostels"
	"github.com/hosteldesk/hosteldesk-backend/internal/notifications"
	"github.com/hosteldesk/hosteldesk-backend/internal/users"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
	"github.com/hosteldesk/hosteldesk-backend/pkg/pagination"
)

// Service exposes the complaint lifecycle operations.
type Service interface {
	Create(ctx context.Context, actor authz.Actor, input CreateComplaintInput) (*ComplaintDTO, error)
	Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*ComplaintDTO, error)
	List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error)
	Assign(ctx context.Context, actor authz.Actor, complaintID, staffID uuid.UUID) (*ComplaintDTO, error)
	UpdateStatus(ctx context.Context, actor authz.Actor, complaintID uuid.UUID, target enums.ComplaintStatus) (*ComplaintDTO, error)
	Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error
}

// ListParams configures complaint listing.
type ListParams struct {
	Status *enums.ComplaintStatus
	Limit  int
	Cursor string
}

// ListResult wraps a page of complaints and the next cursor.
type ListResult struct {
	Items  []ComplaintDTO `json:"items"`
	Cursor string         `json:"cursor"`
}

type service struct {
	repo            *Repository
	userRepo        *users.Repository
	hostelRepo      hostels.Repository
	notifier        notifications.Notifier
	defaultSLAHours int
}

// NewService wires complaint lifecycle dependencies.
func NewService(repo *Repository, userRepo *users.Repository, hostelRepo hostels.Repository, notifier notifications.Notifier, defaultSLAHours int) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "complaints repository required")
	}
	if userRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "users repository required")
	}
	if hostelRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "hostel repository required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifier required")
	}
	if defaultSLAHours <= 0 {
		defaultSLAHours = 24
	}
	return &service{
		repo:            repo,
		userRepo:        userRepo,
		hostelRepo:      hostelRepo,
		notifier:        notifier,
		defaultSLAHours: defaultSLAHours,
	}, nil
}

func (s *service) Create(ctx context.Context, actor authz.Actor, input CreateComplaintInput) (*ComplaintDTO, error) {
	if err := authz.CanCreateComplaint(actor); err != nil {
		return nil, err
	}

	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Category = strings.TrimSpace(input.Category)
	input.Area = strings.TrimSpace(input.Area)
	if input.Title == "" || input.Description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title and description required")
	}
	if input.Category == "" || input.Area == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category and area required")
	}
	if input.HostelID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hostel id required")
	}

	if _, err := s.hostelRepo.FindByID(ctx, input.HostelID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hostel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find hostel")
	}

	slaHours := input.SLAHours
	if slaHours <= 0 {
		slaHours = s.defaultSLAHours
	}

	complaint := &models.Complaint{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Area:        input.Area,
		PhotoURL:    input.PhotoURL,
		Status:      enums.ComplaintStatusOpen,
		ReporterID:  actor.UserID,
		HostelID:    input.HostelID,
		SLAHours:    slaHours,
	}
	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create complaint")
	}

	created, err := s.repo.FindByID(ctx, complaint.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload complaint")
	}

	s.notifier.ComplaintCreated(ctx, created, created.Reporter)
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, actor authz.Actor, id uuid.UUID) (*ComplaintDTO, error) {
	complaint, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.CanViewComplaint(actor, complaint); err != nil {
		return nil, err
	}
	return FromModel(complaint), nil
}

func (s *service) List(ctx context.Context, actor authz.Actor, params ListParams) (*ListResult, error) {
	query := listComplaintsParams{
		Scope:  authz.ComplaintScopeFor(actor),
		Status: params.Status,
		Limit:  params.Limit,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.Cursor = cursor
	}

	rows, next, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list complaints")
	}

	result := &ListResult{Items: toDTOs(rows)}
	if next != nil {
		result.Cursor = pagination.EncodeCursor(*next)
	}
	return result, nil
}

func (s *service) Assign(ctx context.Context, actor authz.Actor, complaintID, staffID uuid.UUID) (*ComplaintDTO, error) {
	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if staffID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "staff id required")
	}

	staff, err := s.userRepo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "staff member not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find staff member")
	}
	if staff.Role != enums.RoleStaff {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignee must have the staff role")
	}

	if err := authz.CanAssignComplaint(actor, complaint, staff); err != nil {
		return nil, err
	}
	if complaint.Status == enums.ComplaintStatusResolved {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "complaint already resolved")
	}

	reassigned := complaint.AssignedToID != nil

	updated, err := s.repo.Assign(ctx, complaintID, staffID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "assign complaint")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "complaint reached a terminal state")
	}

	assigned, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}

	s.notifier.ComplaintAssigned(ctx, assigned, assigned.Reporter, staff, reassigned)
	return FromModel(assigned), nil
}

func (s *service) UpdateStatus(ctx context.Context, actor authz.Actor, complaintID uuid.UUID, target enums.ComplaintStatus) (*ComplaintDTO, error) {
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}

	complaint, err := s.load(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if err := authz.CanUpdateStatus(actor, complaint, target); err != nil {
		return nil, err
	}

	switch target {
	case enums.ComplaintStatusOpen:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "complaints cannot be reopened")
	case enums.ComplaintStatusInProgress:
		// IN_PROGRESS is reachable only via assignment; treat a repeat
		// request against an already-working complaint as a no-op ack.
		if complaint.Status == enums.ComplaintStatusInProgress {
			return FromModel(complaint), nil
		}
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "complaint must be assigned to enter IN_PROGRESS")
	case enums.ComplaintStatusResolved:
		return s.resolve(ctx, actor, complaint)
	case enums.ComplaintStatusEscalated:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ESCALATED is decided by the resolution deadline, not requested directly")
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}
}

// resolve applies the terminal transition. A RESOLVED request past the SLA
// deadline is forced to ESCALATED with the breach flags set; the caller
// never chooses the terminal state directly.
func (s *service) resolve(ctx context.Context, actor authz.Actor, complaint *models.Complaint) (*ComplaintDTO, error) {
	if complaint.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "complaint already resolved")
	}
	if complaint.Status != enums.ComplaintStatusInProgress {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "complaint must be in progress to resolve")
	}

	now := time.Now().UTC()
	slaHours := complaint.SLAHours
	if slaHours <= 0 {
		slaHours = s.defaultSLAHours
	}
	breached := now.Sub(complaint.CreatedAt) > time.Duration(slaHours)*time.Hour

	outcome := resolutionOutcome{
		Status:     enums.ComplaintStatusResolved,
		ResolvedAt: now,
	}
	if breached {
		actorID := actor.UserID
		outcome.Status = enums.ComplaintStatusEscalated
		outcome.Escalated = true
		outcome.EscalatedByID = &actorID
		outcome.Breached = breached
		outcome.ClearAssignee = true
	}

	updated, err := s.repo.Resolve(ctx, complaint.ID, outcome)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve complaint")
	}
	if !updated {
		// A concurrent transition won; the complaint is already terminal.
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "complaint already resolved")
	}

	resolved, err := s.load(ctx, complaint.ID)
	if err != nil {
		return nil, err
	}

	if outcome.Status == enums.ComplaintStatusEscalated {
		s.notifier.ComplaintEscalated(ctx, resolved, resolved.Reporter)
	} else {
		s.notifier.ComplaintResolved(ctx, resolved, resolved.Reporter)
	}
	return FromModel(resolved), nil
}

func (s *service) Delete(ctx context.Context, actor authz.Actor, id uuid.UUID) error {
	complaint, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.CanDeleteComplaint(actor, complaint); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete complaint")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "complaint id required")
	}
	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find complaint")
	}
	return complaint, nil
}
