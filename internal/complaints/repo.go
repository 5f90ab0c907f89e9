package complaints

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hosteldesk/hosteldesk-backend/internal/authz"
	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
	"github.com/hosteldesk/hosteldesk-backend/pkg/pagination"
)

// Repository exposes complaint persistence, including the conditional
// updates that make concurrent transitions race-safe.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a complaints repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// Create inserts a new complaint.
func (r *Repository) Create(ctx context.Context, complaint *models.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

// FindByID loads a complaint with its reporter, assignee, and hostel.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("AssignedTo").
		Preload("Hostel").
		First(&complaint, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &complaint, nil
}

type listComplaintsParams struct {
	Scope  authz.ComplaintScope
	Status *enums.ComplaintStatus
	Limit  int
	Cursor *pagination.Cursor
}

// List returns complaints visible under the given scope, newest first.
func (r *Repository) List(ctx context.Context, params listComplaintsParams) ([]models.Complaint, *pagination.Cursor, error) {
	limit := pagination.LimitWithBuffer(params.Limit)
	normalized := pagination.NormalizeLimit(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Preload("Reporter").
		Preload("AssignedTo").
		Preload("Hostel")

	switch params.Scope.Kind {
	case authz.ScopeOwn:
		query = query.Where("reporter_id = ?", params.Scope.UserID)
	case authz.ScopeAssigned:
		query = query.Where("assigned_to_id = ?", params.Scope.UserID)
	case authz.ScopeHostel:
		query = query.Where("hostel_id = ?", params.Scope.HostelID)
	case authz.ScopeAll:
		// unscoped
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var complaints []models.Complaint
	if err := query.Order("created_at DESC, id DESC").Limit(limit).Find(&complaints).Error; err != nil {
		return nil, nil, err
	}

	if len(complaints) > normalized {
		next := complaints[normalized]
		complaints = complaints[:normalized]
		return complaints, &pagination.Cursor{CreatedAt: next.CreatedAt, ID: next.ID}, nil
	}
	return complaints, nil, nil
}

// Assign moves a non-terminal complaint to IN_PROGRESS under the given
// assignee. Re-assignment from ESCALATED clears the escalation flags, so a
// breached complaint can re-enter the working state. The conditional WHERE
// excludes RESOLVED: a resolved complaint never leaves its terminal state.
func (r *Repository) Assign(ctx context.Context, complaintID, staffID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ? AND status IN ?", complaintID, []enums.ComplaintStatus{
			enums.ComplaintStatusOpen,
			enums.ComplaintStatusInProgress,
			enums.ComplaintStatusEscalated,
		}).
		Updates(map[string]any{
			"status":          enums.ComplaintStatusInProgress,
			"assigned_to_id":  staffID,
			"escalated":       false,
			"escalated_by_id": nil,
			"breached":        false,
			"resolved_at":     nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// resolutionOutcome is the computed terminal state applied by Resolve.
type resolutionOutcome struct {
	Status        enums.ComplaintStatus
	ResolvedAt    time.Time
	Breached      bool
	Escalated     bool
	EscalatedByID *uuid.UUID
	ClearAssignee bool
}

// Resolve applies a terminal outcome if and only if the complaint is still
// IN_PROGRESS. Exactly one of two concurrent resolve calls wins; the loser
// updates zero rows.
func (r *Repository) Resolve(ctx context.Context, complaintID uuid.UUID, outcome resolutionOutcome) (bool, error) {
	fields := map[string]any{
		"status":          outcome.Status,
		"resolved_at":     outcome.ResolvedAt,
		"breached":        outcome.Breached,
		"escalated":       outcome.Escalated,
		"escalated_by_id": outcome.EscalatedByID,
	}
	if outcome.ClearAssignee {
		fields["assigned_to_id"] = nil
	}

	result := r.db.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("id = ? AND status = ?", complaintID, enums.ComplaintStatusInProgress).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes the complaint row.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Complaint{}, "id = ?", id).Error
}

// ListOverdueInProgress returns complaints still IN_PROGRESS past their
// deadline as of now. Used by the reminder sweep, which never mutates.
func (r *Repository) ListOverdueInProgress(ctx context.Context, now time.Time) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Preload("AssignedTo").
		Where("status = ?", enums.ComplaintStatusInProgress).
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}

	overdue := complaints[:0]
	for _, c := range complaints {
		slaHours := c.SLAHours
		if slaHours <= 0 {
			slaHours = 24
		}
		if now.Sub(c.CreatedAt) > time.Duration(slaHours)*time.Hour {
			overdue = append(overdue, c)
		}
	}
	return overdue, nil
}
