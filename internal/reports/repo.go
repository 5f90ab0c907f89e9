package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
)

// Repository runs the read-only aggregate queries behind reports. A nil
// hostelID means unscoped; resolution-time math happens in the service so
// the SQL stays portable across Postgres and the sqlite test driver.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a reports repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) scoped(ctx context.Context, hostelID *uuid.UUID) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.Complaint{})
	if hostelID != nil {
		query = query.Where("hostel_id = ?", *hostelID)
	}
	return query
}

// CountTotal counts complaints in scope.
func (r *Repository) CountTotal(ctx context.Context, hostelID *uuid.UUID) (int64, error) {
	var count int64
	err := r.scoped(ctx, hostelID).Count(&count).Error
	return count, err
}

// CountResolved counts complaints resolved with a stamped timestamp.
func (r *Repository) CountResolved(ctx context.Context, hostelID *uuid.UUID) (int64, error) {
	var count int64
	err := r.scoped(ctx, hostelID).
		Where("status = ? AND resolved_at IS NOT NULL", enums.ComplaintStatusResolved).
		Count(&count).Error
	return count, err
}

// CountBreached counts complaints flagged as having missed their deadline.
func (r *Repository) CountBreached(ctx context.Context, hostelID *uuid.UUID) (int64, error) {
	var count int64
	err := r.scoped(ctx, hostelID).
		Where("breached = ?", true).
		Count(&count).Error
	return count, err
}

// resolutionSpan is one resolved complaint's created/resolved pair.
type resolutionSpan struct {
	CreatedAt  time.Time
	ResolvedAt time.Time
}

// ResolutionSpans returns the timestamps of resolved complaints in scope.
func (r *Repository) ResolutionSpans(ctx context.Context, hostelID *uuid.UUID) ([]resolutionSpan, error) {
	var spans []resolutionSpan
	err := r.scoped(ctx, hostelID).
		Select("created_at", "resolved_at").
		Where("status = ? AND resolved_at IS NOT NULL", enums.ComplaintStatusResolved).
		Find(&spans).Error
	if err != nil {
		return nil, err
	}
	return spans, nil
}

// Heatmap groups complaints in scope by area.
func (r *Repository) Heatmap(ctx context.Context, hostelID *uuid.UUID) ([]HeatmapEntry, error) {
	var entries []HeatmapEntry
	err := r.scoped(ctx, hostelID).
		Select("area", "COUNT(*) AS count").
		Group("area").
		Order("count DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListForExport loads complaints in scope with reporter and hostel rows for
// the CSV projection, oldest first.
func (r *Repository) ListForExport(ctx context.Context, hostelID *uuid.UUID) ([]models.Complaint, error) {
	query := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("Hostel")
	if hostelID != nil {
		query = query.Where("hostel_id = ?", *hostelID)
	}

	var complaints []models.Complaint
	if err := query.Order("created_at ASC").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}
