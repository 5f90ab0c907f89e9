package hostels

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
)

// Repository reads hostel reference data. Hostels are seeded by migration
// and never mutated at runtime.
type Repository interface {
	List(ctx context.Context) ([]models.Hostel, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error)
	ListComplaints(ctx context.Context, hostelID uuid.UUID) ([]models.Complaint, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a hostel repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.Hostel, error) {
	var hostels []models.Hostel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&hostels).Error; err != nil {
		return nil, err
	}
	return hostels, nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	var hostel models.Hostel
	if err := r.db.WithContext(ctx).First(&hostel, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &hostel, nil
}

func (r *repositoryImpl) ListComplaints(ctx context.Context, hostelID uuid.UUID) ([]models.Complaint, error) {
	var complaints []models.Complaint
	err := r.db.WithContext(ctx).
		Preload("Reporter").
		Preload("AssignedTo").
		Preload("Hostel").
		Where("hostel_id = ?", hostelID).
		Order("created_at DESC").
		Find(&complaints).Error
	if err != nil {
		return nil, err
	}
	return complaints, nil
}
