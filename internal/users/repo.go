package users

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	"github.com/hosteldesk/hosteldesk-backend/pkg/enums"
)

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
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

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByEmail retrieves the user matching the provided email.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CountAdminsByHostel returns the number of admin accounts in the hostel.
func (r *Repository) CountAdminsByHostel(ctx context.Context, hostelID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("hostel_id = ? AND role = ?", hostelID, enums.RoleAdmin).
		Count(&count).Error
	return count, err
}

// ListStaff returns staff members, optionally limited to one hostel.
func (r *Repository) ListStaff(ctx context.Context, hostelID *uuid.UUID) ([]models.User, error) {
	query := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("role = ?", enums.RoleStaff)
	if hostelID != nil {
		query = query.Where("hostel_id = ?", *hostelID)
	}

	var staff []models.User
	if err := query.Order("name ASC").Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}

// ListStaffRequests returns citizens with a pending staff request,
// optionally limited to one hostel.
func (r *Repository) ListStaffRequests(ctx context.Context, hostelID *uuid.UUID) ([]models.User, error) {
	query := r.db.WithContext(ctx).
		Preload("Hostel").
		Where("staff_request = TRUE AND role = ?", enums.RoleCitizen)
	if hostelID != nil {
		query = query.Where("hostel_id = ?", *hostelID)
	}

	var requests []models.User
	if err := query.Order("created_at ASC").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// Promote flips a pending staff request into the staff role. The
// conditional WHERE makes concurrent approvals race-safe: the second
// writer updates zero rows.
func (r *Repository) Promote(ctx context.Context, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND staff_request = TRUE AND role = ?", userID, enums.RoleCitizen).
		Updates(map[string]any{
			"role":          enums.RoleStaff,
			"staff_request": false,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Reject clears a pending staff request, leaving the user a plain citizen.
// Same conditional-update contract as Promote.
func (r *Repository) Reject(ctx context.Context, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND staff_request = TRUE AND role = ?", userID, enums.RoleCitizen).
		Updates(map[string]any{
			"staff_request": false,
			"hostel_id":     nil,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
