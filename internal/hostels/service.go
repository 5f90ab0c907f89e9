package hostels

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hosteldesk/hosteldesk-backend/pkg/db/models"
	pkgerrors "github.com/hosteldesk/hosteldesk-backend/pkg/errors"
)

// Service exposes hostel lookups for registration and complaint forms.
type Service interface {
	List(ctx context.Context) ([]models.Hostel, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Hostel, error)
	Complaints(ctx context.Context, id uuid.UUID) ([]models.Complaint, error)
}

type service struct {
	repo Repository
}

// NewService wires hostel dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "hostel repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]models.Hostel, error) {
	hostels, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hostels")
	}
	return hostels, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Hostel, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "hostel id required")
	}
	hostel, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "hostel not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find hostel")
	}
	return hostel, nil
}

// Complaints returns every complaint filed against the hostel, newest first.
// The hostel must exist; an unknown id is NotFound rather than an empty list.
func (s *service) Complaints(ctx context.Context, id uuid.UUID) ([]models.Complaint, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	complaints, err := s.repo.ListComplaints(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hostel complaints")
	}
	return complaints, nil
}
