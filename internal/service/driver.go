package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/repo"
)

// DriverService implements business logic for Driver operations.
type DriverService struct {
	repo repo.DriverRepo
}

// NewDriverService constructs a DriverService backed by the provided DriverRepo.
func NewDriverService(r repo.DriverRepo) *DriverService {
	return &DriverService{repo: r}
}

// Create validates and persists a new driver.
// Returns domain.ErrValidation if name or license number is blank and
// domain.ErrConflict if the license number is already registered.
func (s *DriverService) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	d.Name = strings.TrimSpace(d.Name)
	d.LicenseNumber = strings.TrimSpace(d.LicenseNumber)
	if d.Name == "" {
		return domain.Driver{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if d.LicenseNumber == "" {
		return domain.Driver{}, fmt.Errorf("%w: license_number is required", domain.ErrValidation)
	}
	created, err := s.repo.Create(ctx, d)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a single driver.
// Returns domain.ErrNotFound if no driver with that ID exists.
func (s *DriverService) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Driver{}, fmt.Errorf("service.DriverService.GetByID: %w", err)
	}
	return d, nil
}

// List returns one page of drivers ordered by name, plus the total count.
// Always returns a non-nil slice.
func (s *DriverService) List(ctx context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error) {
	drivers, total, err := s.repo.ListPaged(ctx, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.DriverService.List: %w", err)
	}
	if drivers == nil {
		drivers = []domain.Driver{}
	}
	return drivers, total, nil
}
