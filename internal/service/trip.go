package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/repo"
	"github.com/pkordes/eld-logbook/internal/route"
)

// DriveChecker answers whether a driver can drive for a number of hours.
// *HOSService satisfies it.
type DriveChecker interface {
	CanDriveFor(ctx context.Context, driverID uuid.UUID, hours float64) (bool, []string, Status, error)
}

// PlanRequest is the input to TripService.Plan.
type PlanRequest struct {
	DriverID        uuid.UUID
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	EstimatedHours  float64
}

// PlanResult reports whether a trip fits the driver's remaining hours.
// Trip and Route are set only when CanComplete is true.
type PlanResult struct {
	CanComplete bool
	Reasons     []string
	Trip        *domain.Trip
	Route       *route.Route
	Status      Status
}

// TripService plans trips against the driver's HOS budget.
type TripService struct {
	drivers   repo.DriverRepo
	trips     repo.TripRepo
	hos       DriveChecker
	estimator route.Estimator
	log       *slog.Logger
}

// NewTripService constructs a TripService. A nil logger uses slog.Default.
func NewTripService(drivers repo.DriverRepo, trips repo.TripRepo, hos DriveChecker, estimator route.Estimator, log *slog.Logger) *TripService {
	if log == nil {
		log = slog.Default()
	}
	return &TripService{drivers: drivers, trips: trips, hos: hos, estimator: estimator, log: log}
}

// Plan checks the driver can drive req.EstimatedHours now. When they cannot,
// nothing is created and the reasons are returned. Otherwise the trip is
// persisted and a route estimate attached.
// Returns domain.ErrInvalidInput for a missing driver ID or hours that are
// negative or not finite,
// and domain.ErrNotFound if the driver does not exist.
func (s *TripService) Plan(ctx context.Context, req PlanRequest) (PlanResult, error) {
	if req.DriverID == uuid.Nil {
		return PlanResult{}, fmt.Errorf("%w: driver_id is required", domain.ErrInvalidInput)
	}
	if math.IsNaN(req.EstimatedHours) || math.IsInf(req.EstimatedHours, 0) {
		return PlanResult{}, fmt.Errorf("%w: estimated_hours must be a finite number", domain.ErrInvalidInput)
	}
	if req.EstimatedHours < 0 {
		return PlanResult{}, fmt.Errorf("%w: estimated_hours must not be negative", domain.ErrInvalidInput)
	}

	ok, reasons, status, err := s.hos.CanDriveFor(ctx, req.DriverID, req.EstimatedHours)
	if err != nil {
		return PlanResult{}, fmt.Errorf("service.TripService.Plan: %w", err)
	}
	if !ok {
		s.log.InfoContext(ctx, "trip rejected",
			"driver_id", req.DriverID,
			"estimated_hours", req.EstimatedHours,
			"reasons", reasons,
		)
		return PlanResult{CanComplete: false, Reasons: reasons, Status: status}, nil
	}

	trip, err := s.trips.Create(ctx, domain.Trip{
		DriverID:        req.DriverID,
		CurrentLocation: strings.TrimSpace(req.CurrentLocation),
		PickupLocation:  strings.TrimSpace(req.PickupLocation),
		DropoffLocation: strings.TrimSpace(req.DropoffLocation),
		EstimatedHours:  req.EstimatedHours,
	})
	if err != nil {
		return PlanResult{}, fmt.Errorf("service.TripService.Plan: %w", err)
	}

	rt, err := s.estimator.Estimate(ctx, trip.CurrentLocation, trip.PickupLocation, trip.DropoffLocation)
	if err != nil {
		return PlanResult{}, fmt.Errorf("service.TripService.Plan: estimate route: %w", err)
	}

	return PlanResult{
		CanComplete: true,
		Reasons:     []string{},
		Trip:        &trip,
		Route:       &rt,
		Status:      status,
	}, nil
}

// ListByDriver returns a driver's trips, most recent first.
// Always returns a non-nil slice.
// Returns domain.ErrNotFound if the driver does not exist.
func (s *TripService) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Trip, error) {
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		return nil, fmt.Errorf("service.TripService.ListByDriver: %w", err)
	}
	trips, err := s.trips.ListByDriver(ctx, driverID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListByDriver: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}
