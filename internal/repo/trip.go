package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// TripRepo defines the persistence operations for planned Trips.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with DB-generated
	// id, start_time, and created_at populated).
	// Returns domain.ErrNotFound if the driver does not exist.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// ListByDriver returns a driver's trips ordered by start_time descending.
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Trip, error)
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, driver_id, current_location, pickup_location, dropoff_location,
		estimated_hours, start_time, end_time, is_completed, created_at`

// Create inserts a new trip row and returns the full persisted record.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (driver_id, current_location, pickup_location, dropoff_location, estimated_hours)
		VALUES (@driver_id, @current_location, @pickup_location, @dropoff_location, @estimated_hours)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"driver_id":        trip.DriverID,
		"current_location": trip.CurrentLocation,
		"pickup_location":  trip.PickupLocation,
		"dropoff_location": trip.DropoffLocation,
		"estimated_hours":  trip.EstimatedHours,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", domain.ErrNotFound)
		}
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

// ListByDriver returns a driver's trips, most recent first.
func (r *pgTripRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE driver_id = @driver_id
		ORDER BY start_time DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"driver_id": driverID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByDriver: %w", err)
	}
	trips, err := collect(rows, scanTrip)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByDriver: scan: %w", err)
	}
	return trips, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and nullable end_time conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t        domain.Trip
		id       pgtype.UUID
		driverID pgtype.UUID
		endTime  pgtype.Timestamptz
	)

	err := s.Scan(&id, &driverID, &t.CurrentLocation, &t.PickupLocation, &t.DropoffLocation,
		&t.EstimatedHours, &t.StartTime, &endTime, &t.Completed, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.DriverID = uuid.UUID(driverID.Bytes)
	if endTime.Valid {
		et := endTime.Time
		t.EndTime = &et
	}
	return t, nil
}
