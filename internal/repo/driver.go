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

// DriverRepo defines the persistence operations for Drivers.
type DriverRepo interface {
	// Create inserts a new driver and returns the persisted record.
	// Returns domain.ErrConflict if the license number is already registered.
	Create(ctx context.Context, driver domain.Driver) (domain.Driver, error)

	// GetByID retrieves a single driver by its UUID primary key.
	// Returns domain.ErrNotFound if no driver with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error)

	// ListPaged returns one page of drivers ordered by name and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error)
}

// pgDriverRepo is the Postgres implementation of DriverRepo.
type pgDriverRepo struct {
	db db
}

// NewDriverRepo constructs a DriverRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDriverRepo(db db) DriverRepo {
	return &pgDriverRepo{db: db}
}

func (r *pgDriverRepo) Create(ctx context.Context, driver domain.Driver) (domain.Driver, error) {
	const q = `
		INSERT INTO drivers (name, license_number)
		VALUES (@name, @license_number)
		RETURNING id, name, license_number, created_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"name":           driver.Name,
		"license_number": driver.LicenseNumber,
	})
	result, err := scanDriver(row)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w: license number %q already registered", domain.ErrConflict, driver.LicenseNumber)
		}
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	const q = `
		SELECT id, name, license_number, created_at
		FROM drivers
		WHERE id = @id`

	result, err := scanDriver(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Driver{}, fmt.Errorf("repo.DriverRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDriverRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error) {
	const countQ = `SELECT count(*) FROM drivers`
	const q = `
		SELECT id, name, license_number, created_at
		FROM drivers
		ORDER BY name, id
		LIMIT @limit OFFSET @offset`

	var total int64
	if err := r.db.QueryRow(ctx, countQ).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.DriverRepo.ListPaged: count: %w", err)
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DriverRepo.ListPaged: %w", err)
	}
	drivers, err := collect(rows, scanDriver)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.DriverRepo.ListPaged: scan: %w", err)
	}
	return drivers, total, nil
}

// scanDriver maps a single database row into a domain.Driver.
func scanDriver(s scanner) (domain.Driver, error) {
	var (
		d  domain.Driver
		id pgtype.UUID
	)
	if err := s.Scan(&id, &d.Name, &d.LicenseNumber, &d.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Driver{}, domain.ErrNotFound
		}
		return domain.Driver{}, err
	}
	d.ID = uuid.UUID(id.Bytes)
	return d, nil
}
