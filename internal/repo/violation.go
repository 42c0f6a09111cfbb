package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// ViolationRepo is the append-only log of detected HOS violations.
type ViolationRepo interface {
	// Create inserts a violation and returns the persisted record.
	Create(ctx context.Context, v domain.Violation) (domain.Violation, error)

	// ListSince returns violations detected at or after since, newest first.
	ListSince(ctx context.Context, driverID uuid.UUID, since time.Time) ([]domain.Violation, error)

	// ListBetween returns violations detected within [from, to), oldest first.
	ListBetween(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.Violation, error)

	// ExistsSince reports whether a violation of kind was detected for the
	// driver at or after since.
	ExistsSince(ctx context.Context, driverID uuid.UUID, kind domain.ViolationKind, since time.Time) (bool, error)

	// CreateUnlessExists inserts v unless a violation of the same kind was
	// already detected for the driver at or after since. The check and the
	// insert run in one transaction holding the driver row lock, so
	// concurrent evaluations of one breach write at most one row.
	// created is false when an existing row suppressed the insert.
	// Returns domain.ErrNotFound if the driver does not exist.
	CreateUnlessExists(ctx context.Context, v domain.Violation, since time.Time) (saved domain.Violation, created bool, err error)
}

// pgViolationRepo is the Postgres implementation of ViolationRepo.
type pgViolationRepo struct {
	db db
}

// NewViolationRepo constructs a ViolationRepo backed by the provided db connection.
func NewViolationRepo(db db) ViolationRepo {
	return &pgViolationRepo{db: db}
}

const violationColumns = `id, driver_id, violation_type, description, violation_time, severity, created_at`

func (r *pgViolationRepo) Create(ctx context.Context, v domain.Violation) (domain.Violation, error) {
	const q = `
		INSERT INTO violations (driver_id, violation_type, description, violation_time, severity)
		VALUES (@driver_id, @violation_type, @description, @violation_time, @severity)
		RETURNING ` + violationColumns

	result, err := scanViolation(r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"driver_id":      v.DriverID,
		"violation_type": string(v.Kind),
		"description":    v.Description,
		"violation_time": v.DetectedAt,
		"severity":       string(v.Severity),
	}))
	if err != nil {
		return domain.Violation{}, fmt.Errorf("repo.ViolationRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgViolationRepo) ListSince(ctx context.Context, driverID uuid.UUID, since time.Time) ([]domain.Violation, error) {
	const q = `
		SELECT ` + violationColumns + `
		FROM violations
		WHERE driver_id = @driver_id AND violation_time >= @since
		ORDER BY violation_time DESC, created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"driver_id": driverID, "since": since})
	if err != nil {
		return nil, fmt.Errorf("repo.ViolationRepo.ListSince: %w", err)
	}
	out, err := collect(rows, scanViolation)
	if err != nil {
		return nil, fmt.Errorf("repo.ViolationRepo.ListSince: scan: %w", err)
	}
	return out, nil
}

func (r *pgViolationRepo) ListBetween(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.Violation, error) {
	const q = `
		SELECT ` + violationColumns + `
		FROM violations
		WHERE driver_id = @driver_id AND violation_time >= @from AND violation_time < @to
		ORDER BY violation_time, created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"driver_id": driverID, "from": from, "to": to})
	if err != nil {
		return nil, fmt.Errorf("repo.ViolationRepo.ListBetween: %w", err)
	}
	out, err := collect(rows, scanViolation)
	if err != nil {
		return nil, fmt.Errorf("repo.ViolationRepo.ListBetween: scan: %w", err)
	}
	return out, nil
}

func (r *pgViolationRepo) ExistsSince(ctx context.Context, driverID uuid.UUID, kind domain.ViolationKind, since time.Time) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM violations
			WHERE driver_id = @driver_id
			  AND violation_type = @violation_type
			  AND violation_time >= @since
		)`

	var exists bool
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"driver_id":      driverID,
		"violation_type": string(kind),
		"since":          since,
	}).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repo.ViolationRepo.ExistsSince: %w", err)
	}
	return exists, nil
}

func (r *pgViolationRepo) CreateUnlessExists(ctx context.Context, v domain.Violation, since time.Time) (domain.Violation, bool, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Violation{}, false, fmt.Errorf("repo.ViolationRepo.CreateUnlessExists: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const lockDriver = `SELECT id FROM drivers WHERE id = @driver_id FOR UPDATE`
	var locked pgtype.UUID
	if err := tx.QueryRow(ctx, lockDriver, pgx.NamedArgs{"driver_id": v.DriverID}).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Violation{}, false, fmt.Errorf("repo.ViolationRepo.CreateUnlessExists: %w", domain.ErrNotFound)
		}
		return domain.Violation{}, false, fmt.Errorf("repo.ViolationRepo.CreateUnlessExists: lock driver: %w", err)
	}

	inTx := &pgViolationRepo{db: tx}
	exists, err := inTx.ExistsSince(ctx, v.DriverID, v.Kind, since)
	if err != nil {
		return domain.Violation{}, false, fmt.Errorf("repo.ViolationRepo.CreateUnlessExists: %w", err)
	}
	if exists {
		return v, false, nil
	}
	saved, err := inTx.Create(ctx, v)
	if err != nil {
		return domain.Violation{}, false, fmt.Errorf("repo.ViolationRepo.CreateUnlessExists: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Violation{}, false, fmt.Errorf("repo.ViolationRepo.CreateUnlessExists: commit: %w", err)
	}
	return saved, true, nil
}

func scanViolation(s scanner) (domain.Violation, error) {
	var (
		v        domain.Violation
		id       pgtype.UUID
		driverID pgtype.UUID
		kind     string
		severity string
	)
	if err := s.Scan(&id, &driverID, &kind, &v.Description, &v.DetectedAt, &severity, &v.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Violation{}, domain.ErrNotFound
		}
		return domain.Violation{}, err
	}
	v.ID = uuid.UUID(id.Bytes)
	v.DriverID = uuid.UUID(driverID.Bytes)
	v.Kind = domain.ViolationKind(kind)
	v.Severity = domain.Severity(severity)
	return v, nil
}
