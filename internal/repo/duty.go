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

// DutyLogRepo is the append-only store of duty-status intervals.
// Closing the open interval is the only update it ever performs.
type DutyLogRepo interface {
	// Append closes the driver's open interval at change.At and opens a new
	// interval starting at change.At, in one transaction. Either both writes
	// land or neither does.
	// Returns domain.ErrNotFound if the driver does not exist and
	// domain.ErrValidation if change.At is not after the open interval's start.
	Append(ctx context.Context, change domain.DutyChange) (domain.DutyInterval, error)

	// History returns every interval for the driver that started at or before
	// until, ordered by start_time ascending.
	History(ctx context.Context, driverID uuid.UUID, until time.Time) ([]domain.DutyInterval, error)

	// ListOverlapping returns intervals that overlap [from, to), ordered by
	// start_time ascending.
	ListOverlapping(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.DutyInterval, error)

	// ListStartedSince returns intervals that started at or after since,
	// ordered by start_time descending (newest first).
	ListStartedSince(ctx context.Context, driverID uuid.UUID, since time.Time) ([]domain.DutyInterval, error)
}

// pgDutyLogRepo is the Postgres implementation of DutyLogRepo.
type pgDutyLogRepo struct {
	db db
}

// NewDutyLogRepo constructs a DutyLogRepo backed by the provided db connection.
func NewDutyLogRepo(db db) DutyLogRepo {
	return &pgDutyLogRepo{db: db}
}

const dutyColumns = `id, driver_id, duty_status, start_time, end_time, location, odometer, remarks, created_at`

// Append locks the driver row so concurrent writers for the same driver
// serialize; the partial unique index on open intervals backs this up.
func (r *pgDutyLogRepo) Append(ctx context.Context, change domain.DutyChange) (domain.DutyInterval, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.DutyInterval{}, fmt.Errorf("repo.DutyLogRepo.Append: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const lockDriver = `SELECT id FROM drivers WHERE id = @driver_id FOR UPDATE`
	var locked pgtype.UUID
	if err := tx.QueryRow(ctx, lockDriver, pgx.NamedArgs{"driver_id": change.DriverID}).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DutyInterval{}, fmt.Errorf("repo.DutyLogRepo.Append: %w", domain.ErrNotFound)
		}
		return domain.DutyInterval{}, fmt.Errorf("repo.DutyLogRepo.Append: lock driver: %w", err)
	}

	const openStart = `
		SELECT start_time FROM duty_intervals
		WHERE driver_id = @driver_id AND end_time IS NULL`
	var started time.Time
	err = tx.QueryRow(ctx, openStart, pgx.NamedArgs{"driver_id": change.DriverID}).Scan(&started)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// First entry for this driver.
	case err != nil:
		return domain.DutyInterval{}, fmt.Errorf("repo.DutyLogRepo.Append: find open interval: %w", err)
	case !change.At.After(started):
		return domain.DutyInterval{}, fmt.Errorf("repo.DutyLogRepo.Append: %w: change at %s is not after open interval start %s",
			domain.ErrValidation, change.At.Format(time.RFC3339), started.Format(time.RFC3339))
	default:
		const closeOpen = `
			UPDATE duty_intervals SET end_time = @at
			WHERE driver_id = @driver_id AND end_time IS NULL`
		if _, err := tx.Exec(ctx, closeOpen, pgx.NamedArgs{"driver_id": change.DriverID, "at": change.At}); err != nil {
			return domain.DutyInterval{}, fmt.Errorf("repo.DutyLogRepo.Append: close open interval: %w", err)
		}
	}

	const insert = `
		INSERT INTO duty_intervals (driver_id, duty_status, start_time, location, odometer, remarks)
		VALUES (@driver_id, @duty_status, @start_time, @location, @odometer, @remarks)
		RETURNING ` + dutyColumns

	created, err := scanDutyInterval(tx.QueryRow(ctx, insert, pgx.NamedArgs{
		"driver_id":   change.DriverID,
		"duty_status": change.Status.Code(),
		"start_time":  change.At,
		"location":    change.Location,
		"odometer":    change.Odometer,
		"remarks":     change.Remarks,
	}))
	if err != nil {
		return domain.DutyInterval{}, fmt.Errorf("repo.DutyLogRepo.Append: insert: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.DutyInterval{}, fmt.Errorf("repo.DutyLogRepo.Append: commit: %w", err)
	}
	return created, nil
}

func (r *pgDutyLogRepo) History(ctx context.Context, driverID uuid.UUID, until time.Time) ([]domain.DutyInterval, error) {
	const q = `
		SELECT ` + dutyColumns + `
		FROM duty_intervals
		WHERE driver_id = @driver_id AND start_time <= @until
		ORDER BY start_time`

	return r.list(ctx, "History", q, pgx.NamedArgs{"driver_id": driverID, "until": until})
}

func (r *pgDutyLogRepo) ListOverlapping(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.DutyInterval, error) {
	const q = `
		SELECT ` + dutyColumns + `
		FROM duty_intervals
		WHERE driver_id = @driver_id
		  AND start_time < @to
		  AND (end_time IS NULL OR end_time > @from)
		ORDER BY start_time`

	return r.list(ctx, "ListOverlapping", q, pgx.NamedArgs{"driver_id": driverID, "from": from, "to": to})
}

func (r *pgDutyLogRepo) ListStartedSince(ctx context.Context, driverID uuid.UUID, since time.Time) ([]domain.DutyInterval, error) {
	const q = `
		SELECT ` + dutyColumns + `
		FROM duty_intervals
		WHERE driver_id = @driver_id AND start_time >= @since
		ORDER BY start_time DESC`

	return r.list(ctx, "ListStartedSince", q, pgx.NamedArgs{"driver_id": driverID, "since": since})
}

func (r *pgDutyLogRepo) list(ctx context.Context, op, q string, args pgx.NamedArgs) ([]domain.DutyInterval, error) {
	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.DutyLogRepo.%s: %w", op, err)
	}
	out, err := collect(rows, scanDutyInterval)
	if err != nil {
		return nil, fmt.Errorf("repo.DutyLogRepo.%s: scan: %w", op, err)
	}
	return out, nil
}

// scanDutyInterval maps a single database row into a domain.DutyInterval.
// It handles the UUID, status code and nullable end_time conversions.
func scanDutyInterval(s scanner) (domain.DutyInterval, error) {
	var (
		iv       domain.DutyInterval
		id       pgtype.UUID
		driverID pgtype.UUID
		code     string
		end      pgtype.Timestamptz
	)

	err := s.Scan(&id, &driverID, &code, &iv.StartTime, &end, &iv.Location, &iv.Odometer, &iv.Remarks, &iv.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DutyInterval{}, domain.ErrNotFound
		}
		return domain.DutyInterval{}, err
	}

	status, err := domain.ParseDutyStatus(code)
	if err != nil {
		return domain.DutyInterval{}, err
	}

	iv.ID = uuid.UUID(id.Bytes)
	iv.DriverID = uuid.UUID(driverID.Bytes)
	iv.Status = status
	if end.Valid {
		e := end.Time
		iv.EndTime = &e
	}
	return iv, nil
}
