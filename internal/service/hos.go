// Package service contains the business logic of the ELD logbook API.
// Services validate inputs, gather what the HOS engine needs from the repos,
// and persist what the engine finds. No SQL lives here.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/hos"
	"github.com/pkordes/eld-logbook/internal/metrics"
	"github.com/pkordes/eld-logbook/internal/repo"
)

// Status is a compliance snapshot for one driver plus the violation records
// that snapshot produced.
type Status struct {
	DriverID uuid.UUID
	hos.Snapshot

	// Violations lists one record per breach found by this evaluation.
	// Records suppressed as duplicates appear without an ID.
	Violations []domain.Violation
}

// HOSOptions configures an HOSService. Zero fields take defaults.
type HOSOptions struct {
	Rules    hos.Rules
	Location *time.Location
	Now      func() time.Time
	Logger   *slog.Logger
	Metrics  *metrics.Recorder

	// DedupeViolations skips writing a violation when one of the same kind
	// already covers the ongoing breach.
	DedupeViolations bool
}

// HOSService runs compliance evaluations against the stored duty log.
type HOSService struct {
	drivers    repo.DriverRepo
	duty       repo.DutyLogRepo
	violations repo.ViolationRepo

	rules   hos.Rules
	loc     *time.Location
	now     func() time.Time
	log     *slog.Logger
	metrics *metrics.Recorder
	dedupe  bool
}

// NewHOSService constructs an HOSService backed by the provided repos.
func NewHOSService(drivers repo.DriverRepo, duty repo.DutyLogRepo, violations repo.ViolationRepo, opts HOSOptions) *HOSService {
	s := &HOSService{
		drivers:    drivers,
		duty:       duty,
		violations: violations,
		rules:      opts.Rules,
		loc:        opts.Location,
		now:        opts.Now,
		log:        opts.Logger,
		metrics:    opts.Metrics,
		dedupe:     opts.DedupeViolations,
	}
	if s.rules == (hos.Rules{}) {
		s.rules = hos.DefaultRules
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Rules returns the limits this service evaluates against.
func (s *HOSService) Rules() hos.Rules { return s.rules }

// LogDutyChange closes the driver's open interval and opens a new one at
// change.At (now when zero), then evaluates the driver once and returns the
// new interval with the refreshed status.
// Returns domain.ErrInvalidInput for an unknown status, domain.ErrValidation
// for a change in the future, out of order, or with a negative odometer, and
// domain.ErrNotFound if the driver does not exist.
func (s *HOSService) LogDutyChange(ctx context.Context, change domain.DutyChange) (domain.DutyInterval, Status, error) {
	now := s.now()
	if change.At.IsZero() {
		change.At = now
	}
	if err := validateDutyChange(change, now); err != nil {
		return domain.DutyInterval{}, Status{}, err
	}
	change.Location = strings.TrimSpace(change.Location)
	change.Remarks = strings.TrimSpace(change.Remarks)

	interval, err := s.duty.Append(ctx, change)
	if err != nil {
		return domain.DutyInterval{}, Status{}, fmt.Errorf("service.HOSService.LogDutyChange: %w", err)
	}
	s.metrics.DutyChange(interval.Status)
	s.log.InfoContext(ctx, "duty status changed",
		"driver_id", change.DriverID,
		"status", interval.Status.Code(),
		"at", interval.StartTime,
	)

	status, err := s.evaluate(ctx, change.DriverID, now, true)
	if err != nil {
		return domain.DutyInterval{}, Status{}, fmt.Errorf("service.HOSService.LogDutyChange: %w", err)
	}
	return interval, status, nil
}

// Status evaluates the driver at the given instant, or now when at is nil.
// Violations are persisted only for evaluations of the present; a historical
// query is read-only.
// Returns domain.ErrNotFound if the driver does not exist and
// domain.ErrInvalidInput if at lies in the future.
func (s *HOSService) Status(ctx context.Context, driverID uuid.UUID, at *time.Time) (Status, error) {
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		return Status{}, fmt.Errorf("service.HOSService.Status: %w", err)
	}
	now := s.now()
	when, persist := now, true
	if at != nil {
		if at.After(now) {
			return Status{}, fmt.Errorf("%w: at must not be in the future", domain.ErrInvalidInput)
		}
		if at.Before(now) {
			when, persist = *at, false
		}
	}
	status, err := s.evaluate(ctx, driverID, when, persist)
	if err != nil {
		return Status{}, fmt.Errorf("service.HOSService.Status: %w", err)
	}
	return status, nil
}

// CanDriveFor reports whether the driver can drive hours more hours now,
// with the reasons when not. The status it was decided from is returned so
// callers do not evaluate twice.
// Returns domain.ErrInvalidInput if hours is negative or not finite.
func (s *HOSService) CanDriveFor(ctx context.Context, driverID uuid.UUID, hours float64) (bool, []string, Status, error) {
	if err := validateHours(hours); err != nil {
		return false, nil, Status{}, err
	}
	status, err := s.Status(ctx, driverID, nil)
	if err != nil {
		return false, nil, Status{}, fmt.Errorf("service.HOSService.CanDriveFor: %w", err)
	}
	ok, reasons := hos.CanDriveFor(status.Snapshot, hours)
	return ok, reasons, status, nil
}

// DailyLog renders the 15-minute grid for the calendar day containing date,
// interpreted in the service's zone. A zero date means today.
// Returns domain.ErrNotFound if the driver does not exist.
func (s *HOSService) DailyLog(ctx context.Context, driverID uuid.UUID, date time.Time) (hos.DailyLog, error) {
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		return hos.DailyLog{}, fmt.Errorf("service.HOSService.DailyLog: %w", err)
	}
	now := s.now()
	if date.IsZero() {
		date = now.In(s.loc)
	}
	y, m, d := date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, s.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)

	intervals, err := s.duty.ListOverlapping(ctx, driverID, dayStart, dayEnd)
	if err != nil {
		return hos.DailyLog{}, fmt.Errorf("service.HOSService.DailyLog: %w", err)
	}
	violations, err := s.violations.ListBetween(ctx, driverID, dayStart, dayEnd)
	if err != nil {
		return hos.DailyLog{}, fmt.Errorf("service.HOSService.DailyLog: %w", err)
	}
	return hos.RenderDay(intervals, dayStart, now, violations), nil
}

// Logbook returns the intervals that started within the last days days,
// newest first. Always returns a non-nil slice.
// Returns domain.ErrInvalidInput if days is negative.
func (s *HOSService) Logbook(ctx context.Context, driverID uuid.UUID, days int) ([]domain.DutyInterval, error) {
	since, err := s.since(ctx, driverID, days)
	if err != nil {
		return nil, fmt.Errorf("service.HOSService.Logbook: %w", err)
	}
	intervals, err := s.duty.ListStartedSince(ctx, driverID, since)
	if err != nil {
		return nil, fmt.Errorf("service.HOSService.Logbook: %w", err)
	}
	if intervals == nil {
		return []domain.DutyInterval{}, nil
	}
	return intervals, nil
}

// Violations returns violations detected within the last days days,
// newest first. Always returns a non-nil slice.
// Returns domain.ErrInvalidInput if days is negative.
func (s *HOSService) Violations(ctx context.Context, driverID uuid.UUID, days int) ([]domain.Violation, error) {
	since, err := s.since(ctx, driverID, days)
	if err != nil {
		return nil, fmt.Errorf("service.HOSService.Violations: %w", err)
	}
	violations, err := s.violations.ListSince(ctx, driverID, since)
	if err != nil {
		return nil, fmt.Errorf("service.HOSService.Violations: %w", err)
	}
	if violations == nil {
		return []domain.Violation{}, nil
	}
	return violations, nil
}

func (s *HOSService) since(ctx context.Context, driverID uuid.UUID, days int) (time.Time, error) {
	if days < 0 {
		return time.Time{}, fmt.Errorf("%w: days must not be negative", domain.ErrInvalidInput)
	}
	if _, err := s.drivers.GetByID(ctx, driverID); err != nil {
		return time.Time{}, err
	}
	return s.now().AddDate(0, 0, -days), nil
}

// evaluate loads the driver's log once, runs the engine at when, and
// records what it found.
func (s *HOSService) evaluate(ctx context.Context, driverID uuid.UUID, when time.Time, persist bool) (Status, error) {
	history, err := s.duty.History(ctx, driverID, when)
	if err != nil {
		return Status{}, err
	}
	snap := hos.Evaluate(history, when, s.loc, s.rules)
	s.metrics.Evaluation(snap.CanDrive)

	status := Status{
		DriverID:   driverID,
		Snapshot:   snap,
		Violations: make([]domain.Violation, 0, len(snap.Findings)),
	}
	for _, f := range snap.Findings {
		v := f.Violation(driverID, when)
		if persist {
			if v, err = s.record(ctx, f, v); err != nil {
				return Status{}, err
			}
		}
		status.Violations = append(status.Violations, v)
	}
	return status, nil
}

// record writes v unless deduplication finds the breach already recorded,
// in which case v is returned unsaved.
func (s *HOSService) record(ctx context.Context, f hos.Finding, v domain.Violation) (domain.Violation, error) {
	var (
		saved domain.Violation
		err   error
	)
	if s.dedupe {
		var created bool
		saved, created, err = s.violations.CreateUnlessExists(ctx, v, f.BreachStart)
		if err != nil {
			return domain.Violation{}, err
		}
		if !created {
			return v, nil
		}
	} else {
		saved, err = s.violations.Create(ctx, v)
		if err != nil {
			return domain.Violation{}, err
		}
	}
	s.metrics.ViolationRecorded(saved)
	s.log.WarnContext(ctx, "hos violation recorded",
		"driver_id", saved.DriverID,
		"kind", string(saved.Kind),
		"severity", string(saved.Severity),
		"description", saved.Description,
	)
	return saved, nil
}

func validateHours(hours float64) error {
	if math.IsNaN(hours) || math.IsInf(hours, 0) {
		return fmt.Errorf("%w: hours must be a finite number", domain.ErrInvalidInput)
	}
	if hours < 0 {
		return fmt.Errorf("%w: hours must not be negative", domain.ErrInvalidInput)
	}
	return nil
}

func validateDutyChange(c domain.DutyChange, now time.Time) error {
	if !c.Status.Valid() {
		return fmt.Errorf("%w: unknown duty status", domain.ErrInvalidInput)
	}
	if c.At.After(now) {
		return fmt.Errorf("%w: at must not be in the future", domain.ErrValidation)
	}
	if c.Odometer < 0 {
		return fmt.Errorf("%w: odometer must not be negative", domain.ErrValidation)
	}
	return nil
}
