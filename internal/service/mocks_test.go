package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/repo"
	"github.com/pkordes/eld-logbook/internal/route"
	"github.com/pkordes/eld-logbook/internal/service"
)

// Hand-written test doubles. Each method is a function field; set only the
// ones a test needs. Calling an unset one panics, which fails the test.

type mockDriverRepo struct {
	create    func(ctx context.Context, d domain.Driver) (domain.Driver, error)
	getByID   func(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	listPaged func(ctx context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error)
}

func (m *mockDriverRepo) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	return m.create(ctx, d)
}
func (m *mockDriverRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	return m.getByID(ctx, id)
}
func (m *mockDriverRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error) {
	return m.listPaged(ctx, p)
}

type mockDutyLogRepo struct {
	appendFn         func(ctx context.Context, c domain.DutyChange) (domain.DutyInterval, error)
	history          func(ctx context.Context, driverID uuid.UUID, until time.Time) ([]domain.DutyInterval, error)
	listOverlapping  func(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.DutyInterval, error)
	listStartedSince func(ctx context.Context, driverID uuid.UUID, since time.Time) ([]domain.DutyInterval, error)
}

func (m *mockDutyLogRepo) Append(ctx context.Context, c domain.DutyChange) (domain.DutyInterval, error) {
	return m.appendFn(ctx, c)
}
func (m *mockDutyLogRepo) History(ctx context.Context, driverID uuid.UUID, until time.Time) ([]domain.DutyInterval, error) {
	return m.history(ctx, driverID, until)
}
func (m *mockDutyLogRepo) ListOverlapping(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.DutyInterval, error) {
	return m.listOverlapping(ctx, driverID, from, to)
}
func (m *mockDutyLogRepo) ListStartedSince(ctx context.Context, driverID uuid.UUID, since time.Time) ([]domain.DutyInterval, error) {
	return m.listStartedSince(ctx, driverID, since)
}

type mockViolationRepo struct {
	create      func(ctx context.Context, v domain.Violation) (domain.Violation, error)
	listSince   func(ctx context.Context, driverID uuid.UUID, since time.Time) ([]domain.Violation, error)
	listBetween func(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.Violation, error)
	existsSince func(ctx context.Context, driverID uuid.UUID, kind domain.ViolationKind, since time.Time) (bool, error)
	createOnce  func(ctx context.Context, v domain.Violation, since time.Time) (domain.Violation, bool, error)
}

func (m *mockViolationRepo) Create(ctx context.Context, v domain.Violation) (domain.Violation, error) {
	return m.create(ctx, v)
}
func (m *mockViolationRepo) ListSince(ctx context.Context, driverID uuid.UUID, since time.Time) ([]domain.Violation, error) {
	return m.listSince(ctx, driverID, since)
}
func (m *mockViolationRepo) ListBetween(ctx context.Context, driverID uuid.UUID, from, to time.Time) ([]domain.Violation, error) {
	return m.listBetween(ctx, driverID, from, to)
}
func (m *mockViolationRepo) ExistsSince(ctx context.Context, driverID uuid.UUID, kind domain.ViolationKind, since time.Time) (bool, error) {
	return m.existsSince(ctx, driverID, kind, since)
}
func (m *mockViolationRepo) CreateUnlessExists(ctx context.Context, v domain.Violation, since time.Time) (domain.Violation, bool, error) {
	return m.createOnce(ctx, v, since)
}

type mockTripRepo struct {
	create       func(ctx context.Context, t domain.Trip) (domain.Trip, error)
	listByDriver func(ctx context.Context, driverID uuid.UUID) ([]domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, t)
}
func (m *mockTripRepo) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Trip, error) {
	return m.listByDriver(ctx, driverID)
}

type mockDriveChecker struct {
	canDriveFor func(ctx context.Context, driverID uuid.UUID, hours float64) (bool, []string, service.Status, error)
}

func (m *mockDriveChecker) CanDriveFor(ctx context.Context, driverID uuid.UUID, hours float64) (bool, []string, service.Status, error) {
	return m.canDriveFor(ctx, driverID, hours)
}

type mockEstimator struct {
	estimate func(ctx context.Context, current, pickup, dropoff string) (route.Route, error)
}

func (m *mockEstimator) Estimate(ctx context.Context, current, pickup, dropoff string) (route.Route, error) {
	return m.estimate(ctx, current, pickup, dropoff)
}

var (
	_ repo.DriverRepo      = (*mockDriverRepo)(nil)
	_ repo.DutyLogRepo     = (*mockDutyLogRepo)(nil)
	_ repo.ViolationRepo   = (*mockViolationRepo)(nil)
	_ repo.TripRepo        = (*mockTripRepo)(nil)
	_ service.DriveChecker = (*mockDriveChecker)(nil)
	_ service.DriveChecker = (*service.HOSService)(nil)
	_ route.Estimator      = (*mockEstimator)(nil)
	_ route.Estimator      = (*route.CityTable)(nil)
)

// knownDriver returns a driver repo that finds exactly id.
func knownDriver(id uuid.UUID) *mockDriverRepo {
	return &mockDriverRepo{
		getByID: func(_ context.Context, got uuid.UUID) (domain.Driver, error) {
			if got != id {
				return domain.Driver{}, domain.ErrNotFound
			}
			return domain.Driver{ID: id, Name: "Pat Doe", LicenseNumber: "GA-1"}, nil
		},
	}
}
