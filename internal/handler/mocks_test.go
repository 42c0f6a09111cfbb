package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/handler"
	"github.com/pkordes/eld-logbook/internal/hos"
	"github.com/pkordes/eld-logbook/internal/service"
)

type mockDriverServicer struct {
	create  func(ctx context.Context, d domain.Driver) (domain.Driver, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	list    func(ctx context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error)
}

func (m *mockDriverServicer) Create(ctx context.Context, d domain.Driver) (domain.Driver, error) {
	return m.create(ctx, d)
}
func (m *mockDriverServicer) GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error) {
	return m.getByID(ctx, id)
}
func (m *mockDriverServicer) List(ctx context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error) {
	return m.list(ctx, p)
}

type mockHOSServicer struct {
	logDutyChange func(ctx context.Context, c domain.DutyChange) (domain.DutyInterval, service.Status, error)
	status        func(ctx context.Context, driverID uuid.UUID, at *time.Time) (service.Status, error)
	canDriveFor   func(ctx context.Context, driverID uuid.UUID, hours float64) (bool, []string, service.Status, error)
	dailyLog      func(ctx context.Context, driverID uuid.UUID, date time.Time) (hos.DailyLog, error)
	logbook       func(ctx context.Context, driverID uuid.UUID, days int) ([]domain.DutyInterval, error)
	violations    func(ctx context.Context, driverID uuid.UUID, days int) ([]domain.Violation, error)
}

func (m *mockHOSServicer) LogDutyChange(ctx context.Context, c domain.DutyChange) (domain.DutyInterval, service.Status, error) {
	return m.logDutyChange(ctx, c)
}
func (m *mockHOSServicer) Status(ctx context.Context, driverID uuid.UUID, at *time.Time) (service.Status, error) {
	return m.status(ctx, driverID, at)
}
func (m *mockHOSServicer) CanDriveFor(ctx context.Context, driverID uuid.UUID, hours float64) (bool, []string, service.Status, error) {
	return m.canDriveFor(ctx, driverID, hours)
}
func (m *mockHOSServicer) DailyLog(ctx context.Context, driverID uuid.UUID, date time.Time) (hos.DailyLog, error) {
	return m.dailyLog(ctx, driverID, date)
}
func (m *mockHOSServicer) Logbook(ctx context.Context, driverID uuid.UUID, days int) ([]domain.DutyInterval, error) {
	return m.logbook(ctx, driverID, days)
}
func (m *mockHOSServicer) Violations(ctx context.Context, driverID uuid.UUID, days int) ([]domain.Violation, error) {
	return m.violations(ctx, driverID, days)
}
func (m *mockHOSServicer) Rules() hos.Rules { return hos.DefaultRules }

type mockTripServicer struct {
	plan         func(ctx context.Context, req service.PlanRequest) (service.PlanResult, error)
	listByDriver func(ctx context.Context, driverID uuid.UUID) ([]domain.Trip, error)
}

func (m *mockTripServicer) Plan(ctx context.Context, req service.PlanRequest) (service.PlanResult, error) {
	return m.plan(ctx, req)
}
func (m *mockTripServicer) ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Trip, error) {
	return m.listByDriver(ctx, driverID)
}

var (
	_ handler.DriverServicer = (*mockDriverServicer)(nil)
	_ handler.HOSServicer    = (*mockHOSServicer)(nil)
	_ handler.TripServicer   = (*mockTripServicer)(nil)
	_ handler.DriverServicer = (*service.DriverService)(nil)
	_ handler.HOSServicer    = (*service.HOSService)(nil)
	_ handler.TripServicer   = (*service.TripService)(nil)
)

// ---- helpers ---------------------------------------------------------------

var (
	driverID = uuid.MustParse("0d9e4c52-6f8a-4b1e-8f3a-2a7c5b1e9d40")
	t0       = time.Date(2025, 6, 2, 6, 0, 0, 0, time.UTC)
)

type fakes struct {
	drivers *mockDriverServicer
	hos     *mockHOSServicer
	trips   *mockTripServicer
}

func newFakes() *fakes {
	return &fakes{drivers: &mockDriverServicer{}, hos: &mockHOSServicer{}, trips: &mockTripServicer{}}
}

// do runs one request through the full route table.
func (f *fakes) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := handler.NewServer(f.drivers, f.hos, f.trips, nil)

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

// compliantStatus is a snapshot of a driver two hours into a fresh duty period.
func compliantStatus() service.Status {
	return service.Status{
		DriverID: driverID,
		Snapshot: hos.Snapshot{
			At:                    t0.Add(2 * time.Hour),
			CurrentStatus:         domain.OnDutyNotDriving,
			DutyPeriodStart:       t0,
			HoursDrivenDutyPeriod: 1.3333333,
			HoursOnDutyDutyPeriod: 2,
			RemainingDrive:        9.6666667,
			RemainingDuty:         12,
			RemainingCycle:        68,
			Warnings:              []string{},
			CanDrive:              true,
		},
	}
}
