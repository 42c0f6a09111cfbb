// Package handler implements the HTTP API of the ELD logbook.
// All handlers are methods on Server; Routes mounts them on a chi router.
// Handlers decode and bind the request, call one service method, and map the
// result or the domain error onto the response.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/hos"
	"github.com/pkordes/eld-logbook/internal/service"
)

// DriverServicer is the driver business surface the handlers depend on.
type DriverServicer interface {
	Create(ctx context.Context, d domain.Driver) (domain.Driver, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Driver, error)
	List(ctx context.Context, p domain.PaginationParams) ([]domain.Driver, int64, error)
}

// HOSServicer is the compliance surface the handlers depend on.
type HOSServicer interface {
	LogDutyChange(ctx context.Context, change domain.DutyChange) (domain.DutyInterval, service.Status, error)
	Status(ctx context.Context, driverID uuid.UUID, at *time.Time) (service.Status, error)
	CanDriveFor(ctx context.Context, driverID uuid.UUID, hours float64) (bool, []string, service.Status, error)
	DailyLog(ctx context.Context, driverID uuid.UUID, date time.Time) (hos.DailyLog, error)
	Logbook(ctx context.Context, driverID uuid.UUID, days int) ([]domain.DutyInterval, error)
	Violations(ctx context.Context, driverID uuid.UUID, days int) ([]domain.Violation, error)
	Rules() hos.Rules
}

// TripServicer is the trip planning surface the handlers depend on.
type TripServicer interface {
	Plan(ctx context.Context, req service.PlanRequest) (service.PlanResult, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID) ([]domain.Trip, error)
}

// Server holds the handlers' dependencies. Methods live in per-resource files.
type Server struct {
	drivers DriverServicer
	hos     HOSServicer
	trips   TripServicer
	log     *slog.Logger
}

// NewServer constructs the Server. A nil logger uses slog.Default.
func NewServer(drivers DriverServicer, hos HOSServicer, trips TripServicer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{drivers: drivers, hos: hos, trips: trips, log: log}
}

// Routes returns the API routes. Cross-cutting middleware is applied by the caller.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/hos-rules", s.GetRules)

	r.Route("/drivers", func(r chi.Router) {
		r.Get("/", s.ListDrivers)
		r.Post("/", s.CreateDriver)

		r.Route("/{driverId}", func(r chi.Router) {
			r.Get("/", s.GetDriver)
			r.Post("/duty-status", s.LogDutyChange)
			r.Get("/hos-status", s.GetStatus)
			r.Get("/can-drive", s.GetCanDrive)
			r.Get("/logbook", s.GetLogbook)
			r.Get("/daily-log", s.GetDailyLog)
			r.Get("/violations", s.ListViolations)
			r.Get("/trips", s.ListTrips)
		})
	})

	r.Post("/trips/plan", s.PlanTrip)

	return r
}
