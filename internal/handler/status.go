package handler

import (
	"math"
	"net/http"
	"time"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// LogDutyChange handles POST /drivers/{driverId}/duty-status.
// Responds 201 with the new log entry and the refreshed status.
func (s *Server) LogDutyChange(w http.ResponseWriter, r *http.Request) {
	id, err := driverIDParam(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var body dutyChangeRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}
	status, err := domain.ParseDutyStatus(body.DutyStatus)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	change := domain.DutyChange{
		DriverID: id,
		Status:   status,
		Location: body.Location,
		Odometer: body.Odometer,
		Remarks:  body.Remarks,
	}
	if body.At != nil {
		change.At = *body.At
	}

	interval, st, err := s.hos.LogDutyChange(r.Context(), change)
	if err != nil {
		s.writeError(w, r, err, driverNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, dutyChangeResponse{
		LogEntry:  toDutyInterval(interval),
		HOSStatus: toStatus(st),
	})
}

// GetStatus handles GET /drivers/{driverId}/hos-status.
// ?at= (RFC 3339) evaluates the driver at a past instant.
func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := driverIDParam(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var at *time.Time
	if err := queryParam(r, "at", &at); err != nil {
		s.writeError(w, r, err, "")
		return
	}

	st, err := s.hos.Status(r.Context(), id, at)
	if err != nil {
		s.writeError(w, r, err, driverNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toStatus(st))
}

// GetCanDrive handles GET /drivers/{driverId}/can-drive?hours=.
func (s *Server) GetCanDrive(w http.ResponseWriter, r *http.Request) {
	id, err := driverIDParam(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var hours *float64
	if err := queryParam(r, "hours", &hours); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if hours == nil {
		badRequest(w, "hours parameter is required")
		return
	}
	if math.IsNaN(*hours) || math.IsInf(*hours, 0) {
		badRequest(w, "hours must be a finite number")
		return
	}

	ok, reasons, st, err := s.hos.CanDriveFor(r.Context(), id, *hours)
	if err != nil {
		s.writeError(w, r, err, driverNotFound)
		return
	}
	writeJSON(w, http.StatusOK, canDriveResponse{
		CanDrive:       ok,
		RequestedHours: *hours,
		Reasons:        reasons,
		HOSStatus:      toStatus(st),
	})
}
