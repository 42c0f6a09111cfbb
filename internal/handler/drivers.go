package handler

import (
	"net/http"

	"github.com/pkordes/eld-logbook/internal/domain"
)

const driverNotFound = "driver not found"

// CreateDriver handles POST /drivers.
func (s *Server) CreateDriver(w http.ResponseWriter, r *http.Request) {
	var body driverRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}

	created, err := s.drivers.Create(r.Context(), domain.Driver{Name: body.Name, LicenseNumber: body.LicenseNumber})
	if err != nil {
		s.writeError(w, r, err, driverNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, toDriver(created))
}

// ListDrivers handles GET /drivers.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListDrivers(w http.ResponseWriter, r *http.Request) {
	var page, limit *int
	if err := queryParam(r, "page", &page); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if err := queryParam(r, "limit", &limit); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	params := domain.NewPaginationParams(page, limit)

	drivers, total, err := s.drivers.List(r.Context(), params)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	data := make([]driverResponse, len(drivers))
	for i, d := range drivers {
		data[i] = toDriver(d)
	}
	writeJSON(w, http.StatusOK, driverListResponse{
		Data:       data,
		Pagination: pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// GetDriver handles GET /drivers/{driverId}.
func (s *Server) GetDriver(w http.ResponseWriter, r *http.Request) {
	id, err := driverIDParam(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	d, err := s.drivers.GetByID(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, driverNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toDriver(d))
}
