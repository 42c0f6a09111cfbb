package handler

import (
	"net/http"

	"github.com/pkordes/eld-logbook/internal/service"
)

// PlanTrip handles POST /trips/plan.
// Responds 201 with the created trip and route when the driver has the hours,
// otherwise 200 with can_complete_trip=false and the reasons.
func (s *Server) PlanTrip(w http.ResponseWriter, r *http.Request) {
	var body planTripRequest
	if err := decodeJSON(r, &body); err != nil {
		s.writeDecodeError(w, r, err)
		return
	}

	res, err := s.trips.Plan(r.Context(), service.PlanRequest{
		DriverID:        body.DriverID,
		CurrentLocation: body.CurrentLocation,
		PickupLocation:  body.PickupLocation,
		DropoffLocation: body.DropoffLocation,
		EstimatedHours:  body.EstimatedHours,
	})
	if err != nil {
		s.writeError(w, r, err, driverNotFound)
		return
	}

	resp := planTripResponse{
		CanCompleteTrip: res.CanComplete,
		Route:           res.Route,
		HOSStatus:       toStatus(res.Status),
	}
	if !res.CanComplete {
		resp.Reasons = res.Reasons
		writeJSON(w, http.StatusOK, resp)
		return
	}
	trip := toTrip(*res.Trip)
	resp.Trip = &trip
	writeJSON(w, http.StatusCreated, resp)
}

// ListTrips handles GET /drivers/{driverId}/trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	id, err := driverIDParam(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	trips, err := s.trips.ListByDriver(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err, driverNotFound)
		return
	}
	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = toTrip(t)
	}
	writeJSON(w, http.StatusOK, out)
}
