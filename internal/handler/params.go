package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// driverIDParam binds the {driverId} path segment.
func driverIDParam(r *http.Request) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "driverId", chi.URLParam(r, "driverId"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: driverId must be a UUID", domain.ErrInvalidInput)
	}
	return id, nil
}

// queryParam binds an optional form-style query parameter into dest, which
// must be a pointer to a pointer so absence is distinguishable from zero.
func queryParam(r *http.Request, name string, dest any) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest); err != nil {
		return fmt.Errorf("%w: invalid %s parameter", domain.ErrInvalidInput, name)
	}
	return nil
}

// daysParam binds ?days= with a fallback. Negative values are rejected by
// the service layer.
func daysParam(r *http.Request, fallback int) (int, error) {
	var days *int
	if err := queryParam(r, "days", &days); err != nil {
		return 0, err
	}
	if days == nil {
		return fallback, nil
	}
	return *days, nil
}
