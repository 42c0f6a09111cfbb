package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/eld-logbook/internal/domain"
)

const (
	defaultLogbookDays   = 8
	defaultViolationDays = 30
)

// logbookCSVHeaders is the first row of a logbook CSV download.
var logbookCSVHeaders = []string{
	"id", "duty_status", "start_time", "end_time",
	"location", "odometer", "remarks", "duration_hours",
}

// GetLogbook handles GET /drivers/{driverId}/logbook.
// ?days= (default 8) sets the look-back; ?format=csv downloads the same rows as CSV.
func (s *Server) GetLogbook(w http.ResponseWriter, r *http.Request) {
	id, err := driverIDParam(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	days, err := daysParam(r, defaultLogbookDays)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var format *string
	if err := queryParam(r, "format", &format); err != nil {
		s.writeError(w, r, err, "")
		return
	}
	if format != nil && *format != "json" && *format != "csv" {
		badRequest(w, "format must be json or csv")
		return
	}

	intervals, err := s.hos.Logbook(r.Context(), id, days)
	if err != nil {
		s.writeError(w, r, err, driverNotFound)
		return
	}

	if format != nil && *format == "csv" {
		writeLogbookCSV(w, id.String(), intervals)
		return
	}

	entries := make([]dutyIntervalResponse, len(intervals))
	for i, iv := range intervals {
		entries[i] = toDutyInterval(iv)
	}
	writeJSON(w, http.StatusOK, logbookResponse{LogEntries: entries, PeriodDays: days})
}

// writeLogbookCSV encodes intervals into a buffer first so a write error
// cannot leave a half-sent 200.
func writeLogbookCSV(w http.ResponseWriter, driverID string, intervals []domain.DutyInterval) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	_ = cw.Write(logbookCSVHeaders)
	for _, iv := range intervals {
		_ = cw.Write(intervalToCSVRecord(iv))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="logbook-%s.csv"`, driverID))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// intervalToCSVRecord flattens one interval. An open interval has an empty end_time.
func intervalToCSVRecord(iv domain.DutyInterval) []string {
	end := ""
	if iv.EndTime != nil {
		end = iv.EndTime.UTC().Format(time.RFC3339)
	}
	return []string{
		iv.ID.String(),
		iv.Status.Code(),
		iv.StartTime.UTC().Format(time.RFC3339),
		end,
		iv.Location,
		strconv.Itoa(iv.Odometer),
		iv.Remarks,
		strconv.FormatFloat(round2(iv.DurationHours()), 'f', 2, 64),
	}
}

// GetDailyLog handles GET /drivers/{driverId}/daily-log.
// ?date=YYYY-MM-DD selects the day; default is today in the configured zone.
func (s *Server) GetDailyLog(w http.ResponseWriter, r *http.Request) {
	id, err := driverIDParam(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	var date *openapi_types.Date
	if err := queryParam(r, "date", &date); err != nil {
		badRequest(w, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	var day time.Time
	if date != nil {
		day = date.Time
	}

	grid, err := s.hos.DailyLog(r.Context(), id, day)
	if err != nil {
		s.writeError(w, r, err, driverNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toDailyLog(grid))
}

// ListViolations handles GET /drivers/{driverId}/violations.
// ?days= (default 30) sets the look-back. Newest first.
func (s *Server) ListViolations(w http.ResponseWriter, r *http.Request) {
	id, err := driverIDParam(r)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	days, err := daysParam(r, defaultViolationDays)
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}

	violations, err := s.hos.Violations(r.Context(), id, days)
	if err != nil {
		s.writeError(w, r, err, driverNotFound)
		return
	}
	writeJSON(w, http.StatusOK, violationListResponse{Violations: toViolations(violations), PeriodDays: days})
}
