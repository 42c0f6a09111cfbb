package handler

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
	"github.com/pkordes/eld-logbook/internal/hos"
	"github.com/pkordes/eld-logbook/internal/route"
	"github.com/pkordes/eld-logbook/internal/service"
)

// Hours in responses are rounded to two decimals; the engine keeps full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ---- drivers ---------------------------------------------------------------

type driverRequest struct {
	Name          string `json:"name"`
	LicenseNumber string `json:"license_number"`
}

type driverResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	LicenseNumber string    `json:"license_number"`
	CreatedAt     time.Time `json:"created_at"`
}

func toDriver(d domain.Driver) driverResponse {
	return driverResponse{ID: d.ID, Name: d.Name, LicenseNumber: d.LicenseNumber, CreatedAt: d.CreatedAt}
}

type pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type driverListResponse struct {
	Data       []driverResponse `json:"data"`
	Pagination pagination       `json:"pagination"`
}

// ---- duty log --------------------------------------------------------------

type dutyChangeRequest struct {
	DutyStatus string     `json:"duty_status"`
	Location   string     `json:"location"`
	Odometer   int        `json:"odometer"`
	Remarks    string     `json:"remarks"`
	At         *time.Time `json:"at,omitempty"`
}

type dutyIntervalResponse struct {
	ID            uuid.UUID         `json:"id"`
	DriverID      uuid.UUID         `json:"driver_id"`
	DutyStatus    domain.DutyStatus `json:"duty_status"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       *time.Time        `json:"end_time"`
	Location      string            `json:"location"`
	Odometer      int               `json:"odometer"`
	Remarks       string            `json:"remarks"`
	DurationHours float64           `json:"duration_hours"`
	CreatedAt     time.Time         `json:"created_at"`
}

func toDutyInterval(i domain.DutyInterval) dutyIntervalResponse {
	return dutyIntervalResponse{
		ID:            i.ID,
		DriverID:      i.DriverID,
		DutyStatus:    i.Status,
		StartTime:     i.StartTime,
		EndTime:       i.EndTime,
		Location:      i.Location,
		Odometer:      i.Odometer,
		Remarks:       i.Remarks,
		DurationHours: round2(i.DurationHours()),
		CreatedAt:     i.CreatedAt,
	}
}

type dutyChangeResponse struct {
	LogEntry  dutyIntervalResponse `json:"log_entry"`
	HOSStatus statusResponse       `json:"hos_status"`
}

type logbookResponse struct {
	LogEntries []dutyIntervalResponse `json:"log_entries"`
	PeriodDays int                    `json:"period_days"`
}

// ---- violations ------------------------------------------------------------

// violationResponse leaves id and created_at out for breaches that were
// reported but not written because an earlier record already covers them.
type violationResponse struct {
	ID            *uuid.UUID           `json:"id,omitempty"`
	DriverID      uuid.UUID            `json:"driver_id"`
	ViolationType domain.ViolationKind `json:"violation_type"`
	Description   string               `json:"description"`
	ViolationTime time.Time            `json:"violation_time"`
	Severity      domain.Severity      `json:"severity"`
	CreatedAt     *time.Time           `json:"created_at,omitempty"`
}

func toViolation(v domain.Violation) violationResponse {
	resp := violationResponse{
		DriverID:      v.DriverID,
		ViolationType: v.Kind,
		Description:   v.Description,
		ViolationTime: v.DetectedAt,
		Severity:      v.Severity,
	}
	if v.ID != uuid.Nil {
		id, created := v.ID, v.CreatedAt
		resp.ID = &id
		resp.CreatedAt = &created
	}
	return resp
}

func toViolations(vs []domain.Violation) []violationResponse {
	out := make([]violationResponse, len(vs))
	for i, v := range vs {
		out[i] = toViolation(v)
	}
	return out
}

type violationListResponse struct {
	Violations []violationResponse `json:"violations"`
	PeriodDays int                 `json:"period_days"`
}

// ---- status ----------------------------------------------------------------

type statusResponse struct {
	DriverID                   uuid.UUID           `json:"driver_id"`
	At                         time.Time           `json:"at"`
	CurrentDutyStatus          domain.DutyStatus   `json:"current_duty_status"`
	CurrentDutyPeriodStart     time.Time           `json:"current_duty_period_start"`
	DutyPeriodStartIsEstimated bool                `json:"duty_period_start_is_estimated"`
	HoursDrivenToday           float64             `json:"hours_driven_today"`
	HoursOnDutyToday           float64             `json:"hours_on_duty_today"`
	HoursDrivenDutyPeriod      float64             `json:"hours_driven_duty_period"`
	HoursOnDutyDutyPeriod      float64             `json:"hours_on_duty_duty_period"`
	HoursIn8DayPeriod          float64             `json:"hours_in_8_day_period"`
	TimeSinceLastBreak         float64             `json:"time_since_last_break"`
	RemainingDriveTime         float64             `json:"remaining_drive_time"`
	RemainingDutyTime          float64             `json:"remaining_duty_time"`
	Remaining70Hour            float64             `json:"remaining_70_hour"`
	Needs30MinBreak            bool                `json:"needs_30_min_break"`
	NextRequiredBreak          *time.Time          `json:"next_required_break"`
	Violations                 []violationResponse `json:"violations"`
	Warnings                   []string            `json:"warnings"`
	CanDrive                   bool                `json:"can_drive"`
}

func toStatus(st service.Status) statusResponse {
	s := st.Snapshot
	warnings := s.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return statusResponse{
		DriverID:                   st.DriverID,
		At:                         s.At,
		CurrentDutyStatus:          s.CurrentStatus,
		CurrentDutyPeriodStart:     s.DutyPeriodStart,
		DutyPeriodStartIsEstimated: s.DutyPeriodEstimated,
		HoursDrivenToday:           round2(s.HoursDrivenToday),
		HoursOnDutyToday:           round2(s.HoursOnDutyToday),
		HoursDrivenDutyPeriod:      round2(s.HoursDrivenDutyPeriod),
		HoursOnDutyDutyPeriod:      round2(s.HoursOnDutyDutyPeriod),
		HoursIn8DayPeriod:          round2(s.HoursInCycle),
		TimeSinceLastBreak:         round2(s.HoursSinceBreak),
		RemainingDriveTime:         round2(s.RemainingDrive),
		RemainingDutyTime:          round2(s.RemainingDuty),
		Remaining70Hour:            round2(s.RemainingCycle),
		Needs30MinBreak:            s.NeedsBreak,
		NextRequiredBreak:          s.NextRequiredBreak,
		Violations:                 toViolations(st.Violations),
		Warnings:                   warnings,
		CanDrive:                   s.CanDrive,
	}
}

type canDriveResponse struct {
	CanDrive       bool           `json:"can_drive"`
	RequestedHours float64        `json:"requested_hours"`
	Reasons        []string       `json:"reasons"`
	HOSStatus      statusResponse `json:"hos_status"`
}

// ---- daily log -------------------------------------------------------------

type slotResponse struct {
	Time    time.Time         `json:"time"`
	Status  domain.DutyStatus `json:"status"`
	Minutes int               `json:"minutes"`
}

type daySummaryResponse struct {
	TotalDriveTime  float64             `json:"total_drive_time"`
	TotalOnDutyTime float64             `json:"total_on_duty_time"`
	Violations      []violationResponse `json:"violations"`
}

type dailyLogResponse struct {
	Date      string             `json:"date"`
	Intervals []slotResponse     `json:"intervals"`
	Summary   daySummaryResponse `json:"summary"`
}

func toDailyLog(d hos.DailyLog) dailyLogResponse {
	slots := make([]slotResponse, len(d.Slots))
	for i, s := range d.Slots {
		slots[i] = slotResponse{Time: s.Time, Status: s.Status, Minutes: s.Minutes}
	}
	return dailyLogResponse{
		Date:      d.Date.Format(time.DateOnly),
		Intervals: slots,
		Summary: daySummaryResponse{
			TotalDriveTime:  round2(d.Summary.TotalDriveHours),
			TotalOnDutyTime: round2(d.Summary.TotalOnDutyHours),
			Violations:      toViolations(d.Summary.Violations),
		},
	}
}

// ---- trips -----------------------------------------------------------------

type planTripRequest struct {
	DriverID        uuid.UUID `json:"driver_id"`
	CurrentLocation string    `json:"current_location"`
	PickupLocation  string    `json:"pickup_location"`
	DropoffLocation string    `json:"dropoff_location"`
	EstimatedHours  float64   `json:"estimated_hours"`
}

type tripResponse struct {
	ID              uuid.UUID  `json:"id"`
	DriverID        uuid.UUID  `json:"driver_id"`
	CurrentLocation string     `json:"current_location"`
	PickupLocation  string     `json:"pickup_location"`
	DropoffLocation string     `json:"dropoff_location"`
	EstimatedHours  float64    `json:"estimated_hours"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time"`
	IsCompleted     bool       `json:"is_completed"`
	CreatedAt       time.Time  `json:"created_at"`
}

func toTrip(t domain.Trip) tripResponse {
	return tripResponse{
		ID:              t.ID,
		DriverID:        t.DriverID,
		CurrentLocation: t.CurrentLocation,
		PickupLocation:  t.PickupLocation,
		DropoffLocation: t.DropoffLocation,
		EstimatedHours:  t.EstimatedHours,
		StartTime:       t.StartTime,
		EndTime:         t.EndTime,
		IsCompleted:     t.Completed,
		CreatedAt:       t.CreatedAt,
	}
}

type planTripResponse struct {
	CanCompleteTrip bool           `json:"can_complete_trip"`
	Reasons         []string       `json:"reasons,omitempty"`
	Trip            *tripResponse  `json:"trip,omitempty"`
	Route           *route.Route   `json:"route,omitempty"`
	HOSStatus       statusResponse `json:"hos_status"`
}
