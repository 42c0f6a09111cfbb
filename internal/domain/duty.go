package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DutyStatus is one of the four regulatory duty statuses.
// The zero value is not a valid status; use ParseDutyStatus to build one
// from external input.
type DutyStatus int

const (
	OffDuty DutyStatus = iota + 1
	SleeperBerth
	Driving
	OnDutyNotDriving
)

// AllDutyStatuses lists every valid status in grid display order.
var AllDutyStatuses = []DutyStatus{OffDuty, SleeperBerth, Driving, OnDutyNotDriving}

// Code returns the short wire code used in the API and the database.
func (s DutyStatus) Code() string {
	switch s {
	case OffDuty:
		return "OFF"
	case SleeperBerth:
		return "SB"
	case Driving:
		return "DR"
	case OnDutyNotDriving:
		return "ON"
	}
	return ""
}

// String returns the human-readable label shown on log grids.
func (s DutyStatus) String() string {
	switch s {
	case OffDuty:
		return "Off Duty"
	case SleeperBerth:
		return "Sleeper Berth"
	case Driving:
		return "Driving"
	case OnDutyNotDriving:
		return "On Duty (Not Driving)"
	}
	return fmt.Sprintf("DutyStatus(%d)", int(s))
}

// Valid reports whether s is one of the four defined statuses.
func (s DutyStatus) Valid() bool {
	return s >= OffDuty && s <= OnDutyNotDriving
}

// IsRest reports whether time spent in s counts toward breaks and resets.
func (s DutyStatus) IsRest() bool {
	return s == OffDuty || s == SleeperBerth
}

// IsOnDuty reports whether time spent in s counts toward on-duty totals.
func (s DutyStatus) IsOnDuty() bool {
	return s == Driving || s == OnDutyNotDriving
}

// ParseDutyStatus converts a wire code ("OFF", "SB", "DR", "ON") into a DutyStatus.
// Returns ErrInvalidInput for anything else.
func ParseDutyStatus(code string) (DutyStatus, error) {
	for _, s := range AllDutyStatuses {
		if s.Code() == code {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown duty status %q", ErrInvalidInput, code)
}

// MarshalText encodes the status as its wire code.
func (s DutyStatus) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("domain: cannot marshal %v", s)
	}
	return []byte(s.Code()), nil
}

// UnmarshalText decodes a wire code.
func (s *DutyStatus) UnmarshalText(b []byte) error {
	parsed, err := ParseDutyStatus(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// DutyInterval is one contiguous span of a single duty status for one driver.
// EndTime is nil while the interval is still open. At most one interval per
// driver is open; closing it is the only mutation ever applied to a stored row.
type DutyInterval struct {
	ID        uuid.UUID
	DriverID  uuid.UUID
	Status    DutyStatus
	StartTime time.Time
	EndTime   *time.Time
	Location  string
	Odometer  int
	Remarks   string
	CreatedAt time.Time
}

// IsOpen reports whether the interval has not been closed yet.
func (d DutyInterval) IsOpen() bool {
	return d.EndTime == nil
}

// DurationHours returns end minus start in hours, or zero while the interval
// is open. Open intervals are never imputed against a clock here; callers
// clip to their own query window.
func (d DutyInterval) DurationHours() float64 {
	if d.EndTime == nil {
		return 0
	}
	return d.EndTime.Sub(d.StartTime).Hours()
}

// DutyChange is the input for logging a duty-status change.
type DutyChange struct {
	DriverID uuid.UUID
	Status   DutyStatus
	At       time.Time
	Location string
	Odometer int
	Remarks  string
}
