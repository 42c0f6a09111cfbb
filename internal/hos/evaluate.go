package hos

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// Finding is a limit breach detected by Evaluate. The service turns
// findings into persisted domain.Violation rows.
type Finding struct {
	Kind        domain.ViolationKind
	Severity    domain.Severity
	Description string

	// BreachStart is the earliest moment the same ongoing breach could have
	// been recorded. A violation of the same kind recorded at or after
	// BreachStart describes the same breach.
	BreachStart time.Time
}

// Violation converts the finding into a violation record detected at.
func (f Finding) Violation(driverID uuid.UUID, at time.Time) domain.Violation {
	return domain.Violation{
		DriverID:    driverID,
		Kind:        f.Kind,
		Description: f.Description,
		DetectedAt:  at,
		Severity:    f.Severity,
	}
}

// Snapshot is the full compliance picture for one driver at one instant.
// Hour fields are unrounded.
type Snapshot struct {
	At            time.Time
	CurrentStatus domain.DutyStatus

	DutyPeriodStart     time.Time
	DutyPeriodEstimated bool

	HoursDrivenToday      float64
	HoursOnDutyToday      float64
	HoursDrivenDutyPeriod float64
	HoursOnDutyDutyPeriod float64
	HoursInCycle          float64
	HoursSinceBreak       float64

	RemainingDrive float64
	RemainingDuty  float64
	RemainingCycle float64

	NeedsBreak        bool
	NextRequiredBreak *time.Time

	Findings []Finding
	Warnings []string
	CanDrive bool
}

// HasCritical reports whether any finding is Critical.
func (s Snapshot) HasCritical() bool {
	for _, f := range s.Findings {
		if f.Severity == domain.SeverityCritical {
			return true
		}
	}
	return false
}

// Evaluate computes the compliance snapshot for a driver's interval log at
// now. "Today" starts at local midnight in loc.
//
// The log is cut at now once and every sub-check reads the same cut, so the
// duty period start is derived exactly once per evaluation.
func Evaluate(log []domain.DutyInterval, now time.Time, loc *time.Location, r Rules) Snapshot {
	cut := AsOf(log, now)

	periodStart, estimated := DutyPeriodStart(cut, now, r)
	midnight := StartOfDay(now, loc)
	cycleStart := now.AddDate(0, 0, -r.CycleDays)

	drivenPeriod := SumDuration(cut, DrivingOnly, periodStart, now)
	onDutyPeriod := SumDuration(cut, OnDuty, periodStart, now)
	cycle := SumDuration(cut, OnDuty, cycleStart, now)
	sinceBreak := TimeSinceBreak(cut, now, periodStart, r)

	s := Snapshot{
		At:                    now,
		CurrentStatus:         StatusAt(cut, now),
		DutyPeriodStart:       periodStart,
		DutyPeriodEstimated:   estimated,
		HoursDrivenToday:      SumHours(cut, DrivingOnly, midnight, now),
		HoursOnDutyToday:      SumHours(cut, OnDuty, midnight, now),
		HoursDrivenDutyPeriod: hours(drivenPeriod),
		HoursOnDutyDutyPeriod: hours(onDutyPeriod),
		HoursInCycle:          hours(cycle),
		HoursSinceBreak:       hours(sinceBreak),
		RemainingDrive:        remaining(r.MaxDriving, drivenPeriod),
		RemainingDuty:         remaining(r.MaxDutyWindow, onDutyPeriod),
		RemainingCycle:        remaining(r.MaxCycle, cycle),
		NeedsBreak:            drivenPeriod >= r.BreakAfter && sinceBreak >= r.BreakAfter,
	}
	if s.NeedsBreak {
		due := now
		s.NextRequiredBreak = &due
	}

	if drivenPeriod > r.MaxDriving {
		s.Findings = append(s.Findings, Finding{
			Kind:        domain.DrivingLimitExceeded,
			Severity:    domain.SeverityCritical,
			Description: fmt.Sprintf("Exceeded %s driving limit: %.2f hours", hourLabel(r.MaxDriving), s.HoursDrivenDutyPeriod),
			BreachStart: periodStart,
		})
	}
	if onDutyPeriod > r.MaxDutyWindow {
		s.Findings = append(s.Findings, Finding{
			Kind:        domain.DutyWindowExceeded,
			Severity:    domain.SeverityCritical,
			Description: fmt.Sprintf("Exceeded %s duty window: %.2f hours", hourLabel(r.MaxDutyWindow), s.HoursOnDutyDutyPeriod),
			BreachStart: periodStart,
		})
	}
	if cycle > r.MaxCycle {
		s.Findings = append(s.Findings, Finding{
			Kind:        domain.SeventyHourRuleExceeded,
			Severity:    domain.SeverityCritical,
			Description: fmt.Sprintf("Exceeded %.0f hours in %d days: %.2f hours", r.MaxCycle.Hours(), r.CycleDays, s.HoursInCycle),
			BreachStart: cycleStart,
		})
	}
	if s.NeedsBreak && s.CurrentStatus == domain.Driving {
		s.Findings = append(s.Findings, Finding{
			Kind:        domain.BreakRequired,
			Severity:    domain.SeverityViolation,
			Description: fmt.Sprintf("%.0f-minute break required after %.0f hours of driving", r.MinBreak.Minutes(), r.BreakAfter.Hours()),
			BreachStart: now.Add(-sinceBreak),
		})
	}

	s.Warnings = Warnings(s, r)
	s.CanDrive = canDrive(s)
	return s
}

func canDrive(s Snapshot) bool {
	switch s.CurrentStatus {
	case domain.OffDuty, domain.OnDutyNotDriving:
	default:
		return false
	}
	return s.RemainingDrive > 0 &&
		s.RemainingDuty > 0 &&
		s.RemainingCycle > 0 &&
		!s.NeedsBreak &&
		!s.HasCritical()
}

// CanDriveFor checks a requested driving duration against the snapshot's
// remaining drive and duty budgets and the break requirement. It returns
// one reason per failing check.
func CanDriveFor(s Snapshot, requested float64) (bool, []string) {
	reasons := []string{}
	if requested > s.RemainingDrive {
		reasons = append(reasons, fmt.Sprintf("Insufficient drive time. Need %gh, have %.2fh", requested, s.RemainingDrive))
	}
	if requested > s.RemainingDuty {
		reasons = append(reasons, fmt.Sprintf("Insufficient duty time. Need %gh, have %.2fh", requested, s.RemainingDuty))
	}
	if s.NeedsBreak {
		reasons = append(reasons, "30-minute break required before driving")
	}
	return len(reasons) == 0, reasons
}

func remaining(limit, used time.Duration) float64 {
	if used >= limit {
		return 0
	}
	return hours(limit - used)
}

func hourLabel(d time.Duration) string {
	return fmt.Sprintf("%.0f-hour", d.Hours())
}
