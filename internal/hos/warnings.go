package hos

import "fmt"

// Warnings returns advisory messages for a driver approaching a limit.
// They are informational and never affect eligibility.
func Warnings(s Snapshot, r Rules) []string {
	warnings := []string{}

	if s.RemainingDrive <= hours(r.DriveWarnAt) {
		warnings = append(warnings, fmt.Sprintf("Approaching %s driving limit. %.1f hours remaining.", hourLabel(r.MaxDriving), s.RemainingDrive))
	}
	if s.RemainingDuty <= hours(r.DutyWarnAt) {
		warnings = append(warnings, fmt.Sprintf("Approaching %s duty window limit. %.1f hours remaining.", hourLabel(r.MaxDutyWindow), s.RemainingDuty))
	}
	if s.RemainingCycle <= hours(r.CycleWarnAt) {
		warnings = append(warnings, fmt.Sprintf("Approaching %.0f-hour limit. %.1f hours remaining.", r.MaxCycle.Hours(), s.RemainingCycle))
	}

	if s.HoursDrivenDutyPeriod >= hours(r.BreakAfter-r.BreakWarnAt) && !s.NeedsBreak {
		warnings = append(warnings, "30-minute break will be required soon.")
	}
	if s.NeedsBreak {
		warnings = append(warnings, "30-minute break required before continuing to drive.")
	}

	return warnings
}
