package hos

import (
	"time"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// SlotWidth is the resolution of the daily log grid.
const SlotWidth = 15 * time.Minute

// SlotsPerDay is the number of grid slots in one rendered day.
const SlotsPerDay = int(24 * time.Hour / SlotWidth)

// Slot is one cell of the daily log grid.
type Slot struct {
	Time    time.Time
	Status  domain.DutyStatus
	Minutes int
}

// DaySummary totals one rendered day.
type DaySummary struct {
	TotalDriveHours  float64
	TotalOnDutyHours float64
	Violations       []domain.Violation
}

// DailyLog is a driver's day projected onto the ELD grid.
type DailyLog struct {
	Date    time.Time
	Slots   []Slot
	Summary DaySummary
}

// RenderDay projects log onto SlotsPerDay slots starting at dayStart.
// Each slot takes the status in effect at its start time, OffDuty when no
// interval covers it. Totals stop at now so an open interval is never
// counted into the future. violations are attached to the summary as given.
func RenderDay(log []domain.DutyInterval, dayStart, now time.Time, violations []domain.Violation) DailyLog {
	dayEnd := dayStart.Add(time.Duration(SlotsPerDay) * SlotWidth)
	sorted := AsOf(log, dayEnd)

	slots := make([]Slot, 0, SlotsPerDay)
	for i := 0; i < SlotsPerDay; i++ {
		t := dayStart.Add(time.Duration(i) * SlotWidth)
		slots = append(slots, Slot{
			Time:    t,
			Status:  StatusAt(sorted, t),
			Minutes: int(SlotWidth / time.Minute),
		})
	}

	totalsEnd := dayEnd
	if now.Before(totalsEnd) {
		totalsEnd = now
	}
	if violations == nil {
		violations = []domain.Violation{}
	}

	return DailyLog{
		Date:  dayStart,
		Slots: slots,
		Summary: DaySummary{
			TotalDriveHours:  SumHours(sorted, DrivingOnly, dayStart, totalsEnd),
			TotalOnDutyHours: SumHours(sorted, OnDuty, dayStart, totalsEnd),
			Violations:       violations,
		},
	}
}
