package hos

import (
	"time"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// DutyPeriodStart returns the end of the most recent qualifying reset (a
// rest interval of at least r.Reset) that started at or before now.
//
// When the log holds no qualifying reset the result is now minus the
// maximum duty window and estimated is true. That fallback is a bound, not
// a reconstruction. log must be sorted by start time and cut at now (see AsOf).
func DutyPeriodStart(log []domain.DutyInterval, now time.Time, r Rules) (start time.Time, estimated bool) {
	for i := len(log) - 1; i >= 0; i-- {
		iv := log[i]
		if !Rest.Has(iv.Status) || iv.StartTime.After(now) || iv.EndTime == nil {
			continue
		}
		if iv.EndTime.Sub(iv.StartTime) >= r.Reset {
			return *iv.EndTime, false
		}
	}
	return now.Add(-r.MaxDutyWindow), true
}

// TimeSinceBreak returns how long it has been since the driver's last
// qualifying break.
//
// Only the most recently ended rest interval is considered. If it lasted at
// least r.MinBreak the clock runs from its end; otherwise, or when there is
// no ended rest interval at all, the clock runs from periodStart.
func TimeSinceBreak(log []domain.DutyInterval, now, periodStart time.Time, r Rules) time.Duration {
	var last *domain.DutyInterval
	for i := range log {
		iv := &log[i]
		if !Rest.Has(iv.Status) || iv.EndTime == nil || !iv.StartTime.Before(now) {
			continue
		}
		if last == nil || iv.EndTime.After(*last.EndTime) {
			last = iv
		}
	}
	if last != nil && last.EndTime.Sub(last.StartTime) >= r.MinBreak {
		return now.Sub(*last.EndTime)
	}
	return now.Sub(periodStart)
}

// StartOfDay returns local midnight of the calendar day containing t in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}
