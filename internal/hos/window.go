package hos

import (
	"slices"
	"time"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// SumHours returns the total hours spent in any of statuses within
// [from, to), clipping every interval to the range. Open intervals are
// treated as running until to.
//
// Selection is by overlap, not by start time: an interval that began before
// from and was still running when the range opened contributes the part
// that falls inside the range. This keeps sums additive across adjacent
// ranges.
func SumHours(log []domain.DutyInterval, statuses StatusSet, from, to time.Time) float64 {
	return hours(SumDuration(log, statuses, from, to))
}

// SumDuration is SumHours without the conversion to float hours.
func SumDuration(log []domain.DutyInterval, statuses StatusSet, from, to time.Time) time.Duration {
	if !to.After(from) {
		return 0
	}
	var total time.Duration
	for _, iv := range log {
		if !statuses.Has(iv.Status) {
			continue
		}
		if !iv.StartTime.Before(to) {
			continue
		}
		end := to
		if iv.EndTime != nil && iv.EndTime.Before(to) {
			end = *iv.EndTime
		}
		start := iv.StartTime
		if start.Before(from) {
			start = from
		}
		if end.After(start) {
			total += end.Sub(start)
		}
	}
	return total
}

// AsOf returns the log as it stood at now: intervals that had not started
// yet are dropped, and intervals that were still running at now are
// reopened. The returned slice is sorted by start time and never aliases
// the input.
func AsOf(log []domain.DutyInterval, now time.Time) []domain.DutyInterval {
	out := make([]domain.DutyInterval, 0, len(log))
	for _, iv := range log {
		if iv.StartTime.After(now) {
			continue
		}
		if iv.EndTime != nil && iv.EndTime.After(now) {
			iv.EndTime = nil
		}
		out = append(out, iv)
	}
	slices.SortStableFunc(out, func(a, b domain.DutyInterval) int {
		return a.StartTime.Compare(b.StartTime)
	})
	return out
}

// StatusAt returns the duty status in effect at t: the most recently started
// interval with start <= t whose end is unset or after t. Defaults to
// OffDuty when nothing matches. log must be sorted by start time.
func StatusAt(log []domain.DutyInterval, t time.Time) domain.DutyStatus {
	for i := len(log) - 1; i >= 0; i-- {
		iv := log[i]
		if iv.StartTime.After(t) {
			continue
		}
		if iv.EndTime == nil || iv.EndTime.After(t) {
			return iv.Status
		}
	}
	return domain.OffDuty
}
