// Package hos is the hours-of-service compliance engine for the April 2022
// interstate property-carrying rules.
//
// Everything here is a pure function of a driver's duty intervals and a
// point in time. Nothing is read from or written to storage; the service
// layer gathers the interval log once per request and hands it over.
package hos

import (
	"time"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// Rules holds the regulatory limits the engine enforces.
type Rules struct {
	MaxDriving    time.Duration // 11-hour driving limit
	MaxDutyWindow time.Duration // 14-hour duty window
	BreakAfter    time.Duration // driving time that triggers the 30-minute break
	MinBreak      time.Duration // shortest rest interval that counts as a break
	Reset         time.Duration // shortest rest interval that starts a new duty period
	MaxCycle      time.Duration // 70 hours on duty ...
	CycleDays     int           // ... in this many consecutive days
	Restart       time.Duration // 34-hour restart; informational only

	// Warning thresholds on remaining budgets.
	DriveWarnAt time.Duration
	DutyWarnAt  time.Duration
	CycleWarnAt time.Duration
	BreakWarnAt time.Duration // warn once driven time reaches BreakAfter minus this
}

// DefaultRules are the limits from the Interstate Truck Driver's Guide to
// Hours of Service (April 2022).
var DefaultRules = Rules{
	MaxDriving:    11 * time.Hour,
	MaxDutyWindow: 14 * time.Hour,
	BreakAfter:    8 * time.Hour,
	MinBreak:      30 * time.Minute,
	Reset:         10 * time.Hour,
	MaxCycle:      70 * time.Hour,
	CycleDays:     8,
	Restart:       34 * time.Hour,

	DriveWarnAt: 1 * time.Hour,
	DutyWarnAt:  2 * time.Hour,
	CycleWarnAt: 5 * time.Hour,
	BreakWarnAt: 1 * time.Hour,
}

// StatusSet is a small bitset of duty statuses used to filter intervals.
type StatusSet uint8

// NewStatusSet builds a set containing the given statuses.
func NewStatusSet(statuses ...domain.DutyStatus) StatusSet {
	var s StatusSet
	for _, st := range statuses {
		s |= 1 << uint(st)
	}
	return s
}

// Has reports whether st is in the set.
func (s StatusSet) Has(st domain.DutyStatus) bool {
	return s&(1<<uint(st)) != 0
}

var (
	DrivingOnly = NewStatusSet(domain.Driving)
	OnDuty      = NewStatusSet(domain.Driving, domain.OnDutyNotDriving)
	Rest        = NewStatusSet(domain.OffDuty, domain.SleeperBerth)
)

func hours(d time.Duration) float64 {
	return d.Hours()
}
