package hos_test

import (
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/eld-logbook/internal/domain"
)

// base is local midnight on a Monday; every fixture is expressed relative to it.
var base = time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

var driverID = uuid.MustParse("7d3f5b8e-2c4a-4e1b-9a6f-0b1c2d3e4f50")

func at(offset time.Duration) time.Time {
	return base.Add(offset)
}

// closed builds a finished interval spanning [from, to) relative to base.
func closed(status domain.DutyStatus, from, to time.Duration) domain.DutyInterval {
	end := at(to)
	return domain.DutyInterval{
		ID:        uuid.New(),
		DriverID:  driverID,
		Status:    status,
		StartTime: at(from),
		EndTime:   &end,
	}
}

// open builds the still-running interval starting at from relative to base.
func open(status domain.DutyStatus, from time.Duration) domain.DutyInterval {
	return domain.DutyInterval{
		ID:        uuid.New(),
		DriverID:  driverID,
		Status:    status,
		StartTime: at(from),
	}
}

const h = time.Hour
