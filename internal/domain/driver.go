package domain

import (
	"time"

	"github.com/google/uuid"
)

// Driver carries identity only. No hours-of-service state is stored on the
// driver; all of it is derived on demand from the driver's duty intervals.
type Driver struct {
	ID            uuid.UUID
	Name          string
	LicenseNumber string
	CreatedAt     time.Time
}
