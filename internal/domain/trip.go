// Package domain contains the core data types for the ELD logbook application.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (hos, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a planning record created once a driver has been cleared to drive
// for the estimated duration. EndTime is nil until the trip is completed.
type Trip struct {
	ID              uuid.UUID
	DriverID        uuid.UUID
	CurrentLocation string
	PickupLocation  string
	DropoffLocation string
	EstimatedHours  float64
	StartTime       time.Time
	EndTime         *time.Time
	Completed       bool
	CreatedAt       time.Time
}
