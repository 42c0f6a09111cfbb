package domain

import (
	"time"

	"github.com/google/uuid"
)

// ViolationKind identifies which regulatory limit was breached.
type ViolationKind string

const (
	DrivingLimitExceeded    ViolationKind = "DRIVING_LIMIT_EXCEEDED"
	DutyWindowExceeded      ViolationKind = "DUTY_WINDOW_EXCEEDED"
	SeventyHourRuleExceeded ViolationKind = "70_HOUR_RULE_EXCEEDED"
	BreakRequired           ViolationKind = "BREAK_REQUIRED"
)

// Severity grades a violation. Only Critical violations block driving.
type Severity string

const (
	SeverityWarning   Severity = "WARNING"
	SeverityViolation Severity = "VIOLATION"
	SeverityCritical  Severity = "CRITICAL"
)

// Violation is a recorded regulatory breach. Rows are append-only:
// created as a side effect of a compliance evaluation and never updated.
type Violation struct {
	ID          uuid.UUID
	DriverID    uuid.UUID
	Kind        ViolationKind
	Description string
	DetectedAt  time.Time
	Severity    Severity
	CreatedAt   time.Time
}
