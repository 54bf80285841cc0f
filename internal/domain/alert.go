package domain

import "time"

// Severity grades an operational alert.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Alert is a read-only operational alert record surfaced to administrators.
type Alert struct {
	Level     Severity
	Category  string
	Message   string
	Resolved  bool
	Timestamp time.Time
}
