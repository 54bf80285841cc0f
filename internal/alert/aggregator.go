// Package alert provides read-only filtering and aggregation over
// operational alert records. Everything here is pure: recompute on every
// filter or data change.
package alert

import (
	"strings"

	"github.com/dukerupert/sindri/internal/domain"
)

// Query filters alert records. Zero-valued fields match everything.
type Query struct {
	SearchText string
	Severity   domain.Severity
	Category   string
}

// Summary counts unresolved alerts per severity, plus resolved alerts.
type Summary struct {
	Critical int
	Warning  int
	Info     int
	Resolved int
}

// Filter returns the subsequence of records matching the query, preserving
// the original order.
func Filter(records []domain.Alert, q Query) []domain.Alert {
	search := strings.ToLower(strings.TrimSpace(q.SearchText))

	out := make([]domain.Alert, 0, len(records))
	for _, a := range records {
		if q.Severity != "" && a.Level != q.Severity {
			continue
		}
		if q.Category != "" && a.Category != q.Category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(a.Message), search) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Summarize counts unresolved alerts by severity and resolved alerts overall.
func Summarize(records []domain.Alert) Summary {
	var s Summary
	for _, a := range records {
		if a.Resolved {
			s.Resolved++
			continue
		}
		switch a.Level {
		case domain.SeverityCritical:
			s.Critical++
		case domain.SeverityWarning:
			s.Warning++
		case domain.SeverityInfo:
			s.Info++
		}
	}
	return s
}
