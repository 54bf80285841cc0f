package alert_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dukerupert/sindri/internal/alert"
	"github.com/dukerupert/sindri/internal/domain"
)

func sampleAlerts() []domain.Alert {
	return []domain.Alert{
		{Level: domain.SeverityCritical, Category: "inventory", Message: "Widget out of stock"},
		{Level: domain.SeverityWarning, Category: "inventory", Message: "Gadget stock low"},
		{Level: domain.SeverityInfo, Category: "orders", Message: "Order ORD-0042 shipped"},
		{Level: domain.SeverityWarning, Category: "payments", Message: "Wallet sync delayed", Resolved: true},
		{Level: domain.SeverityCritical, Category: "payments", Message: "Payment gateway timeout"},
	}
}

// Test_Filter validates query matching and that the original record order is
// preserved in the result.
func Test_Filter(t *testing.T) {
	records := sampleAlerts()

	tests := []struct {
		name  string
		query alert.Query
		want  []string
	}{
		{
			name:  "empty query matches everything",
			query: alert.Query{},
			want: []string{
				"Widget out of stock", "Gadget stock low", "Order ORD-0042 shipped",
				"Wallet sync delayed", "Payment gateway timeout",
			},
		},
		{
			name:  "severity only",
			query: alert.Query{Severity: domain.SeverityCritical},
			want:  []string{"Widget out of stock", "Payment gateway timeout"},
		},
		{
			name:  "category only",
			query: alert.Query{Category: "inventory"},
			want:  []string{"Widget out of stock", "Gadget stock low"},
		},
		{
			name:  "search is case-insensitive substring",
			query: alert.Query{SearchText: "  STOCK "},
			want:  []string{"Widget out of stock", "Gadget stock low"},
		},
		{
			name:  "all criteria combine with AND",
			query: alert.Query{SearchText: "stock", Severity: domain.SeverityWarning, Category: "inventory"},
			want:  []string{"Gadget stock low"},
		},
		{
			name:  "no matches yields empty, not nil panic",
			query: alert.Query{Category: "shipping"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := alert.Filter(records, tt.query)
			messages := make([]string, len(got))
			for i, a := range got {
				messages[i] = a.Message
			}
			assert.Equal(t, tt.want, messages)
		})
	}
}

// Test_Summarize validates that unresolved alerts are counted per severity
// and resolved alerts are counted once regardless of severity.
func Test_Summarize(t *testing.T) {
	got := alert.Summarize(sampleAlerts())
	assert.Equal(t, alert.Summary{Critical: 2, Warning: 1, Info: 1, Resolved: 1}, got)

	assert.Equal(t, alert.Summary{}, alert.Summarize(nil))
}
