package storefront

import (
	"net/http"

	"github.com/dukerupert/sindri/internal/alert"
	"github.com/dukerupert/sindri/internal/api"
	"github.com/dukerupert/sindri/internal/domain"
)

// ListAlerts fetches alert records from upstream and returns the filtered
// subsequence plus severity counts. Filtering and aggregation are recomputed
// on every request.
func (h *Handler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	var payloads []api.AlertPayload
	if err := h.client.Get(r.Context(), "/alerts", &payloads); err != nil {
		logger(r, h.logger).Error("failed to fetch alerts", "error", err)
		respondError(w, err)
		return
	}

	records := make([]domain.Alert, len(payloads))
	for i, p := range payloads {
		records[i] = p.ToDomain()
	}

	q := alert.Query{
		SearchText: r.URL.Query().Get("search"),
		Severity:   domain.Severity(r.URL.Query().Get("severity")),
		Category:   r.URL.Query().Get("category"),
	}

	filtered := alert.Filter(records, q)
	summary := alert.Summarize(records)

	out := make([]map[string]interface{}, len(filtered))
	for i, a := range filtered {
		out[i] = map[string]interface{}{
			"level":     string(a.Level),
			"category":  a.Category,
			"message":   a.Message,
			"resolved":  a.Resolved,
			"timestamp": a.Timestamp,
		}
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"alerts": out,
		"summary": map[string]int{
			"critical": summary.Critical,
			"warning":  summary.Warning,
			"info":     summary.Info,
			"resolved": summary.Resolved,
		},
	})
}
