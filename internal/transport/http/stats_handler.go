package http

import (
	"encoding/json"
	"log"
	"net/http"

	"flag-quiz-service/internal/stats"
)

// StatsHandler serves the completed-game history and aggregates.
type StatsHandler struct {
	aggregator *stats.Aggregator
}

func NewStatsHandler(aggregator *stats.Aggregator) *StatsHandler {
	return &StatsHandler{aggregator: aggregator}
}

// ServeHTTP answers GET with the stats report and DELETE with a bulk clear.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		report, err := h.aggregator.Report(r.Context())
		if err != nil {
			log.Printf("stats report failed: %v", err)
			http.Error(w, "stats unavailable", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			log.Printf("stats encode failed: %v", err)
		}
	case http.MethodDelete:
		if err := h.aggregator.Clear(r.Context()); err != nil {
			log.Printf("stats clear failed: %v", err)
			http.Error(w, "clear failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
