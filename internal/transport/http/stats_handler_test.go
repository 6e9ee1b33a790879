package http

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"flag-quiz-service/internal/domain"
)

func TestStatsEndpointEmptyHistory(t *testing.T) {
	server, _ := newTestServer(t, 2)

	resp, err := http.Get(server.URL + "/stats")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var report domain.StatsReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(report.RecentGames) != 0 {
		t.Fatalf("expected no recent games, got %d", len(report.RecentGames))
	}
	if report.Aggregates != (domain.AggregateStats{}) {
		t.Fatalf("expected zero aggregates, got %+v", report.Aggregates)
	}
}

func TestStatsEndpointReportsAndClears(t *testing.T) {
	server, aggregator := newTestServer(t, 2)

	started := time.Now().Add(-time.Minute)
	if _, err := aggregator.RecordCompletedGame(context.Background(), domain.GameSummary{
		Score: 2, Total: 2, StartedAt: started, FinishedAt: time.Now(),
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	resp, err := http.Get(server.URL + "/stats")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var report domain.StatsReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if report.Aggregates.TotalGames != 1 || report.Aggregates.TotalWins != 1 {
		t.Fatalf("unexpected aggregates %+v", report.Aggregates)
	}

	req, _ := http.NewRequest(http.MethodDelete, server.URL+"/stats", nil)
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", delResp.StatusCode)
	}

	resp, err = http.Get(server.URL + "/stats")
	if err != nil {
		t.Fatalf("get after clear: %v", err)
	}
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("decode after clear: %v", err)
	}
	resp.Body.Close()
	if report.Aggregates.TotalGames != 0 {
		t.Fatalf("expected cleared history, got %+v", report.Aggregates)
	}
}

func TestStatsEndpointRejectsOtherMethods(t *testing.T) {
	server, _ := newTestServer(t, 2)
	resp, err := http.Post(server.URL+"/stats", "application/json", nil)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}
