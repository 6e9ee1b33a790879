package stats_test

import (
	"context"
	"testing"
	"time"

	"flag-quiz-service/internal/domain"
	"flag-quiz-service/internal/infra/memory"
	"flag-quiz-service/internal/stats"
)

func TestEmptyHistoryYieldsZeroAggregates(t *testing.T) {
	ctx := context.Background()
	aggregator := stats.NewAggregator(memory.NewResultRepository())

	agg, err := aggregator.ComputeAggregates(ctx)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if agg != (domain.AggregateStats{}) {
		t.Fatalf("expected zero aggregates, got %+v", agg)
	}

	report, err := aggregator.Report(ctx)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.RecentGames) != 0 {
		t.Fatalf("expected no recent games, got %d", len(report.RecentGames))
	}
}

func TestRecordCompletedGameDerivesFields(t *testing.T) {
	ctx := context.Background()
	aggregator := stats.NewAggregator(memory.NewResultRepository())

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	result, err := aggregator.RecordCompletedGame(ctx, domain.GameSummary{
		Score:      7,
		Total:      10,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if result.ID == 0 {
		t.Fatalf("expected storage-assigned id")
	}
	if result.Accuracy != 70 {
		t.Fatalf("expected 70%% accuracy, got %v", result.Accuracy)
	}
	if result.TimeTaken != 90 {
		t.Fatalf("expected 90s, got %v", result.TimeTaken)
	}
	if !result.Win {
		t.Fatalf("7/10 should be a win")
	}
}

func TestWinRequiresMoreThanHalf(t *testing.T) {
	ctx := context.Background()
	aggregator := stats.NewAggregator(memory.NewResultRepository())
	started := time.Now()

	// Exactly half is not a win.
	half, err := aggregator.RecordCompletedGame(ctx, domain.GameSummary{
		Score: 5, Total: 10, StartedAt: started, FinishedAt: started.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if half.Win {
		t.Fatalf("5/10 must not be a win")
	}

	over, err := aggregator.RecordCompletedGame(ctx, domain.GameSummary{
		Score: 6, Total: 10, StartedAt: started, FinishedAt: started.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !over.Win {
		t.Fatalf("6/10 must be a win")
	}
}

func TestRecordRejectsZeroQuestionGame(t *testing.T) {
	aggregator := stats.NewAggregator(memory.NewResultRepository())
	if _, err := aggregator.RecordCompletedGame(context.Background(), domain.GameSummary{Total: 0}); err == nil {
		t.Fatalf("expected error for zero-question session")
	}
}

func TestAggregateMath(t *testing.T) {
	ctx := context.Background()
	aggregator := stats.NewAggregator(memory.NewResultRepository())
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	games := []struct {
		score, total int
		seconds      int
	}{
		{8, 10, 60},  // win, 80%
		{4, 10, 120}, // loss, 40%
		{10, 10, 45}, // win, 100%
	}
	for i, g := range games {
		_, err := aggregator.RecordCompletedGame(ctx, domain.GameSummary{
			Score:      g.score,
			Total:      g.total,
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			FinishedAt: base.Add(time.Duration(i)*time.Hour + time.Duration(g.seconds)*time.Second),
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	agg, err := aggregator.ComputeAggregates(ctx)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if agg.TotalGames != 3 || agg.TotalWins != 2 {
		t.Fatalf("expected 3 games 2 wins, got %+v", agg)
	}
	if agg.WinRate < 66.6 || agg.WinRate > 66.7 {
		t.Fatalf("unexpected win rate %v", agg.WinRate)
	}
	if agg.BestScore != 10 || agg.BestAccuracy != 100 {
		t.Fatalf("unexpected bests %+v", agg)
	}
	if agg.FastestTime != 45 {
		t.Fatalf("expected fastest 45s, got %v", agg.FastestTime)
	}
	if agg.AverageTime != 75 {
		t.Fatalf("expected average 75s, got %v", agg.AverageTime)
	}

	report, err := aggregator.Report(ctx)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if len(report.RecentGames) != 3 {
		t.Fatalf("expected 3 recent games, got %d", len(report.RecentGames))
	}
	// Newest first.
	if report.RecentGames[0].Score != 10 {
		t.Fatalf("expected newest game first, got %+v", report.RecentGames[0])
	}
}

func TestClearWipesHistory(t *testing.T) {
	ctx := context.Background()
	aggregator := stats.NewAggregator(memory.NewResultRepository())
	started := time.Now()
	if _, err := aggregator.RecordCompletedGame(ctx, domain.GameSummary{
		Score: 3, Total: 5, StartedAt: started, FinishedAt: started.Add(time.Minute),
	}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if err := aggregator.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	agg, err := aggregator.ComputeAggregates(ctx)
	if err != nil {
		t.Fatalf("compute: %v", err)
	}
	if agg.TotalGames != 0 {
		t.Fatalf("expected empty history after clear, got %+v", agg)
	}
}
