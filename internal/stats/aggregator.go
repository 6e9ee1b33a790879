package stats

import (
	"context"
	"fmt"
	"time"

	"flag-quiz-service/internal/domain"
)

// ResultRepository persists completed-game records. List returns them newest
// first; Clear is for administrative and test use only.
type ResultRepository interface {
	Save(ctx context.Context, result domain.GameResult) (domain.GameResult, error)
	List(ctx context.Context) ([]domain.GameResult, error)
	Clear(ctx context.Context) error
}

// Aggregator derives completed-game records from session summaries and
// computes summary metrics over the stored history. Aggregates are never
// persisted; they are recomputed from the records on every read.
type Aggregator struct {
	repo ResultRepository
	now  func() time.Time
}

func NewAggregator(repo ResultRepository) *Aggregator {
	return &Aggregator{repo: repo, now: time.Now}
}

// RecordCompletedGame turns a session summary into an immutable result
// record and stores it, returning the record with its assigned identifier.
func (a *Aggregator) RecordCompletedGame(ctx context.Context, summary domain.GameSummary) (domain.GameResult, error) {
	if summary.Total <= 0 {
		return domain.GameResult{}, fmt.Errorf("record game: zero-question session cannot complete")
	}
	finished := summary.FinishedAt
	if finished.IsZero() {
		finished = a.now()
	}
	result := domain.GameResult{
		Score:          summary.Score,
		TotalQuestions: summary.Total,
		Accuracy:       float64(summary.Score) / float64(summary.Total) * 100,
		TimeTaken:      finished.Sub(summary.StartedAt).Seconds(),
		CompletedAt:    finished,
		Win:            summary.Score > summary.Total/2,
	}
	stored, err := a.repo.Save(ctx, result)
	if err != nil {
		return domain.GameResult{}, fmt.Errorf("save game result: %w", err)
	}
	return stored, nil
}

// ComputeAggregates reads the full history and reduces it. An empty history
// yields the zero value: no division, no NaN.
func (a *Aggregator) ComputeAggregates(ctx context.Context) (domain.AggregateStats, error) {
	results, err := a.repo.List(ctx)
	if err != nil {
		return domain.AggregateStats{}, err
	}
	return reduce(results), nil
}

// Report bundles the recent-games list with the aggregates.
func (a *Aggregator) Report(ctx context.Context) (domain.StatsReport, error) {
	results, err := a.repo.List(ctx)
	if err != nil {
		return domain.StatsReport{}, err
	}
	if results == nil {
		results = []domain.GameResult{}
	}
	return domain.StatsReport{
		RecentGames: results,
		Aggregates:  reduce(results),
	}, nil
}

// Clear wipes the stored history.
func (a *Aggregator) Clear(ctx context.Context) error {
	return a.repo.Clear(ctx)
}

func reduce(results []domain.GameResult) domain.AggregateStats {
	agg := domain.AggregateStats{}
	if len(results) == 0 {
		return agg
	}

	agg.TotalGames = len(results)
	agg.FastestTime = results[0].TimeTaken
	var scoreSum, accuracySum, timeSum float64
	for _, r := range results {
		if r.Win {
			agg.TotalWins++
		}
		scoreSum += float64(r.Score)
		accuracySum += r.Accuracy
		timeSum += r.TimeTaken
		if r.Score > agg.BestScore {
			agg.BestScore = r.Score
		}
		if r.Accuracy > agg.BestAccuracy {
			agg.BestAccuracy = r.Accuracy
		}
		if r.TimeTaken < agg.FastestTime {
			agg.FastestTime = r.TimeTaken
		}
	}
	n := float64(len(results))
	agg.WinRate = float64(agg.TotalWins) / n * 100
	agg.AverageScore = scoreSum / n
	agg.AverageAccuracy = accuracySum / n
	agg.AverageTime = timeSum / n
	return agg
}
