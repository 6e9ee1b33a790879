package memory

import (
	"context"
	"sort"
	"sync"

	"flag-quiz-service/internal/domain"
)

// ResultRepository keeps completed-game records in memory. Useful for tests
// and for running without Postgres.
type ResultRepository struct {
	mu      sync.RWMutex
	nextID  int64
	results []domain.GameResult
}

func NewResultRepository() *ResultRepository {
	return &ResultRepository{nextID: 1}
}

func (r *ResultRepository) Save(_ context.Context, result domain.GameResult) (domain.GameResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result.ID = r.nextID
	r.nextID++
	r.results = append(r.results, result)
	return result, nil
}

// List returns records ordered by completion time descending, newest first.
func (r *ResultRepository) List(_ context.Context) ([]domain.GameResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.GameResult, len(r.results))
	copy(out, r.results)
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CompletedAt.Equal(out[j].CompletedAt) {
			return out[i].CompletedAt.After(out[j].CompletedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *ResultRepository) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = nil
	r.nextID = 1
	return nil
}
