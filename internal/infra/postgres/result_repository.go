package postgres

import (
	"context"
	"fmt"

	"flag-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// ResultRepository stores completed-game records in the game_results table.
type ResultRepository struct {
	pool *pgxpool.Pool
}

func NewResultRepository(pool *pgxpool.Pool) *ResultRepository {
	return &ResultRepository{pool: pool}
}

func (r *ResultRepository) Save(ctx context.Context, result domain.GameResult) (domain.GameResult, error) {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO game_results (score, total_questions, accuracy, time_taken, completed_at, win)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		result.Score, result.TotalQuestions, result.Accuracy, result.TimeTaken, result.CompletedAt, result.Win,
	).Scan(&result.ID)
	if err != nil {
		return domain.GameResult{}, fmt.Errorf("insert game result: %w", err)
	}
	return result, nil
}

// List returns all records newest first, for both the recent-games view and
// the aggregate scan.
func (r *ResultRepository) List(ctx context.Context) ([]domain.GameResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, score, total_questions, accuracy, time_taken, completed_at, win
		 FROM game_results
		 ORDER BY completed_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list game results: %w", err)
	}
	defer rows.Close()

	var results []domain.GameResult
	for rows.Next() {
		var result domain.GameResult
		if err := rows.Scan(&result.ID, &result.Score, &result.TotalQuestions,
			&result.Accuracy, &result.TimeTaken, &result.CompletedAt, &result.Win); err != nil {
			return nil, fmt.Errorf("scan game result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate game results: %w", err)
	}
	return results, nil
}

func (r *ResultRepository) Clear(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `TRUNCATE game_results RESTART IDENTITY`); err != nil {
		return fmt.Errorf("clear game results: %w", err)
	}
	return nil
}
