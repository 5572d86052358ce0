package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Stats holds service-wide aggregates over all links.
type Stats struct {
	TotalLinks  int64   `json:"total_links"`
	TotalClicks int64   `json:"total_clicks"`
	AvgClicks   float64 `json:"avg_clicks"`
}

// StatsRepository reads aggregate statistics straight off the pgx pool;
// the numbers are informational and do not need GORM's change tracking.
type StatsRepository interface {
	Totals(ctx context.Context) (*Stats, error)
	Ping(ctx context.Context) error
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns a pgx-backed StatsRepository.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Totals(ctx context.Context) (*Stats, error) {
	const query = `
		SELECT COUNT(*),
		       COALESCE(SUM(click_count), 0),
		       COALESCE(AVG(click_count), 0)
		FROM urls`

	var stats Stats
	if err := r.pool.QueryRow(ctx, query).Scan(&stats.TotalLinks, &stats.TotalClicks, &stats.AvgClicks); err != nil {
		return nil, fmt.Errorf("stats totals: %w", translate(err))
	}
	return &stats, nil
}

// Ping verifies database reachability for health checks.
func (r *statsRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}
