package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/server/internal/domain"
)

// StatsRepositoryPG computes dashboard aggregates straight from the store so
// the numbers reflect donation rows, not the cached campaign columns.
type StatsRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewStatsRepository creates a new StatsRepositoryPG.
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepositoryPG {
	return &StatsRepositoryPG{pool: pool}
}

// Summary returns platform totals plus the top donor countries.
func (r *StatsRepositoryPG) Summary(ctx context.Context) (*domain.StatsSummary, error) {
	var s domain.StatsSummary
	row := r.pool.QueryRow(ctx, `
SELECT
    (SELECT COUNT(*) FROM campaigns),
    (SELECT COUNT(*) FROM campaigns WHERE status = 'active'),
    (SELECT COALESCE(SUM(amount), 0) FROM donations WHERE status = 'completed'),
    (SELECT COUNT(*) FROM donations WHERE status = 'completed'),
    (SELECT COUNT(DISTINCT user_id) FROM donations WHERE status = 'completed');
`)
	if err := row.Scan(&s.TotalCampaigns, &s.ActiveCampaigns, &s.TotalRaised, &s.TotalDonations, &s.DistinctDonors); err != nil {
		return nil, fmt.Errorf("stats summary: %w", err)
	}

	rows, err := r.pool.Query(ctx, `
SELECT donor_country, COUNT(*)
FROM donations
WHERE status = 'completed' AND donor_country <> ''
GROUP BY donor_country
ORDER BY COUNT(*) DESC
LIMIT 10;
`)
	if err != nil {
		return nil, fmt.Errorf("stats countries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var c domain.CountryCount
		if err := rows.Scan(&c.Country, &c.Donations); err != nil {
			return nil, fmt.Errorf("stats countries: %w", err)
		}
		s.DonorCountries = append(s.DonorCountries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("stats countries: %w", err)
	}
	return &s, nil
}
