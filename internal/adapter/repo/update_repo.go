package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/server/internal/domain"
)

// CampaignUpdateRepositoryPG implements CampaignUpdateRepository using PostgreSQL.
type CampaignUpdateRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignUpdateRepository creates a new campaign update repo.
func NewCampaignUpdateRepository(pool *pgxpool.Pool) *CampaignUpdateRepositoryPG {
	return &CampaignUpdateRepositoryPG{pool: pool}
}

// Append inserts a new progress note.
func (r *CampaignUpdateRepositoryPG) Append(ctx context.Context, update *domain.CampaignUpdate) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO campaign_updates (id, campaign_id, title, content, posted_at)
VALUES ($1, $2, $3, $4, COALESCE(NULLIF($5::timestamptz, '0001-01-01T00:00:00Z'::timestamptz), NOW()));
`, update.ID, update.CampaignID, update.Title, update.Content, update.PostedAt)
	if isForeignKeyViolation(err) {
		return domain.ErrCampaignNotFound
	}
	return err
}

// ListByCampaign returns the campaign's notes, newest first.
func (r *CampaignUpdateRepositoryPG) ListByCampaign(ctx context.Context, campaignID string) ([]domain.CampaignUpdate, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, campaign_id, title, content, posted_at, created_at
FROM campaign_updates
WHERE campaign_id = $1
ORDER BY posted_at DESC;
`, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.CampaignUpdate
	for rows.Next() {
		var u domain.CampaignUpdate
		if err := rows.Scan(&u.ID, &u.CampaignID, &u.Title, &u.Content, &u.PostedAt, &u.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, u)
	}
	return items, rows.Err()
}
