package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/carebridge/server/internal/domain"
)

// CampaignRepositoryPG implements domain.CampaignRepository using PostgreSQL.
type CampaignRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository constructs the repository.
func NewCampaignRepository(pool *pgxpool.Pool) *CampaignRepositoryPG {
	return &CampaignRepositoryPG{pool: pool}
}

const campaignColumns = `id, owner_id, title, description, goal, raised, donor_count, status, category, urgent, created_at, updated_at`

// Create inserts a new campaign.
func (r *CampaignRepositoryPG) Create(ctx context.Context, campaign *domain.Campaign) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO campaigns (id, owner_id, title, description, goal, status, category, urgent)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`,
		campaign.ID,
		campaign.OwnerID,
		campaign.Title,
		campaign.Description,
		campaign.Goal,
		campaign.Status,
		campaign.Category,
		campaign.Urgent,
	)
	if isForeignKeyViolation(err) {
		return domain.ErrNotFound
	}
	return err
}

// GetByID fetches a campaign by id.
func (r *CampaignRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	return scanCampaign(row)
}

// List returns campaigns, optionally filtered by status, newest first.
func (r *CampaignRepositoryPG) List(ctx context.Context, status domain.CampaignStatus, limit int) ([]domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns`
	args := []any{}
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Campaign
	for rows.Next() {
		var c domain.Campaign
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Goal, &c.Raised, &c.DonorCount, &c.Status, &c.Category, &c.Urgent, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// UpdateStatus moves the campaign to a new lifecycle state.
func (r *CampaignRepositoryPG) UpdateStatus(ctx context.Context, id string, status domain.CampaignStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE campaigns SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SetAggregates overwrites the stored totals with recomputed values. Used by
// the reconciler only; the donation path increments instead.
func (r *CampaignRepositoryPG) SetAggregates(ctx context.Context, id string, raised decimal.Decimal, donorCount int64) error {
	_, err := r.pool.Exec(ctx, `
UPDATE campaigns
SET raised = $2, donor_count = $3, updated_at = NOW()
WHERE id = $1 AND (raised <> $2 OR donor_count <> $3);
`, id, raised, donorCount)
	return err
}

// ListIDs returns all campaign ids. Used by the reconciler sweep.
func (r *CampaignRepositoryPG) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM campaigns`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var c domain.Campaign
	if err := row.Scan(&c.ID, &c.OwnerID, &c.Title, &c.Description, &c.Goal, &c.Raised, &c.DonorCount, &c.Status, &c.Category, &c.Urgent, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
