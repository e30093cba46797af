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

// DonationRepositoryPG implements domain.DonationRepository using PostgreSQL.
type DonationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(pool *pgxpool.Pool) *DonationRepositoryPG {
	return &DonationRepositoryPG{pool: pool}
}

const donationColumns = `id, campaign_id, user_id, amount, status, anonymous, message, transaction_id, payment_method, donor_country, created_at, updated_at`

// Record inserts the donation and moves the parent campaign's aggregates in
// the same transaction. The raised total is updated with an arithmetic
// increment on the campaign row, never a read-modify-write from here, so
// concurrent donations to one campaign cannot lose updates.
func (r *DonationRepositoryPG) Record(ctx context.Context, donation *domain.Donation) (*domain.Donation, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("begin donation tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, `
INSERT INTO donations (id, campaign_id, user_id, amount, status, anonymous, message, transaction_id, payment_method, donor_country)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING `+donationColumns+`;
`,
		donation.ID,
		donation.CampaignID,
		donation.UserID,
		donation.Amount,
		donation.Status,
		donation.Anonymous,
		donation.Message,
		donation.TransactionID,
		donation.PaymentMethod,
		donation.DonorCountry,
	)
	inserted, err := scanDonation(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, domain.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("insert donation: %w", err)
	}

	if inserted.Status == domain.DonationStatusCompleted {
		// New donor iff the row we just wrote is the donor's only completed
		// donation for this campaign.
		var completed int64
		if err := tx.QueryRow(ctx, `
SELECT COUNT(*) FROM donations
WHERE campaign_id = $1 AND user_id = $2 AND status = 'completed';
`, inserted.CampaignID, inserted.UserID).Scan(&completed); err != nil {
			return nil, fmt.Errorf("count donor donations: %w", err)
		}

		donorDelta := int64(0)
		if completed == 1 {
			donorDelta = 1
		}

		tag, err := tx.Exec(ctx, `
UPDATE campaigns
SET raised = raised + $2,
    donor_count = donor_count + $3,
    updated_at = NOW()
WHERE id = $1;
`, inserted.CampaignID, inserted.Amount, donorDelta)
		if err != nil {
			return nil, fmt.Errorf("update campaign aggregates: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil, domain.ErrCampaignNotFound
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit donation tx: %w", err)
	}
	return inserted, nil
}

// GetByID fetches a donation by id.
func (r *DonationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+donationColumns+` FROM donations WHERE id = $1`, id)
	return scanDonation(row)
}

// ListByCampaign returns the campaign's donations, newest first.
func (r *DonationRepositoryPG) ListByCampaign(ctx context.Context, campaignID string, limit int) ([]domain.Donation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+donationColumns+`
FROM donations
WHERE campaign_id = $1
ORDER BY created_at DESC
LIMIT $2;
`, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		d, err := scanDonationValues(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// SumCompletedByCampaign recomputes the campaign's ground-truth totals from
// its completed donations.
func (r *DonationRepositoryPG) SumCompletedByCampaign(ctx context.Context, campaignID string) (decimal.Decimal, int64, error) {
	row := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(amount), 0), COUNT(DISTINCT user_id)
FROM donations
WHERE campaign_id = $1 AND status = 'completed';
`, campaignID)

	var total decimal.Decimal
	var donors int64
	if err := row.Scan(&total, &donors); err != nil {
		return decimal.Zero, 0, err
	}
	return total, donors, nil
}

func scanDonation(row pgx.Row) (*domain.Donation, error) {
	var d domain.Donation
	if err := row.Scan(
		&d.ID, &d.CampaignID, &d.UserID, &d.Amount, &d.Status, &d.Anonymous,
		&d.Message, &d.TransactionID, &d.PaymentMethod, &d.DonorCountry,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func scanDonationValues(rows pgx.Rows) (*domain.Donation, error) {
	var d domain.Donation
	if err := rows.Scan(
		&d.ID, &d.CampaignID, &d.UserID, &d.Amount, &d.Status, &d.Anonymous,
		&d.Message, &d.TransactionID, &d.PaymentMethod, &d.DonorCountry,
		&d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &d, nil
}
