package repo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/server/internal/domain"
)

// PaymentMethodRepositoryPG implements PaymentMethodRepository using PostgreSQL.
type PaymentMethodRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewPaymentMethodRepository creates a new payment method repo.
func NewPaymentMethodRepository(pool *pgxpool.Pool) *PaymentMethodRepositoryPG {
	return &PaymentMethodRepositoryPG{pool: pool}
}

// Save upserts a stored processor token, keyed on the provider token.
func (r *PaymentMethodRepositoryPG) Save(ctx context.Context, ref *domain.PaymentMethodRef) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO payment_methods (id, user_id, provider, provider_token, last4, is_default)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET last4 = EXCLUDED.last4,
    is_default = EXCLUDED.is_default;
`, ref.ID, ref.UserID, ref.Provider, ref.ProviderToken, ref.Last4, ref.Default)
	return err
}

// ListByUser returns the user's saved payment instruments.
func (r *PaymentMethodRepositoryPG) ListByUser(ctx context.Context, userID string) ([]domain.PaymentMethodRef, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, user_id, provider, provider_token, last4, is_default, created_at
FROM payment_methods
WHERE user_id = $1
ORDER BY created_at DESC;
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.PaymentMethodRef
	for rows.Next() {
		var p domain.PaymentMethodRef
		if err := rows.Scan(&p.ID, &p.UserID, &p.Provider, &p.ProviderToken, &p.Last4, &p.Default, &p.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}
