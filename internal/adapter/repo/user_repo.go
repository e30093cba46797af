package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/carebridge/server/internal/domain"
)

// UserRepositoryPG implements domain.UserRepository backed by PostgreSQL.
type UserRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepositoryPG.
func NewUserRepository(pool *pgxpool.Pool) *UserRepositoryPG {
	return &UserRepositoryPG{pool: pool}
}

const userColumns = `id, email, name, password_hash, role, verified, wallet_address, created_at, updated_at`

// Create inserts a new user row.
func (r *UserRepositoryPG) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO users (id, email, name, password_hash, role, verified, wallet_address)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`, user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.Verified, user.WalletAddress)
	return err
}

// EnsureExists inserts the user if no row with the same id exists yet. The
// conflict target is the primary key, so any number of concurrent callers
// leave exactly one row behind and none of them fail.
func (r *UserRepositoryPG) EnsureExists(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO users (id, email, name, password_hash, role, verified, wallet_address)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING;
`, user.ID, user.Email, user.Name, user.PasswordHash, user.Role, user.Verified, user.WalletAddress)
	return err
}

// GetByID fetches a user by id.
func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByEmail fetches a user by email.
func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return scanUser(row)
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.Verified, &u.WalletAddress, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
