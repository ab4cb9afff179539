package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tryon-service/internal/domain"
)

// UserRepository defines persistence access for accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	DeleteByProvider(ctx context.Context, provider domain.AuthProvider, providerID string) (bool, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (full_name, email, password_hash, provider, provider_id, tier,
                           email_confirmed, confirm_token, confirm_expires)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.FullName,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.Provider,
		user.ProviderID,
		user.Tier,
		user.EmailConfirmed,
		user.ConfirmToken,
		user.ConfirmExpires,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET full_name=$1, email=$2, password_hash=$3, provider=$4, provider_id=$5,
            tier=$6, email_confirmed=$7, confirm_token=$8, confirm_expires=$9, updated_at=NOW()
        WHERE id=$10`

	cmd, err := r.pool.Exec(ctx, query,
		user.FullName,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.Provider,
		user.ProviderID,
		user.Tier,
		user.EmailConfirmed,
		user.ConfirmToken,
		user.ConfirmExpires,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = userSelect + ` WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = userSelect + ` WHERE email=$1`
	return r.fetchSingle(ctx, query, strings.ToLower(email))
}

// DeleteByProvider removes the account a social provider created, orders
// included via the FK cascade. Reports whether a row was deleted.
func (r *userRepository) DeleteByProvider(ctx context.Context, provider domain.AuthProvider, providerID string) (bool, error) {
	const query = `DELETE FROM users WHERE provider=$1 AND provider_id=$2`

	cmd, err := r.pool.Exec(ctx, query, provider, providerID)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

const userSelect = `
        SELECT id, full_name, email, password_hash, provider, provider_id, tier,
               email_confirmed, confirm_token, confirm_expires, created_at, updated_at
        FROM users`

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.FullName,
		&user.Email,
		&user.PasswordHash,
		&user.Provider,
		&user.ProviderID,
		&user.Tier,
		&user.EmailConfirmed,
		&user.ConfirmToken,
		&user.ConfirmExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
