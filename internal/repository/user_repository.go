package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro-it/portal-api/internal/domain"
)

// AccountCounts aggregates the live context shown on /auth/me and fed into
// the assistant system prompt.
type AccountCounts struct {
	OpenTickets     int
	PendingInvoices int
	ActiveServices  int
}

// UserRepository defines persistence access for portal accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	CountsForUser(ctx context.Context, userID string) (AccountCounts, error)
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
        INSERT INTO users (name, email, password_hash, company, phone, role, stripe_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Company,
		user.Phone,
		user.Role,
		user.StripeID,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, password_hash=$3, company=$4, phone=$5, role=$6, stripe_id=$7, updated_at=NOW()
        WHERE id=$8`

	cmd, err := r.pool.Exec(ctx, query,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Company,
		user.Phone,
		user.Role,
		user.StripeID,
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
	const query = `
        SELECT id, name, email, password_hash, company, phone, role, stripe_id, created_at, updated_at
        FROM users WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT id, name, email, password_hash, company, phone, role, stripe_id, created_at, updated_at
        FROM users WHERE email=$1`
	return r.fetchSingle(ctx, query, email)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Company,
		&user.Phone,
		&user.Role,
		&user.StripeID,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CountsForUser(ctx context.Context, userID string) (AccountCounts, error) {
	const query = `
        SELECT
            (SELECT COUNT(*) FROM tickets WHERE user_id=$1 AND status IN ('OPEN','IN_PROGRESS')),
            (SELECT COUNT(*) FROM invoices WHERE user_id=$1 AND status='PENDING'),
            (SELECT COUNT(*) FROM client_services WHERE user_id=$1 AND status='ACTIVE')`

	var counts AccountCounts
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&counts.OpenTickets,
		&counts.PendingInvoices,
		&counts.ActiveServices,
	); err != nil {
		return AccountCounts{}, err
	}
	return counts, nil
}
