package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro-it/portal-api/internal/domain"
)

// TicketMessageRepository manages ticket thread messages.
type TicketMessageRepository interface {
	Create(ctx context.Context, msg *domain.TicketMessage) error
	// CreateAndTransition inserts the message and moves the owning ticket to
	// newStatus in a single transaction, so a client reply that ends
	// WAITING_CLIENT can never be persisted without its status side effect.
	CreateAndTransition(ctx context.Context, msg *domain.TicketMessage, newStatus domain.TicketStatus) error
	ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error)
}

type ticketMessageRepository struct {
	pool *pgxpool.Pool
}

// NewTicketMessageRepository builds repository.
func NewTicketMessageRepository(pool *pgxpool.Pool) TicketMessageRepository {
	return &ticketMessageRepository{pool: pool}
}

const insertMessageQuery = `
        INSERT INTO ticket_messages (ticket_id, content, is_staff)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`

func (r *ticketMessageRepository) Create(ctx context.Context, msg *domain.TicketMessage) error {
	return r.pool.QueryRow(ctx, insertMessageQuery,
		msg.TicketID,
		msg.Content,
		msg.IsStaff,
	).Scan(&msg.ID, &msg.CreatedAt)
}

func (r *ticketMessageRepository) CreateAndTransition(ctx context.Context, msg *domain.TicketMessage, newStatus domain.TicketStatus) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := tx.QueryRow(ctx, insertMessageQuery,
		msg.TicketID,
		msg.Content,
		msg.IsStaff,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE tickets SET status=$1, updated_at=NOW() WHERE id=$2`,
		newStatus, msg.TicketID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *ticketMessageRepository) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketMessage, error) {
	const query = `
        SELECT id, ticket_id, content, is_staff, created_at
        FROM ticket_messages WHERE ticket_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketMessage
	for rows.Next() {
		var msg domain.TicketMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.TicketID,
			&msg.Content,
			&msg.IsStaff,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}
