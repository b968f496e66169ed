package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro-it/portal-api/internal/domain"
)

// ChatMessageRepository manages persisted assistant conversation turns.
type ChatMessageRepository interface {
	// CreatePair appends the user turn and the assistant reply in one
	// transaction so a conversation never persists half an exchange.
	CreatePair(ctx context.Context, userMsg, assistantMsg *domain.ChatMessage) error
	ListRecent(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.ChatMessage, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	DeleteByUser(ctx context.Context, userID string) error
}

type chatMessageRepository struct {
	pool *pgxpool.Pool
}

// NewChatMessageRepository builds repository.
func NewChatMessageRepository(pool *pgxpool.Pool) ChatMessageRepository {
	return &chatMessageRepository{pool: pool}
}

const insertChatMessageQuery = `
        INSERT INTO chat_messages (user_id, role, content)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`

func (r *chatMessageRepository) CreatePair(ctx context.Context, userMsg, assistantMsg *domain.ChatMessage) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	for _, msg := range []*domain.ChatMessage{userMsg, assistantMsg} {
		if err := tx.QueryRow(ctx, insertChatMessageQuery,
			msg.UserID,
			msg.Role,
			msg.Content,
		).Scan(&msg.ID, &msg.CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// ListRecent returns the latest turns in chronological order.
func (r *chatMessageRepository) ListRecent(ctx context.Context, userID string, limit int) ([]domain.ChatMessage, error) {
	const query = `
        SELECT id, user_id, role, content, created_at FROM (
            SELECT id, user_id, role, content, created_at
            FROM chat_messages WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2
        ) recent ORDER BY created_at ASC`
	return r.list(ctx, query, userID, limit)
}

func (r *chatMessageRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.ChatMessage, error) {
	const query = `
        SELECT id, user_id, role, content, created_at
        FROM chat_messages WHERE user_id=$1 ORDER BY created_at ASC LIMIT $2 OFFSET $3`
	return r.list(ctx, query, userID, limit, offset)
}

func (r *chatMessageRepository) list(ctx context.Context, query string, args ...any) ([]domain.ChatMessage, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.UserID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, msg)
	}
	return result, rows.Err()
}

func (r *chatMessageRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM chat_messages WHERE user_id=$1`, userID,
	).Scan(&count)
	return count, err
}

func (r *chatMessageRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM chat_messages WHERE user_id=$1`, userID)
	return err
}
