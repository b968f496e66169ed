package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro-it/portal-api/internal/domain"
)

// InvoiceFilter captures listing parameters.
type InvoiceFilter struct {
	UserID   *string
	Statuses []domain.InvoiceStatus
	Limit    int
	Offset   int
}

// InvoiceStatusAggregate is a count/sum pair for one status bucket.
type InvoiceStatusAggregate struct {
	Count  int
	Amount float64
}

// InvoiceStats aggregates revenue figures for the admin dashboard.
type InvoiceStats struct {
	TotalRevenue float64
	Pending      InvoiceStatusAggregate
	Paid         InvoiceStatusAggregate
	Overdue      InvoiceStatusAggregate
}

// InvoiceRepository encapsulates invoice persistence.
type InvoiceRepository interface {
	// Create inserts the invoice and its items, assigning the next sequence
	// number for the invoice's creation year inside one transaction.
	Create(ctx context.Context, invoice *domain.Invoice) error
	GetByID(ctx context.Context, id string) (*domain.Invoice, error)
	ListWithFilter(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error)
	SetSession(ctx context.Context, invoiceID, sessionID string) error
	// MarkPaid transitions the invoice to PAID exactly once. Repeat calls for
	// the same invoice return applied=false and leave paid_at untouched.
	MarkPaid(ctx context.Context, invoiceID, settlementRef string) (applied bool, err error)
	SetStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error)
	Stats(ctx context.Context) (InvoiceStats, error)
}

type invoiceRepository struct {
	pool *pgxpool.Pool
}

// NewInvoiceRepository instantiates repository.
func NewInvoiceRepository(pool *pgxpool.Pool) InvoiceRepository {
	return &invoiceRepository{pool: pool}
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// The counter row serializes ordinal assignment: concurrent creations for
	// the same year queue on the row lock instead of reading a shared count.
	year := time.Now().Year()
	var ordinal int
	if err := tx.QueryRow(ctx, `
        INSERT INTO invoice_counters (year, last_ordinal) VALUES ($1, 1)
        ON CONFLICT (year) DO UPDATE SET last_ordinal = invoice_counters.last_ordinal + 1
        RETURNING last_ordinal`, year,
	).Scan(&ordinal); err != nil {
		return err
	}
	invoice.Number = fmt.Sprintf("PIT-%d-%04d", year, ordinal)

	if err := tx.QueryRow(ctx, `
        INSERT INTO invoices (number, user_id, description, amount, status, due_date)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`,
		invoice.Number,
		invoice.UserID,
		invoice.Description,
		invoice.Amount,
		invoice.Status,
		invoice.DueDate,
	).Scan(&invoice.ID, &invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
		return err
	}

	for i := range invoice.Items {
		item := &invoice.Items[i]
		item.InvoiceID = invoice.ID
		if err := tx.QueryRow(ctx, `
            INSERT INTO invoice_items (invoice_id, description, quantity, unit_price)
            VALUES ($1,$2,$3,$4)
            RETURNING id`,
			item.InvoiceID,
			item.Description,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *invoiceRepository) GetByID(ctx context.Context, id string) (*domain.Invoice, error) {
	const query = `
        SELECT id, number, user_id, description, amount, status, due_date, paid_at, stripe_id, created_at, updated_at
        FROM invoices WHERE id=$1`
	var invoice domain.Invoice
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&invoice.ID,
		&invoice.Number,
		&invoice.UserID,
		&invoice.Description,
		&invoice.Amount,
		&invoice.Status,
		&invoice.DueDate,
		&invoice.PaidAt,
		&invoice.StripeID,
		&invoice.CreatedAt,
		&invoice.UpdatedAt,
	); err != nil {
		return nil, err
	}

	items, err := r.listItems(ctx, invoice.ID)
	if err != nil {
		return nil, err
	}
	invoice.Items = items
	return &invoice, nil
}

func (r *invoiceRepository) listItems(ctx context.Context, invoiceID string) ([]domain.InvoiceItem, error) {
	const query = `
        SELECT id, invoice_id, description, quantity, unit_price
        FROM invoice_items WHERE invoice_id=$1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.InvoiceItem
	for rows.Next() {
		var item domain.InvoiceItem
		if err := rows.Scan(
			&item.ID,
			&item.InvoiceID,
			&item.Description,
			&item.Quantity,
			&item.UnitPrice,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *invoiceRepository) ListWithFilter(ctx context.Context, filter InvoiceFilter) ([]domain.Invoice, error) {
	base := `SELECT id, number, user_id, description, amount, status, due_date, paid_at, stripe_id, created_at, updated_at
             FROM invoices`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Invoice
	for rows.Next() {
		var invoice domain.Invoice
		if err := rows.Scan(
			&invoice.ID,
			&invoice.Number,
			&invoice.UserID,
			&invoice.Description,
			&invoice.Amount,
			&invoice.Status,
			&invoice.DueDate,
			&invoice.PaidAt,
			&invoice.StripeID,
			&invoice.CreatedAt,
			&invoice.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, invoice)
	}
	return result, rows.Err()
}

func (r *invoiceRepository) SetSession(ctx context.Context, invoiceID, sessionID string) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE invoices SET stripe_id=$1, updated_at=NOW() WHERE id=$2`,
		sessionID, invoiceID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *invoiceRepository) MarkPaid(ctx context.Context, invoiceID, settlementRef string) (bool, error) {
	// Conditional update makes at-least-once webhook delivery safe: the second
	// delivery matches zero rows and paid_at keeps its original value.
	cmd, err := r.pool.Exec(ctx, `
        UPDATE invoices SET status='PAID', paid_at=NOW(), stripe_id=$1, updated_at=NOW()
        WHERE id=$2 AND status <> 'PAID'`,
		settlementRef, invoiceID,
	)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *invoiceRepository) SetStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus) (*domain.Invoice, error) {
	// paid_at tracks the status: stamped on entering PAID, cleared on leaving
	// it, so paid_at is set exactly when status is PAID.
	const query = `
        UPDATE invoices SET status=$1,
            paid_at = CASE
                WHEN $1='PAID' AND paid_at IS NULL THEN NOW()
                WHEN $1 <> 'PAID' THEN NULL
                ELSE paid_at END,
            updated_at=NOW()
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, invoiceID)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		return nil, pgx.ErrNoRows
	}
	return r.GetByID(ctx, invoiceID)
}

func (r *invoiceRepository) Stats(ctx context.Context) (InvoiceStats, error) {
	const query = `
        SELECT COALESCE(SUM(amount), 0),
               COUNT(*) FILTER (WHERE status='PENDING'), COALESCE(SUM(amount) FILTER (WHERE status='PENDING'), 0),
               COUNT(*) FILTER (WHERE status='PAID'), COALESCE(SUM(amount) FILTER (WHERE status='PAID'), 0),
               COUNT(*) FILTER (WHERE status='OVERDUE'), COALESCE(SUM(amount) FILTER (WHERE status='OVERDUE'), 0)
        FROM invoices`
	var stats InvoiceStats
	if err := r.pool.QueryRow(ctx, query).Scan(
		&stats.TotalRevenue,
		&stats.Pending.Count, &stats.Pending.Amount,
		&stats.Paid.Count, &stats.Paid.Amount,
		&stats.Overdue.Count, &stats.Overdue.Amount,
	); err != nil {
		return InvoiceStats{}, err
	}
	return stats, nil
}
