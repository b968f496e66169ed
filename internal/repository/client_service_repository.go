package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pedro-it/portal-api/internal/domain"
)

// ClientServiceRepository manages service assignments.
type ClientServiceRepository interface {
	GetByUserAndService(ctx context.Context, userID, serviceID string) (*domain.ClientService, error)
	GetByID(ctx context.Context, id string) (*domain.ClientService, error)
	Create(ctx context.Context, cs *domain.ClientService) error
	// Reactivate restarts a previously cancelled or suspended assignment.
	Reactivate(ctx context.Context, id string, notes *string) error
	Update(ctx context.Context, cs *domain.ClientService) error
	ListByUser(ctx context.Context, userID string, status *domain.ClientServiceStatus) ([]domain.ClientService, error)
	ListAll(ctx context.Context, status *domain.ClientServiceStatus) ([]domain.ClientService, error)
}

type clientServiceRepository struct {
	pool *pgxpool.Pool
}

// NewClientServiceRepository instantiates repository.
func NewClientServiceRepository(pool *pgxpool.Pool) ClientServiceRepository {
	return &clientServiceRepository{pool: pool}
}

const clientServiceColumns = `
        cs.id, cs.user_id, cs.service_id, cs.status, cs.start_date, cs.end_date, cs.notes,
        s.id, s.name, s.description, s.price_type, s.price, s.features, s.is_active, s.created_at, s.updated_at`

func (r *clientServiceRepository) GetByUserAndService(ctx context.Context, userID, serviceID string) (*domain.ClientService, error) {
	query := `SELECT ` + clientServiceColumns + `
        FROM client_services cs JOIN services s ON s.id = cs.service_id
        WHERE cs.user_id=$1 AND cs.service_id=$2`
	return r.fetchSingle(ctx, query, userID, serviceID)
}

func (r *clientServiceRepository) GetByID(ctx context.Context, id string) (*domain.ClientService, error) {
	query := `SELECT ` + clientServiceColumns + `
        FROM client_services cs JOIN services s ON s.id = cs.service_id
        WHERE cs.id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *clientServiceRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.ClientService, error) {
	var cs domain.ClientService
	var svc domain.Service
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&cs.ID, &cs.UserID, &cs.ServiceID, &cs.Status, &cs.StartDate, &cs.EndDate, &cs.Notes,
		&svc.ID, &svc.Name, &svc.Description, &svc.PriceType, &svc.Price, &svc.Features,
		&svc.IsActive, &svc.CreatedAt, &svc.UpdatedAt,
	); err != nil {
		return nil, err
	}
	cs.Service = &svc
	return &cs, nil
}

func (r *clientServiceRepository) Create(ctx context.Context, cs *domain.ClientService) error {
	const query = `
        INSERT INTO client_services (user_id, service_id, status, notes)
        VALUES ($1,$2,$3,$4)
        RETURNING id, start_date`
	return r.pool.QueryRow(ctx, query,
		cs.UserID,
		cs.ServiceID,
		cs.Status,
		cs.Notes,
	).Scan(&cs.ID, &cs.StartDate)
}

func (r *clientServiceRepository) Reactivate(ctx context.Context, id string, notes *string) error {
	const query = `
        UPDATE client_services SET status='ACTIVE', start_date=NOW(), end_date=NULL, notes=$1
        WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, notes, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientServiceRepository) Update(ctx context.Context, cs *domain.ClientService) error {
	const query = `
        UPDATE client_services SET status=$1, end_date=$2, notes=$3
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query, cs.Status, cs.EndDate, cs.Notes, cs.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *clientServiceRepository) ListByUser(ctx context.Context, userID string, status *domain.ClientServiceStatus) ([]domain.ClientService, error) {
	clauses := []string{"cs.user_id=$1"}
	args := []any{userID}
	if status != nil {
		args = append(args, *status)
		clauses = append(clauses, fmt.Sprintf("cs.status=$%d", len(args)))
	}
	query := `SELECT ` + clientServiceColumns + `
        FROM client_services cs JOIN services s ON s.id = cs.service_id
        WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY cs.start_date DESC`
	return r.list(ctx, query, args...)
}

func (r *clientServiceRepository) ListAll(ctx context.Context, status *domain.ClientServiceStatus) ([]domain.ClientService, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if status != nil {
		args = append(args, *status)
		clauses = append(clauses, fmt.Sprintf("cs.status=$%d", len(args)))
	}
	query := `SELECT ` + clientServiceColumns + `
        FROM client_services cs JOIN services s ON s.id = cs.service_id
        WHERE ` + strings.Join(clauses, " AND ") + ` ORDER BY cs.start_date DESC`
	return r.list(ctx, query, args...)
}

func (r *clientServiceRepository) list(ctx context.Context, query string, args ...any) ([]domain.ClientService, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ClientService
	for rows.Next() {
		var cs domain.ClientService
		var svc domain.Service
		if err := rows.Scan(
			&cs.ID, &cs.UserID, &cs.ServiceID, &cs.Status, &cs.StartDate, &cs.EndDate, &cs.Notes,
			&svc.ID, &svc.Name, &svc.Description, &svc.PriceType, &svc.Price, &svc.Features,
			&svc.IsActive, &svc.CreatedAt, &svc.UpdatedAt,
		); err != nil {
			return nil, err
		}
		cs.Service = &svc
		result = append(result, cs)
	}
	return result, rows.Err()
}
