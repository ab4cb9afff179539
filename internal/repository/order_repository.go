package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/tryon-service/internal/domain"
)

// OrderRepository encapsulates the per-user order ledger. Listing is
// newest-first; Prune keeps only the most recent entries per user.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	Update(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Prune(ctx context.Context, userID string, keep int) error
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	const query = `
        INSERT INTO orders (user_id, task_id, model_ref, garment_image, result_url, status, error_detail, degraded)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		order.UserID,
		order.TaskID,
		order.ModelRef,
		order.GarmentImage,
		order.ResultURL,
		order.Status,
		order.ErrorDetail,
		order.Degraded,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
}

func (r *orderRepository) Update(ctx context.Context, order *domain.Order) error {
	const query = `
        UPDATE orders SET task_id=$1, result_url=$2, status=$3, error_detail=$4, degraded=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		order.TaskID,
		order.ResultURL,
		order.Status,
		order.ErrorDetail,
		order.Degraded,
		order.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	const query = orderSelect + ` WHERE id=$1`
	var order domain.Order
	if err := r.pool.QueryRow(ctx, query, id).Scan(orderFields(&order)...); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const query = orderSelect + ` WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(orderFields(&order)...); err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func (r *orderRepository) Prune(ctx context.Context, userID string, keep int) error {
	if keep <= 0 {
		return nil
	}
	const query = `
        DELETE FROM orders WHERE user_id=$1 AND id NOT IN (
            SELECT id FROM orders WHERE user_id=$1 ORDER BY created_at DESC LIMIT $2
        )`
	_, err := r.pool.Exec(ctx, query, userID, keep)
	return err
}

const orderSelect = `
        SELECT id, user_id, task_id, model_ref, garment_image, result_url, status, error_detail, degraded,
               created_at, updated_at
        FROM orders`

func orderFields(o *domain.Order) []any {
	return []any{
		&o.ID,
		&o.UserID,
		&o.TaskID,
		&o.ModelRef,
		&o.GarmentImage,
		&o.ResultURL,
		&o.Status,
		&o.ErrorDetail,
		&o.Degraded,
		&o.CreatedAt,
		&o.UpdatedAt,
	}
}
