package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sachi-ghani/storefront-service/internal/domain"
)

// OrderRepository encapsulates order persistence.
type OrderRepository interface {
	// Create inserts the order snapshot and clears the owner's cart in the
	// same transaction, so checkout never leaves a stale cart behind.
	Create(ctx context.Context, order *domain.Order) error
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	CountAll(ctx context.Context) (int, error)
}

type orderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository instantiates repository.
func NewOrderRepository(pool *pgxpool.Pool) OrderRepository {
	return &orderRepository{pool: pool}
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const insert = `
        INSERT INTO orders (order_id, user_id, items, total, customer_details, payment_proof, status, delivery_method)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	if err := tx.QueryRow(ctx, insert,
		order.OrderID,
		order.UserID,
		order.Items,
		order.Total,
		order.CustomerDetails,
		order.PaymentProof,
		order.Status,
		order.DeliveryMethod,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrOrderIDTaken
		}
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id=$1`, order.UserID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const query = `
        SELECT id, order_id, user_id, items, total, customer_details, payment_proof, status, delivery_method, created_at, updated_at
        FROM orders WHERE user_id=$1
        ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		if err := rows.Scan(
			&order.ID,
			&order.OrderID,
			&order.UserID,
			&order.Items,
			&order.Total,
			&order.CustomerDetails,
			&order.PaymentProof,
			&order.Status,
			&order.DeliveryMethod,
			&order.CreatedAt,
			&order.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, order)
	}
	return result, rows.Err()
}

func (r *orderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	const query = `
        SELECT o.id, o.order_id, o.user_id, o.items, o.total, o.customer_details, o.payment_proof,
               o.status, o.delivery_method, o.created_at, o.updated_at, u.name, u.email
        FROM orders o
        JOIN users u ON u.id = o.user_id
        ORDER BY o.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var order domain.Order
		var owner domain.OrderOwner
		if err := rows.Scan(
			&order.ID,
			&order.OrderID,
			&order.UserID,
			&order.Items,
			&order.Total,
			&order.CustomerDetails,
			&order.PaymentProof,
			&order.Status,
			&order.DeliveryMethod,
			&order.CreatedAt,
			&order.UpdatedAt,
			&owner.Name,
			&owner.Email,
		); err != nil {
			return nil, err
		}
		order.Owner = &owner
		result = append(result, order)
	}
	return result, rows.Err()
}

func (r *orderRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
