package postgres

import (
	"context"
	"fmt"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"
)

// OrderRepo implements ports.OrderRepository.
type OrderRepo struct {
	pool Pool
}

// NewOrderRepo creates a new OrderRepo.
func NewOrderRepo(pool Pool) *OrderRepo {
	return &OrderRepo{pool: pool}
}

// Create inserts an order and its line items in one transaction.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin order tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	_, err = tx.Exec(ctx,
		`INSERT INTO orders (order_id, order_code, customer_name, address, city, postal_code, ship_to_country, payment_method, status, total, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		o.ID, o.Code, o.CustomerName, o.Address, o.City, o.PostalCode,
		o.ShipToCountry, string(o.PaymentMethod), string(o.Status), o.Total,
		o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, name, price, qty, product_no, category)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			o.ID, item.Name, item.Price, item.Qty, item.ProductNo, item.Category,
		)
		if err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit order tx: %w", err)
	}
	return nil
}
