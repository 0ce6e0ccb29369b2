package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// ProductRepo implements ports.ProductRepository.
type ProductRepo struct {
	pool Pool
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(pool Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// GetBySlug fetches a product by its slug.
func (r *ProductRepo) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p := &domain.Product{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, slug, name, description, price, currency, image_url, stock_qty, created_at, updated_at
		 FROM products WHERE slug = $1`, slug).Scan(
		&p.ID, &p.Slug, &p.Name, &p.Description, &p.Price, &p.Currency,
		&p.ImageURL, &p.StockQty, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by slug: %w", err)
	}
	return p, nil
}
