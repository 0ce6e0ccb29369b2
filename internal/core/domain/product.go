package domain

import "time"

// Product is a catalog entry served through the conditional read path.
type Product struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       int64     `json:"price"` // minor currency units
	Currency    string    `json:"currency"`
	ImageURL    string    `json:"image_url,omitempty"`
	StockQty    int       `json:"stock_qty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductSnapshot is a cached rendering of a product plus its conditional
// request validators. Snapshots are replaced wholesale, never mutated.
type ProductSnapshot struct {
	Body         []byte    `json:"body"` // serialized product JSON
	ETag         string    `json:"etag"`
	LastModified time.Time `json:"last_modified"`
}
