package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// PaymentMethod is the customer-selected payment channel.
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodBkash PaymentMethod = "bkash"
	PaymentMethodNagad PaymentMethod = "nagad"
)

// Order is a placed customer order.
type Order struct {
	ID            uuid.UUID     `json:"order_id"`
	Code          string        `json:"order_code"`
	CustomerName  string        `json:"customer_name"`
	Address       string        `json:"address"`
	City          string        `json:"city"`
	PostalCode    string        `json:"postal_code"`
	ShipToCountry string        `json:"ship_to_country"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Status        OrderStatus   `json:"status"`
	Total         int64         `json:"total"` // minor currency units
	Items         []OrderItem   `json:"items"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// OrderItem is a single line item within an order.
type OrderItem struct {
	Name      string `json:"name"`
	Price     int64  `json:"price"` // minor currency units
	Qty       int    `json:"qty"`
	ProductNo string `json:"product_no,omitempty"`
	Category  string `json:"category,omitempty"`
}

// Subtotal returns price * qty for the line.
func (i OrderItem) Subtotal() int64 {
	return i.Price * int64(i.Qty)
}

// NewOrderCode derives the human-facing order code from the order UUID.
// Format: EXB-XXXXXXXX (first 8 hex chars, uppercased).
func NewOrderCode(id uuid.UUID) string {
	s := id.String()
	code := make([]byte, 0, 12)
	code = append(code, "EXB-"...)
	for _, c := range s[:8] {
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		code = append(code, byte(c))
	}
	return string(code)
}
