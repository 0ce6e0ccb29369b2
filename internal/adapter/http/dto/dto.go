package dto

// EncryptedOrderRequest is the request body for encrypted order placement.
// Payload is base64 RSA-OAEP ciphertext of an order submission.
type EncryptedOrderRequest struct {
	Payload string `json:"payload" binding:"required"`
}

// PlaceOrderRequest is the request body for plain order placement.
type PlaceOrderRequest struct {
	CustomerName  string           `json:"customer_name" binding:"max=100"`
	Address       string           `json:"address" binding:"required,max=255"`
	City          string           `json:"city" binding:"max=100"`
	PostalCode    string           `json:"postal_code" binding:"max=20"`
	ShipToCountry string           `json:"ship_to_country" binding:"max=100"`
	PaymentMethod string           `json:"payment_method" binding:"omitempty,oneof=cash card bkash nagad"`
	Items         []OrderItemInput `json:"items" binding:"required,min=1,dive"`
}

// OrderItemInput is one line item of an order placement request.
type OrderItemInput struct {
	Name      string `json:"name" binding:"required,max=100"`
	Price     int64  `json:"price" binding:"min=0"`
	Qty       int    `json:"qty" binding:"required,min=1"`
	ProductNo string `json:"product_no,omitempty"`
	Category  string `json:"category,omitempty"`
}

// OrderPlacedResponse is the response body for successful order placement.
type OrderPlacedResponse struct {
	OrderID   string `json:"order_id"`
	OrderCode string `json:"order_code"`
}

// ShipmentStatusRequest is the request body for a shipment transition.
type ShipmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=assigned in_transit delivered failed"`
	Note   string `json:"note" binding:"max=300"`
}
