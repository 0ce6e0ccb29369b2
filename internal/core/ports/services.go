package ports

import (
	"context"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"

	"github.com/google/uuid"
)

// RequestMeta carries request-scoped attribution for audit entries.
type RequestMeta struct {
	RequestID string
	ActorID   *uuid.UUID // nil when the caller is anonymous
	ClientIP  string
	UserAgent string
}

// OrderSubmission is the structured payload recovered from a decrypted
// intake request (or supplied directly on the plain placement path).
type OrderSubmission struct {
	CustomerName  string           `json:"customer_name"`
	Address       string           `json:"address"`
	City          string           `json:"city"`
	PostalCode    string           `json:"postal_code"`
	ShipToCountry string           `json:"ship_to_country"`
	PaymentMethod string           `json:"payment_method"`
	Items         []SubmissionItem `json:"items"`
}

// SubmissionItem is one line item of an order submission.
type SubmissionItem struct {
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Qty       int    `json:"qty"`
	ProductNo string `json:"product_no,omitempty"`
	Category  string `json:"category,omitempty"`
}

// PayloadDecryptor turns base64 RSA-OAEP ciphertext into an order submission.
// Pure: no side effects, safe under arbitrary request concurrency.
type PayloadDecryptor interface {
	Decrypt(ciphertext string) (*OrderSubmission, error)
}

// IdempotencyGuard deduplicates retried intake requests.
//
// Claim atomically reserves a key. On ClaimProceed the caller owns the key
// and must call Commit with the response on success, or Release on failure.
// On ClaimHit the previously committed response bytes are returned verbatim.
// An empty key always yields ClaimProceed with no reservation.
type IdempotencyGuard interface {
	Claim(ctx context.Context, key string) (domain.ClaimStatus, []byte, error)
	Commit(ctx context.Context, key string, response []byte) error
	Release(ctx context.Context, key string)
}

// EncryptedIntakeRequest is the validated input for encrypted order placement.
type EncryptedIntakeRequest struct {
	Payload        string // base64 ciphertext
	IdempotencyKey string // optional, client-chosen
	Meta           RequestMeta
}

// IntakeOutcome is the terminal result of one intake orchestration.
type IntakeOutcome struct {
	Response []byte // exact JSON body to return; byte-identical on replay
	Replayed bool   // true when served from the idempotency cache
}

// IntakeService runs the intake orchestration:
// claim -> decrypt -> validate -> persist -> audit -> commit.
type IntakeService interface {
	PlaceEncrypted(ctx context.Context, req EncryptedIntakeRequest) (*IntakeOutcome, error)
	Place(ctx context.Context, sub OrderSubmission, meta RequestMeta) (*domain.IntakeResult, error)
}

// SnapshotService serves product snapshots for conditional reads.
type SnapshotService interface {
	// Get returns the current snapshot for a product, recomputing and
	// repopulating the cache on miss or expiry.
	Get(ctx context.Context, slug string) (*domain.ProductSnapshot, error)
}

// AuditService records audit entries as a best-effort side channel. Failures
// are logged, never propagated: auditability must not block order placement.
type AuditService interface {
	Record(ctx context.Context, entry *domain.AuditLog)
}

// ShipmentService persists shipment transitions and fans them out to live
// subscribers.
type ShipmentService interface {
	UpdateStatus(ctx context.Context, req ShipmentUpdateRequest) (*domain.Shipment, error)
}

// ShipmentUpdateRequest is the validated input for a shipment transition.
type ShipmentUpdateRequest struct {
	OrderID uuid.UUID
	Status  domain.ShipmentStatus
	Note    string
	Meta    RequestMeta
}

// Broadcaster fans an event out to every current member of a group. Delivery
// is best-effort per connection; a failing member never blocks the others.
type Broadcaster interface {
	Broadcast(group string, event interface{})
}

// SnapshotCache stores rendered resource snapshots with a freshness window.
type SnapshotCache interface {
	Get(ctx context.Context, key string) (*domain.ProductSnapshot, error) // nil, nil on miss
	Set(ctx context.Context, key string, snap *domain.ProductSnapshot, ttl time.Duration) error
}

// IdempotencyCache is the shared store behind the IdempotencyGuard.
//
// SetNX reserves key only if absent, returning true when the reservation won.
// Get returns nil on miss.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
}
