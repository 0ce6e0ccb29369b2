// Package integration exercises the assembled HTTP surface against in-memory
// repositories and an embedded Redis.
package integration

import (
	"context"
	"sync"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"

	"github.com/google/uuid"
)

// InMemoryOrderRepo is a map-backed ports.OrderRepository.
type InMemoryOrderRepo struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
}

func NewInMemoryOrderRepo() *InMemoryOrderRepo {
	return &InMemoryOrderRepo{orders: make(map[uuid.UUID]*domain.Order)}
}

func (r *InMemoryOrderRepo) Create(_ context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = order
	return nil
}

func (r *InMemoryOrderRepo) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.orders)
}

// InMemoryProductRepo is a map-backed ports.ProductRepository.
type InMemoryProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func NewInMemoryProductRepo(products ...*domain.Product) *InMemoryProductRepo {
	r := &InMemoryProductRepo{products: make(map[string]*domain.Product)}
	for _, p := range products {
		r.products[p.Slug] = p
	}
	return r
}

func (r *InMemoryProductRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.products[slug], nil
}

// InMemoryShipmentRepo is a map-backed ports.ShipmentRepository keyed by order.
type InMemoryShipmentRepo struct {
	mu        sync.Mutex
	shipments map[uuid.UUID]*domain.Shipment
}

func NewInMemoryShipmentRepo(shipments ...*domain.Shipment) *InMemoryShipmentRepo {
	r := &InMemoryShipmentRepo{shipments: make(map[uuid.UUID]*domain.Shipment)}
	for _, s := range shipments {
		r.shipments[s.OrderID] = s
	}
	return r
}

func (r *InMemoryShipmentRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status domain.ShipmentStatus, note string) (*domain.Shipment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.shipments[orderID]
	if !ok {
		return nil, nil
	}
	s.Status = status
	s.Note = note
	return s, nil
}

// InMemoryAuditRepo is an append-only slice-backed ports.AuditRepository.
type InMemoryAuditRepo struct {
	mu      sync.Mutex
	entries []*domain.AuditLog
}

func NewInMemoryAuditRepo() *InMemoryAuditRepo {
	return &InMemoryAuditRepo{}
}

func (r *InMemoryAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// Entries returns a copy of everything recorded so far.
func (r *InMemoryAuditRepo) Entries() []*domain.AuditLog {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.AuditLog, len(r.entries))
	copy(out, r.entries)
	return out
}

// CountByAction counts recorded entries with the given action.
func (r *InMemoryAuditRepo) CountByAction(action domain.AuditAction) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Action == action {
			n++
		}
	}
	return n
}
