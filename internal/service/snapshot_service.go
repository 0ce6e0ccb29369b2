package service

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"
	"github.com/F-AI-SAL/exbuy/pkg/apperror"

	"github.com/rs/zerolog"
)

// SnapshotServiceImpl implements ports.SnapshotService. Snapshots are
// computed lazily on cache miss and replaced wholesale; cache trouble
// degrades to a recompute rather than failing the read.
type SnapshotServiceImpl struct {
	products ports.ProductRepository
	cache    ports.SnapshotCache
	ttl      time.Duration
	log      zerolog.Logger
}

// NewSnapshotService creates a new SnapshotServiceImpl.
func NewSnapshotService(products ports.ProductRepository, cache ports.SnapshotCache, ttl time.Duration, log zerolog.Logger) *SnapshotServiceImpl {
	return &SnapshotServiceImpl{products: products, cache: cache, ttl: ttl, log: log}
}

// Get returns the current snapshot for a product slug.
func (s *SnapshotServiceImpl) Get(ctx context.Context, slug string) (*domain.ProductSnapshot, error) {
	snap, err := s.cache.Get(ctx, slug)
	if err != nil {
		s.log.Warn().Err(err).Str("slug", slug).Msg("snapshot cache read failed, recomputing")
	}
	if snap != nil {
		return snap, nil
	}

	product, err := s.products.GetBySlug(ctx, slug)
	if err != nil {
		return nil, apperror.ErrDatabaseError(fmt.Errorf("fetch product: %w", err))
	}
	if product == nil {
		return nil, apperror.ErrNotFound("product")
	}

	body, err := json.Marshal(product)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("encoding product: %w", err))
	}

	snap = &domain.ProductSnapshot{
		Body:         body,
		ETag:         Fingerprint(product.ID, product.UpdatedAt),
		LastModified: product.UpdatedAt.UTC().Truncate(time.Second),
	}

	if err := s.cache.Set(ctx, slug, snap, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("slug", slug).Msg("snapshot cache write failed")
	}
	return snap, nil
}

// Fingerprint derives the weak ETag for a resource version. Deterministic in
// (identity, modification time): it changes iff the resource changes.
func Fingerprint(id int64, updatedAt time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%d", id, updatedAt.Unix())))
	return fmt.Sprintf(`W/"%x"`, sum)
}
