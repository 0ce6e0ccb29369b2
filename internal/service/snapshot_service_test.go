package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"
	"github.com/F-AI-SAL/exbuy/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*domain.Product
	fail     error
	calls    int
}

func (r *memProductRepo) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.fail != nil {
		return nil, r.fail
	}
	return r.products[slug], nil
}

type memSnapshotCache struct {
	mu    sync.Mutex
	snaps map[string]*domain.ProductSnapshot
	ttls  map[string]time.Duration
	fail  error
}

func newMemSnapshotCache() *memSnapshotCache {
	return &memSnapshotCache{
		snaps: make(map[string]*domain.ProductSnapshot),
		ttls:  make(map[string]time.Duration),
	}
}

func (c *memSnapshotCache) Get(_ context.Context, key string) (*domain.ProductSnapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return nil, c.fail
	}
	return c.snaps[key], nil
}

func (c *memSnapshotCache) Set(_ context.Context, key string, snap *domain.ProductSnapshot, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.snaps[key] = snap
	c.ttls[key] = ttl
	return nil
}

func testProduct() *domain.Product {
	return &domain.Product{
		ID:        42,
		Slug:      "blue-mug",
		Name:      "Blue Mug",
		Price:     350,
		Currency:  "BDT",
		StockQty:  12,
		CreatedAt: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2025, 3, 4, 12, 30, 45, 500_000_000, time.UTC),
	}
}

func TestSnapshotService_MissComputesAndCaches(t *testing.T) {
	product := testProduct()
	repo := &memProductRepo{products: map[string]*domain.Product{"blue-mug": product}}
	cache := newMemSnapshotCache()
	svc := NewSnapshotService(repo, cache, 5*time.Minute, zerolog.Nop())

	snap, err := svc.Get(context.Background(), "blue-mug")
	require.NoError(t, err)

	var decoded domain.Product
	require.NoError(t, json.Unmarshal(snap.Body, &decoded))
	assert.Equal(t, product.Slug, decoded.Slug)

	assert.Equal(t, Fingerprint(product.ID, product.UpdatedAt), snap.ETag)
	assert.True(t, strings.HasPrefix(snap.ETag, `W/"`))
	// Sub-second precision is dropped so the validator matches the
	// second-granular Last-Modified header.
	assert.Equal(t, product.UpdatedAt.Truncate(time.Second), snap.LastModified)

	assert.Equal(t, snap, cache.snaps["blue-mug"])
	assert.Equal(t, 5*time.Minute, cache.ttls["blue-mug"])
}

func TestSnapshotService_HitSkipsRepository(t *testing.T) {
	repo := &memProductRepo{products: map[string]*domain.Product{"blue-mug": testProduct()}}
	cache := newMemSnapshotCache()
	svc := NewSnapshotService(repo, cache, 5*time.Minute, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.Get(ctx, "blue-mug")
	require.NoError(t, err)
	require.Equal(t, 1, repo.calls)

	second, err := svc.Get(ctx, "blue-mug")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.calls, "cached snapshot must not touch the repository")
	assert.Equal(t, first, second)
}

func TestSnapshotService_NotFound(t *testing.T) {
	repo := &memProductRepo{products: map[string]*domain.Product{}}
	svc := NewSnapshotService(repo, newMemSnapshotCache(), time.Minute, zerolog.Nop())

	_, err := svc.Get(context.Background(), "no-such-product")
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "RES_001", appErr.Code)
	assert.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

func TestSnapshotService_RepoFailure(t *testing.T) {
	repo := &memProductRepo{fail: errors.New("db gone")}
	svc := NewSnapshotService(repo, newMemSnapshotCache(), time.Minute, zerolog.Nop())

	_, err := svc.Get(context.Background(), "blue-mug")
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "SYS_001", appErr.Code)
}

func TestSnapshotService_CacheFailureDegradesToRecompute(t *testing.T) {
	repo := &memProductRepo{products: map[string]*domain.Product{"blue-mug": testProduct()}}
	cache := newMemSnapshotCache()
	cache.fail = errors.New("redis down")
	svc := NewSnapshotService(repo, cache, time.Minute, zerolog.Nop())

	snap, err := svc.Get(context.Background(), "blue-mug")
	require.NoError(t, err, "cache trouble must not fail the read")
	assert.NotEmpty(t, snap.ETag)
}

func TestFingerprint(t *testing.T) {
	at := time.Date(2025, 3, 4, 12, 30, 45, 0, time.UTC)

	assert.Equal(t, Fingerprint(42, at), Fingerprint(42, at), "same version, same fingerprint")
	assert.NotEqual(t, Fingerprint(42, at), Fingerprint(43, at), "identity changes the fingerprint")
	assert.NotEqual(t, Fingerprint(42, at), Fingerprint(42, at.Add(time.Second)), "modification changes the fingerprint")

	fp := Fingerprint(42, at)
	assert.True(t, strings.HasPrefix(fp, `W/"`))
	assert.True(t, strings.HasSuffix(fp, `"`))
}
