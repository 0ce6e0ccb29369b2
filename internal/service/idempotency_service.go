package service

import (
	"bytes"
	"context"
	"time"

	"github.com/F-AI-SAL/exbuy/internal/core/domain"
	"github.com/F-AI-SAL/exbuy/internal/core/ports"

	"github.com/rs/zerolog"
)

// pendingSentinel marks a key claimed by an in-flight orchestration that has
// not committed its response yet.
var pendingSentinel = []byte(`{"__status__":"pending"}`)

// IdempotencyGuardImpl implements ports.IdempotencyGuard over a shared cache.
//
// The claim is an atomic SetNX of a placeholder, so concurrent first attempts
// with the same key resolve to exactly one ClaimProceed; the rest observe
// either the placeholder (ClaimInFlight) or the committed response (ClaimHit).
// Cache unavailability degrades to ClaimProceed: at-least-once beats failing
// the request.
type IdempotencyGuardImpl struct {
	cache    ports.IdempotencyCache
	claimTTL time.Duration
	ttl      time.Duration
	log      zerolog.Logger
}

// NewIdempotencyGuard creates a new IdempotencyGuardImpl.
// claimTTL bounds how long a crashed orchestration can hold a key; ttl is the
// retention window for committed responses.
func NewIdempotencyGuard(cache ports.IdempotencyCache, claimTTL, ttl time.Duration, log zerolog.Logger) *IdempotencyGuardImpl {
	return &IdempotencyGuardImpl{cache: cache, claimTTL: claimTTL, ttl: ttl, log: log}
}

// Claim reserves key for this orchestration. An empty key skips idempotency
// entirely: every request is treated as new.
func (g *IdempotencyGuardImpl) Claim(ctx context.Context, key string) (domain.ClaimStatus, []byte, error) {
	if key == "" {
		return domain.ClaimProceed, nil, nil
	}

	won, err := g.cache.SetNX(ctx, key, pendingSentinel, g.claimTTL)
	if err != nil {
		g.log.Warn().Err(err).Str("key", key).Msg("idempotency claim failed, treating as new request")
		return domain.ClaimProceed, nil, nil
	}
	if won {
		return domain.ClaimProceed, nil, nil
	}

	cached, err := g.cache.Get(ctx, key)
	if err != nil {
		g.log.Warn().Err(err).Str("key", key).Msg("idempotency read failed, treating as new request")
		return domain.ClaimProceed, nil, nil
	}
	if cached == nil {
		// Key expired between SetNX and Get; the retention window is over.
		return domain.ClaimProceed, nil, nil
	}
	if bytes.Equal(cached, pendingSentinel) {
		return domain.ClaimInFlight, nil, nil
	}
	return domain.ClaimHit, cached, nil
}

// Commit replaces the placeholder with the response for the full retention
// window. Replays within the window receive these exact bytes.
func (g *IdempotencyGuardImpl) Commit(ctx context.Context, key string, response []byte) error {
	if key == "" {
		return nil
	}
	return g.cache.Set(ctx, key, response, g.ttl)
}

// Release frees a claimed key after a failed orchestration so the client's
// retry is treated as a fresh attempt.
func (g *IdempotencyGuardImpl) Release(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := g.cache.Del(ctx, key); err != nil {
		g.log.Warn().Err(err).Str("key", key).Msg("idempotency release failed, claim expires via TTL")
	}
}
