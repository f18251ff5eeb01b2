package redis

import (
	"context"
	"errors"

	"github.com/skillswap/skillswap-hub/internal/domain/profile"
	"github.com/skillswap/skillswap-hub/pkg/circuitbreaker"
	"github.com/skillswap/skillswap-hub/pkg/logger"
)

// CachedProfileRepository is a read-through cache over a profile.Repository.
// Any cache problem falls through to the backing repository.
type CachedProfileRepository struct {
	next    profile.Repository
	cache   *Cache
	breaker *circuitbreaker.CircuitBreaker
	log     *logger.Logger
}

// NewCachedProfileRepository wraps next with the cache.
func NewCachedProfileRepository(next profile.Repository, cache *Cache, breaker *circuitbreaker.CircuitBreaker, log *logger.Logger) *CachedProfileRepository {
	if breaker == nil {
		breaker = circuitbreaker.CacheBreaker(nil)
	}
	if log == nil {
		log = logger.Default()
	}
	return &CachedProfileRepository{
		next:    next,
		cache:   cache,
		breaker: breaker,
		log:     log.With(logger.Component("profile-cache")),
	}
}

var _ profile.Repository = (*CachedProfileRepository)(nil)

// lookup reads key into dest. A miss is a healthy answer for the breaker.
func (r *CachedProfileRepository) lookup(ctx context.Context, key string, dest any) bool {
	hit := false
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		err := r.cache.Get(ctx, key, dest)
		if errors.Is(err, ErrCacheMiss) {
			return nil
		}
		hit = err == nil
		return err
	})
	if err != nil && !circuitbreaker.IsRejected(err) {
		r.log.Warn("cache read failed", logger.String("key", key), logger.Err(err))
	}
	return hit
}

// GetProfile returns the cached profile or loads and caches it.
func (r *CachedProfileRepository) GetProfile(ctx context.Context, id profile.ID) (*profile.Profile, error) {
	var cached profile.Profile
	if r.lookup(ctx, ProfileKey(id.String()), &cached) {
		return &cached, nil
	}

	p, err := r.next.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	r.store(ctx, ProfileKey(id.String()), p)
	return p, nil
}

// ListProfiles returns the cached directory or loads and caches it.
func (r *CachedProfileRepository) ListProfiles(ctx context.Context) ([]*profile.Profile, error) {
	var cached []*profile.Profile
	if r.lookup(ctx, KeyProfileDirectory, &cached) {
		return cached, nil
	}

	profiles, err := r.next.ListProfiles(ctx)
	if err != nil {
		return nil, err
	}
	r.store(ctx, KeyProfileDirectory, profiles)
	return profiles, nil
}

// Save writes through and drops the stale entries.
func (r *CachedProfileRepository) Save(ctx context.Context, p *profile.Profile) error {
	if err := r.next.Save(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, p.ID)
	return nil
}

// Delete removes the profile and drops the stale entries.
func (r *CachedProfileRepository) Delete(ctx context.Context, id profile.ID) error {
	if err := r.next.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *CachedProfileRepository) store(ctx context.Context, key string, value any) {
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.cache.Set(ctx, key, value, r.cache.config.TTL)
	})
	if err != nil && !circuitbreaker.IsRejected(err) {
		r.log.Warn("cache write failed", logger.String("key", key), logger.Err(err))
	}
}

func (r *CachedProfileRepository) invalidate(ctx context.Context, id profile.ID) {
	err := r.breaker.Execute(ctx, func(ctx context.Context) error {
		return r.cache.Delete(ctx, ProfileKey(id.String()), KeyProfileDirectory)
	})
	if err != nil {
		r.log.Warn("cache invalidation failed", logger.String("profile_id", id.String()), logger.Err(err))
	}
}
