package redis

import (
	"context"
	"errors"
	"time"

	"github.com/efub/community-board/internal/domain/post"
	"github.com/efub/community-board/pkg/circuitbreaker"
)

// cachedPost is the JSON shape stored in Redis.
type cachedPost struct {
	ID        int64     `json:"id"`
	BoardID   int64     `json:"boardId"`
	AuthorID  int64     `json:"authorId"`
	Anonymous bool      `json:"anonymous"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCachedPost(p *post.Post) cachedPost {
	return cachedPost{
		ID:        p.ID,
		BoardID:   p.BoardID,
		AuthorID:  p.AuthorID,
		Anonymous: p.Anonymous,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (c cachedPost) toDomain() *post.Post {
	return &post.Post{
		ID:        c.ID,
		BoardID:   c.BoardID,
		AuthorID:  c.AuthorID,
		Anonymous: c.Anonymous,
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// store is the subset of *Cache that PostCache needs.
type store interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// PostCache caches posts by ID. Every Redis call goes through a circuit
// breaker; while it is open the calls fail fast with circuitbreaker.ErrCircuitOpen.
type PostCache struct {
	cache   store
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

// NewPostCache creates a PostCache. A non-positive ttl means TTLPostCache.
// breakerOpts tune the circuitbreaker.CacheBreaker preset.
func NewPostCache(cache *Cache, ttl time.Duration, breakerOpts ...circuitbreaker.Option) *PostCache {
	return newPostCache(cache, ttl, breakerOpts...)
}

func newPostCache(cache store, ttl time.Duration, breakerOpts ...circuitbreaker.Option) *PostCache {
	if ttl <= 0 {
		ttl = TTLPostCache
	}
	opts := append([]circuitbreaker.Option{circuitbreaker.WithIsFailure(isBackendFailure)}, breakerOpts...)
	return &PostCache{
		cache:   cache,
		ttl:     ttl,
		breaker: circuitbreaker.CacheBreaker(opts...),
	}
}

// isBackendFailure ignores errors that say nothing about Redis health.
func isBackendFailure(err error) bool {
	return !errors.Is(err, ErrCacheSerialization) &&
		!errors.Is(err, context.Canceled)
}

// BreakerState reports whether the cache is currently bypassed.
func (c *PostCache) BreakerState() circuitbreaker.State {
	return c.breaker.State()
}

// Get returns the cached post. The bool is false on a miss.
func (c *PostCache) Get(ctx context.Context, postID int64) (*post.Post, bool, error) {
	var (
		cp  cachedPost
		hit bool
	)
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		err := c.cache.Get(ctx, PostKey(postID), &cp)
		if errors.Is(err, ErrCacheMiss) {
			return nil
		}
		hit = err == nil
		return err
	})
	if err != nil || !hit {
		return nil, false, err
	}
	return cp.toDomain(), true, nil
}

// Set stores p until the TTL expires.
func (c *PostCache) Set(ctx context.Context, p *post.Post) error {
	if p == nil {
		return nil
	}
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Set(ctx, PostKey(p.ID), toCachedPost(p), c.ttl)
	})
}

// Invalidate drops the cached post.
func (c *PostCache) Invalidate(ctx context.Context, postID int64) error {
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.cache.Delete(ctx, PostKey(postID))
	})
}
