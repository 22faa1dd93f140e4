package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/inkwell/internal/billing/domain"
	"github.com/felixgeelhaar/inkwell/pkg/observability"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by a CacheStore when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CacheStore is the key/value surface the subscription cache needs.
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// RedisCacheStore implements CacheStore on a go-redis client.
type RedisCacheStore struct {
	client *redis.Client
}

// NewRedisCacheStore wraps a redis client.
func NewRedisCacheStore(client *redis.Client) *RedisCacheStore {
	return &RedisCacheStore{client: client}
}

func (s *RedisCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	return val, err
}

func (s *RedisCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisCacheStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

// InMemoryCacheStore is a process-local CacheStore used in local mode and tests.
type InMemoryCacheStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewInMemoryCacheStore creates an empty store.
func NewInMemoryCacheStore() *InMemoryCacheStore {
	return &InMemoryCacheStore{entries: make(map[string]memoryEntry), now: time.Now}
}

func (s *InMemoryCacheStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return nil, ErrCacheMiss
	}
	return e.value, nil
}

func (s *InMemoryCacheStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *InMemoryCacheStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// CachedSubscriptionRepository is a read-through cache in front of another
// SubscriptionRepository. Cache failures are logged and fall through to the
// wrapped repository.
type CachedSubscriptionRepository struct {
	next    domain.SubscriptionRepository
	store   CacheStore
	ttl     time.Duration
	logger  *slog.Logger
	metrics observability.Metrics
}

// NewCachedSubscriptionRepository wraps next with a cache.
func NewCachedSubscriptionRepository(next domain.SubscriptionRepository, store CacheStore, ttl time.Duration, logger *slog.Logger, metrics observability.Metrics) *CachedSubscriptionRepository {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &CachedSubscriptionRepository{next: next, store: store, ttl: ttl, logger: logger, metrics: metrics}
}

// SubscriptionCacheKey returns the cache key for a user.
func SubscriptionCacheKey(userID uuid.UUID) string {
	return "inkwell:subscription:" + userID.String()
}

// cachedSubscription distinguishes "no subscription" from a miss.
type cachedSubscription struct {
	Subscription *domain.Subscription `json:"subscription"`
}

// Upsert writes through and drops the cached record.
func (r *CachedSubscriptionRepository) Upsert(ctx context.Context, subscription *domain.Subscription) error {
	if err := r.next.Upsert(ctx, subscription); err != nil {
		return err
	}
	if err := r.store.Delete(ctx, SubscriptionCacheKey(subscription.UserID)); err != nil {
		r.logger.WarnContext(ctx, "subscription cache invalidation failed", "user_id", subscription.UserID, "error", err)
	}
	return nil
}

// FindByUserID serves from the cache when possible.
func (r *CachedSubscriptionRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*domain.Subscription, error) {
	key := SubscriptionCacheKey(userID)

	raw, err := r.store.Get(ctx, key)
	switch {
	case err == nil:
		var cached cachedSubscription
		if jsonErr := json.Unmarshal(raw, &cached); jsonErr == nil {
			r.metrics.Counter(observability.MetricCacheHits, 1, observability.T("cache", "subscription"))
			return cached.Subscription, nil
		}
	case !errors.Is(err, ErrCacheMiss):
		r.logger.WarnContext(ctx, "subscription cache read failed", "user_id", userID, "error", err)
	}
	r.metrics.Counter(observability.MetricCacheMisses, 1, observability.T("cache", "subscription"))

	sub, err := r.next.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(cachedSubscription{Subscription: sub}); jsonErr == nil {
		if err := r.store.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.WarnContext(ctx, "subscription cache write failed", "user_id", userID, "error", err)
		}
	}
	return sub, nil
}

var _ domain.SubscriptionRepository = (*CachedSubscriptionRepository)(nil)
