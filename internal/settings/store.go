package settings

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps preferences in Redis under a namespace prefix.
type RedisStore struct {
	client    *redis.Client
	namespace string
	ttl       time.Duration
}

// NewRedisStore returns a store writing keys as "<namespace>:<key>". A zero
// ttl keeps values forever.
func NewRedisStore(client *redis.Client, namespace string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, namespace: namespace, ttl: ttl}
}

// Get returns the stored value and whether it exists.
func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s == nil || s.client == nil {
		return "", false, nil
	}
	val, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// Set stores value, refreshing the ttl.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	if s == nil || s.client == nil {
		return errors.New("settings: redis store not configured")
	}
	return s.client.Set(ctx, s.key(key), value, s.ttl).Err()
}

func (s *RedisStore) key(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

// MemoryStore is an in-process Store used when Redis is unavailable.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Get returns the stored value and whether it exists.
func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	val, ok := s.values[key]
	return val, ok, nil
}

// Set stores value.
func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

type prefixedStore struct {
	store  Store
	prefix string
}

// Prefixed scopes every key of store under prefix.
func Prefixed(store Store, prefix string) Store {
	return prefixedStore{store: store, prefix: prefix}
}

func (p prefixedStore) Get(ctx context.Context, key string) (string, bool, error) {
	return p.store.Get(ctx, p.prefix+":"+key)
}

func (p prefixedStore) Set(ctx context.Context, key, value string) error {
	return p.store.Set(ctx, p.prefix+":"+key, value)
}
