package deviceid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/foodcart-engine/internal/cache"
)

var ErrStorageUnavailable = errors.New("device storage unavailable")

// Storage is the durable key/value store holding the device identifier.
type Storage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

// FileStorage keeps identifiers in a small JSON document on local disk.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (f *FileStorage) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return "", false, err
	}

	v, ok := values[key]
	return v, ok, nil
}

func (f *FileStorage) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encoding device storage: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return nil
}

// read returns an empty document for a missing or unreadable-as-JSON file;
// only I/O failures surface as errors.
func (f *FileStorage) read() (map[string]string, error) {
	values := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return values, nil
		}
		return nil, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return make(map[string]string), nil
	}

	return values, nil
}

// CacheStorage stores identifiers in the shared redis cache. Every read
// slides the key's TTL so an identifier in use never expires.
type CacheStorage struct {
	cache cache.Cache
	ttl   time.Duration
}

func NewCacheStorage(c cache.Cache, ttl time.Duration) *CacheStorage {
	return &CacheStorage{cache: c, ttl: ttl}
}

func (c *CacheStorage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string

	cacheKey := cache.Key(cache.DeviceKeyPrefix, key)

	found, err := c.cache.Get(ctx, cacheKey, &value)
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	if found {
		// The value was read; a failed refresh is retried on the next read.
		_ = c.cache.Expire(ctx, cacheKey, c.ttl)
	}

	return value, found, nil
}

func (c *CacheStorage) Set(ctx context.Context, key, value string) error {
	if err := c.cache.Set(ctx, cache.Key(cache.DeviceKeyPrefix, key), value, c.ttl); err != nil {
		return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
	}

	return nil
}
