package cache

import (
	"errors"
	"strings"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
)

const (
	// maxKeyLength is the memcached protocol limit on key size
	maxKeyLength = 250
	// maxExpiration is the longest relative expiration memcached accepts;
	// larger values are read as absolute Unix times
	maxExpiration = 30 * 24 * time.Hour
)

// MemcacheService implements CacheService using memcache
type MemcacheService struct {
	client *memcache.Client
}

// NewMemcacheService creates a memcache service. maxIdle should cover the
// number of goroutines sharing the client.
func NewMemcacheService(serverAddr string, timeout time.Duration, maxIdle int) *MemcacheService {
	client := memcache.New(serverAddr)
	if timeout > 0 {
		client.Timeout = timeout
	}
	if maxIdle > 0 {
		client.MaxIdleConns = maxIdle
	}
	return &MemcacheService{client: client}
}

// Ping checks that every configured server is reachable
func (m *MemcacheService) Ping() error {
	return m.client.Ping()
}

// Get retrieves a value from memcache
func (m *MemcacheService) Get(key string) ([]byte, error) {
	item, err := m.client.Get(sanitizeKey(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	return item.Value, nil
}

// Set stores a value in memcache with an expiration time
func (m *MemcacheService) Set(key string, value []byte, expiration time.Duration) error {
	return m.client.Set(&memcache.Item{
		Key:        sanitizeKey(key),
		Value:      value,
		Expiration: expirationSeconds(expiration),
	})
}

// expirationSeconds converts a TTL to memcached seconds, clamped to maxExpiration
func expirationSeconds(ttl time.Duration) int32 {
	if ttl <= 0 {
		return 0
	}
	if ttl > maxExpiration {
		ttl = maxExpiration
	}
	return int32(ttl / time.Second)
}

// Delete removes a value from memcache. Deleting an absent key is not an error.
func (m *MemcacheService) Delete(key string) error {
	err := m.client.Delete(sanitizeKey(key))
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil
	}
	return err
}

// sanitizeKey replaces characters memcached rejects and truncates long keys
func sanitizeKey(key string) string {
	key = strings.Map(func(r rune) rune {
		if r <= ' ' || r == 0x7f {
			return '_'
		}
		return r
	}, key)
	if len(key) > maxKeyLength {
		key = key[:maxKeyLength]
	}
	return key
}
