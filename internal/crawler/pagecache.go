package crawler

import (
	"fmt"
	"time"

	"sjsage522/orgcrawler/internal/models"
	"sjsage522/orgcrawler/services/cache"
)

// PageCache caches listing markup per (section, page). A nil PageCache is a
// valid, always-missing cache.
type PageCache struct {
	svc cache.CacheService
	ttl time.Duration
}

// NewPageCache returns nil when svc is nil or ttl is not positive
func NewPageCache(svc cache.CacheService, ttl time.Duration) *PageCache {
	if svc == nil || ttl <= 0 {
		return nil
	}
	return &PageCache{svc: svc, ttl: ttl}
}

func pageKey(section models.Section, page int) string {
	return fmt.Sprintf("orgcrawler:page:%s:%d", section, page)
}

// Get returns the cached markup, if any
func (c *PageCache) Get(section models.Section, page int) (string, bool) {
	if c == nil {
		return "", false
	}
	value, err := c.svc.Get(pageKey(section, page))
	if err != nil || len(value) == 0 {
		return "", false
	}
	return string(value), true
}

// Set stores markup for the page
func (c *PageCache) Set(section models.Section, page int, markup string) error {
	if c == nil {
		return nil
	}
	return c.svc.Set(pageKey(section, page), []byte(markup), c.ttl)
}

// Invalidate drops the cached page
func (c *PageCache) Invalidate(section models.Section, page int) error {
	if c == nil {
		return nil
	}
	return c.svc.Delete(pageKey(section, page))
}
