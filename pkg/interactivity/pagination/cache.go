package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/redis/rueidis"
)

// DefaultCacheTTL is how long RedisCache keeps a page.
const DefaultCacheTTL = 15 * time.Minute

// PageCache stores the pages a lazy paginator already loaded.
type PageCache interface {
	Get(ctx context.Context, index int) (Page, bool, error)
	Set(ctx context.Context, index int, page Page) error
}

// MemoryCache keeps pages in memory for the lifetime of the paginator.
type MemoryCache struct {
	mu    sync.RWMutex
	pages map[int]Page
}

// NewMemoryCache creates an empty in-memory cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{pages: make(map[int]Page)}
}

// Get implements PageCache.
func (c *MemoryCache) Get(_ context.Context, index int) (Page, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	page, ok := c.pages[index]
	return page, ok, nil
}

// Set implements PageCache.
func (c *MemoryCache) Set(_ context.Context, index int, page Page) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pages[index] = page
	return nil
}

// RedisCache stores pages in Redis so large paginators do not keep every
// loaded page in memory. Each cache gets its own key namespace.
type RedisCache struct {
	client    rueidis.Client
	ttl       time.Duration
	namespace string
}

// NewRedisCache creates a cache whose entries expire after ttl, or
// DefaultCacheTTL when ttl is not positive.
func NewRedisCache(client rueidis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{
		client:    client,
		ttl:       ttl,
		namespace: uuid.NewString(),
	}
}

// Key returns the Redis key of the page at index.
func (c *RedisCache) Key(index int) string {
	return fmt.Sprintf("interactivity:pages:%s:%d", c.namespace, index)
}

// Get implements PageCache. A missing or expired key reports false.
func (c *RedisCache) Get(ctx context.Context, index int) (Page, bool, error) {
	data, err := c.client.Do(ctx, c.client.B().Get().Key(c.Key(index)).Build()).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return Page{}, false, nil
		}
		return Page{}, false, fmt.Errorf("failed to get page %d: %w", index, err)
	}

	var page Page
	if err := sonic.Unmarshal(data, &page); err != nil {
		return Page{}, false, fmt.Errorf("failed to unmarshal page %d: %w", index, err)
	}
	return page, true, nil
}

// Set implements PageCache. The entry expires after the cache TTL.
func (c *RedisCache) Set(ctx context.Context, index int, page Page) error {
	data, err := sonic.Marshal(page)
	if err != nil {
		return fmt.Errorf("failed to marshal page %d: %w", index, err)
	}

	err = c.client.Do(ctx, c.client.B().Set().Key(c.Key(index)).Value(string(data)).Ex(c.ttl).Build()).Error()
	if err != nil {
		return fmt.Errorf("failed to store page %d: %w", index, err)
	}
	return nil
}
