package service

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// DefaultPageTTL is how long a rendered page keeps its catalog snapshot for
// live search and uploads.
const DefaultPageTTL = 30 * time.Minute

type pageEntry struct {
	page    *Page
	expires time.Time
}

// PageCache holds the snapshot each rendered products page was built from,
// keyed by a page id the page sends back with later requests.
type PageCache struct {
	mu    sync.Mutex
	clock clock.Clock
	ttl   time.Duration
	pages map[string]pageEntry
}

func NewPageCache(clk clock.Clock, ttl time.Duration) *PageCache {
	if clk == nil {
		clk = clock.New()
	}
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{
		clock: clk,
		ttl:   ttl,
		pages: make(map[string]pageEntry),
	}
}

// Put stores the page and returns its id. Expired pages are dropped on the
// way.
func (c *PageCache) Put(page *Page) string {
	id := uuid.NewString()

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	for key, entry := range c.pages {
		if !now.Before(entry.expires) {
			delete(c.pages, key)
		}
	}

	c.pages[id] = pageEntry{page: page, expires: now.Add(c.ttl)}
	return id
}

// Get returns the snapshot of a page that has not expired yet.
func (c *PageCache) Get(id string) (*Page, bool) {
	if id == "" {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.pages[id]
	if !ok {
		return nil, false
	}
	if !c.clock.Now().Before(entry.expires) {
		delete(c.pages, id)
		return nil, false
	}
	return entry.page, true
}

func (c *PageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.pages)
}
