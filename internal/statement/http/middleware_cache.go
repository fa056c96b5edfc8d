package http

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/finpapers/finpapers/internal/statement"
)

const cacheTTL = 5 * time.Minute

var viewModelCache = newResponseCache(cacheTTL)

type cacheItem struct {
	value   interface{}
	expires time.Time
}

type responseCache struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]cacheItem
}

func newResponseCache(ttl time.Duration) *responseCache {
	return &responseCache{
		ttl:   ttl,
		items: make(map[string]cacheItem),
	}
}

func (c *responseCache) Get(key string) (interface{}, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(item.expires) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return nil, false
	}
	return item.value, true
}

func (c *responseCache) Set(key string, value interface{}) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items[key] = cacheItem{value: value, expires: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

func (c *responseCache) Bust() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.items = make(map[string]cacheItem)
	c.mu.Unlock()
}

func buildCacheKey(report string, workpaperID uuid.UUID, includeZero bool, policy statement.UnclassifiedPolicy) string {
	zeroToken := "0"
	if includeZero {
		zeroToken = "1"
	}
	if policy == "" {
		policy = statement.UnclassifiedQuarantine
	}
	return fmt.Sprintf("statement:%s:%s|zero=%s|policy=%s", report, workpaperID, zeroToken, policy)
}

// BustStatementViewCache invalidates the cached statement view models.
// Mapping writes call this so statements never serve stale balances.
func BustStatementViewCache() {
	if viewModelCache != nil {
		viewModelCache.Bust()
	}
}

func cloneBalanceSheetVM(src BalanceSheetVM) BalanceSheetVM {
	dst := src
	dst.Warnings = append([]string(nil), src.Warnings...)
	dst.Sections = cloneSections(src.Sections)
	return dst
}

func cloneIncomeStatementVM(src IncomeStatementVM) IncomeStatementVM {
	dst := src
	dst.Warnings = append([]string(nil), src.Warnings...)
	dst.Sections = cloneSections(src.Sections)
	return dst
}

func cloneSections(src []StatementSectionVM) []StatementSectionVM {
	out := make([]StatementSectionVM, len(src))
	for i, section := range src {
		out[i] = section
		out[i].Lines = append([]StatementLineVM(nil), section.Lines...)
	}
	return out
}
