package calendar

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Cache memoizes calendars per country and year.
// Published calendars never change, so entries do not expire; failed loads are not cached.
type Cache struct {
	loader  Loader
	logger  *zap.Logger
	cache   map[string]*HolidayCalendar
	cacheMu sync.RWMutex
}

// NewCache wraps loader with an in-memory cache
func NewCache(loader Loader, logger *zap.Logger) *Cache {
	return &Cache{
		loader: loader,
		logger: logger,
		cache:  make(map[string]*HolidayCalendar),
	}
}

// Load returns the cached calendar or loads and caches it
func (c *Cache) Load(ctx context.Context, country string, year int) (*HolidayCalendar, error) {
	country = NormalizeCountry(country)
	key := cacheKey(country, year)

	c.cacheMu.RLock()
	if cached, ok := c.cache[key]; ok {
		c.cacheMu.RUnlock()
		c.logger.Debug("Using cached holiday calendar", zap.String("key", key))
		return cached, nil
	}
	c.cacheMu.RUnlock()

	cal, err := c.loader.Load(ctx, country, year)
	if err != nil {
		return nil, err
	}

	c.cacheMu.Lock()
	// a concurrent load may have won; keep the first stored value
	if cached, ok := c.cache[key]; ok {
		cal = cached
	} else {
		c.cache[key] = cal
	}
	c.cacheMu.Unlock()

	return cal, nil
}

// Len returns the number of cached calendars
func (c *Cache) Len() int {
	c.cacheMu.RLock()
	defer c.cacheMu.RUnlock()
	return len(c.cache)
}

// Clear clears the cache
func (c *Cache) Clear() {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	c.cache = make(map[string]*HolidayCalendar)
	c.logger.Info("Holiday calendar cache cleared")
}
