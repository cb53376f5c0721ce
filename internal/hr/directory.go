package hr

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const directoryCacheTTL = 30 * time.Second

type cacheEntry struct {
	value   bool
	expires time.Time
}

// Directory adapts the store to the policy engine's lookup interface with a
// short-lived positive/negative cache. Authorization runs on every proposed
// action, so repeated lookups within a conversation should not hit SQLite.
type Directory struct {
	store *Store
	ttl   time.Duration
	now   func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewDirectory wraps a store for use by policy conditions.
func NewDirectory(store *Store) *Directory {
	return &Directory{
		store: store,
		ttl:   directoryCacheTTL,
		now:   time.Now,
		cache: make(map[string]cacheEntry),
	}
}

// IsDirectReport reports whether employeeID reports directly to managerID.
func (d *Directory) IsDirectReport(ctx context.Context, managerID, employeeID int64) (bool, error) {
	key := fmt.Sprintf("report:%d:%d", managerID, employeeID)
	return d.cached(key, func() (bool, error) {
		return d.store.IsDirectReport(ctx, managerID, employeeID)
	})
}

// HasCostCenterAccess reports whether email may read the target employee's
// cost center data.
func (d *Directory) HasCostCenterAccess(ctx context.Context, email string, employeeID int64) (bool, error) {
	key := fmt.Sprintf("costcenter:%s:%d", email, employeeID)
	return d.cached(key, func() (bool, error) {
		return d.store.HasCostCenterAccess(ctx, email, employeeID)
	})
}

func (d *Directory) cached(key string, lookup func() (bool, error)) (bool, error) {
	d.mu.Lock()
	if entry, ok := d.cache[key]; ok && d.now().Before(entry.expires) {
		d.mu.Unlock()
		return entry.value, nil
	}
	d.mu.Unlock()

	// Errors are not cached. The policy engine treats them as non-matching
	// and the next decision retries the lookup.
	value, err := lookup()
	if err != nil {
		return false, err
	}

	d.mu.Lock()
	d.cache[key] = cacheEntry{value: value, expires: d.now().Add(d.ttl)}
	d.mu.Unlock()
	return value, nil
}
