package discounts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/camilorueda/vitrina-backend/pkg/db/models"
)

// Loader caches each tenant's active rules for a short TTL and coalesces
// concurrent fetches for the same tenant into one repository call.
type Loader struct {
	repo Repository
	ttl  time.Duration
	now  func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	entries map[uuid.UUID]loaderEntry
}

type loaderEntry struct {
	rules     []models.Discount
	expiresAt time.Time
}

// NewLoader builds a Loader over the rule repository.
func NewLoader(repo Repository, ttl time.Duration) (*Loader, error) {
	if repo == nil {
		return nil, fmt.Errorf("discounts repository required")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Loader{
		repo:    repo,
		ttl:     ttl,
		now:     time.Now,
		entries: map[uuid.UUID]loaderEntry{},
	}, nil
}

// Load returns the tenant's active rules, serving from cache while fresh.
// At most one repository fetch is in flight per tenant; concurrent callers
// share its result.
func (l *Loader) Load(ctx context.Context, tenantID uuid.UUID) ([]models.Discount, error) {
	l.mu.RLock()
	entry, ok := l.entries[tenantID]
	l.mu.RUnlock()
	if ok && l.now().Before(entry.expiresAt) {
		return entry.rules, nil
	}

	result, err, _ := l.group.Do(tenantID.String(), func() (any, error) {
		// Another caller may have refreshed while we queued.
		l.mu.RLock()
		entry, ok := l.entries[tenantID]
		l.mu.RUnlock()
		if ok && l.now().Before(entry.expiresAt) {
			return entry.rules, nil
		}

		rules, err := l.repo.ListActiveByTenant(ctx, tenantID)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.entries[tenantID] = loaderEntry{rules: rules, expiresAt: l.now().Add(l.ttl)}
		l.mu.Unlock()
		return rules, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]models.Discount), nil
}

// Invalidate drops the cached rules for a tenant, forcing the next Load
// to hit the repository.
func (l *Loader) Invalidate(tenantID uuid.UUID) {
	l.mu.Lock()
	delete(l.entries, tenantID)
	l.mu.Unlock()
}
