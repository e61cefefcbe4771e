// Package rates resolves the reference daily rate of a crew role, keeping
// recent answers in an in-process ristretto cache.
package rates

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/repository"
	"github.com/dgraph-io/ristretto/v2"
	"github.com/shopspring/decimal"
)

// Options tunes the cache.
type Options struct {
	MaxCost int64
	TTL     time.Duration
	Logger  *slog.Logger
}

// Lookup implements budget.RateLookup on top of a RoleRateRepo.
type Lookup struct {
	repo   repository.RoleRateRepo
	cache  *ristretto.Cache[string, decimal.Decimal]
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a cached lookup. A zero MaxCost defaults to 1024 entries.
func New(repo repository.RoleRateRepo, opts Options) (*Lookup, error) {
	maxCost := opts.MaxCost
	if maxCost <= 0 {
		maxCost = 1024
	}
	c, err := ristretto.NewCache(&ristretto.Config[string, decimal.Decimal]{
		NumCounters: maxCost * 10,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create rate cache: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Lookup{repo: repo, cache: c, ttl: opts.TTL, logger: logger}, nil
}

// key matches the normalization of the role-rate repositories.
func key(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

// Rate returns the rate for role. Unknown roles and lookup failures both
// report false; failures are logged.
func (l *Lookup) Rate(role string) (decimal.Decimal, bool) {
	k := key(role)
	if k == "" {
		return decimal.Zero, false
	}
	if v, ok := l.cache.Get(k); ok {
		return v, true
	}

	rr, err := l.repo.Get(context.Background(), role)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			l.logger.Warn("role rate lookup failed", "role", role, "error", err)
		}
		return decimal.Zero, false
	}
	l.set(k, rr.Rate)
	return rr.Rate, true
}

// Set stores a rate in the repository and refreshes the cache.
func (l *Lookup) Set(ctx context.Context, role string, rate decimal.Decimal) error {
	if err := l.repo.Upsert(ctx, repository.RoleRate{Role: role, Rate: rate}); err != nil {
		return err
	}
	l.Invalidate(role)
	return nil
}

// Remove deletes a rate from the repository and the cache.
func (l *Lookup) Remove(ctx context.Context, role string) error {
	if err := l.repo.Delete(ctx, role); err != nil {
		return err
	}
	l.Invalidate(role)
	return nil
}

// Warm loads every stored rate into the cache.
func (l *Lookup) Warm(ctx context.Context) error {
	all, err := l.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("warm rate cache: %w", err)
	}
	for _, rr := range all {
		l.set(key(rr.Role), rr.Rate)
	}
	l.cache.Wait()
	return nil
}

// Invalidate drops a cached role.
func (l *Lookup) Invalidate(role string) {
	l.cache.Del(key(role))
}

// Wait blocks until pending cache writes are visible.
func (l *Lookup) Wait() {
	l.cache.Wait()
}

// Close releases the cache.
func (l *Lookup) Close() {
	l.cache.Close()
}

func (l *Lookup) set(k string, rate decimal.Decimal) {
	if l.ttl > 0 {
		l.cache.SetWithTTL(k, rate, 1, l.ttl)
		return
	}
	l.cache.Set(k, rate, 1)
}
