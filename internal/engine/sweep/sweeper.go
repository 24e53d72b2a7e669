// Package sweep removes expired records from ITEM_TTL namespaces.
package sweep

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// DefaultInterval is the minimum gap between opportunistic sweeps of one namespace.
const DefaultInterval = time.Minute

// Sweeper deletes the rows whose expiry lies between the epoch and now.
// Each sweep is one write transaction, so readers see the namespace before or after it.
type Sweeper struct {
	store    ports.EntityStore
	metrics  ports.Metrics
	clock    clockwork.Clock
	interval time.Duration

	mu   sync.Mutex
	last map[string]time.Time
}

// NewSweeper creates a Sweeper over store.
func NewSweeper(store ports.EntityStore, metrics ports.Metrics, clock clockwork.Clock) *Sweeper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Sweeper{
		store:    store,
		metrics:  metrics,
		clock:    clock,
		interval: DefaultInterval,
		last:     make(map[string]time.Time),
	}
}

// SetInterval changes the gap enforced by MaybeSweep. Zero sweeps on every call.
func (s *Sweeper) SetInterval(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = d
}

// Sweep deletes the expired rows of ns and returns how many were removed.
// Collection-freshness namespaces have no expiry index and are skipped.
func (s *Sweeper) Sweep(ctx context.Context, ns domain.Namespace) (int, error) {
	if ns.Mode != domain.ItemTTL {
		return 0, nil
	}

	now := s.clock.Now().UTC()
	var removed int
	err := s.store.Update(ctx, func(tx ports.Tx) error {
		n, err := tx.DeleteByIndex(ns, domain.ExpiredBy(now))
		removed = n
		return err
	})
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, "expiry sweep failed"), "namespace", ns.Name)
	}

	s.mu.Lock()
	s.last[ns.Name] = now
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.Expired(ns.Name, removed)
	}
	return removed, nil
}

// MaybeSweep sweeps ns unless it was swept within the interval.
func (s *Sweeper) MaybeSweep(ctx context.Context, ns domain.Namespace) (int, error) {
	if ns.Mode != domain.ItemTTL {
		return 0, nil
	}

	s.mu.Lock()
	last, seen := s.last[ns.Name]
	due := !seen || s.clock.Now().UTC().Sub(last) >= s.interval
	s.mu.Unlock()

	if !due {
		return 0, nil
	}
	return s.Sweep(ctx, ns)
}

// SweepAll sweeps every ITEM_TTL namespace concurrently.
func (s *Sweeper) SweepAll(ctx context.Context, namespaces []domain.Namespace) (int, error) {
	g, ctx := errgroup.WithContext(ctx)

	var (
		mu    sync.Mutex
		total int
	)
	for _, ns := range namespaces {
		if ns.Mode != domain.ItemTTL {
			continue
		}
		g.Go(func() error {
			n, err := s.Sweep(ctx, ns)
			if err != nil {
				return err
			}
			mu.Lock()
			total += n
			mu.Unlock()
			return nil
		})
	}

	err := g.Wait()
	return total, err
}
