package accessor

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/mirror/internal/engine/scoping"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// MaxRetrievePages bounds the pages read for one owner's set, so a retriever that ignores
// the page argument cannot keep a refresh running forever.
const MaxRetrievePages = 1000

// IngestResult reports what an ingest did to the cached set.
type IngestResult struct {
	// Stored is the number of records left cached for the owner.
	Stored int
	// StaleWriteIgnored is true when an empty set was not allowed to replace cached data.
	StaleWriteIgnored bool
}

type outcome[T domain.Entity] struct {
	items []T
	stale bool
}

// Accessor is the cache of one namespace. Every call names one owner tuple, and reads
// never return records of any other owner.
//
// Reads are cache-first: a non-empty readable set is returned at once, and a background
// refresh is scheduled when the owner's freshness record is older than the namespace's
// revalidation threshold. Empty caches and forced refreshes wait on a retrieval, shared by
// every concurrent caller for the same owner.
type Accessor[T domain.Entity] struct {
	ns        domain.Namespace
	retriever ports.Retriever[T]
	rt        *Runtime

	flight singleflight.Group

	mu       sync.Mutex
	attempts map[string]time.Time
}

// New creates the accessor of ns backed by retriever.
func New[T domain.Entity](ns domain.Namespace, retriever ports.Retriever[T], rt *Runtime) *Accessor[T] {
	return &Accessor[T]{
		ns:        ns,
		retriever: retriever,
		rt:        rt,
		attempts:  make(map[string]time.Time),
	}
}

// Namespace returns the namespace declaration the accessor serves.
func (a *Accessor[T]) Namespace() domain.Namespace {
	return a.ns
}

// FetchList returns one page of owner's set. A page or pageSize of zero or less selects the
// display preference default.
func (a *Accessor[T]) FetchList(
	ctx context.Context,
	owner domain.OwnerKey,
	page, pageSize int,
	forceRefresh bool,
) (domain.Page[T], error) {
	if err := scoping.Check(a.ns, owner); err != nil {
		a.rt.logger.Error(err)
		return domain.Page[T]{}, err
	}
	return a.fetch(ctx, owner, page, pageSize, forceRefresh)
}

// FetchListLegacyGlobal lists the set cached before the namespace was scoped by owner.
func (a *Accessor[T]) FetchListLegacyGlobal(ctx context.Context, page, pageSize int, forceRefresh bool) (domain.Page[T], error) {
	if err := scoping.CheckLegacy(a.ns); err != nil {
		a.rt.logger.Error(err)
		return domain.Page[T]{}, err
	}
	return a.fetch(ctx, domain.LegacyGlobalOwner, page, pageSize, forceRefresh)
}

// FetchOne returns the first entity of owner's set in canonical order. The bool is false
// when the set is empty.
func (a *Accessor[T]) FetchOne(ctx context.Context, owner domain.OwnerKey, forceRefresh bool) (T, bool, error) {
	var zero T

	result, err := a.FetchList(ctx, owner, 1, 1, forceRefresh)
	if err != nil {
		return zero, false, err
	}
	if len(result.Items) == 0 {
		return zero, false, nil
	}
	return result.Items[0], true, nil
}

// Ingest replaces owner's cached set with entities and marks it fresh.
// An empty set never replaces a non-empty readable one; the result reports it instead.
func (a *Accessor[T]) Ingest(ctx context.Context, owner domain.OwnerKey, entities []T) (IngestResult, error) {
	if err := scoping.Check(a.ns, owner); err != nil {
		a.rt.logger.Error(err)
		return IngestResult{}, err
	}

	release, err := a.rt.scheduler.Claims().Acquire(ctx, a.key(owner))
	if err != nil {
		return IngestResult{}, err
	}
	defer release()

	res, err := a.ingest(ctx, owner, entities)
	if err != nil {
		return IngestResult{}, err
	}
	return IngestResult{Stored: len(res.items), StaleWriteIgnored: res.stale}, nil
}

// Invalidate drops owner's cached set and freshness record.
func (a *Accessor[T]) Invalidate(ctx context.Context, owner domain.OwnerKey) error {
	if err := scoping.Check(a.ns, owner); err != nil {
		a.rt.logger.Error(err)
		return err
	}
	return a.invalidate(ctx, owner)
}

// InvalidateLegacyGlobal drops the set cached before the namespace was scoped by owner.
func (a *Accessor[T]) InvalidateLegacyGlobal(ctx context.Context) error {
	if err := scoping.CheckLegacy(a.ns); err != nil {
		a.rt.logger.Error(err)
		return err
	}
	return a.invalidate(ctx, domain.LegacyGlobalOwner)
}

func (a *Accessor[T]) invalidate(ctx context.Context, owner domain.OwnerKey) error {
	a.mu.Lock()
	delete(a.attempts, a.key(owner))
	a.mu.Unlock()

	if !a.rt.usable() {
		return nil
	}

	err := a.rt.store.Update(ctx, func(tx ports.Tx) error {
		if _, err := tx.DeleteByIndex(a.ns, domain.OwnerEquals(owner)); err != nil {
			return err
		}
		return a.rt.tracker.Forget(tx, a.ns, owner)
	})
	if err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) || errors.Is(err, domain.ErrStoreNotOpen) {
			a.rt.Degrade(err)
			return nil
		}
		return zerr.With(zerr.Wrap(err, "invalidate failed"), "namespace", a.ns.Name)
	}
	return nil
}

func (a *Accessor[T]) key(owner domain.OwnerKey) string {
	return domain.FreshnessKey(a.ns.Name, owner)
}

func (a *Accessor[T]) fetch(
	ctx context.Context,
	owner domain.OwnerKey,
	page, pageSize int,
	forceRefresh bool,
) (domain.Page[T], error) {
	ctx, span := a.rt.tracer.Start(ctx, "cache.fetch")
	defer span.End()
	span.SetAttribute("namespace", a.ns.Name)
	span.SetAttribute("force_refresh", forceRefresh)

	page, pageSize = a.rt.pagination(page, pageSize)

	if !forceRefresh {
		cached, due, ok := a.readCached(ctx, owner)
		result := domain.Paginate(cached, page, pageSize)
		if ok && len(result.Items) > 0 {
			a.rt.metrics.Hit(a.ns.Name)
			span.SetAttribute("cache_hit", true)
			if due {
				a.scheduleRefresh(ctx, owner)
			}
			result.FromCache = true
			return result, nil
		}
	}

	a.rt.metrics.Miss(a.ns.Name)
	span.SetAttribute("cache_hit", false)

	res, err := a.refresh(ctx, owner)
	if err != nil {
		span.RecordError(err)

		cached, _, _ := a.readCached(context.WithoutCancel(ctx), owner)
		if len(cached) == 0 {
			return domain.Page[T]{}, errors.Join(domain.ErrNetworkFailure, err)
		}
		result := domain.Paginate(cached, page, pageSize)
		result.FromCache = true
		result.RefreshErr = err
		return result, nil
	}

	result := domain.Paginate(res.items, page, pageSize)
	result.StaleWriteIgnored = res.stale
	return result, nil
}

// readCached returns owner's readable cached set in canonical order and whether a
// background refresh is due. ok is false when the cache could not be consulted.
func (a *Accessor[T]) readCached(ctx context.Context, owner domain.OwnerKey) (cached []T, due, ok bool) {
	if !a.rt.usable() {
		return nil, false, false
	}
	if _, err := a.rt.sweeper.MaybeSweep(ctx, a.ns); err != nil {
		a.rt.storeFailed(a.ns, err)
		if !a.rt.usable() {
			return nil, false, false
		}
	}

	err := a.rt.store.View(ctx, func(tx ports.Tx) error {
		recs, err := a.readable(tx, owner)
		if err != nil {
			return err
		}
		cached = make([]T, 0, len(recs))
		for _, rec := range recs {
			item, err := decode[T](a.ns, rec)
			if err != nil {
				return err
			}
			cached = append(cached, item)
		}

		due, err = a.rt.tracker.ShouldRevalidate(tx, a.ns, owner, a.ns.Policy.RevalidateAfter())
		return err
	})
	if err != nil {
		a.rt.storeFailed(a.ns, err)
		return nil, false, false
	}
	return cached, due, true
}

// readable returns owner's records that may be served without a retrieval.
func (a *Accessor[T]) readable(tx ports.Tx, owner domain.OwnerKey) ([]domain.Record, error) {
	recs, err := tx.GetByIndex(a.ns, domain.OwnerEquals(owner))
	if err != nil {
		return nil, err
	}

	out := recs[:0]
	for _, rec := range recs {
		if !rec.Owner.Equal(owner) || !a.rt.tracker.IsReadable(rec, a.ns.Policy.HardTTL) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// refresh retrieves and ingests owner's set. Concurrent callers share one retrieval, which
// runs to completion even if every caller gives up.
func (a *Accessor[T]) refresh(ctx context.Context, owner domain.OwnerKey) (outcome[T], error) {
	key := a.key(owner)
	detached := context.WithoutCancel(ctx)

	ch := a.flight.DoChan(key, func() (any, error) {
		release, err := a.rt.scheduler.Claims().Acquire(detached, key)
		if err != nil {
			return outcome[T]{}, err
		}
		defer release()

		return a.retrieve(detached, owner)
	})

	select {
	case <-ctx.Done():
		return outcome[T]{}, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return outcome[T]{}, r.Err
		}
		res, _ := r.Val.(outcome[T])
		return res, nil
	}
}

// retrieve fetches owner's whole set page by page and ingests it. A page shorter than the
// fetch size ends the set. The caller holds owner's claim.
func (a *Accessor[T]) retrieve(ctx context.Context, owner domain.OwnerKey) (outcome[T], error) {
	size := a.ns.Policy.FetchSize

	var fetched []T
	for page := 1; ; page++ {
		if page > MaxRetrievePages {
			a.rt.metrics.NetworkFailure(a.ns.Name)
			return outcome[T]{}, zerr.With(
				zerr.With(zerr.New("owner set exceeds the retrieval page limit"), "namespace", a.ns.Name),
				"owner", owner.String(),
			)
		}

		batch, err := a.retriever.Retrieve(ctx, owner, page, size)
		if err != nil {
			a.rt.metrics.NetworkFailure(a.ns.Name)
			return outcome[T]{}, zerr.With(
				zerr.With(zerr.With(zerr.Wrap(err, "retrieve failed"), "namespace", a.ns.Name), "owner", owner.String()),
				"page", page,
			)
		}
		fetched = append(fetched, batch...)
		if len(batch) < size {
			break
		}
	}
	return a.ingest(ctx, owner, fetched)
}

// ingest stores fetched as owner's set in one transaction together with its freshness
// record. The caller holds owner's claim. Without a usable store the set is returned as is.
func (a *Accessor[T]) ingest(ctx context.Context, owner domain.OwnerKey, fetched []T) (outcome[T], error) {
	entries, err := encode(a.ns, owner, fetched, a.rt.tracker.Now())
	if err != nil {
		return outcome[T]{}, err
	}
	fresh := outcome[T]{items: itemsOf(entries)}

	if !a.rt.usable() {
		return fresh, nil
	}

	var kept []domain.Record
	err = a.rt.store.Update(ctx, func(tx ports.Tx) error {
		if len(entries) == 0 {
			existing, err := a.readable(tx, owner)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				kept = existing
				return nil
			}
		}

		if _, err := tx.DeleteByIndex(a.ns, domain.OwnerEquals(owner)); err != nil {
			return err
		}
		if err := tx.PutAll(a.ns, recordsOf(entries)); err != nil {
			return err
		}
		return a.rt.tracker.Touch(tx, a.ns, owner, len(entries))
	})
	if err != nil {
		a.rt.storeFailed(a.ns, err)
		return fresh, nil
	}

	if kept == nil {
		return fresh, nil
	}

	a.rt.metrics.StaleWriteIgnored(a.ns.Name)
	a.rt.logger.Warn(domain.ErrStaleWriteIgnored.Error() + ": " + a.ns.Name + " " + owner.String())

	res := outcome[T]{items: make([]T, 0, len(kept)), stale: true}
	for _, rec := range kept {
		item, err := decode[T](a.ns, rec)
		if err != nil {
			return outcome[T]{}, err
		}
		res.items = append(res.items, item)
	}
	return res, nil
}

// scheduleRefresh starts a background refresh of owner unless one ran within the throttle
// window or one is already running. The attempt is recorded in the same critical section as
// the throttle check; it is rolled back only when the scheduler has been closed.
func (a *Accessor[T]) scheduleRefresh(ctx context.Context, owner domain.OwnerKey) {
	key := a.key(owner)
	now := a.rt.tracker.Now()

	a.mu.Lock()
	last, seen := a.attempts[key]
	if seen && now.Sub(last) < a.ns.Policy.ThrottleWindow {
		a.mu.Unlock()
		return
	}
	a.attempts[key] = now
	a.mu.Unlock()

	started := a.rt.scheduler.Schedule(ctx, key, func(ctx context.Context) {
		ctx, span := a.rt.tracer.Start(ctx, "cache.revalidate", ports.WithBackground())
		defer span.End()
		span.SetAttribute("namespace", a.ns.Name)

		if !a.stillDue(ctx, owner) {
			return
		}
		if _, err := a.retrieve(ctx, owner); err != nil {
			span.RecordError(err)
			a.rt.logger.Error(zerr.Wrap(err, "background refresh failed"))
		}
	})
	if !started {
		if a.rt.scheduler.Closed() {
			a.mu.Lock()
			if a.attempts[key].Equal(now) {
				if seen {
					a.attempts[key] = last
				} else {
					delete(a.attempts, key)
				}
			}
			a.mu.Unlock()
		}
		return
	}
	a.rt.metrics.Revalidation(a.ns.Name)
}

// stillDue re-checks the throttle once the claim is held, so a refresh that completed
// while this one was queued is not repeated.
func (a *Accessor[T]) stillDue(ctx context.Context, owner domain.OwnerKey) bool {
	if !a.rt.usable() {
		return false
	}

	var due bool
	err := a.rt.store.View(ctx, func(tx ports.Tx) error {
		var err error
		due, err = a.rt.tracker.ShouldRevalidate(tx, a.ns, owner, a.ns.Policy.RevalidateAfter())
		return err
	})
	if err != nil {
		a.rt.storeFailed(a.ns, err)
		return false
	}
	return due
}
