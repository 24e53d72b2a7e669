// Package accessor implements the generic, owner-scoped cache accessor shared by every entity kind.
package accessor

import (
	"errors"
	"sync/atomic"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/mirror/internal/engine/freshness"
	"go.trai.ch/mirror/internal/engine/scheduler"
	"go.trai.ch/mirror/internal/engine/sweep"
	"go.trai.ch/zerr"
)

// Deps are the collaborators of a Runtime. Logger, Tracer and Metrics are required.
type Deps struct {
	// Store is the entity store. A nil store runs every accessor network-only.
	Store ports.EntityStore
	// Prefs supplies the default page and page size. Nil means the built-in defaults.
	Prefs   ports.DisplayPreferences
	Logger  ports.Logger
	Tracer  ports.Tracer
	Metrics ports.Metrics
	// Clock drives expiry and throttling. Nil means the real clock.
	Clock clockwork.Clock
	// Scheduler runs background refreshes. Nil means a private scheduler.
	Scheduler *scheduler.Scheduler
}

// Runtime is the state shared by every accessor of one cache: the store, the refresh
// scheduler, and the degraded flag raised when the store stops working.
type Runtime struct {
	store     ports.EntityStore
	prefs     ports.DisplayPreferences
	logger    ports.Logger
	tracer    ports.Tracer
	metrics   ports.Metrics
	clock     clockwork.Clock
	tracker   *freshness.Tracker
	sweeper   *sweep.Sweeper
	scheduler *scheduler.Scheduler

	degraded atomic.Bool
}

// NewRuntime creates a Runtime from d.
func NewRuntime(d Deps) *Runtime {
	clock := d.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	sched := d.Scheduler
	if sched == nil {
		sched = scheduler.NewScheduler(d.Logger)
	}

	rt := &Runtime{
		store:     d.Store,
		prefs:     d.Prefs,
		logger:    d.Logger,
		tracer:    d.Tracer,
		metrics:   d.Metrics,
		clock:     clock,
		tracker:   freshness.NewTracker(clock),
		scheduler: sched,
	}
	if d.Store != nil {
		rt.sweeper = sweep.NewSweeper(d.Store, d.Metrics, clock)
	}
	return rt
}

// Store returns the entity store, or nil when none was configured.
func (rt *Runtime) Store() ports.EntityStore {
	return rt.store
}

// Sweeper returns the expiry sweeper, or nil when no store was configured.
func (rt *Runtime) Sweeper() *sweep.Sweeper {
	return rt.sweeper
}

// Scheduler returns the background refresh scheduler.
func (rt *Runtime) Scheduler() *scheduler.Scheduler {
	return rt.scheduler
}

// Degraded reports whether accessors have fallen back to network-only operation.
func (rt *Runtime) Degraded() bool {
	return rt.degraded.Load()
}

// Degrade switches every accessor to network-only operation.
func (rt *Runtime) Degrade(cause error) {
	if !rt.degraded.CompareAndSwap(false, true) {
		return
	}
	msg := "entity store unavailable, continuing without cache"
	if cause != nil {
		msg += ": " + cause.Error()
	}
	rt.logger.Warn(msg)
}

func (rt *Runtime) usable() bool {
	return rt.store != nil && !rt.degraded.Load()
}

// storeFailed classifies a store error. An unusable store degrades the runtime; any other
// failure is logged and the operation proceeds as if the cache were empty.
func (rt *Runtime) storeFailed(ns domain.Namespace, err error) {
	if errors.Is(err, domain.ErrStorageUnavailable) || errors.Is(err, domain.ErrStoreNotOpen) {
		rt.Degrade(err)
		return
	}
	rt.logger.Error(zerr.With(zerr.Wrap(err, "cache access failed"), "namespace", ns.Name))
}

func (rt *Runtime) pagination(page, pageSize int) (int, int) {
	if page <= 0 {
		page = domain.DefaultPage
		if rt.prefs != nil {
			page = rt.prefs.DefaultPage()
		}
	}
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
		if rt.prefs != nil {
			pageSize = rt.prefs.DefaultPageSize()
		}
	}
	return domain.NormalizePage(page, pageSize)
}
