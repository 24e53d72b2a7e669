package accessor_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mirror/internal/adapters/memstore"
	"go.trai.ch/mirror/internal/adapters/telemetry"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/mirror/internal/core/ports/mocks"
	"go.trai.ch/mirror/internal/engine/accessor"
	"go.uber.org/mock/gomock"
)

var base = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

var (
	branchX = domain.NewOwnerKey("acme/site", "main")
	branchY = domain.NewOwnerKey("acme/site", "release")
)

type harness struct {
	ctx   context.Context
	ctrl  *gomock.Controller
	clock *clockwork.FakeClock
	store *memstore.Store
	log   *mocks.MockLogger
	rt    *accessor.Runtime
}

type option func(*accessor.Deps)

func withMetrics(m ports.Metrics) option {
	return func(d *accessor.Deps) { d.Metrics = m }
}

func withPrefs(p ports.DisplayPreferences) option {
	return func(d *accessor.Deps) { d.Prefs = p }
}

func withStore(s ports.EntityStore) option {
	return func(d *accessor.Deps) { d.Store = s }
}

func newHarness(t *testing.T, opts ...option) *harness {
	t.Helper()

	h := &harness{
		ctx:   context.Background(),
		ctrl:  gomock.NewController(t),
		clock: clockwork.NewFakeClockAt(base),
		store: memstore.New(),
	}
	h.log = mocks.NewMockLogger(h.ctrl)
	require.NoError(t, h.store.Open(h.ctx, domain.Catalog()))

	deps := accessor.Deps{
		Store:   h.store,
		Logger:  h.log,
		Tracer:  telemetry.NoOpTracer{},
		Metrics: telemetry.NoOpMetrics{},
		Clock:   h.clock,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	h.rt = accessor.NewRuntime(deps)

	t.Cleanup(func() {
		require.NoError(t, h.rt.Scheduler().Close(context.Background()))
	})
	return h
}

func lookup(t *testing.T, name string) domain.Namespace {
	t.Helper()
	ns, err := domain.LookupNamespace(name)
	require.NoError(t, err)
	return ns
}

func file(path string, age time.Duration) domain.FileEntry {
	return domain.FileEntry{
		Path:      path,
		Name:      path,
		Type:      "blob",
		SHA:       "sha-" + path,
		UpdatedAt: base.Add(-age),
	}
}

func paths(entries []domain.FileEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

func role(id string, age time.Duration) domain.Role {
	return domain.Role{ID: id, Name: id, UpdatedAt: base.Add(-age), CreatedAt: base.Add(-age)}
}

func comment(id int64, age time.Duration) domain.Comment {
	return domain.Comment{ID: id, Body: "body", CreatedAt: base.Add(-age), UpdatedAt: base.Add(-age)}
}

func telemetryTracer() ports.Tracer {
	return telemetry.NoOpTracer{}
}

func (h *harness) freshness(t *testing.T, ns domain.Namespace, owner domain.OwnerKey) *domain.FreshnessRecord {
	t.Helper()

	var rec *domain.FreshnessRecord
	require.NoError(t, h.store.View(h.ctx, func(tx ports.Tx) error {
		var err error
		rec, err = tx.GetFreshness(domain.FreshnessKey(ns.Name, owner))
		return err
	}))
	return rec
}
