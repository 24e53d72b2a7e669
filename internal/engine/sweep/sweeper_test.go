package sweep_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mirror/internal/adapters/memstore"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/mirror/internal/core/ports/mocks"
	"go.trai.ch/mirror/internal/engine/sweep"
	"go.uber.org/mock/gomock"
)

var base = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func lookup(t *testing.T, name string) domain.Namespace {
	t.Helper()
	ns, err := domain.LookupNamespace(name)
	require.NoError(t, err)
	return ns
}

func seed(t *testing.T, store ports.EntityStore, ns domain.Namespace, owner domain.OwnerKey, expiries ...time.Time) {
	t.Helper()

	recs := make([]domain.Record, 0, len(expiries))
	for i, exp := range expiries {
		recs = append(recs, domain.Record{
			PrimaryKey: domain.RecordKey(owner, string(rune('a'+i))),
			Owner:      owner,
			SortKey:    int64(i),
			Payload:    []byte(`{}`),
			CachedAt:   base,
			ExpiresAt:  exp,
		})
	}
	require.NoError(t, store.Update(context.Background(), func(tx ports.Tx) error {
		return tx.PutAll(ns, recs)
	}))
}

func count(t *testing.T, store ports.EntityStore, ns domain.Namespace, owner domain.OwnerKey) int {
	t.Helper()

	var n int
	require.NoError(t, store.View(context.Background(), func(tx ports.Tx) error {
		recs, err := tx.GetByIndex(ns, domain.OwnerEquals(owner))
		n = len(recs)
		return err
	}))
	return n
}

func TestSweep_RemovesExpiredOnly(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	metrics := mocks.NewMockMetrics(ctrl)
	clock := clockwork.NewFakeClockAt(base)
	roles := lookup(t, domain.NamespaceRoles)
	owner := domain.NewOwnerKey("ana")

	store := memstore.New()
	require.NoError(t, store.Open(ctx, domain.Catalog()))
	seed(t, store, roles, owner, base.Add(-time.Minute), base, base.Add(time.Minute))

	metrics.EXPECT().Expired(domain.NamespaceRoles, 2)

	n, err := sweep.NewSweeper(store, metrics, clock).Sweep(ctx, roles)
	require.NoError(t, err)
	assert.Equal(t, 2, n, "expiry equal to now is expired")
	assert.Equal(t, 1, count(t, store, roles, owner))
}

func TestSweep_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(base)
	roles := lookup(t, domain.NamespaceRoles)
	owner := domain.NewOwnerKey("ana")

	store := memstore.New()
	require.NoError(t, store.Open(ctx, domain.Catalog()))
	seed(t, store, roles, owner, base.Add(-time.Minute))

	sweeper := sweep.NewSweeper(store, nil, clock)
	first, err := sweeper.Sweep(ctx, roles)
	require.NoError(t, err)
	second, err := sweeper.Sweep(ctx, roles)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 0, second)
}

func TestSweep_SkipsCollectionNamespaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockEntityStore(ctrl)

	n, err := sweep.NewSweeper(store, nil, clockwork.NewFakeClockAt(base)).Sweep(context.Background(), lookup(t, domain.NamespaceComments))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSweep_WrapsStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockEntityStore(ctrl)
	store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(domain.ErrStorageUnavailable)

	_, err := sweep.NewSweeper(store, nil, clockwork.NewFakeClockAt(base)).Sweep(context.Background(), lookup(t, domain.NamespaceRoles))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	assert.ErrorContains(t, err, "expiry sweep failed")
}

func TestMaybeSweep_HonoursInterval(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockEntityStore(ctrl)
	clock := clockwork.NewFakeClockAt(base)
	roles := lookup(t, domain.NamespaceRoles)

	store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	sweeper := sweep.NewSweeper(store, nil, clock)
	_, err := sweeper.MaybeSweep(ctx, roles)
	require.NoError(t, err)

	clock.Advance(sweep.DefaultInterval - time.Second)
	_, err = sweeper.MaybeSweep(ctx, roles)
	require.NoError(t, err)

	clock.Advance(time.Second)
	_, err = sweeper.MaybeSweep(ctx, roles)
	require.NoError(t, err)
}

func TestSweepAll(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(base)
	owner := domain.NewOwnerKey("acme/site")

	store := memstore.New()
	require.NoError(t, store.Open(ctx, domain.Catalog()))
	seed(t, store, lookup(t, domain.NamespaceRepoBranches), owner, base.Add(-time.Hour), base.Add(time.Hour))
	seed(t, store, lookup(t, domain.NamespaceImageURLMap), owner, base.Add(-time.Second))

	total, err := sweep.NewSweeper(store, nil, clock).SweepAll(ctx, domain.Catalog())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestSweepAll_ReturnsFirstError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockEntityStore(ctrl)
	boom := errors.New("disk I/O error")
	store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(boom).AnyTimes()

	_, err := sweep.NewSweeper(store, nil, clockwork.NewFakeClockAt(base)).SweepAll(context.Background(), domain.Catalog())
	assert.ErrorIs(t, err, boom)
}
