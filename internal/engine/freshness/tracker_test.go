package freshness_test

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mirror/internal/adapters/memstore"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/mirror/internal/core/ports/mocks"
	"go.trai.ch/mirror/internal/engine/freshness"
	"go.uber.org/mock/gomock"
)

var base = time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

func roles(t *testing.T) domain.Namespace {
	t.Helper()
	ns, err := domain.LookupNamespace(domain.NamespaceRoles)
	require.NoError(t, err)
	return ns
}

func TestIsReadable(t *testing.T) {
	clock := clockwork.NewFakeClockAt(base)
	tracker := freshness.NewTracker(clock)

	rec := domain.Record{CachedAt: base, ExpiresAt: base.Add(30 * time.Minute)}

	assert.True(t, tracker.IsReadable(rec, 30*time.Minute))

	clock.Advance(29*time.Minute + 59*time.Second)
	assert.True(t, tracker.IsReadable(rec, 30*time.Minute))

	clock.Advance(time.Second)
	assert.False(t, tracker.IsReadable(rec, 30*time.Minute), "expiry is exclusive")
}

func TestIsReadable_ShorterPolicyApplies(t *testing.T) {
	clock := clockwork.NewFakeClockAt(base)
	tracker := freshness.NewTracker(clock)

	rec := domain.Record{CachedAt: base, ExpiresAt: base.Add(time.Hour)}
	clock.Advance(20 * time.Minute)

	assert.True(t, tracker.IsReadable(rec, time.Hour))
	assert.False(t, tracker.IsReadable(rec, 15*time.Minute))
}

func TestIsReadable_CollectionRecordsNeverExpire(t *testing.T) {
	clock := clockwork.NewFakeClockAt(base)
	tracker := freshness.NewTracker(clock)

	clock.Advance(24 * 365 * time.Hour)
	assert.True(t, tracker.IsReadable(domain.Record{CachedAt: base}, 0))
}

func TestShouldRevalidate(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(base)
	tracker := freshness.NewTracker(clock)
	ns := roles(t)
	owner := domain.NewOwnerKey("ana")
	window := 5 * time.Minute

	store := memstore.New()
	require.NoError(t, store.Open(ctx, []domain.Namespace{ns}))

	check := func() bool {
		var due bool
		require.NoError(t, store.View(ctx, func(tx ports.Tx) error {
			var err error
			due, err = tracker.ShouldRevalidate(tx, ns, owner, window)
			return err
		}))
		return due
	}

	assert.True(t, check(), "no freshness record")

	require.NoError(t, store.Update(ctx, func(tx ports.Tx) error {
		return tracker.Touch(tx, ns, owner, 3)
	}))
	assert.False(t, check())

	clock.Advance(window - time.Millisecond)
	assert.False(t, check())

	clock.Advance(time.Millisecond)
	assert.True(t, check(), "window boundary is due")

	require.NoError(t, store.Update(ctx, func(tx ports.Tx) error {
		return tracker.Forget(tx, ns, owner)
	}))
	assert.True(t, check())
}

func TestShouldRevalidate_ForeignOwnerIsIgnored(t *testing.T) {
	ctrl := gomock.NewController(t)
	tx := mocks.NewMockTx(ctrl)
	tracker := freshness.NewTracker(clockwork.NewFakeClockAt(base))
	ns := roles(t)
	owner := domain.NewOwnerKey("ana")

	tx.EXPECT().GetFreshness(domain.FreshnessKey(ns.Name, owner)).Return(&domain.FreshnessRecord{
		Key:         domain.FreshnessKey(ns.Name, owner),
		Namespace:   ns.Name,
		Owner:       domain.NewOwnerKey("bob"),
		LastUpdated: base,
	}, nil)

	due, err := tracker.ShouldRevalidate(tx, ns, owner, time.Hour)
	require.NoError(t, err)
	assert.True(t, due)
}

func TestShouldRevalidate_PropagatesStoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	tx := mocks.NewMockTx(ctrl)
	tracker := freshness.NewTracker(clockwork.NewFakeClockAt(base))

	tx.EXPECT().GetFreshness(gomock.Any()).Return(nil, domain.ErrStoreReadFailed)

	_, err := tracker.ShouldRevalidate(tx, roles(t), domain.NewOwnerKey("ana"), time.Hour)
	assert.ErrorIs(t, err, domain.ErrStoreReadFailed)
}

func TestTouch_RecordsCountAndTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	tx := mocks.NewMockTx(ctrl)
	tracker := freshness.NewTracker(clockwork.NewFakeClockAt(base))
	ns := roles(t)
	owner := domain.NewOwnerKey("ana")

	tx.EXPECT().PutFreshness(domain.FreshnessRecord{
		Key:         domain.FreshnessKey(ns.Name, owner),
		Namespace:   ns.Name,
		Owner:       owner,
		LastUpdated: base,
		ItemCount:   7,
	}).Return(nil)

	require.NoError(t, tracker.Touch(tx, ns, owner, 7))
}
