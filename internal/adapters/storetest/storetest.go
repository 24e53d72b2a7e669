// Package storetest provides the behavioral contract every ports.EntityStore must satisfy.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
)

// Factory returns a fresh, unopened store. The suite opens and closes it.
type Factory func(t *testing.T) ports.EntityStore

// Base is the reference time used by the suite. It is millisecond aligned.
var Base = time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

// Namespaces returns the declarations the suite opens stores with.
func Namespaces() (ttl, collection domain.Namespace) {
	ttl = domain.Namespace{
		Name:        "contract-ttl",
		Version:     1,
		OwnerFields: []string{"repoPath", "branch"},
		Mode:        domain.ItemTTL,
		SortField:   domain.SortByUpdated,
		Policy: domain.RefreshPolicy{
			HardTTL:        time.Hour,
			ThrottleWindow: domain.DefaultThrottleWindow,
			FetchSize:      domain.DefaultFetchSize,
		},
	}
	collection = domain.Namespace{
		Name:        "contract-collection",
		Version:     1,
		OwnerFields: []string{"userId"},
		Mode:        domain.CollectionFreshness,
		SortField:   domain.SortByCreated,
		Policy: domain.RefreshPolicy{
			ThrottleWindow: domain.DefaultThrottleWindow,
			StaleAfter:     domain.DefaultStaleAfter,
			FetchSize:      domain.DefaultFetchSize,
		},
	}
	return ttl, collection
}

// Record builds a record of owner with the given entity id and sort offset from Base.
func Record(ns domain.Namespace, owner domain.OwnerKey, id string, sortOffset time.Duration) domain.Record {
	return domain.Record{
		PrimaryKey: domain.RecordKey(owner, id),
		Owner:      owner,
		SortKey:    Base.Add(sortOffset).UnixMilli(),
		Payload:    []byte(`{"id":"` + id + `"}`),
		CachedAt:   Base,
		ExpiresAt:  ns.ExpiryFor(Base),
	}
}

var errAbort = errors.New("abort transaction")

// Run executes the contract against stores created by factory.
//
//nolint:funlen // one subtest per contract clause
func Run(t *testing.T, factory Factory) {
	t.Helper()

	ttlNS, collNS := Namespaces()
	main := domain.NewOwnerKey("octo/repo", "main")
	dev := domain.NewOwnerKey("octo/repo", "dev")

	open := func(t *testing.T) ports.EntityStore {
		t.Helper()
		store := factory(t)
		require.NoError(t, store.Open(t.Context(), []domain.Namespace{ttlNS, collNS}))
		t.Cleanup(func() {
			_ = store.Close()
		})
		return store
	}

	t.Run("open is idempotent", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Open(t.Context(), []domain.Namespace{ttlNS, collNS}))

		err := store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.Put(ttlNS, Record(ttlNS, main, "a.md", 0))
		})
		require.NoError(t, err)
	})

	t.Run("get returns nil for missing key", func(t *testing.T) {
		store := open(t)

		err := store.View(t.Context(), func(tx ports.Tx) error {
			rec, err := tx.Get(ttlNS, "missing")
			require.NoError(t, err)
			assert.Nil(t, rec)

			fr, err := tx.GetFreshness("missing")
			require.NoError(t, err)
			assert.Nil(t, fr)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("put then get round trips every field", func(t *testing.T) {
		store := open(t)
		want := Record(ttlNS, main, "README.md", time.Minute)

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.Put(ttlNS, want)
		}))

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			got, err := tx.Get(ttlNS, want.PrimaryKey)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, want.PrimaryKey, got.PrimaryKey)
			assert.True(t, want.Owner.Equal(got.Owner))
			assert.Equal(t, want.SortKey, got.SortKey)
			assert.Equal(t, want.Payload, got.Payload)
			assert.True(t, want.CachedAt.Equal(got.CachedAt))
			assert.True(t, want.ExpiresAt.Equal(got.ExpiresAt))
			return nil
		}))
	})

	t.Run("put upserts by primary key", func(t *testing.T) {
		store := open(t)
		rec := Record(ttlNS, main, "a.md", 0)

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			if err := tx.Put(ttlNS, rec); err != nil {
				return err
			}
			rec.Payload = []byte(`{"id":"a.md","v":2}`)
			return tx.Put(ttlNS, rec)
		}))

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			got, err := tx.GetByIndex(ttlNS, domain.OwnerEquals(main))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.JSONEq(t, `{"id":"a.md","v":2}`, string(got[0].Payload))
			return nil
		}))
	})

	t.Run("owner index isolates owners and orders by sort key descending", func(t *testing.T) {
		store := open(t)

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.PutAll(ttlNS, []domain.Record{
				Record(ttlNS, main, "old.md", 0),
				Record(ttlNS, main, "new.md", 2*time.Minute),
				Record(ttlNS, main, "mid.md", time.Minute),
				Record(ttlNS, dev, "new.md", 3*time.Minute),
			})
		}))

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			got, err := tx.GetByIndex(ttlNS, domain.OwnerEquals(main))
			require.NoError(t, err)
			require.Len(t, got, 3)
			assert.Equal(t, domain.RecordKey(main, "new.md"), got[0].PrimaryKey)
			assert.Equal(t, domain.RecordKey(main, "mid.md"), got[1].PrimaryKey)
			assert.Equal(t, domain.RecordKey(main, "old.md"), got[2].PrimaryKey)

			other, err := tx.GetByIndex(ttlNS, domain.OwnerEquals(dev))
			require.NoError(t, err)
			require.Len(t, other, 1)
			assert.True(t, other[0].Owner.Equal(dev))
			return nil
		}))
	})

	t.Run("owner fragments containing the separator do not collide", func(t *testing.T) {
		store := open(t)
		left := domain.NewOwnerKey("a/b", "c")
		right := domain.NewOwnerKey("a", "b/c")

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.PutAll(ttlNS, []domain.Record{
				Record(ttlNS, left, "x", 0),
				Record(ttlNS, right, "x", 0),
			})
		}))

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			got, err := tx.GetByIndex(ttlNS, domain.OwnerEquals(left))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.True(t, got[0].Owner.Equal(left))
			return nil
		}))
	})

	t.Run("expiry range selects expired records only", func(t *testing.T) {
		store := open(t)
		expired := Record(ttlNS, main, "expired.md", 0)
		expired.ExpiresAt = Base.Add(-time.Second)
		boundary := Record(ttlNS, main, "boundary.md", 0)
		boundary.ExpiresAt = Base
		live := Record(ttlNS, main, "live.md", 0)

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.PutAll(ttlNS, []domain.Record{expired, boundary, live})
		}))

		var removed int
		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			var err error
			removed, err = tx.DeleteByIndex(ttlNS, domain.ExpiredBy(Base))
			return err
		}))
		assert.Equal(t, 2, removed)

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			got, err := tx.GetByIndex(ttlNS, domain.OwnerEquals(main))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, live.PrimaryKey, got[0].PrimaryKey)
			return nil
		}))
	})

	t.Run("undeclared index is rejected", func(t *testing.T) {
		store := open(t)

		err := store.View(t.Context(), func(tx ports.Tx) error {
			_, err := tx.GetByIndex(collNS, domain.ExpiredBy(Base))
			return err
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownIndex)
	})

	t.Run("unopened namespace is rejected", func(t *testing.T) {
		store := open(t)
		unknown := ttlNS
		unknown.Name = "never-opened"

		err := store.View(t.Context(), func(tx ports.Tx) error {
			_, err := tx.Get(unknown, "k")
			return err
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrUnknownNamespace)
	})

	t.Run("delete and clear", func(t *testing.T) {
		store := open(t)

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.PutAll(ttlNS, []domain.Record{
				Record(ttlNS, main, "a", 0),
				Record(ttlNS, main, "b", 0),
				Record(ttlNS, dev, "c", 0),
			})
		}))

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			if err := tx.Delete(ttlNS, domain.RecordKey(main, "a")); err != nil {
				return err
			}
			return tx.Delete(ttlNS, "absent")
		}))

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			got, err := tx.GetByIndex(ttlNS, domain.OwnerEquals(main))
			require.NoError(t, err)
			assert.Len(t, got, 1)
			return nil
		}))

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.Clear(ttlNS)
		}))

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			got, err := tx.GetByIndex(ttlNS, domain.OwnerEquals(dev))
			require.NoError(t, err)
			assert.Empty(t, got)
			return nil
		}))
	})

	t.Run("freshness round trip", func(t *testing.T) {
		store := open(t)
		owner := domain.NewOwnerKey("octocat")
		want := domain.FreshnessRecord{
			Key:         domain.FreshnessKey(collNS.Name, owner),
			Namespace:   collNS.Name,
			Owner:       owner,
			LastUpdated: Base,
			ItemCount:   3,
		}

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.PutFreshness(want)
		}))

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			got, err := tx.GetFreshness(want.Key)
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Equal(t, want.Key, got.Key)
			assert.Equal(t, want.Namespace, got.Namespace)
			assert.True(t, want.Owner.Equal(got.Owner))
			assert.True(t, want.LastUpdated.Equal(got.LastUpdated))
			assert.Equal(t, 3, got.ItemCount)
			return nil
		}))

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.DeleteFreshness(want.Key)
		}))

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			got, err := tx.GetFreshness(want.Key)
			require.NoError(t, err)
			assert.Nil(t, got)
			return nil
		}))
	})

	t.Run("failed update leaves no partial writes", func(t *testing.T) {
		store := open(t)
		owner := domain.NewOwnerKey("octocat")
		kept := Record(collNS, owner, "kept", 0)

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.Put(collNS, kept)
		}))

		err := store.Update(t.Context(), func(tx ports.Tx) error {
			if _, err := tx.DeleteByIndex(collNS, domain.OwnerEquals(owner)); err != nil {
				return err
			}
			if err := tx.Put(collNS, Record(collNS, owner, "new", 0)); err != nil {
				return err
			}
			if err := tx.PutFreshness(domain.FreshnessRecord{
				Key:         domain.FreshnessKey(collNS.Name, owner),
				Namespace:   collNS.Name,
				Owner:       owner,
				LastUpdated: Base,
				ItemCount:   1,
			}); err != nil {
				return err
			}
			return errAbort
		})
		require.ErrorIs(t, err, errAbort)

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			got, err := tx.GetByIndex(collNS, domain.OwnerEquals(owner))
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, kept.PrimaryKey, got[0].PrimaryKey)

			fr, err := tx.GetFreshness(domain.FreshnessKey(collNS.Name, owner))
			require.NoError(t, err)
			assert.Nil(t, fr)
			return nil
		}))
	})

	t.Run("wipe all empties namespaces and freshness", func(t *testing.T) {
		store := open(t)
		owner := domain.NewOwnerKey("octocat")
		key := domain.FreshnessKey(collNS.Name, owner)

		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			if err := tx.Put(ttlNS, Record(ttlNS, main, "a", 0)); err != nil {
				return err
			}
			if err := tx.Put(collNS, Record(collNS, owner, "b", 0)); err != nil {
				return err
			}
			return tx.PutFreshness(domain.FreshnessRecord{Key: key, Namespace: collNS.Name, Owner: owner, LastUpdated: Base})
		}))

		require.NoError(t, store.WipeAll(t.Context()))

		require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
			a, err := tx.GetByIndex(ttlNS, domain.OwnerEquals(main))
			require.NoError(t, err)
			assert.Empty(t, a)

			b, err := tx.GetByIndex(collNS, domain.OwnerEquals(owner))
			require.NoError(t, err)
			assert.Empty(t, b)

			fr, err := tx.GetFreshness(key)
			require.NoError(t, err)
			assert.Nil(t, fr)
			return nil
		}))
	})

	t.Run("readers never observe a half-applied replacement", func(t *testing.T) {
		store := open(t)
		owner := domain.NewOwnerKey("octocat")

		set := func(prefix string) []domain.Record {
			return []domain.Record{
				Record(collNS, owner, prefix+"-1", 0),
				Record(collNS, owner, prefix+"-2", time.Second),
				Record(collNS, owner, prefix+"-3", 2*time.Second),
			}
		}
		require.NoError(t, store.Update(t.Context(), func(tx ports.Tx) error {
			return tx.PutAll(collNS, set("a"))
		}))

		ctx, cancel := context.WithCancel(t.Context())
		defer cancel()

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 20 {
				prefix := "a"
				if i%2 == 0 {
					prefix = "b"
				}
				_ = store.Update(ctx, func(tx ports.Tx) error {
					if _, err := tx.DeleteByIndex(collNS, domain.OwnerEquals(owner)); err != nil {
						return err
					}
					return tx.PutAll(collNS, set(prefix))
				})
			}
		}()

		for range 20 {
			require.NoError(t, store.View(t.Context(), func(tx ports.Tx) error {
				got, err := tx.GetByIndex(collNS, domain.OwnerEquals(owner))
				require.NoError(t, err)
				assert.Len(t, got, 3)
				return nil
			}))
		}
		wg.Wait()
	})

	t.Run("closed store rejects transactions", func(t *testing.T) {
		store := factory(t)
		require.NoError(t, store.Open(t.Context(), []domain.Namespace{ttlNS}))
		require.NoError(t, store.Close())

		err := store.View(t.Context(), func(ports.Tx) error { return nil })
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStoreNotOpen)
	})
}
