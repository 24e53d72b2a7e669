package sqlite_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mirror/internal/adapters/sqlite"
	"go.trai.ch/mirror/internal/adapters/storetest"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
)

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) ports.EntityStore {
		return sqlite.NewStore(filepath.Join(t.TempDir(), domain.StoreFileName))
	})
}

func TestStore_Contract_InMemory(t *testing.T) {
	storetest.Run(t, func(*testing.T) ports.EntityStore {
		return sqlite.NewStore(sqlite.MemoryPath)
	})
}

func TestStore_Open_Errors(t *testing.T) {
	t.Parallel()

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewStore("").Open(t.Context(), domain.Catalog())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})

	t.Run("parent is a file", func(t *testing.T) {
		t.Parallel()

		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

		err := sqlite.NewStore(filepath.Join(blocker, "nested", domain.StoreFileName)).Open(t.Context(), domain.Catalog())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})

	t.Run("invalid namespace", func(t *testing.T) {
		t.Parallel()

		store := sqlite.NewStore(filepath.Join(t.TempDir(), domain.StoreFileName))
		err := store.Open(t.Context(), []domain.Namespace{{Name: "broken"}})
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrInvalidNamespace)
	})
}

func TestStore_SurvivesReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), domain.StoreFileName)
	ns, err := domain.LookupNamespace(domain.NamespaceRepoFiles)
	require.NoError(t, err)
	owner := domain.NewOwnerKey("octo/repo", "main")
	rec := storetest.Record(ns, owner, "docs/index.md", time.Minute)

	first := sqlite.NewStore(path)
	require.NoError(t, first.Open(t.Context(), domain.Catalog()))
	require.NoError(t, first.Update(t.Context(), func(tx ports.Tx) error {
		return tx.Put(ns, rec)
	}))
	require.NoError(t, first.Close())

	second := sqlite.NewStore(path)
	require.NoError(t, second.Open(t.Context(), domain.Catalog()))
	t.Cleanup(func() {
		_ = second.Close()
	})

	require.NoError(t, second.View(t.Context(), func(tx ports.Tx) error {
		got, err := tx.Get(ns, rec.PrimaryKey)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, rec.Payload, got.Payload)
		assert.True(t, got.Owner.Equal(owner))
		return nil
	}))
}
