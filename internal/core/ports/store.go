// Package ports defines the core interfaces for the cache subsystem.
package ports

import (
	"context"

	"go.trai.ch/mirror/internal/core/domain"
)

// EntityStore is the transactional, indexed storage primitive shared by every accessor.
// Any store offering atomic multi-row transactions and secondary-index queries satisfies it.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type EntityStore interface {
	// Open creates or additively upgrades the schema for the given namespaces.
	// It is idempotent. A failure wraps domain.ErrStorageUnavailable.
	Open(ctx context.Context, namespaces []domain.Namespace) error

	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(tx Tx) error) error

	// Update runs fn in a read-write transaction that commits only if fn returns nil.
	// Concurrent readers observe either none or all of its writes.
	Update(ctx context.Context, fn func(tx Tx) error) error

	// WipeAll drops the contents of every namespace and every freshness record.
	WipeAll(ctx context.Context) error

	// Close releases the store.
	Close() error
}

// Tx is one store transaction. Its methods must not be used after the enclosing
// View or Update returns.
type Tx interface {
	// Get returns the record stored under key, or nil when absent.
	Get(ns domain.Namespace, key string) (*domain.Record, error)

	// GetByIndex returns every record matching q, fully materialized.
	// The index must be declared by ns; there is no unindexed scan.
	GetByIndex(ns domain.Namespace, q domain.IndexQuery) ([]domain.Record, error)

	// Put upserts one record by primary key.
	Put(ns domain.Namespace, rec domain.Record) error

	// PutAll upserts records by primary key.
	PutAll(ns domain.Namespace, recs []domain.Record) error

	// Delete removes the record stored under key. Deleting an absent key is not an error.
	Delete(ns domain.Namespace, key string) error

	// DeleteByIndex removes every record matching q and returns how many were removed.
	DeleteByIndex(ns domain.Namespace, q domain.IndexQuery) (int, error)

	// Clear removes every record of ns.
	Clear(ns domain.Namespace) error

	// GetFreshness returns the freshness record stored under key, or nil when absent.
	GetFreshness(key string) (*domain.FreshnessRecord, error)

	// PutFreshness upserts a freshness record.
	PutFreshness(rec domain.FreshnessRecord) error

	// DeleteFreshness removes a freshness record. Deleting an absent key is not an error.
	DeleteFreshness(key string) error
}
