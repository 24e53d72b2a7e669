// Package sqlite implements the durable entity store on top of SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.trai.ch/mirror/internal/adapters/sqlite/migrations"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/zerr"

	// Register the pure-Go SQLite driver.
	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const dsnPragmas = "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"

// Store implements ports.EntityStore with one table per namespace plus a shared freshness table.
type Store struct {
	path string

	mu         sync.RWMutex
	db         *sql.DB
	namespaces map[string]domain.Namespace
}

var _ ports.EntityStore = (*Store)(nil)

// NewStore creates a store backed by the database file at path. Nothing is opened until Open.
func NewStore(path string) *Store {
	return &Store{
		path:       path,
		namespaces: make(map[string]domain.Namespace),
	}
}

// Open opens the database on first use and applies the shared and per-namespace migrations.
func (s *Store) Open(ctx context.Context, namespaces []domain.Namespace) error {
	for _, ns := range namespaces {
		if err := ns.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		db, err := s.openDB(ctx)
		if err != nil {
			return errors.Join(domain.ErrStorageUnavailable, err)
		}
		s.db = db
	}

	steps, err := embeddedMigrations(migrations.FS)
	if err != nil {
		return errors.Join(domain.ErrStorageUnavailable, err)
	}
	for _, ns := range namespaces {
		steps = append(steps, namespaceMigration(ns))
	}

	if err := applyMigrations(ctx, s.db, steps, time.Now()); err != nil {
		return errors.Join(domain.ErrStorageUnavailable, err)
	}

	known := make(map[string]domain.Namespace, len(s.namespaces)+len(namespaces))
	for name, ns := range s.namespaces {
		known[name] = ns
	}
	for _, ns := range namespaces {
		known[ns.Name] = ns
	}
	s.namespaces = known
	return nil
}

func (s *Store) openDB(ctx context.Context) (*sql.DB, error) {
	path := strings.TrimSpace(s.path)
	if path == "" {
		return nil, zerr.New("storage path is required")
	}

	dsn := path
	if path != MemoryPath {
		cleanPath := filepath.Clean(path)
		if err := os.MkdirAll(filepath.Dir(cleanPath), domain.DirPerm); err != nil {
			return nil, zerr.With(zerr.Wrap(err, "create storage directory"), "path", cleanPath)
		}
		dsn = cleanPath + dsnPragmas
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "open sqlite db"), "path", path)
	}
	// Transactions are serialized on one connection.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, zerr.With(zerr.Wrap(err, "ping sqlite db"), "path", path)
	}
	return db, nil
}

// View runs fn in a transaction that is always rolled back.
func (s *Store) View(ctx context.Context, fn func(tx ports.Tx) error) error {
	return s.run(ctx, false, fn)
}

// Update runs fn in a transaction that commits only if fn returns nil.
func (s *Store) Update(ctx context.Context, fn func(tx ports.Tx) error) error {
	return s.run(ctx, true, fn)
}

func (s *Store) run(ctx context.Context, commit bool, fn func(tx ports.Tx) error) error {
	s.mu.RLock()
	db := s.db
	known := s.namespaces
	s.mu.RUnlock()

	if db == nil {
		return zerr.Wrap(domain.ErrStoreNotOpen, "transaction rejected")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Join(domain.ErrStorageUnavailable, zerr.Wrap(err, "begin transaction"))
	}

	if err := fn(&sqlTx{ctx: ctx, tx: tx, known: known}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if !commit {
		_ = tx.Rollback()
		return nil
	}
	if err := tx.Commit(); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

// WipeAll empties every namespace table, including tables of namespaces no longer declared,
// and every freshness record.
func (s *Store) WipeAll(ctx context.Context) error {
	return s.Update(ctx, func(tx ports.Tx) error {
		st, ok := tx.(*sqlTx)
		if !ok {
			return zerr.New("unexpected transaction type")
		}
		return st.wipe()
	})
}

// Close closes the SQLite handle. The store may be opened again afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	s.namespaces = make(map[string]domain.Namespace)
	return err
}
