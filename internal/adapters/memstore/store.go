// Package memstore implements a process-local entity store. It backs tests and
// ephemeral sessions that must not leave a store file behind.
package memstore

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/zerr"
)

// Store implements ports.EntityStore over maps guarded by a single lock.
// Update holds the write lock for the whole transaction and undoes its writes on failure.
type Store struct {
	mu         sync.RWMutex
	open       bool
	namespaces map[string]domain.Namespace
	tables     map[string]map[string]domain.Record
	freshness  map[string]domain.FreshnessRecord
}

var _ ports.EntityStore = (*Store)(nil)

// New creates an empty, unopened store.
func New() *Store {
	return &Store{
		namespaces: make(map[string]domain.Namespace),
		tables:     make(map[string]map[string]domain.Record),
		freshness:  make(map[string]domain.FreshnessRecord),
	}
}

// Open registers the namespaces. Existing contents are kept.
func (s *Store) Open(_ context.Context, namespaces []domain.Namespace) error {
	for _, ns := range namespaces {
		if err := ns.Validate(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ns := range namespaces {
		s.namespaces[ns.Name] = ns
		if _, ok := s.tables[ns.Name]; !ok {
			s.tables[ns.Name] = make(map[string]domain.Record)
		}
	}
	s.open = true
	return nil
}

// View runs fn under the read lock.
func (s *Store) View(ctx context.Context, fn func(tx ports.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.open {
		return zerr.Wrap(domain.ErrStoreNotOpen, "transaction rejected")
	}
	return fn(&memTx{store: s, readOnly: true})
}

// Update runs fn under the write lock and rolls its writes back if fn fails.
func (s *Store) Update(ctx context.Context, fn func(tx ports.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return zerr.Wrap(domain.ErrStoreNotOpen, "transaction rejected")
	}

	tx := &memTx{store: s}
	if err := fn(tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

// WipeAll empties every namespace and every freshness record.
func (s *Store) WipeAll(ctx context.Context) error {
	return s.Update(ctx, func(tx ports.Tx) error {
		mt := tx.(*memTx)
		for name := range s.tables {
			mt.clearTable(name)
		}
		for key := range s.freshness {
			if err := mt.DeleteFreshness(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close marks the store closed. Contents survive a later Open.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.open = false
	return nil
}

type memTx struct {
	store    *Store
	readOnly bool
	undo     []func()
}

var _ ports.Tx = (*memTx)(nil)

func (t *memTx) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *memTx) writable() error {
	if t.readOnly {
		return zerr.Wrap(domain.ErrStoreWriteFailed, "write in read-only transaction")
	}
	return nil
}

func (t *memTx) table(ns domain.Namespace) (domain.Namespace, map[string]domain.Record, error) {
	declared, ok := t.store.namespaces[ns.Name]
	if !ok {
		return domain.Namespace{}, nil, zerr.With(
			zerr.Wrap(domain.ErrUnknownNamespace, "namespace not opened"),
			"namespace", ns.Name,
		)
	}
	return declared, t.store.tables[ns.Name], nil
}

func (t *memTx) Get(ns domain.Namespace, key string) (*domain.Record, error) {
	_, rows, err := t.table(ns)
	if err != nil {
		return nil, err
	}
	rec, ok := rows[key]
	if !ok {
		return nil, nil
	}
	out := cloneRecord(rec)
	return &out, nil
}

func (t *memTx) GetByIndex(ns domain.Namespace, q domain.IndexQuery) ([]domain.Record, error) {
	declared, rows, err := t.table(ns)
	if err != nil {
		return nil, err
	}
	keys, err := matching(declared, rows, q)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Record, 0, len(keys))
	for _, key := range keys {
		out = append(out, cloneRecord(rows[key]))
	}
	slices.SortFunc(out, func(a, b domain.Record) int {
		if a.SortKey != b.SortKey {
			if a.SortKey > b.SortKey {
				return -1
			}
			return 1
		}
		return strings.Compare(a.PrimaryKey, b.PrimaryKey)
	})
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func (t *memTx) Put(ns domain.Namespace, rec domain.Record) error {
	return t.PutAll(ns, []domain.Record{rec})
}

func (t *memTx) PutAll(ns domain.Namespace, recs []domain.Record) error {
	if err := t.writable(); err != nil {
		return err
	}
	_, rows, err := t.table(ns)
	if err != nil {
		return err
	}
	for _, rec := range recs {
		t.set(rows, rec.PrimaryKey, cloneRecord(rec))
	}
	return nil
}

func (t *memTx) Delete(ns domain.Namespace, key string) error {
	if err := t.writable(); err != nil {
		return err
	}
	_, rows, err := t.table(ns)
	if err != nil {
		return err
	}
	t.remove(rows, key)
	return nil
}

func (t *memTx) DeleteByIndex(ns domain.Namespace, q domain.IndexQuery) (int, error) {
	if err := t.writable(); err != nil {
		return 0, err
	}
	declared, rows, err := t.table(ns)
	if err != nil {
		return 0, err
	}
	keys, err := matching(declared, rows, q)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		t.remove(rows, key)
	}
	return len(keys), nil
}

func (t *memTx) Clear(ns domain.Namespace) error {
	if err := t.writable(); err != nil {
		return err
	}
	if _, _, err := t.table(ns); err != nil {
		return err
	}
	t.clearTable(ns.Name)
	return nil
}

func (t *memTx) clearTable(name string) {
	rows := t.store.tables[name]
	for key := range rows {
		t.remove(rows, key)
	}
}

func (t *memTx) GetFreshness(key string) (*domain.FreshnessRecord, error) {
	rec, ok := t.store.freshness[key]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (t *memTx) PutFreshness(rec domain.FreshnessRecord) error {
	if err := t.writable(); err != nil {
		return err
	}
	prev, existed := t.store.freshness[rec.Key]
	t.store.freshness[rec.Key] = rec
	t.undo = append(t.undo, func() {
		if existed {
			t.store.freshness[rec.Key] = prev
			return
		}
		delete(t.store.freshness, rec.Key)
	})
	return nil
}

func (t *memTx) DeleteFreshness(key string) error {
	if err := t.writable(); err != nil {
		return err
	}
	prev, existed := t.store.freshness[key]
	if !existed {
		return nil
	}
	delete(t.store.freshness, key)
	t.undo = append(t.undo, func() {
		t.store.freshness[key] = prev
	})
	return nil
}

func (t *memTx) set(rows map[string]domain.Record, key string, rec domain.Record) {
	prev, existed := rows[key]
	rows[key] = rec
	t.undo = append(t.undo, func() {
		if existed {
			rows[key] = prev
			return
		}
		delete(rows, key)
	})
}

func (t *memTx) remove(rows map[string]domain.Record, key string) {
	prev, existed := rows[key]
	if !existed {
		return
	}
	delete(rows, key)
	t.undo = append(t.undo, func() {
		rows[key] = prev
	})
}

// matching returns the primary keys of the rows selected by q.
func matching(ns domain.Namespace, rows map[string]domain.Record, q domain.IndexQuery) ([]string, error) {
	if !ns.HasIndex(q.Index) {
		return nil, zerr.With(
			zerr.With(zerr.Wrap(domain.ErrUnknownIndex, "query rejected"), "namespace", ns.Name),
			"index", string(q.Index),
		)
	}

	var keys []string
	for key, rec := range rows {
		if selects(rec, q) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func selects(rec domain.Record, q domain.IndexQuery) bool {
	switch q.Index {
	case domain.IndexOwner:
		if q.Range {
			return false
		}
		return rec.Owner.Encode() == q.Value
	case domain.IndexExpiry:
		ms := domain.ToMillis(rec.ExpiresAt)
		if q.Range {
			return ms >= q.From && ms <= q.To
		}
		return strconv.FormatInt(ms, 10) == q.Value
	default:
		return false
	}
}

func cloneRecord(rec domain.Record) domain.Record {
	rec.Payload = slices.Clone(rec.Payload)
	return rec
}
