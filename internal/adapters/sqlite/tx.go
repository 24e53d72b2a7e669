package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/zerr"
)

type sqlTx struct {
	ctx   context.Context
	tx    *sql.Tx
	known map[string]domain.Namespace
}

var _ ports.Tx = (*sqlTx)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func (t *sqlTx) table(ns domain.Namespace) (string, error) {
	declared, ok := t.known[ns.Name]
	if !ok {
		return "", zerr.With(zerr.Wrap(domain.ErrUnknownNamespace, "namespace not opened"), "namespace", ns.Name)
	}
	return declared.Table(), nil
}

func (t *sqlTx) Get(ns domain.Namespace, key string) (*domain.Record, error) {
	table, err := t.table(ns)
	if err != nil {
		return nil, err
	}

	row := t.tx.QueryRowContext(t.ctx, "SELECT "+recordColumns+" FROM "+table+" WHERE primary_key = ?", key)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "namespace", ns.Name)
	}
	return &rec, nil
}

func (t *sqlTx) GetByIndex(ns domain.Namespace, q domain.IndexQuery) ([]domain.Record, error) {
	table, err := t.table(ns)
	if err != nil {
		return nil, err
	}
	where, args, err := indexClause(t.known[ns.Name], q)
	if err != nil {
		return nil, err
	}

	rows, err := t.tx.QueryContext(
		t.ctx,
		"SELECT "+recordColumns+" FROM "+table+" WHERE "+where+" ORDER BY sort_key DESC, primary_key ASC",
		args...,
	)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "namespace", ns.Name)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "namespace", ns.Name)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "namespace", ns.Name)
	}
	return out, nil
}

func (t *sqlTx) Put(ns domain.Namespace, rec domain.Record) error {
	return t.PutAll(ns, []domain.Record{rec})
}

func (t *sqlTx) PutAll(ns domain.Namespace, recs []domain.Record) error {
	if len(recs) == 0 {
		return nil
	}
	table, err := t.table(ns)
	if err != nil {
		return err
	}

	stmt, err := t.tx.PrepareContext(t.ctx, `INSERT INTO `+table+` (`+recordColumns+`)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(primary_key) DO UPDATE SET
    owner_key = excluded.owner_key,
    sort_key = excluded.sort_key,
    payload = excluded.payload,
    cached_at = excluded.cached_at,
    expires_at = excluded.expires_at`)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "namespace", ns.Name)
	}
	defer func() {
		_ = stmt.Close()
	}()

	for _, rec := range recs {
		payload := rec.Payload
		if payload == nil {
			payload = []byte{}
		}
		if _, err := stmt.ExecContext(
			t.ctx,
			rec.PrimaryKey,
			rec.Owner.Encode(),
			rec.SortKey,
			payload,
			domain.ToMillis(rec.CachedAt),
			domain.ToMillis(rec.ExpiresAt),
		); err != nil {
			return zerr.With(
				zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "namespace", ns.Name),
				"primary_key", rec.PrimaryKey,
			)
		}
	}
	return nil
}

func (t *sqlTx) Delete(ns domain.Namespace, key string) error {
	table, err := t.table(ns)
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(t.ctx, "DELETE FROM "+table+" WHERE primary_key = ?", key); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "namespace", ns.Name)
	}
	return nil
}

func (t *sqlTx) DeleteByIndex(ns domain.Namespace, q domain.IndexQuery) (int, error) {
	table, err := t.table(ns)
	if err != nil {
		return 0, err
	}
	where, args, err := indexClause(t.known[ns.Name], q)
	if err != nil {
		return 0, err
	}

	res, err := t.tx.ExecContext(t.ctx, "DELETE FROM "+table+" WHERE "+where, args...)
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "namespace", ns.Name)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "namespace", ns.Name)
	}
	return int(n), nil
}

func (t *sqlTx) Clear(ns domain.Namespace) error {
	table, err := t.table(ns)
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(t.ctx, "DELETE FROM "+table); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "namespace", ns.Name)
	}
	return nil
}

func (t *sqlTx) GetFreshness(key string) (*domain.FreshnessRecord, error) {
	row := t.tx.QueryRowContext(t.ctx, "SELECT "+freshnessColumns+" FROM "+freshnessTable+" WHERE key = ?", key)

	var (
		rec         domain.FreshnessRecord
		owner       string
		lastUpdated int64
	)
	if err := row.Scan(&rec.Key, &rec.Namespace, &owner, &lastUpdated, &rec.ItemCount); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "freshness_key", key)
	}

	parsed, err := domain.ParseOwnerKey(owner)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreReadFailed.Error()), "freshness_key", key)
	}
	rec.Owner = parsed
	rec.LastUpdated = domain.FromMillis(lastUpdated)
	return &rec, nil
}

func (t *sqlTx) PutFreshness(rec domain.FreshnessRecord) error {
	if _, err := t.tx.ExecContext(t.ctx, `INSERT INTO `+freshnessTable+` (`+freshnessColumns+`)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(key) DO UPDATE SET
    namespace = excluded.namespace,
    owner_key = excluded.owner_key,
    last_updated = excluded.last_updated,
    item_count = excluded.item_count`,
		rec.Key,
		rec.Namespace,
		rec.Owner.Encode(),
		domain.ToMillis(rec.LastUpdated),
		rec.ItemCount,
	); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "freshness_key", rec.Key)
	}
	return nil
}

func (t *sqlTx) DeleteFreshness(key string) error {
	if _, err := t.tx.ExecContext(t.ctx, "DELETE FROM "+freshnessTable+" WHERE key = ?", key); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "freshness_key", key)
	}
	return nil
}

// wipe deletes the rows of every namespace table present in the file and every freshness record.
func (t *sqlTx) wipe() error {
	rows, err := t.tx.QueryContext(
		t.ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name LIKE 'ns\_%' ESCAPE '\'`,
	)
	if err != nil {
		return zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			_ = rows.Close()
			return zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return zerr.Wrap(err, domain.ErrStoreReadFailed.Error())
	}
	_ = rows.Close()

	for _, table := range tables {
		if _, err := t.tx.ExecContext(t.ctx, "DELETE FROM "+table); err != nil {
			return zerr.With(zerr.Wrap(err, domain.ErrStoreWriteFailed.Error()), "table", table)
		}
	}
	if _, err := t.tx.ExecContext(t.ctx, "DELETE FROM "+freshnessTable); err != nil {
		return zerr.Wrap(err, domain.ErrStoreWriteFailed.Error())
	}
	return nil
}

func scanRecord(row rowScanner) (domain.Record, error) {
	var (
		rec       domain.Record
		owner     string
		cachedAt  int64
		expiresAt int64
	)
	if err := row.Scan(&rec.PrimaryKey, &owner, &rec.SortKey, &rec.Payload, &cachedAt, &expiresAt); err != nil {
		return domain.Record{}, err
	}

	parsed, err := domain.ParseOwnerKey(owner)
	if err != nil {
		return domain.Record{}, err
	}
	rec.Owner = parsed
	rec.CachedAt = domain.FromMillis(cachedAt)
	rec.ExpiresAt = domain.FromMillis(expiresAt)
	return rec, nil
}

// indexClause translates q into a WHERE clause over the column backing its index.
func indexClause(ns domain.Namespace, q domain.IndexQuery) (string, []any, error) {
	if !ns.HasIndex(q.Index) {
		return "", nil, zerr.With(
			zerr.With(zerr.Wrap(domain.ErrUnknownIndex, "query rejected"), "namespace", ns.Name),
			"index", string(q.Index),
		)
	}

	var column string
	switch q.Index {
	case domain.IndexOwner:
		column = "owner_key"
	case domain.IndexExpiry:
		column = "expires_at"
	}

	if q.Range {
		return column + " BETWEEN ? AND ?", []any{q.From, q.To}, nil
	}
	return column + " = ?", []any{q.Value}, nil
}
