package accessor

import (
	"cmp"
	"encoding/json"
	"slices"
	"strings"
	"time"

	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/zerr"
)

type entry[T domain.Entity] struct {
	item T
	rec  domain.Record
}

// encode turns a retrieved set into records cached at now. Later duplicates of an entity
// replace earlier ones. The result is in canonical order.
func encode[T domain.Entity](ns domain.Namespace, owner domain.OwnerKey, items []T, now time.Time) ([]entry[T], error) {
	out := make([]entry[T], 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		payload, err := json.Marshal(item)
		if err != nil {
			return nil, zerr.With(
				zerr.With(zerr.Wrap(err, domain.ErrPayloadEncodeFailed.Error()), "namespace", ns.Name),
				"entity_id", item.EntityID(),
			)
		}

		e := entry[T]{
			item: item,
			rec: domain.Record{
				PrimaryKey: domain.RecordKey(owner, item.EntityID()),
				Owner:      owner,
				SortKey:    domain.ToMillis(domain.SortTime(item, ns.SortField)),
				Payload:    payload,
				CachedAt:   now,
				ExpiresAt:  ns.ExpiryFor(now),
			},
		}
		if i, dup := index[e.rec.PrimaryKey]; dup {
			out[i] = e
			continue
		}
		index[e.rec.PrimaryKey] = len(out)
		out = append(out, e)
	}

	slices.SortFunc(out, func(a, b entry[T]) int {
		return compareRecords(a.rec, b.rec)
	})
	return out, nil
}

func decode[T domain.Entity](ns domain.Namespace, rec domain.Record) (T, error) {
	var item T
	if err := json.Unmarshal(rec.Payload, &item); err != nil {
		return item, zerr.With(
			zerr.With(zerr.Wrap(err, domain.ErrPayloadDecodeFailed.Error()), "namespace", ns.Name),
			"primary_key", rec.PrimaryKey,
		)
	}
	return item, nil
}

// compareRecords orders by sort key descending, then primary key ascending.
func compareRecords(a, b domain.Record) int {
	if c := cmp.Compare(b.SortKey, a.SortKey); c != 0 {
		return c
	}
	return strings.Compare(a.PrimaryKey, b.PrimaryKey)
}

func recordsOf[T domain.Entity](entries []entry[T]) []domain.Record {
	out := make([]domain.Record, len(entries))
	for i, e := range entries {
		out[i] = e.rec
	}
	return out
}

func itemsOf[T domain.Entity](entries []entry[T]) []T {
	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.item
	}
	return out
}
