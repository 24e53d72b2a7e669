package domain

import "time"

// Record is one cached entity instance plus its bookkeeping fields.
type Record struct {
	PrimaryKey string
	Owner      OwnerKey
	// SortKey is the namespace's canonical sort field in Unix milliseconds.
	SortKey  int64
	Payload  []byte
	CachedAt time.Time
	// ExpiresAt is zero for collection-freshness namespaces.
	ExpiresAt time.Time
}

// Expired reports whether the record is logically absent at now.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.IsZero() && !now.Before(r.ExpiresAt)
}

// FreshnessRecord tracks the last successful refresh of one (namespace, owner).
type FreshnessRecord struct {
	Key         string
	Namespace   string
	Owner       OwnerKey
	LastUpdated time.Time
	ItemCount   int
}

// IndexQuery selects rows of a secondary index by exact value or by an inclusive range.
type IndexQuery struct {
	Index IndexName
	// Value is matched exactly when Range is false.
	Value string
	// From and To bound a range query, inclusive, in Unix milliseconds.
	From, To int64
	Range    bool
}

// OwnerEquals selects the rows of exactly one owner tuple.
func OwnerEquals(owner OwnerKey) IndexQuery {
	return IndexQuery{Index: IndexOwner, Value: owner.Encode()}
}

// ExpiredBy selects every row whose expiry lies between the epoch and now, inclusive.
func ExpiredBy(now time.Time) IndexQuery {
	return IndexQuery{Index: IndexExpiry, From: 0, To: now.UnixMilli(), Range: true}
}

// ToMillis converts a time to the storage representation.
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UTC().UnixMilli()
}

// FromMillis converts the storage representation back to a time.
func FromMillis(v int64) time.Time {
	if v == 0 {
		return time.Time{}
	}
	return time.UnixMilli(v).UTC()
}
