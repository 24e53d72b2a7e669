// Package freshness decides whether cached data may be served and whether it is due for a refresh.
package freshness

import (
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
)

// Tracker evaluates record expiry and freshness records against a clock.
type Tracker struct {
	clock clockwork.Clock
}

// NewTracker creates a Tracker. A nil clock means the real clock.
func NewTracker(clock clockwork.Clock) *Tracker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Tracker{clock: clock}
}

// Now returns the tracker's current time in UTC.
func (t *Tracker) Now() time.Time {
	return t.clock.Now().UTC()
}

// IsReadable reports whether rec may be served without a network round trip.
// Records without an expiry belong to collection-freshness namespaces and are always readable.
// ExpiresAt was stamped with the TTL in force at ingest; hardTTL is the current one, so a
// configuration override that shortens the TTL also retires rows cached before it.
func (t *Tracker) IsReadable(rec domain.Record, hardTTL time.Duration) bool {
	if rec.ExpiresAt.IsZero() {
		return true
	}
	now := t.Now()
	if rec.Expired(now) {
		return false
	}
	if hardTTL > 0 && !rec.CachedAt.IsZero() && !now.Before(rec.CachedAt.Add(hardTTL)) {
		return false
	}
	return true
}

// ShouldRevalidate reports whether (ns, owner) was last refreshed at least window ago.
// A missing freshness record, or one recorded for a different owner, means true.
func (t *Tracker) ShouldRevalidate(tx ports.Tx, ns domain.Namespace, owner domain.OwnerKey, window time.Duration) (bool, error) {
	rec, err := tx.GetFreshness(domain.FreshnessKey(ns.Name, owner))
	if err != nil {
		return false, err
	}
	if rec == nil || rec.Namespace != ns.Name || !rec.Owner.Equal(owner) {
		return true, nil
	}
	return t.Now().Sub(rec.LastUpdated) >= window, nil
}

// Touch records a successful refresh of (ns, owner) that left count items cached.
func (t *Tracker) Touch(tx ports.Tx, ns domain.Namespace, owner domain.OwnerKey, count int) error {
	return tx.PutFreshness(domain.FreshnessRecord{
		Key:         domain.FreshnessKey(ns.Name, owner),
		Namespace:   ns.Name,
		Owner:       owner,
		LastUpdated: t.Now(),
		ItemCount:   count,
	})
}

// Forget drops the freshness record of (ns, owner).
func (t *Tracker) Forget(tx ports.Tx, ns domain.Namespace, owner domain.OwnerKey) error {
	return tx.DeleteFreshness(domain.FreshnessKey(ns.Name, owner))
}
