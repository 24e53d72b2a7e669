package domain

import (
	"strings"
	"time"

	"go.trai.ch/zerr"
)

// ConsistencyMode selects how a namespace decides whether cached data is still valid.
type ConsistencyMode uint8

const (
	// ItemTTL namespaces stamp every record with its own expiry.
	ItemTTL ConsistencyMode = iota + 1
	// CollectionFreshness namespaces track validity per owner in freshness records.
	CollectionFreshness
)

// String returns the declaration name of the mode.
func (m ConsistencyMode) String() string {
	switch m {
	case ItemTTL:
		return "ITEM_TTL"
	case CollectionFreshness:
		return "COLLECTION_FRESHNESS"
	default:
		return "UNKNOWN"
	}
}

// SortField is the canonical, per-namespace ordering field. Results are sorted descending on it.
type SortField uint8

const (
	// SortByUpdated orders by the entity's last update time.
	SortByUpdated SortField = iota + 1
	// SortByCreated orders by the entity's creation time.
	SortByCreated
)

// String returns the column name used for the field.
func (f SortField) String() string {
	switch f {
	case SortByUpdated:
		return "updated_at"
	case SortByCreated:
		return "created_at"
	default:
		return "unknown"
	}
}

// IndexName names a secondary index of a namespace.
type IndexName string

const (
	// IndexOwner is the owner-tuple index every namespace declares.
	IndexOwner IndexName = "owner"
	// IndexExpiry is the expiry index ITEM_TTL namespaces declare for the sweep.
	IndexExpiry IndexName = "expiry"
)

const (
	// DefaultThrottleWindow is the minimum gap between background revalidations for one owner.
	DefaultThrottleWindow = 5 * time.Minute

	// DefaultStaleAfter is the validity window of collection-freshness namespaces.
	DefaultStaleAfter = time.Hour

	// DefaultFetchSize is the page size requested from retrievers; owner sets are small enough
	// to be fetched whole and paginated locally.
	DefaultFetchSize = 100

	// MaxFetchSize is the largest page the platform serves. A larger request comes back short
	// and would end a paged retrieval early.
	MaxFetchSize = 100
)

// RefreshPolicy is the static refresh configuration of a namespace.
type RefreshPolicy struct {
	// HardTTL is the per-record lifetime of ITEM_TTL namespaces.
	HardTTL time.Duration `yaml:"hard_ttl"`
	// ThrottleWindow is the minimum gap between background revalidations.
	ThrottleWindow time.Duration `yaml:"throttle_window"`
	// StaleAfter is the validity window of collection-freshness namespaces.
	StaleAfter time.Duration `yaml:"stale_after"`
	// FetchSize is the page size passed to the retriever.
	FetchSize int `yaml:"fetch_size"`
}

// RevalidateAfter returns the minimum age of a freshness record before a cache hit
// schedules a background refresh.
func (p RefreshPolicy) RevalidateAfter() time.Duration {
	return max(p.ThrottleWindow, p.StaleAfter)
}

// Merge returns p with every non-zero field of o applied on top.
func (p RefreshPolicy) Merge(o RefreshPolicy) RefreshPolicy {
	if o.HardTTL > 0 {
		p.HardTTL = o.HardTTL
	}
	if o.ThrottleWindow > 0 {
		p.ThrottleWindow = o.ThrottleWindow
	}
	if o.StaleAfter > 0 {
		p.StaleAfter = o.StaleAfter
	}
	if o.FetchSize > 0 {
		p.FetchSize = o.FetchSize
	}
	return p
}

// Namespace is the static declaration of one entity kind's logical collection.
type Namespace struct {
	// Name is the namespace identifier, e.g. "repo-files".
	Name string
	// Version is bumped whenever the declaration gains an index; stores migrate additively.
	Version int
	// OwnerFields names the fragments of the owner tuple, in order.
	OwnerFields []string
	Mode        ConsistencyMode
	SortField   SortField
	Policy      RefreshPolicy
	// AllowLegacyGlobal marks namespaces retrofitted with owner scoping.
	AllowLegacyGlobal bool
}

// Indexes returns the secondary indices of the namespace.
func (n Namespace) Indexes() []IndexName {
	if n.Mode == ItemTTL {
		return []IndexName{IndexOwner, IndexExpiry}
	}
	return []IndexName{IndexOwner}
}

// HasIndex reports whether the namespace declares idx.
func (n Namespace) HasIndex(idx IndexName) bool {
	for _, i := range n.Indexes() {
		if i == idx {
			return true
		}
	}
	return false
}

// Table returns the storage table name of the namespace.
func (n Namespace) Table() string {
	return "ns_" + strings.ReplaceAll(n.Name, "-", "_")
}

// WithPolicy returns a copy of n with the policy override applied.
func (n Namespace) WithPolicy(o RefreshPolicy) Namespace {
	n.Policy = n.Policy.Merge(o)
	return n
}

// ExpiryFor returns the expiry to stamp on a record cached at now, or the zero time
// for collection-freshness namespaces.
func (n Namespace) ExpiryFor(now time.Time) time.Time {
	if n.Mode != ItemTTL {
		return time.Time{}
	}
	return now.Add(n.Policy.HardTTL)
}

// Validate checks the declaration for internal consistency.
func (n Namespace) Validate() error {
	invalid := func(reason string) error {
		return zerr.With(zerr.Wrap(ErrInvalidNamespace, reason), "namespace", n.Name)
	}

	switch {
	case n.Name == "":
		return invalid("name is required")
	case n.Version < 1:
		return invalid("version must be at least 1")
	case len(n.OwnerFields) == 0:
		return invalid("at least one owner field is required")
	case n.Mode != ItemTTL && n.Mode != CollectionFreshness:
		return invalid("unknown consistency mode")
	case n.SortField != SortByUpdated && n.SortField != SortByCreated:
		return invalid("unknown sort field")
	case n.Mode == ItemTTL && n.Policy.HardTTL <= 0:
		return invalid("ITEM_TTL namespaces require a hard TTL")
	case n.Policy.ThrottleWindow <= 0:
		return invalid("throttle window must be positive")
	case n.Policy.FetchSize <= 0:
		return invalid("fetch size must be positive")
	case n.Policy.FetchSize > MaxFetchSize:
		return invalid("fetch size exceeds the platform page limit")
	}
	return nil
}
