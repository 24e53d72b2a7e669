package domain

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/zerr"
)

const (
	legacyGlobalEncoding = "*"
	ownerPartSeparator   = "/"
)

// OwnerKey is the tuple that scopes a record to its owning context, e.g. (repoPath, branch).
// The zero value is not a valid owner.
type OwnerKey struct {
	parts  []InternedString
	legacy bool
}

// LegacyGlobalOwner is the single explicit owner used by callers that predate owner scoping.
// It is unsafe once more than one owner's data is cached side by side and is only accepted
// by namespaces that opt in, through their dedicated legacy entry points.
var LegacyGlobalOwner = OwnerKey{legacy: true}

// NewOwnerKey creates an owner key from its ordered fragments.
func NewOwnerKey(parts ...string) OwnerKey {
	return OwnerKey{parts: NewInternedStrings(parts)}
}

// Parts returns a copy of the owner key fragments.
func (k OwnerKey) Parts() []string {
	out := make([]string, len(k.parts))
	for i, p := range k.parts {
		out[i] = p.String()
	}
	return out
}

// Part returns the fragment at position i, or an empty string when out of range.
func (k OwnerKey) Part(i int) string {
	if i < 0 || i >= len(k.parts) {
		return ""
	}
	return k.parts[i].String()
}

// Len returns the number of fragments.
func (k OwnerKey) Len() int {
	return len(k.parts)
}

// IsLegacyGlobal reports whether k is the legacy global sentinel.
func (k OwnerKey) IsLegacyGlobal() bool {
	return k.legacy
}

// IsZero reports whether k carries neither fragments nor the legacy marker.
func (k OwnerKey) IsZero() bool {
	return !k.legacy && len(k.parts) == 0
}

// Equal reports whether two owner keys denote the same owner.
func (k OwnerKey) Equal(o OwnerKey) bool {
	if k.legacy != o.legacy || len(k.parts) != len(o.parts) {
		return false
	}
	for i := range k.parts {
		if k.parts[i] != o.parts[i] {
			return false
		}
	}
	return true
}

// Encode returns the canonical storage form of the full tuple.
// Every fragment is quoted so that ("a/b", "c") and ("a", "b/c") never share an encoding.
func (k OwnerKey) Encode() string {
	if k.legacy {
		return legacyGlobalEncoding
	}
	quoted := make([]string, len(k.parts))
	for i, p := range k.parts {
		quoted[i] = strconv.Quote(p.String())
	}
	return strings.Join(quoted, ownerPartSeparator)
}

// String implements fmt.Stringer.
func (k OwnerKey) String() string {
	if k.legacy {
		return "<legacy-global>"
	}
	return "(" + strings.Join(k.Parts(), ", ") + ")"
}

// ParseOwnerKey decodes the output of OwnerKey.Encode.
func ParseOwnerKey(encoded string) (OwnerKey, error) {
	if encoded == legacyGlobalEncoding {
		return LegacyGlobalOwner, nil
	}
	if encoded == "" {
		return OwnerKey{}, nil
	}

	var parts []string
	rest := encoded
	for {
		prefix, err := strconv.QuotedPrefix(rest)
		if err != nil {
			return OwnerKey{}, zerr.With(zerr.Wrap(err, "malformed owner key"), "owner_key", encoded)
		}
		part, err := strconv.Unquote(prefix)
		if err != nil {
			return OwnerKey{}, zerr.With(zerr.Wrap(err, "malformed owner key"), "owner_key", encoded)
		}
		parts = append(parts, part)
		rest = rest[len(prefix):]
		if rest == "" {
			break
		}
		if !strings.HasPrefix(rest, ownerPartSeparator) {
			return OwnerKey{}, zerr.With(zerr.New("malformed owner key"), "owner_key", encoded)
		}
		rest = rest[len(ownerPartSeparator):]
	}
	return NewOwnerKey(parts...), nil
}

// FreshnessKey derives the key of the freshness record for (namespace, owner).
// The digest keeps keys short; stores keep the encoded owner alongside and compare it on read.
func FreshnessKey(namespace string, owner OwnerKey) string {
	return namespace + ":" + strconv.FormatUint(xxhash.Sum64String(owner.Encode()), 16)
}

// RecordKey derives the namespace-unique primary key of an entity owned by owner.
func RecordKey(owner OwnerKey, entityID string) string {
	return owner.Encode() + "#" + strconv.Quote(entityID)
}
