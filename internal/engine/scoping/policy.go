// Package scoping enforces that every cache access names one complete owner tuple.
package scoping

import (
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/zerr"
)

// Check validates owner for ns. The legacy global owner is rejected here; it is only
// accepted through CheckLegacy.
func Check(ns domain.Namespace, owner domain.OwnerKey) error {
	violation := func(reason string) error {
		return zerr.With(
			zerr.With(zerr.Wrap(domain.ErrOwnerScopeViolation, reason), "namespace", ns.Name),
			"owner", owner.String(),
		)
	}

	switch {
	case owner.IsLegacyGlobal():
		return violation("legacy global owner requires the legacy entry point")
	case owner.IsZero():
		return violation("owner key is required")
	case owner.Len() != len(ns.OwnerFields):
		return zerr.With(violation("owner tuple does not match the namespace"), "owner_fields", ns.OwnerFields)
	}

	for i, field := range ns.OwnerFields {
		if owner.Part(i) == "" {
			return zerr.With(violation("owner fragment is empty"), "field", field)
		}
	}
	return nil
}

// CheckLegacy validates that ns accepts the legacy global owner.
func CheckLegacy(ns domain.Namespace) error {
	if !ns.AllowLegacyGlobal {
		return zerr.With(zerr.Wrap(domain.ErrLegacyOwnerNotAllowed, "legacy access rejected"), "namespace", ns.Name)
	}
	return nil
}
