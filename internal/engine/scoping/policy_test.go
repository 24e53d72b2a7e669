package scoping_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/engine/scoping"
)

func lookup(t *testing.T, name string) domain.Namespace {
	t.Helper()
	ns, err := domain.LookupNamespace(name)
	require.NoError(t, err)
	return ns
}

func TestCheck(t *testing.T) {
	files := lookup(t, domain.NamespaceRepoFiles)

	tests := []struct {
		name  string
		owner domain.OwnerKey
		ok    bool
	}{
		{name: "complete tuple", owner: domain.NewOwnerKey("acme/site", "main"), ok: true},
		{name: "prefix of the tuple", owner: domain.NewOwnerKey("acme/site")},
		{name: "longer than the tuple", owner: domain.NewOwnerKey("acme/site", "main", "extra")},
		{name: "empty fragment", owner: domain.NewOwnerKey("acme/site", "")},
		{name: "zero owner", owner: domain.OwnerKey{}},
		{name: "legacy global", owner: domain.LegacyGlobalOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := scoping.Check(files, tt.owner)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrOwnerScopeViolation)
		})
	}
}

func TestCheck_LegacyRejectedEvenWhenAllowed(t *testing.T) {
	roles := lookup(t, domain.NamespaceRoles)
	require.True(t, roles.AllowLegacyGlobal)

	assert.ErrorIs(t, scoping.Check(roles, domain.LegacyGlobalOwner), domain.ErrOwnerScopeViolation)
}

func TestCheckLegacy(t *testing.T) {
	assert.NoError(t, scoping.CheckLegacy(lookup(t, domain.NamespaceRoles)))
	assert.NoError(t, scoping.CheckLegacy(lookup(t, domain.NamespaceImageURLMap)))
	assert.ErrorIs(t, scoping.CheckLegacy(lookup(t, domain.NamespaceComments)), domain.ErrLegacyOwnerNotAllowed)
}
