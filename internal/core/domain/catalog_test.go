package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mirror/internal/core/domain"
)

func TestCatalog_IsValid(t *testing.T) {
	seen := make(map[string]bool)
	for _, ns := range domain.Catalog() {
		require.NoError(t, ns.Validate(), ns.Name)
		assert.False(t, seen[ns.Name], "duplicate namespace %s", ns.Name)
		seen[ns.Name] = true

		assert.True(t, ns.HasIndex(domain.IndexOwner), ns.Name)
		assert.Equal(t, ns.Mode == domain.ItemTTL, ns.HasIndex(domain.IndexExpiry), ns.Name)
	}
	assert.Len(t, seen, 13)
}

func TestCatalog_Policies(t *testing.T) {
	tests := []struct {
		name            string
		mode            domain.ConsistencyMode
		revalidateAfter time.Duration
		legacy          bool
	}{
		{domain.NamespaceRoles, domain.ItemTTL, domain.DefaultThrottleWindow, true},
		{domain.NamespaceRepoFiles, domain.ItemTTL, domain.DefaultThrottleWindow, false},
		{domain.NamespaceImageURLMap, domain.ItemTTL, domain.DefaultThrottleWindow, true},
		{domain.NamespaceComments, domain.CollectionFreshness, 6 * time.Minute, false},
		{domain.NamespaceUserRepos, domain.CollectionFreshness, time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, err := domain.LookupNamespace(tt.name)
			require.NoError(t, err)
			assert.Equal(t, tt.mode, ns.Mode)
			assert.Equal(t, tt.revalidateAfter, ns.Policy.RevalidateAfter())
			assert.Equal(t, tt.legacy, ns.AllowLegacyGlobal)
		})
	}
}

func TestLookupNamespace_Unknown(t *testing.T) {
	_, err := domain.LookupNamespace("nope")
	assert.ErrorIs(t, err, domain.ErrUnknownNamespace)
}

func TestApplyOverrides(t *testing.T) {
	out, err := domain.ApplyOverrides(domain.Catalog(), map[string]domain.RefreshPolicy{
		domain.NamespaceRepoFiles: {HardTTL: 10 * time.Minute, FetchSize: 50},
	})
	require.NoError(t, err)

	files, err := domain.LookupNamespace(domain.NamespaceRepoFiles)
	require.NoError(t, err)
	assert.Equal(t, domain.ListingTTL, files.Policy.HardTTL, "the static catalog is untouched")

	for _, ns := range out {
		if ns.Name == domain.NamespaceRepoFiles {
			assert.Equal(t, 10*time.Minute, ns.Policy.HardTTL)
			assert.Equal(t, 50, ns.Policy.FetchSize)
			assert.Equal(t, domain.DefaultThrottleWindow, ns.Policy.ThrottleWindow)
		}
	}

	_, err = domain.ApplyOverrides(domain.Catalog(), map[string]domain.RefreshPolicy{"nope": {}})
	assert.ErrorIs(t, err, domain.ErrUnknownNamespace)
}

func TestNamespace_Validate(t *testing.T) {
	valid, err := domain.LookupNamespace(domain.NamespaceRoles)
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*domain.Namespace)
	}{
		{"no name", func(n *domain.Namespace) { n.Name = "" }},
		{"no version", func(n *domain.Namespace) { n.Version = 0 }},
		{"no owner fields", func(n *domain.Namespace) { n.OwnerFields = nil }},
		{"unknown mode", func(n *domain.Namespace) { n.Mode = 0 }},
		{"unknown sort", func(n *domain.Namespace) { n.SortField = 0 }},
		{"ttl without hard ttl", func(n *domain.Namespace) { n.Policy.HardTTL = 0 }},
		{"no throttle", func(n *domain.Namespace) { n.Policy.ThrottleWindow = 0 }},
		{"no fetch size", func(n *domain.Namespace) { n.Policy.FetchSize = 0 }},
		{"fetch size above platform limit", func(n *domain.Namespace) { n.Policy.FetchSize = domain.MaxFetchSize + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns := valid
			ns.OwnerFields = append([]string(nil), valid.OwnerFields...)
			tt.mutate(&ns)
			assert.ErrorIs(t, ns.Validate(), domain.ErrInvalidNamespace)
		})
	}
}

func TestNamespace_ExpiryFor(t *testing.T) {
	now := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)

	roles, err := domain.LookupNamespace(domain.NamespaceRoles)
	require.NoError(t, err)
	assert.Equal(t, now.Add(domain.RoleTTL), roles.ExpiryFor(now))

	comments, err := domain.LookupNamespace(domain.NamespaceComments)
	require.NoError(t, err)
	assert.True(t, comments.ExpiryFor(now).IsZero())
	assert.Equal(t, "ns_comment_metadata", mustLookup(t, domain.NamespaceCommentMetadata).Table())
}

func mustLookup(t *testing.T, name string) domain.Namespace {
	t.Helper()
	ns, err := domain.LookupNamespace(name)
	require.NoError(t, err)
	return ns
}
