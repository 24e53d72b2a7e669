package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// Namespace names.
const (
	NamespaceRoles           = "roles"
	NamespaceRepoBranches    = "repo-branches"
	NamespaceRepoFiles       = "repo-files"
	NamespaceComments        = "comments"
	NamespaceCommentMetadata = "comment-metadata"
	NamespaceImageURLMap     = "image-url-map"
	NamespaceUserProfile     = "user-profile"
	NamespaceUserRepos       = "user-repos"
	NamespaceUserMissions    = "user-missions"
	NamespaceUserGroups      = "user-groups"
	NamespaceUserWorkspaces  = "user-workspaces"
	NamespaceUserActivity    = "user-activity"
	NamespaceCodeActivity    = "code-activity"
)

// Owner field names.
const (
	OwnerFieldUserID      = "userId"
	OwnerFieldRepoPath    = "repoPath"
	OwnerFieldBranch      = "branch"
	OwnerFieldIssueNumber = "issueNumber"
)

const (
	// RoleTTL is the lifetime of cached role definitions.
	RoleTTL = 30 * time.Minute
	// ListingTTL is the lifetime of cached branch and file listings.
	ListingTTL = 60 * time.Minute
	// ImageURLTTL is the lifetime of cached image URL rewrites.
	ImageURLTTL = 24 * time.Hour

	// CommentStaleAfter is six minutes, not an hour like its siblings: the comment cache's
	// "hours since update" check divides elapsed milliseconds by 360000.
	// Kept literal until the intended window is confirmed.
	CommentStaleAfter = 360000 * time.Millisecond
)

func itemTTLPolicy(ttl time.Duration) RefreshPolicy {
	return RefreshPolicy{
		HardTTL:        ttl,
		ThrottleWindow: DefaultThrottleWindow,
		FetchSize:      DefaultFetchSize,
	}
}

func collectionPolicy(staleAfter time.Duration) RefreshPolicy {
	return RefreshPolicy{
		ThrottleWindow: DefaultThrottleWindow,
		StaleAfter:     staleAfter,
		FetchSize:      DefaultFetchSize,
	}
}

// Catalog returns the declarations of every namespace, in schema order.
// Appending is the only safe edit: stores migrate additively in this order.
func Catalog() []Namespace {
	return []Namespace{
		{
			Name:              NamespaceRoles,
			Version:           1,
			OwnerFields:       []string{OwnerFieldUserID},
			Mode:              ItemTTL,
			SortField:         SortByUpdated,
			Policy:            itemTTLPolicy(RoleTTL),
			AllowLegacyGlobal: true,
		},
		{
			Name:        NamespaceRepoBranches,
			Version:     1,
			OwnerFields: []string{OwnerFieldRepoPath},
			Mode:        ItemTTL,
			SortField:   SortByUpdated,
			Policy:      itemTTLPolicy(ListingTTL),
		},
		{
			Name:        NamespaceRepoFiles,
			Version:     1,
			OwnerFields: []string{OwnerFieldRepoPath, OwnerFieldBranch},
			Mode:        ItemTTL,
			SortField:   SortByUpdated,
			Policy:      itemTTLPolicy(ListingTTL),
		},
		{
			Name:        NamespaceComments,
			Version:     1,
			OwnerFields: []string{OwnerFieldRepoPath, OwnerFieldIssueNumber},
			Mode:        CollectionFreshness,
			SortField:   SortByCreated,
			Policy:      collectionPolicy(CommentStaleAfter),
		},
		{
			Name:        NamespaceCommentMetadata,
			Version:     1,
			OwnerFields: []string{OwnerFieldRepoPath, OwnerFieldIssueNumber},
			Mode:        CollectionFreshness,
			SortField:   SortByUpdated,
			Policy:      collectionPolicy(DefaultStaleAfter),
		},
		{
			Name:              NamespaceImageURLMap,
			Version:           1,
			OwnerFields:       []string{OwnerFieldRepoPath},
			Mode:              ItemTTL,
			SortField:         SortByCreated,
			Policy:            itemTTLPolicy(ImageURLTTL),
			AllowLegacyGlobal: true,
		},
		{
			Name:        NamespaceUserProfile,
			Version:     1,
			OwnerFields: []string{OwnerFieldUserID},
			Mode:        CollectionFreshness,
			SortField:   SortByUpdated,
			Policy:      collectionPolicy(DefaultStaleAfter),
		},
		{
			Name:        NamespaceUserRepos,
			Version:     1,
			OwnerFields: []string{OwnerFieldUserID},
			Mode:        CollectionFreshness,
			SortField:   SortByUpdated,
			Policy:      collectionPolicy(DefaultStaleAfter),
		},
		{
			Name:        NamespaceUserMissions,
			Version:     1,
			OwnerFields: []string{OwnerFieldUserID},
			Mode:        CollectionFreshness,
			SortField:   SortByUpdated,
			Policy:      collectionPolicy(DefaultStaleAfter),
		},
		{
			Name:        NamespaceUserGroups,
			Version:     1,
			OwnerFields: []string{OwnerFieldUserID},
			Mode:        CollectionFreshness,
			SortField:   SortByCreated,
			Policy:      collectionPolicy(DefaultStaleAfter),
		},
		{
			Name:        NamespaceUserWorkspaces,
			Version:     1,
			OwnerFields: []string{OwnerFieldUserID},
			Mode:        CollectionFreshness,
			SortField:   SortByUpdated,
			Policy:      collectionPolicy(DefaultStaleAfter),
		},
		{
			Name:        NamespaceUserActivity,
			Version:     1,
			OwnerFields: []string{OwnerFieldUserID},
			Mode:        CollectionFreshness,
			SortField:   SortByCreated,
			Policy:      collectionPolicy(DefaultStaleAfter),
		},
		{
			Name:        NamespaceCodeActivity,
			Version:     1,
			OwnerFields: []string{OwnerFieldUserID},
			Mode:        CollectionFreshness,
			SortField:   SortByCreated,
			Policy:      collectionPolicy(DefaultStaleAfter),
		},
	}
}

// LookupNamespace returns the declaration of the named namespace.
func LookupNamespace(name string) (Namespace, error) {
	for _, ns := range Catalog() {
		if ns.Name == name {
			return ns, nil
		}
	}
	return Namespace{}, zerr.With(zerr.Wrap(ErrUnknownNamespace, "lookup failed"), "namespace", name)
}

// ApplyOverrides returns the catalog with per-namespace policy overrides applied.
func ApplyOverrides(catalog []Namespace, overrides map[string]RefreshPolicy) ([]Namespace, error) {
	out := make([]Namespace, len(catalog))
	copy(out, catalog)

	for name, o := range overrides {
		found := false
		for i := range out {
			if out[i].Name == name {
				out[i] = out[i].WithPolicy(o)
				found = true
				break
			}
		}
		if !found {
			return nil, zerr.With(zerr.Wrap(ErrUnknownNamespace, "policy override"), "namespace", name)
		}
	}

	for _, ns := range out {
		if err := ns.Validate(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
