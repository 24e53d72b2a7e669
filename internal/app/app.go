// Package app assembles the entity cache: one accessor per namespace over a shared runtime.
package app

import (
	"context"
	"errors"

	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/mirror/internal/engine/accessor"
	"go.trai.ch/zerr"
)

// Cache is the entry point of the cache subsystem. Each field serves one namespace.
type Cache struct {
	Roles           *accessor.Accessor[domain.Role]
	Branches        *accessor.Accessor[domain.Branch]
	Files           *accessor.Accessor[domain.FileEntry]
	Comments        *accessor.Accessor[domain.Comment]
	CommentMetadata *accessor.Accessor[domain.CommentMetadata]
	ImageURLs       *accessor.Accessor[domain.ImageURLMapping]
	Profile         *accessor.Accessor[domain.UserProfile]
	Repos           *accessor.Accessor[domain.Repository]
	Missions        *accessor.Accessor[domain.Mission]
	Groups          *accessor.Accessor[domain.Group]
	Workspaces      *accessor.Accessor[domain.Workspace]
	Activity        *accessor.Accessor[domain.ActivityEvent]
	CodeActivity    *accessor.Accessor[domain.CodeActivity]

	catalog []domain.Namespace
	rt      *accessor.Runtime
	logger  ports.Logger
}

// New creates a Cache over catalog. Every catalog namespace needs a retriever.
func New(catalog []domain.Namespace, retrievers ports.Retrievers, rt *accessor.Runtime, logger ports.Logger) (*Cache, error) {
	byName := make(map[string]domain.Namespace, len(catalog))
	for _, ns := range catalog {
		byName[ns.Name] = ns
	}

	var missing []string
	lookup := func(name string) domain.Namespace {
		ns, ok := byName[name]
		if !ok {
			missing = append(missing, name)
		}
		return ns
	}

	c := &Cache{
		Roles:           accessor.New(lookup(domain.NamespaceRoles), retrievers.Roles, rt),
		Branches:        accessor.New(lookup(domain.NamespaceRepoBranches), retrievers.Branches, rt),
		Files:           accessor.New(lookup(domain.NamespaceRepoFiles), retrievers.Files, rt),
		Comments:        accessor.New(lookup(domain.NamespaceComments), retrievers.Comments, rt),
		CommentMetadata: accessor.New(lookup(domain.NamespaceCommentMetadata), retrievers.CommentMetadata, rt),
		ImageURLs:       accessor.New(lookup(domain.NamespaceImageURLMap), retrievers.ImageURLs, rt),
		Profile:         accessor.New(lookup(domain.NamespaceUserProfile), retrievers.Profile, rt),
		Repos:           accessor.New(lookup(domain.NamespaceUserRepos), retrievers.Repos, rt),
		Missions:        accessor.New(lookup(domain.NamespaceUserMissions), retrievers.Missions, rt),
		Groups:          accessor.New(lookup(domain.NamespaceUserGroups), retrievers.Groups, rt),
		Workspaces:      accessor.New(lookup(domain.NamespaceUserWorkspaces), retrievers.Workspaces, rt),
		Activity:        accessor.New(lookup(domain.NamespaceUserActivity), retrievers.Activity, rt),
		CodeActivity:    accessor.New(lookup(domain.NamespaceCodeActivity), retrievers.CodeActivity, rt),
		catalog:         catalog,
		rt:              rt,
		logger:          logger,
	}
	if len(missing) > 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownNamespace, "catalog is incomplete"), "missing", missing)
	}
	return c, nil
}

// Open prepares the store and sweeps expired rows. A store that cannot be opened
// degrades the cache to network-only operation instead of failing.
func (c *Cache) Open(ctx context.Context) error {
	store := c.rt.Store()
	if store == nil {
		return nil
	}

	if err := store.Open(ctx, c.catalog); err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) {
			c.rt.Degrade(err)
			return nil
		}
		return zerr.Wrap(err, "open entity store")
	}

	if _, err := c.SweepAll(ctx); err != nil {
		c.logger.Error(err)
	}
	return nil
}

// SweepAll removes every expired record of every namespace and returns how many were removed.
func (c *Cache) SweepAll(ctx context.Context) (int, error) {
	sweeper := c.rt.Sweeper()
	if sweeper == nil || c.rt.Degraded() {
		return 0, nil
	}
	return sweeper.SweepAll(ctx, c.catalog)
}

// WipeAll drops every cached record and freshness record.
func (c *Cache) WipeAll(ctx context.Context) error {
	store := c.rt.Store()
	if store == nil || c.rt.Degraded() {
		return nil
	}

	if err := store.WipeAll(ctx); err != nil {
		if errors.Is(err, domain.ErrStorageUnavailable) || errors.Is(err, domain.ErrStoreNotOpen) {
			c.rt.Degrade(err)
			return nil
		}
		return zerr.Wrap(err, "wipe entity store")
	}
	return nil
}

// Degraded reports whether the cache runs without its store.
func (c *Cache) Degraded() bool {
	return c.rt.Degraded()
}

// Close waits for background refreshes, then closes the store.
func (c *Cache) Close(ctx context.Context) error {
	var errs []error
	if err := c.rt.Scheduler().Close(ctx); err != nil {
		errs = append(errs, zerr.Wrap(err, "wait for background refreshes"))
	}
	if store := c.rt.Store(); store != nil {
		if err := store.Close(); err != nil {
			errs = append(errs, zerr.Wrap(err, "close entity store"))
		}
	}
	return errors.Join(errs...)
}
