package platform

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.trai.ch/mirror/internal/core/domain"
)

// Endpoints outside the standard REST surface.
const (
	rolesPath          = "roles"
	userRolesPath      = "users/%s/roles"
	userMissionsPath   = "users/%s/missions"
	userWorkspacesPath = "users/%s/workspaces"
	imageURLsPath      = "image-urls"
	repoImageURLsPath  = "repos/%s/%s/image-urls"
)

// list issues a paginated GET against a platform-specific endpoint and decodes a JSON array.
func list[T any](ctx context.Context, p *Platform, endpoint string, page, pageSize int, what string) ([]T, error) {
	opts := listOptions(page, pageSize)
	q := url.Values{}
	q.Set("page", fmt.Sprint(opts.Page))
	q.Set("per_page", fmt.Sprint(opts.PerPage))

	req, err := p.client.NewRequest(http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, wrapError(err, nil, "build "+what+" request")
	}

	var out []T
	resp, err := p.client.Do(ctx, req, &out)
	if err != nil {
		return nil, wrapError(err, resp, "list "+what)
	}
	return out, nil
}

// Roles lists the role pack of a (userId) owner, or the shared pack for the legacy global owner.
func (p *Platform) Roles(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.Role, error) {
	endpoint := rolesPath
	if !owner.IsLegacyGlobal() {
		user, err := userOwner(owner)
		if err != nil {
			return nil, err
		}
		endpoint = fmt.Sprintf(userRolesPath, url.PathEscape(user))
	}
	return list[domain.Role](ctx, p, endpoint, page, pageSize, "roles")
}

// Missions lists the task board cards of a (userId) owner.
func (p *Platform) Missions(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.Mission, error) {
	user, err := userOwner(owner)
	if err != nil {
		return nil, err
	}
	return list[domain.Mission](ctx, p, fmt.Sprintf(userMissionsPath, url.PathEscape(user)), page, pageSize, "missions")
}

// Workspaces lists the workspaces of a (userId) owner.
func (p *Platform) Workspaces(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.Workspace, error) {
	user, err := userOwner(owner)
	if err != nil {
		return nil, err
	}
	return list[domain.Workspace](ctx, p, fmt.Sprintf(userWorkspacesPath, url.PathEscape(user)), page, pageSize, "workspaces")
}

// ImageURLs lists the image rewrites of a (repoPath) owner, or the shared map for the legacy global owner.
func (p *Platform) ImageURLs(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.ImageURLMapping, error) {
	endpoint := imageURLsPath
	if !owner.IsLegacyGlobal() {
		login, name, err := repoOwner(owner, 1)
		if err != nil {
			return nil, err
		}
		endpoint = fmt.Sprintf(repoImageURLsPath, url.PathEscape(login), url.PathEscape(name))
	}
	return list[domain.ImageURLMapping](ctx, p, endpoint, page, pageSize, "image URLs")
}
