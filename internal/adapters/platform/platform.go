package platform

import (
	"github.com/google/go-github/v67/github"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
)

// Platform implements the retriever of every entity kind on one API client.
type Platform struct {
	client *github.Client
	// codeActivityRepos bounds how many recently pushed repositories feed the code-activity summary.
	codeActivityRepos int
}

// DefaultCodeActivityRepos is the number of repositories summarized for code activity.
const DefaultCodeActivityRepos = 5

// New creates a Platform on client.
func New(client *github.Client) *Platform {
	return &Platform{client: client, codeActivityRepos: DefaultCodeActivityRepos}
}

// Retrievers returns the retriever bundle consumed by the cache.
func (p *Platform) Retrievers() ports.Retrievers {
	return ports.Retrievers{
		Roles:           ports.RetrieverFunc[domain.Role](p.Roles),
		Branches:        ports.RetrieverFunc[domain.Branch](p.Branches),
		Files:           ports.RetrieverFunc[domain.FileEntry](p.Files),
		Comments:        ports.RetrieverFunc[domain.Comment](p.Comments),
		CommentMetadata: ports.RetrieverFunc[domain.CommentMetadata](p.CommentMetadata),
		ImageURLs:       ports.RetrieverFunc[domain.ImageURLMapping](p.ImageURLs),
		Profile:         ports.RetrieverFunc[domain.UserProfile](p.Profile),
		Repos:           ports.RetrieverFunc[domain.Repository](p.Repos),
		Missions:        ports.RetrieverFunc[domain.Mission](p.Missions),
		Groups:          ports.RetrieverFunc[domain.Group](p.Groups),
		Workspaces:      ports.RetrieverFunc[domain.Workspace](p.Workspaces),
		Activity:        ports.RetrieverFunc[domain.ActivityEvent](p.Activity),
		CodeActivity:    ports.RetrieverFunc[domain.CodeActivity](p.CodeActivity),
	}
}
