package platform

import (
	"context"
	"path"

	"github.com/google/go-github/v67/github"
	"go.trai.ch/mirror/internal/core/domain"
)

func listOptions(page, pageSize int) github.ListOptions {
	page, pageSize = domain.NormalizePage(page, pageSize)
	return github.ListOptions{Page: page, PerPage: pageSize}
}

// Branches lists the branches of a (repoPath) owner.
func (p *Platform) Branches(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.Branch, error) {
	login, name, err := repoOwner(owner, 1)
	if err != nil {
		return nil, err
	}

	branches, resp, err := p.client.Repositories.ListBranches(ctx, login, name, &github.BranchListOptions{
		ListOptions: listOptions(page, pageSize),
	})
	if err != nil {
		return nil, wrapError(err, resp, "list branches")
	}

	out := make([]domain.Branch, 0, len(branches))
	for _, b := range branches {
		out = append(out, domain.Branch{
			Name:      b.GetName(),
			CommitSHA: b.GetCommit().GetSHA(),
			Protected: b.GetProtected(),
			UpdatedAt: b.GetCommit().GetCommit().GetCommitter().GetDate().Time,
		})
	}
	return out, nil
}

// Files lists every blob and tree on the branch of a (repoPath, branch) owner.
// The tree endpoint is not paginated, so pages are cut locally.
func (p *Platform) Files(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.FileEntry, error) {
	login, name, err := repoOwner(owner, 2)
	if err != nil {
		return nil, err
	}
	branch := owner.Part(1)
	if branch == "" {
		return nil, invalidOwner(owner, "branch is required")
	}

	tree, resp, err := p.client.Git.GetTree(ctx, login, name, branch, true)
	if err != nil {
		return nil, wrapError(err, resp, "get tree")
	}

	entries := make([]domain.FileEntry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		entries = append(entries, domain.FileEntry{
			Path: e.GetPath(),
			Name: path.Base(e.GetPath()),
			Type: e.GetType(),
			Size: e.GetSize(),
			SHA:  e.GetSHA(),
		})
	}
	return domain.Paginate(entries, page, pageSize).Items, nil
}

// Comments lists the comments of a (repoPath, issueNumber) owner, newest first.
func (p *Platform) Comments(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.Comment, error) {
	login, name, number, err := issueOwner(owner)
	if err != nil {
		return nil, err
	}

	comments, resp, err := p.client.Issues.ListComments(ctx, login, name, number, &github.IssueListCommentsOptions{
		Sort:        github.String("created"),
		Direction:   github.String("desc"),
		ListOptions: listOptions(page, pageSize),
	})
	if err != nil {
		return nil, wrapError(err, resp, "list comments")
	}

	out := make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		out = append(out, domain.Comment{
			ID:        c.GetID(),
			Body:      c.GetBody(),
			Author:    c.GetUser().GetLogin(),
			AvatarURL: c.GetUser().GetAvatarURL(),
			HTMLURL:   c.GetHTMLURL(),
			CreatedAt: c.GetCreatedAt().Time,
			UpdatedAt: c.GetUpdatedAt().Time,
		})
	}
	return out, nil
}

// CommentMetadata returns the thread summary of a (repoPath, issueNumber) owner as a one-item set.
func (p *Platform) CommentMetadata(ctx context.Context, owner domain.OwnerKey, page, _ int) ([]domain.CommentMetadata, error) {
	login, name, number, err := issueOwner(owner)
	if err != nil {
		return nil, err
	}
	if page > 1 {
		return nil, nil
	}

	issue, resp, err := p.client.Issues.Get(ctx, login, name, number)
	if err != nil {
		return nil, wrapError(err, resp, "get issue")
	}

	return []domain.CommentMetadata{{
		IssueNumber:   issue.GetNumber(),
		Title:         issue.GetTitle(),
		State:         issue.GetState(),
		CommentCount:  issue.GetComments(),
		LastCommentAt: issue.GetUpdatedAt().Time,
		UpdatedAt:     issue.GetUpdatedAt().Time,
	}}, nil
}
