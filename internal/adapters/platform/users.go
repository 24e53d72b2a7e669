package platform

import (
	"context"
	"errors"
	"time"

	"github.com/google/go-github/v67/github"
	"go.trai.ch/mirror/internal/core/domain"
)

// Profile returns the profile of a (userId) owner as a one-item set.
func (p *Platform) Profile(ctx context.Context, owner domain.OwnerKey, page, _ int) ([]domain.UserProfile, error) {
	login, err := userOwner(owner)
	if err != nil {
		return nil, err
	}
	if page > 1 {
		return nil, nil
	}

	user, resp, err := p.client.Users.Get(ctx, login)
	if err != nil {
		return nil, wrapError(err, resp, "get user")
	}

	return []domain.UserProfile{{
		ID:          user.GetID(),
		Login:       user.GetLogin(),
		Name:        user.GetName(),
		AvatarURL:   user.GetAvatarURL(),
		Bio:         user.GetBio(),
		Company:     user.GetCompany(),
		Location:    user.GetLocation(),
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		PublicRepos: user.GetPublicRepos(),
		CreatedAt:   user.GetCreatedAt().Time,
		UpdatedAt:   user.GetUpdatedAt().Time,
	}}, nil
}

// Repos lists the repositories of a (userId) owner, most recently updated first.
func (p *Platform) Repos(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.Repository, error) {
	login, err := userOwner(owner)
	if err != nil {
		return nil, err
	}

	repos, resp, err := p.client.Repositories.ListByUser(ctx, login, &github.RepositoryListByUserOptions{
		Sort:        "updated",
		ListOptions: listOptions(page, pageSize),
	})
	if err != nil {
		return nil, wrapError(err, resp, "list repositories")
	}

	out := make([]domain.Repository, 0, len(repos))
	for _, r := range repos {
		out = append(out, convertRepository(r))
	}
	return out, nil
}

func convertRepository(r *github.Repository) domain.Repository {
	return domain.Repository{
		ID:            r.GetID(),
		FullName:      r.GetFullName(),
		Name:          r.GetName(),
		Description:   r.GetDescription(),
		Private:       r.GetPrivate(),
		Fork:          r.GetFork(),
		DefaultBranch: r.GetDefaultBranch(),
		Language:      r.GetLanguage(),
		Stars:         r.GetStargazersCount(),
		HTMLURL:       r.GetHTMLURL(),
		CreatedAt:     r.GetCreatedAt().Time,
		UpdatedAt:     r.GetUpdatedAt().Time,
	}
}

// Groups lists the organizations of a (userId) owner.
func (p *Platform) Groups(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.Group, error) {
	login, err := userOwner(owner)
	if err != nil {
		return nil, err
	}

	opts := listOptions(page, pageSize)
	orgs, resp, err := p.client.Organizations.List(ctx, login, &opts)
	if err != nil {
		return nil, wrapError(err, resp, "list organizations")
	}

	out := make([]domain.Group, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, domain.Group{
			ID:          o.GetID(),
			Login:       o.GetLogin(),
			Description: o.GetDescription(),
			AvatarURL:   o.GetAvatarURL(),
			CreatedAt:   o.GetCreatedAt().Time,
		})
	}
	return out, nil
}

// Activity lists the events performed by a (userId) owner.
func (p *Platform) Activity(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.ActivityEvent, error) {
	login, err := userOwner(owner)
	if err != nil {
		return nil, err
	}

	opts := listOptions(page, pageSize)
	events, resp, err := p.client.Activity.ListEventsPerformedByUser(ctx, login, false, &opts)
	if err != nil {
		return nil, wrapError(err, resp, "list events")
	}

	out := make([]domain.ActivityEvent, 0, len(events))
	for _, e := range events {
		out = append(out, domain.ActivityEvent{
			ID:        e.GetID(),
			Type:      e.GetType(),
			Repo:      e.GetRepo().GetName(),
			Actor:     e.GetActor().GetLogin(),
			Public:    e.GetPublic(),
			CreatedAt: e.GetCreatedAt().Time,
		})
	}
	return out, nil
}

// CodeActivity summarizes the weekly commits of the owner's most recently pushed repositories.
// Weeks without commits are left out. Repositories whose statistics are still being computed
// by the platform contribute nothing until a later refresh.
func (p *Platform) CodeActivity(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]domain.CodeActivity, error) {
	login, err := userOwner(owner)
	if err != nil {
		return nil, err
	}

	repos, resp, err := p.client.Repositories.ListByUser(ctx, login, &github.RepositoryListByUserOptions{
		Sort:        "pushed",
		ListOptions: github.ListOptions{PerPage: p.codeActivityRepos},
	})
	if err != nil {
		return nil, wrapError(err, resp, "list repositories")
	}

	var out []domain.CodeActivity
	for _, r := range repos {
		weeks, resp, err := p.client.Repositories.ListCommitActivity(ctx, r.GetOwner().GetLogin(), r.GetName())
		if err != nil {
			var accepted *github.AcceptedError
			if errors.As(err, &accepted) {
				continue
			}
			return nil, wrapError(err, resp, "list commit activity")
		}
		for _, w := range weeks {
			if w.GetTotal() == 0 {
				continue
			}
			out = append(out, domain.CodeActivity{
				Repo:      r.GetFullName(),
				WeekStart: w.GetWeek().Time.UTC().Truncate(24 * time.Hour),
				Days:      w.Days,
				Total:     w.GetTotal(),
			})
		}
	}
	return domain.Paginate(out, page, pageSize).Items, nil
}
