package ports

import (
	"context"

	"go.trai.ch/mirror/internal/core/domain"
)

// Retriever fetches one entity kind from the remote platform for an owner.
//
//go:generate go run go.uber.org/mock/mockgen -source=retriever.go -destination=mocks/mock_retriever.go -package=mocks
type Retriever[T domain.Entity] interface {
	// Retrieve returns already-decoded entities of owner.
	// It returns an error on any non-success response.
	Retrieve(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]T, error)
}

// RetrieverFunc adapts a function to the Retriever interface.
type RetrieverFunc[T domain.Entity] func(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]T, error)

// Retrieve calls f.
func (f RetrieverFunc[T]) Retrieve(ctx context.Context, owner domain.OwnerKey, page, pageSize int) ([]T, error) {
	return f(ctx, owner, page, pageSize)
}

// Retrievers bundles the retriever of every entity kind.
type Retrievers struct {
	Roles           Retriever[domain.Role]
	Branches        Retriever[domain.Branch]
	Files           Retriever[domain.FileEntry]
	Comments        Retriever[domain.Comment]
	CommentMetadata Retriever[domain.CommentMetadata]
	ImageURLs       Retriever[domain.ImageURLMapping]
	Profile         Retriever[domain.UserProfile]
	Repos           Retriever[domain.Repository]
	Missions        Retriever[domain.Mission]
	Groups          Retriever[domain.Group]
	Workspaces      Retriever[domain.Workspace]
	Activity        Retriever[domain.ActivityEvent]
	CodeActivity    Retriever[domain.CodeActivity]
}
