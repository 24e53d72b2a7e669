package ports

import "context"

// CredentialSource supplies the platform credential. It is consulted only while a retrieval
// runs and nothing it returns is persisted by the cache.
//
//go:generate go run go.uber.org/mock/mockgen -source=credentials.go -destination=mocks/mock_credentials.go -package=mocks
type CredentialSource interface {
	// Token returns the current access token.
	Token(ctx context.Context) (string, error)
}
