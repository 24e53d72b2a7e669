// Package platform retrieves entities from the remote collaboration platform over its REST API.
package platform

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/go-github/v67/github"
	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/mirror/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/oauth2"
)

// StaticCredentials is a CredentialSource holding a fixed token.
type StaticCredentials string

var _ ports.CredentialSource = StaticCredentials("")

// Token returns the token, or ErrCredentialUnavailable when it is empty.
func (c StaticCredentials) Token(_ context.Context) (string, error) {
	if c == "" {
		return "", zerr.Wrap(domain.ErrCredentialUnavailable, "no platform token configured")
	}
	return string(c), nil
}

// credentialTokenSource exposes a CredentialSource to the oauth2 transport.
type credentialTokenSource struct {
	creds ports.CredentialSource
}

func (s credentialTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.creds.Token(context.Background())
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer"}, nil
}

// NewClient builds an API client. Requests carry the credential when creds is non-nil.
// A non-empty baseURL points the client at an enterprise installation.
func NewClient(creds ports.CredentialSource, baseURL string) (*github.Client, error) {
	var httpClient *http.Client
	if creds != nil {
		httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Source: credentialTokenSource{creds: creds},
				Base:   http.DefaultTransport,
			},
		}
	}

	client := github.NewClient(httpClient)
	if strings.TrimSpace(baseURL) == "" {
		return client, nil
	}

	client, err := client.WithEnterpriseURLs(baseURL, baseURL)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "invalid platform base URL"), "base_url", baseURL)
	}
	return client, nil
}

// wrapError annotates a failed API call with the HTTP status when one is known.
func wrapError(err error, resp *github.Response, message string) error {
	if err == nil {
		return nil
	}

	status := 0
	if resp != nil && resp.Response != nil {
		status = resp.StatusCode
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status = ghErr.Response.StatusCode
	}

	wrapped := zerr.Wrap(err, message)
	if status != 0 {
		wrapped = zerr.With(wrapped, "status", status)
	}
	return wrapped
}
