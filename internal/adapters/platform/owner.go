package platform

import (
	"strconv"
	"strings"

	"go.trai.ch/mirror/internal/core/domain"
	"go.trai.ch/zerr"
)

func invalidOwner(owner domain.OwnerKey, reason string) error {
	return zerr.With(zerr.Wrap(domain.ErrInvalidOwnerKey, reason), "owner", owner.String())
}

// userOwner returns the user id of a (userId) owner.
func userOwner(owner domain.OwnerKey) (string, error) {
	if owner.IsLegacyGlobal() || owner.Len() != 1 || owner.Part(0) == "" {
		return "", invalidOwner(owner, "expected (userId)")
	}
	return owner.Part(0), nil
}

// repoOwner splits the leading repoPath fragment into the repository owner and name.
func repoOwner(owner domain.OwnerKey, fragments int) (string, string, error) {
	if owner.IsLegacyGlobal() || owner.Len() != fragments {
		return "", "", invalidOwner(owner, "unexpected owner tuple")
	}
	login, name, ok := strings.Cut(owner.Part(0), "/")
	if !ok || login == "" || name == "" || strings.Contains(name, "/") {
		return "", "", invalidOwner(owner, "repoPath must be owner/name")
	}
	return login, name, nil
}

// issueOwner decodes a (repoPath, issueNumber) owner.
func issueOwner(owner domain.OwnerKey) (string, string, int, error) {
	login, name, err := repoOwner(owner, 2)
	if err != nil {
		return "", "", 0, err
	}
	number, err := strconv.Atoi(owner.Part(1))
	if err != nil || number < 1 {
		return "", "", 0, invalidOwner(owner, "issueNumber must be a positive integer")
	}
	return login, name, number, nil
}
