package projections

import (
	"context"

	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/user"
)

// GetCurrentUserQuery carries query parameters.
type GetCurrentUserQuery struct {
	AccessToken string
}

// CurrentUser is the signed-in identity and, when provisioned, its users row.
type CurrentUser struct {
	Identity identity.Identity
	User     user.User
	// HasUser is false for an identity whose users row is missing.
	HasUser bool
}

// GetCurrentUserDeps holds dependencies for GetCurrentUser.
type GetCurrentUserDeps struct {
	Auth  SessionResolver
	Users UserStore
}

// QueryGetCurrentUser resolves the caller's session.
// PRE: none
// POST: NotFound for a missing, expired or revoked session; Failed when the
// backend could not be asked. Never panics on an empty token.
func QueryGetCurrentUser(ctx context.Context, query GetCurrentUserQuery, deps GetCurrentUserDeps) Lookup[CurrentUser] {
	if query.AccessToken == "" {
		return notFound[CurrentUser]()
	}
	ident, err := deps.Auth.GetUser(ctx, query.AccessToken)
	if err != nil {
		return failedLookup[CurrentUser]("current_user", err)
	}
	current := CurrentUser{Identity: ident}
	u, err := deps.Users.GetByID(ctx, ident.ID)
	switch {
	case err == nil:
		current.User, current.HasUser = u, true
	case !isMissing(err):
		return failedLookup[CurrentUser]("current_user", err)
	}
	return found(current)
}
