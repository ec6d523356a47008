package projections

import (
	"context"

	"gohuddleup/internal/application/access"
	"gohuddleup/internal/domain/user"
)

// GetUserRoleQuery carries query parameters.
type GetUserRoleQuery struct {
	UserID string
}

// GetUserRoleDeps holds dependencies for GetUserRole.
type GetUserRoleDeps struct {
	Users UserStore
}

// QueryGetUserRole returns the user's broadest admin assignment.
// Precedence is SUPER, then STATE, REGION and SCHOOL.
// PRE: none
// POST: NotFound when the user holds no admin assignment
func QueryGetUserRole(ctx context.Context, query GetUserRoleQuery, deps GetUserRoleDeps) Lookup[user.RoleAssignment] {
	if query.UserID == "" {
		return notFound[user.RoleAssignment]()
	}
	assignments, err := deps.Users.ListAssignments(ctx, query.UserID)
	if err != nil {
		return failedLookup[user.RoleAssignment]("user_role", err)
	}
	best, ok := access.Highest(assignments)
	if !ok {
		return notFound[user.RoleAssignment]()
	}
	return found(best)
}
