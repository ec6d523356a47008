package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"gohuddleup/internal/adapters/backend"
	"gohuddleup/internal/application/access"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/user"
)

// CreateAdminUserInput carries input for admin provisioning.
type CreateAdminUserInput struct {
	Email    string
	Password string
	Role     string
	ScopeID  string
	// Grantor is the calling admin's role assignments. Ignored for operators.
	Grantor []user.RoleAssignment
	// Operator marks provisioning done with the service key outside any admin
	// session, such as bootstrapping the first SUPER from the CLI.
	Operator bool
}

// CreateAdminUserResult carries the created identity and rows.
type CreateAdminUserResult struct {
	Identity   identity.Identity
	User       user.User
	Assignment user.RoleAssignment
}

// CreateAdminUserDeps holds dependencies for CreateAdminUser.
type CreateAdminUserDeps struct {
	Admin     IdentityAdmin
	Directory access.Directory
	Tx        TxFunc
	Now       func() time.Time
}

// ExecuteCreateAdminUser provisions an admin: a confirmed identity, then in one
// transaction an ACTIVE users row and its role assignment.
// SUPER assignments are recorded with scope type STATE whatever scopeID names.
// PRE: Role is an admin role; ScopeID is non-empty
// POST: On success all three records exist. If the transaction fails the identity
// is deleted again, so no orphan is left behind.
// INVARIANT: Non-operator callers may only grant below their own role within their own scope
func ExecuteCreateAdminUser(ctx context.Context, input CreateAdminUserInput, deps CreateAdminUserDeps) (CreateAdminUserResult, error) {
	email := identity.NormalizeEmail(input.Email)
	if err := identity.ValidateEmail(email); err != nil {
		return CreateAdminUserResult{}, err
	}
	if err := identity.ValidatePassword(input.Password); err != nil {
		return CreateAdminUserResult{}, err
	}
	if !user.IsAdminRole(input.Role) {
		return CreateAdminUserResult{}, user.ErrNotAdminRole
	}
	scopeID := strings.TrimSpace(input.ScopeID)
	if scopeID == "" {
		return CreateAdminUserResult{}, user.ErrEmptyScopeID
	}

	if err := checkGrant(ctx, input, scopeID, deps); err != nil {
		return CreateAdminUserResult{}, err
	}

	ident, err := deps.Admin.CreateUser(ctx, email, input.Password)
	if err != nil {
		return CreateAdminUserResult{}, err
	}

	now := deps.Now()
	u := user.User{
		ID:        ident.ID,
		Email:     ident.Email,
		Role:      input.Role,
		Status:    user.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	assignment := user.RoleAssignment{
		ID:        uuid.NewString(),
		UserID:    ident.ID,
		Role:      input.Role,
		ScopeType: user.ScopeTypeFor(input.Role),
		ScopeID:   scopeID,
		CreatedAt: now,
	}

	err = deps.Tx(ctx, func(tx backend.Tables) error {
		if err := u.Validate(); err != nil {
			return err
		}
		if err := tx.Users().Insert(ctx, u); err != nil {
			return err
		}
		if err := assignment.Validate(); err != nil {
			return err
		}
		return tx.RoleAssignments().InsertAssignment(ctx, assignment)
	})
	if err != nil {
		return CreateAdminUserResult{}, compensate(ctx, deps.Admin, ident.ID, "admin_create", err)
	}

	slog.Info("auth_event", "event", "admin_created", "user_id", ident.ID, "role", input.Role, "scope_type", assignment.ScopeType, "scope_id", scopeID, "operator", input.Operator)
	return CreateAdminUserResult{Identity: ident, User: u, Assignment: assignment}, nil
}

// checkGrant resolves the scope and, for non-operators, checks the grantor may grant it.
func checkGrant(ctx context.Context, input CreateAdminUserInput, scopeID string, deps CreateAdminUserDeps) error {
	if input.Role == user.RoleSuper {
		if input.Operator || access.IsGlobal(input.Grantor) {
			return nil
		}
		if len(input.Grantor) == 0 {
			return access.ErrOutOfScope
		}
		return access.ErrCannotGrant
	}
	target, err := access.ResolveTarget(ctx, deps.Directory, user.ScopeTypeFor(input.Role), scopeID)
	if err != nil {
		return errors.Join(user.ErrInvalidScope, err)
	}
	if input.Operator {
		return nil
	}
	return access.CanGrant(input.Grantor, input.Role, target)
}
