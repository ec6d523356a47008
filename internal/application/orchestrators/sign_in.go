package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"gohuddleup/internal/adapters/storage"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/user"
)

// SignInInput carries input for the sign-in orchestrators.
type SignInInput struct {
	Email    string
	Password string
}

// SignInResult carries the session and the users row it resolved to.
type SignInResult struct {
	Session identity.Session
	User    user.User
}

// SignInDeps holds dependencies for sign-in.
type SignInDeps struct {
	Auth  AuthService
	Users UserReader
}

// ExecuteSignInAdmin signs in through the admin portal gate.
// PRE: none
// POST: Returns a session only for ACTIVE or PENDING users with an admin role.
// A credential-valid session that fails the gate is revoked before returning.
func ExecuteSignInAdmin(ctx context.Context, input SignInInput, deps SignInDeps) (SignInResult, error) {
	return signInGated(ctx, input, deps, "admin", user.IsAdminRole)
}

// ExecuteSignInStudent signs in through the student portal gate.
// PRE: none
// POST: Returns a session only for users with the STUDENT role
func ExecuteSignInStudent(ctx context.Context, input SignInInput, deps SignInDeps) (SignInResult, error) {
	return signInGated(ctx, input, deps, "student", func(role string) bool { return role == user.RoleStudent })
}

func signInGated(ctx context.Context, input SignInInput, deps SignInDeps, portal string, gate func(string) bool) (SignInResult, error) {
	email := identity.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return SignInResult{}, ErrInvalidCredentials
	}

	sess, err := deps.Auth.SignInWithPassword(ctx, email, input.Password)
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		slog.Info("auth_event", "event", "login_failed", "portal", portal, "email", email, "reason", "bad_credentials")
		return SignInResult{}, ErrInvalidCredentials
	case errors.Is(err, identity.ErrEmailNotConfirmed):
		// Same answer as a bad password; only the log records the reason.
		slog.Info("auth_event", "event", "login_failed", "portal", portal, "email", email, "reason", "unconfirmed")
		return SignInResult{}, ErrInvalidCredentials
	case err != nil:
		return SignInResult{}, err
	}

	u, err := deps.Users.GetByID(ctx, sess.Identity.ID)
	if err != nil {
		reject := ErrInsufficientPrivileges
		if !errors.Is(err, storage.ErrNotFound) {
			reject = err
		}
		return SignInResult{}, rejectSession(ctx, deps, sess, portal, "no_user_row", reject)
	}
	if !gate(u.Role) {
		return SignInResult{}, rejectSession(ctx, deps, sess, portal, "role_"+u.Role, ErrInsufficientPrivileges)
	}
	if u.IsInactive() {
		return SignInResult{}, rejectSession(ctx, deps, sess, portal, "inactive", ErrAccountInactive)
	}

	slog.Info("auth_event", "event", "login_success", "portal", portal, "email", email, "role", u.Role)
	return SignInResult{Session: sess, User: u}, nil
}

// rejectSession revokes a session that passed the credential check but not the gate.
func rejectSession(ctx context.Context, deps SignInDeps, sess identity.Session, portal, reason string, cause error) error {
	slog.Info("auth_event", "event", "login_rejected", "portal", portal, "identity_id", sess.Identity.ID, "reason", reason)
	if err := deps.Auth.SignOut(context.WithoutCancel(ctx), sess.AccessToken); err != nil {
		slog.Error("session_revoke_failed", "identity_id", sess.Identity.ID, "error", err)
		return errors.Join(cause, err)
	}
	return cause
}

// SignOutInput carries the token to revoke.
type SignOutInput struct {
	AccessToken string
}

// SignOutDeps holds dependencies for sign-out.
type SignOutDeps struct {
	Auth AuthService
}

// ExecuteSignOut revokes the caller's session.
// PRE: none
// POST: Signing out without a session is not an error; backend failures are returned
func ExecuteSignOut(ctx context.Context, input SignOutInput, deps SignOutDeps) error {
	if err := deps.Auth.SignOut(ctx, input.AccessToken); err != nil {
		return err
	}
	if input.AccessToken != "" {
		slog.Info("auth_event", "event", "signed_out")
	}
	return nil
}
