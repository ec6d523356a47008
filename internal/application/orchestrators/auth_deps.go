package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"gohuddleup/internal/adapters/backend"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/user"
)

// Auth errors surfaced to callers.
var (
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInsufficientPrivileges = errors.New("insufficient privileges")
	ErrAccountInactive        = errors.New("account has been deactivated")
)

// AuthService is the backend auth API used by sign-in and sign-out.
type AuthService interface {
	SignInWithPassword(ctx context.Context, email, password string) (identity.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

// SignUpService creates unconfirmed identities, mails their confirmation links
// and redeems the tokens.
type SignUpService interface {
	SignUp(ctx context.Context, email, password string) (identity.Identity, error)
	SendConfirmation(ctx context.Context, email string) error
	ConfirmEmail(ctx context.Context, token string) (identity.Identity, error)
}

// IdentityAdmin creates and deletes identities with the privileged handle.
type IdentityAdmin interface {
	CreateUser(ctx context.Context, email, password string) (identity.Identity, error)
	DeleteUser(ctx context.Context, id string) error
}

// UserReader looks up users rows.
type UserReader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// TxFunc runs fn against tables bound to one transaction.
// (*backend.Client).WithTx satisfies it.
type TxFunc func(ctx context.Context, fn func(backend.Tables) error) error

// compensate deletes an identity whose dependent rows could not be written.
// It returns cause, joined with the cleanup error when cleanup also fails.
func compensate(ctx context.Context, admin IdentityAdmin, identityID, operation string, cause error) error {
	if err := admin.DeleteUser(context.WithoutCancel(ctx), identityID); err != nil {
		slog.Error("compensation_failed", "operation", operation, "identity_id", identityID, "error", err)
		return errors.Join(cause, err)
	}
	slog.Info("auth_event", "event", operation+"_compensated", "identity_id", identityID, "reason", cause.Error())
	return cause
}
