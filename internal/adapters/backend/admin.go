package backend

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"gohuddleup/internal/domain/identity"
)

// Admin manages identities without interactive sign-up. Only ServerClient exposes it.
type Admin struct {
	svc *Service
}

// CreateUser creates an identity with its email already confirmed.
// PRE: email and password pass the identity rules
// POST: Returns identity.ErrEmailTaken when the email is registered
func (a *Admin) CreateUser(ctx context.Context, email, password string) (identity.Identity, error) {
	now := a.svc.now()
	ident := identity.Identity{
		ID:               uuid.NewString(),
		Email:            identity.NormalizeEmail(email),
		EmailConfirmedAt: now,
		CreatedAt:        now,
	}
	if err := identity.ValidateEmail(ident.Email); err != nil {
		return identity.Identity{}, err
	}
	if err := ident.SetPassword(password); err != nil {
		return identity.Identity{}, err
	}
	if err := (&Auth{svc: a.svc}).identities(nil).Insert(ctx, ident); err != nil {
		return identity.Identity{}, err
	}
	return ident.Public(), nil
}

// GetUserByEmail looks up an identity by email.
// POST: Returns an error wrapping storage.ErrNotFound when none exists
func (a *Admin) GetUserByEmail(ctx context.Context, email string) (identity.Identity, error) {
	ident, err := (&Auth{svc: a.svc}).identities(nil).GetByEmail(ctx, identity.NormalizeEmail(email))
	if err != nil {
		return identity.Identity{}, err
	}
	return ident.Public(), nil
}

// DeleteUser removes an identity and, through cascades, its users row, role
// assignments and student records.
// POST: Deleting an unknown id is not an error
func (a *Admin) DeleteUser(ctx context.Context, id string) error {
	if err := (&Auth{svc: a.svc}).identities(nil).Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("auth_event", "event", "identity_deleted", "identity_id", id)
	return nil
}
