package backend

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"gohuddleup/internal/adapters/session"
	"gohuddleup/internal/adapters/storage"
	identitystore "gohuddleup/internal/adapters/storage/identity"
	"gohuddleup/internal/domain/identity"
)

// Auth errors, shared with the identity domain so callers can match either.
var (
	ErrInvalidCredentials = identity.ErrInvalidCredentials
	ErrEmailNotConfirmed  = identity.ErrEmailNotConfirmed
	ErrNoSession          = identity.ErrNoSession
)

// Auth is the authentication API of a client handle.
type Auth struct {
	svc *Service
}

func (a *Auth) identities(q storage.Querier) *identitystore.SQLStore {
	if q == nil {
		q = a.svc.db
	}
	return identitystore.NewSQLStore(q)
}

// SignInWithPassword checks credentials and opens a session.
// PRE: none
// POST: Returns ErrInvalidCredentials for an unknown email or wrong password,
// ErrEmailNotConfirmed for an unconfirmed identity; otherwise a live session
func (a *Auth) SignInWithPassword(ctx context.Context, email, password string) (identity.Session, error) {
	store := a.identities(nil)
	ident, err := store.GetByEmail(ctx, identity.NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return identity.Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return identity.Session{}, err
	}
	if err := ident.CheckPassword(password); err != nil {
		return identity.Session{}, ErrInvalidCredentials
	}
	if !ident.IsConfirmed() {
		return identity.Session{}, ErrEmailNotConfirmed
	}

	now := a.svc.now()
	ident.LastSignInAt = now
	if err := store.Update(ctx, ident); err != nil {
		return identity.Session{}, err
	}

	id, err := session.NewID()
	if err != nil {
		return identity.Session{}, err
	}
	sess := session.Session{
		ID:         id,
		IdentityID: ident.ID,
		Email:      ident.Email,
		CreatedAt:  now,
		ExpiresAt:  now.Add(a.svc.cfg.SessionTTL),
	}
	if err := a.svc.sessions.Create(ctx, sess); err != nil {
		return identity.Session{}, fmt.Errorf("create session: %w", err)
	}
	token, err := a.svc.tokens.MintAccess(sess)
	if err != nil {
		return identity.Session{}, err
	}
	return identity.Session{
		ID:          sess.ID,
		AccessToken: token,
		ExpiresAt:   sess.ExpiresAt,
		Identity:    ident.Public(),
	}, nil
}

// SignUp creates an unconfirmed identity. No mail is sent; callers send the
// confirmation link with SendConfirmation once their own records are committed.
// PRE: email and password pass the identity rules
// POST: Returns identity.ErrEmailTaken when the email is registered
func (a *Auth) SignUp(ctx context.Context, email, password string) (identity.Identity, error) {
	ident := identity.Identity{
		ID:        uuid.NewString(),
		Email:     identity.NormalizeEmail(email),
		CreatedAt: a.svc.now(),
	}
	if err := identity.ValidateEmail(ident.Email); err != nil {
		return identity.Identity{}, err
	}
	if err := ident.SetPassword(password); err != nil {
		return identity.Identity{}, err
	}
	if err := a.identities(nil).Insert(ctx, ident); err != nil {
		return identity.Identity{}, err
	}
	return ident.Public(), nil
}

func (a *Auth) issueToken(ctx context.Context, store *identitystore.SQLStore, identityID string) (identity.ConfirmationToken, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return identity.ConfirmationToken{}, err
	}
	now := a.svc.now()
	token := identity.ConfirmationToken{
		ID:         uuid.NewString(),
		IdentityID: identityID,
		Token:      hex.EncodeToString(raw),
		ExpiresAt:  now.Add(identity.ConfirmationTTL),
		CreatedAt:  now,
	}
	return token, store.InsertToken(ctx, token)
}

// ConfirmEmail redeems a confirmation token.
// PRE: none
// POST: The identity is confirmed and the token used, or ErrTokenInvalid /
// ErrTokenExpired / ErrAlreadyConfirmed is returned and nothing changes
func (a *Auth) ConfirmEmail(ctx context.Context, token string) (identity.Identity, error) {
	var confirmed identity.Identity
	err := a.svc.db.WithTx(ctx, func(tx *storage.Tx) error {
		store := a.identities(tx)
		t, err := store.GetToken(ctx, token)
		if errors.Is(err, storage.ErrNotFound) {
			return identity.ErrTokenInvalid
		}
		if err != nil {
			return err
		}
		now := a.svc.now()
		if err := t.Redeem(now); err != nil {
			return err
		}
		ident, err := store.GetByID(ctx, t.IdentityID)
		if err != nil {
			return err
		}
		if err := ident.Confirm(now); err != nil {
			return err
		}
		if err := store.Update(ctx, ident); err != nil {
			return err
		}
		if err := store.MarkTokenUsed(ctx, t.ID); err != nil {
			return err
		}
		confirmed = ident.Public()
		return nil
	})
	return confirmed, err
}

// SendConfirmation replaces any outstanding tokens and mails a new link.
// Unknown and already confirmed addresses are ignored so callers cannot tell
// which emails are registered.
func (a *Auth) SendConfirmation(ctx context.Context, email string) error {
	store := a.identities(nil)
	ident, err := store.GetByEmail(ctx, identity.NormalizeEmail(email))
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if ident.IsConfirmed() {
		return nil
	}

	var token identity.ConfirmationToken
	err = a.svc.db.WithTx(ctx, func(tx *storage.Tx) error {
		txStore := a.identities(tx)
		if err := txStore.InvalidateTokens(ctx, ident.ID); err != nil {
			return err
		}
		var err error
		token, err = a.issueToken(ctx, txStore, ident.ID)
		return err
	})
	if err != nil {
		return err
	}
	return a.svc.mailer.SendConfirmation(ctx, ident.Email, token.Token)
}

// SignOut revokes the session behind accessToken.
// PRE: none
// POST: The session no longer resolves. A missing, expired or already revoked
// session is not an error; session store failures are returned
func (a *Auth) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	claims, err := a.svc.tokens.ParseAccess(accessToken)
	if err != nil {
		return nil
	}
	return a.svc.sessions.Delete(ctx, claims.SessionID)
}

// GetUser resolves the identity signed in with accessToken.
// PRE: none
// POST: Returns ErrNoSession when the token is invalid or its session is gone
func (a *Auth) GetUser(ctx context.Context, accessToken string) (identity.Identity, error) {
	if accessToken == "" {
		return identity.Identity{}, ErrNoSession
	}
	claims, err := a.svc.tokens.ParseAccess(accessToken)
	if err != nil {
		return identity.Identity{}, ErrNoSession
	}
	sess, err := a.svc.sessions.Get(ctx, claims.SessionID)
	if errors.Is(err, session.ErrNotFound) {
		return identity.Identity{}, ErrNoSession
	}
	if err != nil {
		return identity.Identity{}, err
	}
	if sess.IdentityID != claims.Subject {
		return identity.Identity{}, ErrNoSession
	}
	ident, err := a.identities(nil).GetByID(ctx, sess.IdentityID)
	if errors.Is(err, storage.ErrNotFound) {
		return identity.Identity{}, ErrNoSession
	}
	if err != nil {
		return identity.Identity{}, err
	}
	return ident.Public(), nil
}
