package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gohuddleup/internal/adapters/storage"
	domain "gohuddleup/internal/domain/identity"
)

// SQLStore implements Store on SQLite or Postgres.
type SQLStore struct {
	db storage.Querier
}

// NewSQLStore creates a new identity store.
func NewSQLStore(db storage.Querier) *SQLStore {
	return &SQLStore{db: db}
}

const identityColumns = "id, email, password_hash, email_confirmed_at, last_sign_in_at, created_at"

// Insert persists a new identity.
// PRE: value has been validated and its password hashed
// POST: Returns domain.ErrEmailTaken if the email is already registered
func (s *SQLStore) Insert(ctx context.Context, value domain.Identity) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO identities ("+identityColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		value.ID,
		value.Email,
		value.PasswordHash,
		storage.NullTime(value.EmailConfirmedAt),
		storage.NullTime(value.LastSignInAt),
		storage.FormatTime(value.CreatedAt),
	)
	if storage.IsUniqueViolation(err) {
		return domain.ErrEmailTaken
	}
	return err
}

// GetByID retrieves an identity by id.
// PRE: id is non-empty
// POST: Returns the identity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Identity, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+identityColumns+" FROM identities WHERE id = ?", id)
	entity, err := scanIdentity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Identity{}, fmt.Errorf("identity not found: %w", err)
	}
	return entity, err
}

// GetByEmail retrieves an identity by its normalized email.
// PRE: email is normalized
// POST: Returns the identity or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+identityColumns+" FROM identities WHERE email = ?", email)
	entity, err := scanIdentity(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Identity{}, fmt.Errorf("identity not found: %w", err)
	}
	return entity, err
}

// Update saves the mutable identity fields.
// PRE: value exists
// POST: password hash, confirmation and last sign-in are persisted
func (s *SQLStore) Update(ctx context.Context, value domain.Identity) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE identities SET password_hash = ?, email_confirmed_at = ?, last_sign_in_at = ? WHERE id = ?",
		value.PasswordHash,
		storage.NullTime(value.EmailConfirmedAt),
		storage.NullTime(value.LastSignInAt),
		value.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("identity not found: %w", storage.ErrNotFound)
	}
	return nil
}

// Delete removes an identity. Dependent users, assignments and profiles cascade.
// PRE: id is non-empty
// POST: Identity with given id is removed
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM identities WHERE id = ?", id)
	return err
}

// InsertToken persists a confirmation token.
func (s *SQLStore) InsertToken(ctx context.Context, token domain.ConfirmationToken) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO confirmation_tokens (id, identity_id, token, expires_at, used, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		token.ID,
		token.IdentityID,
		token.Token,
		storage.FormatTime(token.ExpiresAt),
		storage.BoolInt(token.Used),
		storage.FormatTime(token.CreatedAt),
	)
	return err
}

// GetToken retrieves a confirmation token by its value.
// PRE: token is non-empty
// POST: Returns the token or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetToken(ctx context.Context, token string) (domain.ConfirmationToken, error) {
	var t domain.ConfirmationToken
	var expiresAt, createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, identity_id, token, expires_at, used, created_at FROM confirmation_tokens WHERE token = ?", token,
	).Scan(&t.ID, &t.IdentityID, &t.Token, &expiresAt, &t.Used, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ConfirmationToken{}, fmt.Errorf("confirmation token not found: %w", err)
	}
	if err != nil {
		return domain.ConfirmationToken{}, err
	}
	t.ExpiresAt, _ = storage.ParseTime(expiresAt)
	t.CreatedAt, _ = storage.ParseTime(createdAt)
	return t, nil
}

// MarkTokenUsed consumes a token.
func (s *SQLStore) MarkTokenUsed(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE confirmation_tokens SET used = 1 WHERE id = ?", id)
	return err
}

// InvalidateTokens consumes every outstanding token of an identity.
// POST: No token of identityID can be redeemed
func (s *SQLStore) InvalidateTokens(ctx context.Context, identityID string) error {
	_, err := s.db.ExecContext(ctx, "UPDATE confirmation_tokens SET used = 1 WHERE identity_id = ? AND used = 0", identityID)
	return err
}

// scanIdentity extracts an Identity from a row scanner function.
func scanIdentity(scan func(dest ...interface{}) error) (domain.Identity, error) {
	var entity domain.Identity
	var confirmedAt, lastSignIn sql.NullString
	var createdAt string
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.PasswordHash,
		&confirmedAt,
		&lastSignIn,
		&createdAt,
	)
	if err != nil {
		return domain.Identity{}, err
	}
	entity.EmailConfirmedAt = storage.ParseNullTime(confirmedAt)
	entity.LastSignInAt = storage.ParseNullTime(lastSignIn)
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	return entity, nil
}
