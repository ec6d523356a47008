package identity

import (
	"context"

	domain "gohuddleup/internal/domain/identity"
)

// Store persists identities and their confirmation tokens.
type Store interface {
	Insert(ctx context.Context, value domain.Identity) error
	GetByID(ctx context.Context, id string) (domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (domain.Identity, error)
	Update(ctx context.Context, value domain.Identity) error
	Delete(ctx context.Context, id string) error
	InsertToken(ctx context.Context, token domain.ConfirmationToken) error
	GetToken(ctx context.Context, token string) (domain.ConfirmationToken, error)
	MarkTokenUsed(ctx context.Context, id string) error
	InvalidateTokens(ctx context.Context, identityID string) error
}
