package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// API key roles, matching the keys handed to the public and privileged clients.
const (
	KeyRoleAnon    = "anon"
	KeyRoleService = "service_role"
)

// MinSecretLength is the shortest HMAC secret accepted for signing.
const MinSecretLength = 32

const (
	issuer         = "gohuddleup"
	audienceAccess = "authenticated"
	audienceAPIKey = "api"
)

// Token errors
var (
	ErrWeakSecret   = errors.New("jwt secret must be at least 32 bytes")
	ErrInvalidToken = errors.New("invalid token")
	ErrUnknownRole  = errors.New("api key role must be anon or service_role")
)

// AccessClaims are carried by a session access token.
type AccessClaims struct {
	SessionID string `json:"sid"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// APIKeyClaims are carried by a long-lived API key.
type APIKeyClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies HS256 access tokens and API keys with one secret.
type Tokens struct {
	secret []byte
}

// NewTokens creates a token manager.
// PRE: secret is at least MinSecretLength bytes
// POST: Returns ErrWeakSecret for shorter secrets
func NewTokens(secret []byte) (*Tokens, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	return &Tokens{secret: secret}, nil
}

// MintAccess issues the bearer token for a session.
// PRE: s has an id, identity and expiry
// POST: The token expires with the session
func (t *Tokens) MintAccess(s Session) (string, error) {
	claims := AccessClaims{
		SessionID: s.ID,
		Email:     s.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.IdentityID,
			Issuer:    issuer,
			Audience:  jwt.ClaimStrings{audienceAccess},
			IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ParseAccess verifies an access token's signature, issuer, audience and expiry.
// It does not check that the session still exists.
// PRE: none
// POST: Returns claims or an error wrapping ErrInvalidToken
func (t *Tokens) ParseAccess(token string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := t.parse(token, audienceAccess, claims); err != nil {
		return nil, err
	}
	if claims.SessionID == "" || claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing session", ErrInvalidToken)
	}
	return claims, nil
}

// MintAPIKey issues a non-expiring API key for role.
// PRE: role is KeyRoleAnon or KeyRoleService
// POST: Returns ErrUnknownRole otherwise
func (t *Tokens) MintAPIKey(role string) (string, error) {
	if role != KeyRoleAnon && role != KeyRoleService {
		return "", ErrUnknownRole
	}
	claims := APIKeyClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			Audience: jwt.ClaimStrings{audienceAPIKey},
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// ParseAPIKey verifies an API key and returns its role.
// PRE: none
// POST: Returns an error wrapping ErrInvalidToken for foreign, tampered or access tokens
func (t *Tokens) ParseAPIKey(key string) (string, error) {
	claims := &APIKeyClaims{}
	if err := t.parse(key, audienceAPIKey, claims); err != nil {
		return "", err
	}
	if claims.Role != KeyRoleAnon && claims.Role != KeyRoleService {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, ErrUnknownRole)
	}
	return claims.Role, nil
}

func (t *Tokens) parse(token, audience string, claims jwt.Claims) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(audience),
		jwt.WithLeeway(5*time.Second),
	)
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return ErrInvalidToken
	}
	return nil
}
