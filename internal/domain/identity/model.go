package identity

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest password the registration wizard and admin provisioning accept.
const MinPasswordLength = 8

// ConfirmationTTL is how long an email confirmation link stays valid.
const ConfirmationTTL = 72 * time.Hour

// HashCost is the bcrypt cost used for new password hashes. Tests lower it.
var HashCost = 12

// Domain errors
var (
	ErrEmptyEmail         = errors.New("email is required")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrEmptyPassword      = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrWrongPassword      = errors.New("incorrect password")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotConfirmed  = errors.New("email address has not been confirmed")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrNoSession          = errors.New("no active session")
	ErrTokenExpired       = errors.New("confirmation link has expired")
	ErrTokenInvalid       = errors.New("confirmation token is invalid")
	ErrAlreadyConfirmed   = errors.New("email address is already confirmed")
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// Identity is an authenticated principal: an email and password pair known to the auth service.
type Identity struct {
	ID               string
	Email            string
	PasswordHash     string
	EmailConfirmedAt time.Time
	LastSignInAt     time.Time
	CreatedAt        time.Time
}

// Session is a signed-in identity together with the bearer token that proves it.
type Session struct {
	ID          string
	AccessToken string
	ExpiresAt   time.Time
	Identity    Identity
}

// ConfirmationToken is a single-use token mailed to a new sign-up.
type ConfirmationToken struct {
	ID         string
	IdentityID string
	Token      string
	ExpiresAt  time.Time
	Used       bool
	CreatedAt  time.Time
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the address has the shape local@domain.tld.
func ValidateEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

// ValidatePassword checks a plaintext password against the length policy.
func ValidatePassword(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// Validate checks if the Identity has valid data.
// PRE: Identity struct is populated
// POST: Returns nil if valid, error otherwise
func (i *Identity) Validate() error {
	if err := ValidateEmail(i.Email); err != nil {
		return err
	}
	if i.PasswordHash == "" {
		return ErrEmptyPassword
	}
	return nil
}

// SetPassword hashes and stores a password using bcrypt.
// PRE: plaintext is at least MinPasswordLength characters
// POST: PasswordHash is set to bcrypt hash
func (i *Identity) SetPassword(plaintext string) error {
	if err := ValidatePassword(plaintext); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), HashCost)
	if err != nil {
		return err
	}
	i.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// PRE: PasswordHash is set
// INVARIANT: Identity fields are not mutated
func (i *Identity) CheckPassword(plaintext string) error {
	if i.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(i.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

// IsConfirmed returns true once the email address has been confirmed.
// INVARIANT: Identity fields are not mutated
func (i *Identity) IsConfirmed() bool {
	return !i.EmailConfirmedAt.IsZero()
}

// Confirm marks the email address as confirmed.
// PRE: Identity is unconfirmed
// POST: EmailConfirmedAt is set to now
func (i *Identity) Confirm(now time.Time) error {
	if i.IsConfirmed() {
		return ErrAlreadyConfirmed
	}
	i.EmailConfirmedAt = now
	return nil
}

// Public returns a copy safe to hand to callers outside the auth service.
func (i Identity) Public() Identity {
	i.PasswordHash = ""
	return i
}

// IsExpired returns true if the confirmation token has expired.
// INVARIANT: Token fields are not mutated
func (t *ConfirmationToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Redeem validates and consumes the token.
// PRE: Token has not been used and has not expired
// POST: Used is true
func (t *ConfirmationToken) Redeem(now time.Time) error {
	if t.Used {
		return ErrTokenInvalid
	}
	if t.IsExpired(now) {
		return ErrTokenExpired
	}
	t.Used = true
	return nil
}
