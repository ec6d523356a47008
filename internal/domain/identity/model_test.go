package identity

import (
	"testing"
	"time"
)

func init() {
	HashCost = 4
}

// TestValidateEmail covers the local@domain.tld shape check.
func TestValidateEmail(t *testing.T) {
	tests := []struct {
		email   string
		wantErr error
	}{
		{"student@school.org", nil},
		{"a.b+c@x.co", nil},
		{"", ErrEmptyEmail},
		{"   ", ErrEmptyEmail},
		{"nodomain@", ErrInvalidEmail},
		{"no-at.example.com", ErrInvalidEmail},
		{"a@b", ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if err := ValidateEmail(tt.email); err != tt.wantErr {
				t.Errorf("ValidateEmail(%q) = %v, want %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

// TestNormalizeEmail verifies case folding and trimming.
func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Admin@GoHuddleUp.com "); got != "admin@gohuddleup.com" {
		t.Errorf("NormalizeEmail() = %q", got)
	}
}

// TestIdentity_SetPassword tests password hashing and verification.
func TestIdentity_SetPassword(t *testing.T) {
	var id Identity
	if err := id.SetPassword(""); err != ErrEmptyPassword {
		t.Errorf("empty password error = %v, want ErrEmptyPassword", err)
	}
	if err := id.SetPassword("short"); err != ErrPasswordTooShort {
		t.Errorf("short password error = %v, want ErrPasswordTooShort", err)
	}
	if err := id.SetPassword("12345678"); err != nil {
		t.Fatalf("SetPassword() unexpected error: %v", err)
	}
	if id.PasswordHash == "" || id.PasswordHash == "12345678" {
		t.Fatal("expected a bcrypt hash to be stored")
	}
	if err := id.CheckPassword("12345678"); err != nil {
		t.Errorf("CheckPassword(correct) = %v", err)
	}
	if err := id.CheckPassword("87654321"); err != ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) = %v, want ErrWrongPassword", err)
	}
}

// TestIdentity_CheckPassword_NoHash ensures an identity without a hash never authenticates.
func TestIdentity_CheckPassword_NoHash(t *testing.T) {
	id := Identity{}
	if err := id.CheckPassword("anything"); err != ErrWrongPassword {
		t.Errorf("CheckPassword() = %v, want ErrWrongPassword", err)
	}
}

// TestIdentity_Confirm tests the confirmation transition.
func TestIdentity_Confirm(t *testing.T) {
	now := time.Now()
	id := Identity{}
	if id.IsConfirmed() {
		t.Fatal("new identity should be unconfirmed")
	}
	if err := id.Confirm(now); err != nil {
		t.Fatalf("Confirm() unexpected error: %v", err)
	}
	if !id.IsConfirmed() {
		t.Error("expected identity to be confirmed")
	}
	if err := id.Confirm(now); err != ErrAlreadyConfirmed {
		t.Errorf("second Confirm() = %v, want ErrAlreadyConfirmed", err)
	}
}

// TestIdentity_Public strips the password hash.
func TestIdentity_Public(t *testing.T) {
	id := Identity{ID: "1", Email: "a@b.co", PasswordHash: "hash"}
	pub := id.Public()
	if pub.PasswordHash != "" {
		t.Error("Public() leaked the password hash")
	}
	if id.PasswordHash != "hash" {
		t.Error("Public() must not mutate the receiver")
	}
}

// TestConfirmationToken_Redeem tests single-use and expiry behavior.
func TestConfirmationToken_Redeem(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

	tok := ConfirmationToken{ExpiresAt: now.Add(time.Hour)}
	if err := tok.Redeem(now); err != nil {
		t.Fatalf("Redeem() unexpected error: %v", err)
	}
	if err := tok.Redeem(now); err != ErrTokenInvalid {
		t.Errorf("second Redeem() = %v, want ErrTokenInvalid", err)
	}

	expired := ConfirmationToken{ExpiresAt: now.Add(-time.Minute)}
	if err := expired.Redeem(now); err != ErrTokenExpired {
		t.Errorf("expired Redeem() = %v, want ErrTokenExpired", err)
	}
}
