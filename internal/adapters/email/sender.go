package email

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoRecipients is returned when a request names nobody to deliver to.
	ErrNoRecipients = errors.New("email has no recipients")
	ErrNoSubject    = errors.New("email subject is required")
)

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address, e.g. "goHuddleUp <noreply@gohuddleup.com>"
	Subject string
	HTML    string
	Text    string // Plain-text alternative
	ReplyTo string
	// Category tags the message at the provider, e.g. "confirmation".
	Category string
}

// Validate checks the request before it reaches a provider.
func (r SendRequest) Validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipients
	}
	if r.Subject == "" {
		return ErrNoSubject
	}
	return nil
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender delivers transactional email.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
}
