package backend

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"

	"gohuddleup/internal/adapters/email"
)

// ConfirmPath is the route that redeems confirmation tokens.
const ConfirmPath = "/auth/confirm"

// Mailer composes the transactional mail the auth service sends.
type Mailer struct {
	sender  email.Sender
	baseURL string
	from    string
	replyTo string
	md      goldmark.Markdown
}

// NewMailer creates a mailer that links back to baseURL.
func NewMailer(sender email.Sender, baseURL, from, replyTo string) *Mailer {
	return &Mailer{
		sender:  sender,
		baseURL: strings.TrimRight(baseURL, "/"),
		from:    from,
		replyTo: replyTo,
		md:      goldmark.New(),
	}
}

// ConfirmationLink builds the link mailed for token.
func (m *Mailer) ConfirmationLink(token string) string {
	return m.baseURL + ConfirmPath + "?token=" + url.QueryEscape(token)
}

const confirmationBody = `# Welcome to goHuddleUp

Thanks for registering with your school's huddle. Confirm your email address to finish signing up:

[Confirm my email](%s)

The link expires in 72 hours. If you did not register, you can ignore this message.
`

// SendConfirmation mails the confirmation link for token to addr.
// PRE: addr is a normalized email; token is unused
// POST: The message carries both a markdown text part and its HTML rendering
func (m *Mailer) SendConfirmation(ctx context.Context, addr, token string) error {
	text := fmt.Sprintf(confirmationBody, m.ConfirmationLink(token))
	var html bytes.Buffer
	if err := m.md.Convert([]byte(text), &html); err != nil {
		return fmt.Errorf("render confirmation mail: %w", err)
	}
	_, err := m.sender.Send(ctx, email.SendRequest{
		To:       []string{addr},
		From:     m.from,
		Subject:  "Confirm your goHuddleUp account",
		HTML:     html.String(),
		Text:     text,
		ReplyTo:  m.replyTo,
		Category: "confirmation",
	})
	return err
}
