package email

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers mail through the Resend API.
type ResendSender struct {
	client  *resend.Client
	from    string
	replyTo string
}

// NewResendSender creates a sender whose from and reply-to apply when a
// request leaves them empty.
// PRE: apiKey is a Resend API key
// POST: No network traffic until Send
func NewResendSender(apiKey, from, replyTo string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from, replyTo: replyTo}
}

// sendParams maps req onto the Resend payload, filling the sender defaults.
func (s *ResendSender) sendParams(req SendRequest) *resend.SendEmailRequest {
	params := &resend.SendEmailRequest{
		From:    cmpOr(req.From, s.from),
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		Text:    req.Text,
		ReplyTo: cmpOr(req.ReplyTo, s.replyTo),
	}
	if req.Category != "" {
		params.Tags = []resend.Tag{{Name: "category", Value: req.Category}}
	}
	return params
}

// Send delivers one message.
// PRE: req passes Validate
// POST: Returns the Resend message id
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	if err := req.Validate(); err != nil {
		return SendResult{}, err
	}
	sent, err := s.client.Emails.SendWithContext(ctx, s.sendParams(req))
	if err != nil {
		slog.Error("resend_send_failed", "error", err, "category", req.Category, "recipients", len(req.To))
		return SendResult{}, fmt.Errorf("resend send failed: %w", err)
	}
	slog.Info("resend_sent", "message_id", sent.Id, "category", req.Category, "recipients", len(req.To))
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

func cmpOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
