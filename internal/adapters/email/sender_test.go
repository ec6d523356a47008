package email

import (
	"context"
	"errors"
	"testing"
)

// TestSendRequest_Validate rejects requests without recipients or subject.
func TestSendRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SendRequest
		wantErr bool
	}{
		{"valid", SendRequest{To: []string{"a@example.com"}, Subject: "Hi"}, false},
		{"no recipients", SendRequest{Subject: "Hi"}, true},
		{"no subject", SendRequest{To: []string{"a@example.com"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.req.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestNoopSender records messages and finds the latest per recipient.
func TestNoopSender(t *testing.T) {
	s := NewNoopSender()
	ctx := context.Background()
	for _, subject := range []string{"first", "second"} {
		if _, err := s.Send(ctx, SendRequest{To: []string{"a@example.com"}, Subject: subject}); err != nil {
			t.Fatalf("Send: %v", err)
		}
	}
	if _, err := s.Send(ctx, SendRequest{Subject: "nobody"}); !errors.Is(err, ErrNoRecipients) {
		t.Errorf("Send(no recipients) error = %v, want ErrNoRecipients", err)
	}
	if got := len(s.Sent()); got != 2 {
		t.Errorf("Sent() len = %d, want 2", got)
	}
	last, ok := s.Last("a@example.com")
	if !ok || last.Subject != "second" {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
	if _, ok := s.Last("b@example.com"); ok {
		t.Error("Last(unknown) should be false")
	}
}

// TestResendSender_Params fills sender defaults and tags the category.
func TestResendSender_Params(t *testing.T) {
	s := NewResendSender("re_test", "goHuddleUp <noreply@huddle.test>", "support@huddle.test")

	p := s.sendParams(SendRequest{To: []string{"a@example.com"}, Subject: "Hi", Category: "confirmation"})
	if p.From != "goHuddleUp <noreply@huddle.test>" || p.ReplyTo != "support@huddle.test" {
		t.Errorf("defaults not applied: from %q reply-to %q", p.From, p.ReplyTo)
	}
	if len(p.Tags) != 1 || p.Tags[0].Name != "category" || p.Tags[0].Value != "confirmation" {
		t.Errorf("Tags = %+v", p.Tags)
	}

	p = s.sendParams(SendRequest{To: []string{"a@example.com"}, Subject: "Hi", From: "x@huddle.test", ReplyTo: "y@huddle.test"})
	if p.From != "x@huddle.test" || p.ReplyTo != "y@huddle.test" || p.Tags != nil {
		t.Errorf("overrides = %+v", p)
	}
}

// TestResendSender_RejectsInvalid never reaches the network.
func TestResendSender_RejectsInvalid(t *testing.T) {
	s := NewResendSender("re_test", "from@huddle.test", "")
	if _, err := s.Send(context.Background(), SendRequest{To: []string{"a@example.com"}}); !errors.Is(err, ErrNoSubject) {
		t.Errorf("Send(no subject) error = %v, want ErrNoSubject", err)
	}
}
