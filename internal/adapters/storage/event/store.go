package event

import (
	"context"

	domain "gohuddleup/internal/domain/event"
)

// Store persists FCA events and student registrations for them.
type Store interface {
	InsertEvent(ctx context.Context, value domain.Event) error
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	ListEvents(ctx context.Context, filter ListFilter) ([]domain.Event, error)
	SetParticipants(ctx context.Context, eventID string, n int) error

	InsertRegistration(ctx context.Context, value domain.Registration) error
	ListRegistrationsByStudentID(ctx context.Context, studentID string) ([]domain.Registration, error)
	CountRegistrations(ctx context.Context, eventID string) (int, error)
}

// ListFilter carries filtering parameters for ListEvents.
type ListFilter struct {
	ActiveOnly bool
	Limit      int
}
