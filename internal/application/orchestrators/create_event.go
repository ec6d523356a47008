package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gohuddleup/internal/application/access"
	"gohuddleup/internal/domain/event"
	"gohuddleup/internal/domain/user"
)

// EventWriter persists events.
type EventWriter interface {
	InsertEvent(ctx context.Context, value event.Event) error
}

// CreateEventInput carries a new event. At most the narrowest of SchoolID,
// RegionID and StateID is used; the others are filled in from the directory.
type CreateEventInput struct {
	Name                 string
	Description          string
	Type                 string
	StartDate            time.Time
	EndDate              time.Time
	Location             string
	SchoolID             string
	RegionID             string
	StateID              string
	MaxParticipants      int
	RegistrationDeadline time.Time
	Cost                 float64
	Grantor              []user.RoleAssignment
}

// CreateEventDeps holds dependencies for CreateEvent.
type CreateEventDeps struct {
	Directory access.Directory
	Events    EventWriter
	NewID     func() string
	Now       func() time.Time
}

// ExecuteCreateEvent publishes an active event to the scope it names.
// PRE: Grantor is the calling admin's role assignments
// POST: The event is stored with no participants
// INVARIANT: The caller's scope must cover the event's scope; only SUPER may
// publish an event open to every student
func ExecuteCreateEvent(ctx context.Context, input CreateEventInput, deps CreateEventDeps) (event.Event, error) {
	e := event.Event{
		ID:                   deps.NewID(),
		Name:                 strings.TrimSpace(input.Name),
		Description:          strings.TrimSpace(input.Description),
		Type:                 strings.ToLower(strings.TrimSpace(input.Type)),
		StartDate:            input.StartDate,
		EndDate:              input.EndDate,
		Location:             strings.TrimSpace(input.Location),
		MaxParticipants:      input.MaxParticipants,
		RegistrationDeadline: input.RegistrationDeadline,
		Cost:                 input.Cost,
		IsActive:             true,
		CreatedAt:            deps.Now(),
	}
	if err := e.Validate(); err != nil {
		return event.Event{}, err
	}

	target, err := eventTarget(ctx, deps.Directory, input)
	if err != nil {
		return event.Event{}, err
	}
	if err := access.Authorize(input.Grantor, target); err != nil {
		return event.Event{}, err
	}
	e.StateID, e.RegionID, e.SchoolID = target.StateID, target.RegionID, target.SchoolID

	if err := deps.Events.InsertEvent(ctx, e); err != nil {
		return event.Event{}, err
	}
	slog.Info("activity_event", "event", "event_created", "event_id", e.ID, "type", e.Type, "state_id", e.StateID, "region_id", e.RegionID, "school_id", e.SchoolID)
	return e, nil
}

// eventTarget resolves the narrowest scope named by input. No scope is the
// empty target, which only SUPER covers.
func eventTarget(ctx context.Context, dir access.Directory, input CreateEventInput) (access.Target, error) {
	scopes := []struct{ typ, id string }{
		{user.ScopeSchool, input.SchoolID},
		{user.ScopeRegion, input.RegionID},
		{user.ScopeState, input.StateID},
	}
	for _, s := range scopes {
		if id := strings.TrimSpace(s.id); id != "" {
			return access.ResolveTarget(ctx, dir, s.typ, id)
		}
	}
	return access.Target{}, nil
}
