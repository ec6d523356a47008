package projections

import (
	"context"
	"time"

	eventstore "gohuddleup/internal/adapters/storage/event"
	"gohuddleup/internal/domain/event"
)

// ListStudentEventsQuery carries query parameters.
type ListStudentEventsQuery struct {
	UserID string
	Now    time.Time
}

// StudentEventView is an upcoming event as one student sees it.
type StudentEventView struct {
	Event      event.Event `json:"event"`
	Open       bool        `json:"registration_open"`
	Registered bool        `json:"registered"`
}

// ListStudentEventsDeps holds dependencies for ListStudentEvents.
type ListStudentEventsDeps struct {
	Students  StudentStore
	Directory DirectoryStore
	Events    EventStore
}

// QueryListStudentEvents lists the active, not yet started events that reach
// the student's school, region or state, soonest first.
// PRE: none
// POST: NotFound when the user has no profile. Unplaced students see only
// events open to everyone.
func QueryListStudentEvents(ctx context.Context, query ListStudentEventsQuery, deps ListStudentEventsDeps) Lookup[[]StudentEventView] {
	profile := QueryGetStudentProfile(ctx, GetStudentProfileQuery{UserID: query.UserID}, GetStudentProfileDeps{Students: deps.Students, Directory: deps.Directory})
	if !profile.Found() {
		return Lookup[[]StudentEventView]{Outcome: profile.Outcome, Err: profile.Err}
	}
	sc := profile.Value.School

	events, err := deps.Events.ListEvents(ctx, eventstore.ListFilter{ActiveOnly: true})
	if err != nil {
		return failedLookup[[]StudentEventView]("student_events", err)
	}
	regs, err := deps.Events.ListRegistrationsByStudentID(ctx, profile.Value.Profile.ID)
	if err != nil {
		return failedLookup[[]StudentEventView]("student_events", err)
	}
	registered := make(map[string]bool, len(regs))
	for _, r := range regs {
		if r.Status != event.RegistrationCancelled {
			registered[r.EventID] = true
		}
	}

	views := []StudentEventView{}
	for _, e := range events {
		if e.StartDate.Before(query.Now) || !e.Reaches(sc.StateID, sc.RegionID, sc.ID) {
			continue
		}
		views = append(views, StudentEventView{
			Event:      e,
			Open:       e.RegistrationOpen(query.Now) && !registered[e.ID],
			Registered: registered[e.ID],
		})
	}
	return found(views)
}
