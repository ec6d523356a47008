// Package event models FCA events such as camps and rallies, and the
// registrations students make for them.
package event

import (
	"errors"
	"strings"
	"time"
)

// Event types
const (
	TypeCamp        = "camp"
	TypeConference  = "conference"
	TypeRally       = "rally"
	TypeRetreat     = "retreat"
	TypeService     = "service"
	TypeCompetition = "competition"
	TypeOther       = "other"
)

// ValidTypes contains all valid event types.
var ValidTypes = []string{TypeCamp, TypeConference, TypeRally, TypeRetreat, TypeService, TypeCompetition, TypeOther}

// Domain errors
var (
	ErrEmptyName          = errors.New("event name cannot be empty")
	ErrInvalidType        = errors.New("event type must be one of: camp, conference, rally, retreat, service, competition, other")
	ErrMissingStart       = errors.New("event start date must be set")
	ErrEndBeforeStart     = errors.New("event cannot end before it starts")
	ErrNegativeCapacity   = errors.New("max participants cannot be negative")
	ErrNegativeCost       = errors.New("cost cannot be negative")
	ErrDeadlineAfterStart = errors.New("registration deadline cannot be after the event starts")
)

// Event is an FCA gathering students can register for. An event with no
// school, region or state is open to every student; otherwise it is limited to
// the narrowest scope set.
type Event struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Type                 string    `json:"event_type"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	Location             string    `json:"location"`
	SchoolID             string    `json:"school_id,omitempty"`
	RegionID             string    `json:"region_id,omitempty"`
	StateID              string    `json:"state_id,omitempty"`
	MaxParticipants      int       `json:"max_participants"` // zero means unlimited
	CurrentParticipants  int       `json:"current_participants"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	Cost                 float64   `json:"cost"`
	IsActive             bool      `json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
}

// Validate checks if the Event has valid data.
// PRE: Event struct is populated
// POST: Returns nil if valid, error otherwise
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyName
	}
	if !isValidType(e.Type) {
		return ErrInvalidType
	}
	if e.StartDate.IsZero() {
		return ErrMissingStart
	}
	if !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
		return ErrEndBeforeStart
	}
	if e.MaxParticipants < 0 {
		return ErrNegativeCapacity
	}
	if e.Cost < 0 {
		return ErrNegativeCost
	}
	if !e.RegistrationDeadline.IsZero() && e.RegistrationDeadline.After(e.StartDate) {
		return ErrDeadlineAfterStart
	}
	return nil
}

// IsFull reports whether a capped event has no seats left.
func (e *Event) IsFull() bool {
	return e.MaxParticipants > 0 && e.CurrentParticipants >= e.MaxParticipants
}

// RegistrationOpen reports whether a student may register at now.
// Registration closes at the deadline, or at the start when no deadline is set.
func (e *Event) RegistrationOpen(now time.Time) bool {
	if !e.IsActive || e.IsFull() {
		return false
	}
	closes := e.RegistrationDeadline
	if closes.IsZero() {
		closes = e.StartDate
	}
	return now.Before(closes)
}

// Reaches reports whether a student placed at the given school, region and
// state may see the event.
func (e *Event) Reaches(stateID, regionID, schoolID string) bool {
	switch {
	case e.SchoolID != "":
		return e.SchoolID == schoolID
	case e.RegionID != "":
		return e.RegionID == regionID
	case e.StateID != "":
		return e.StateID == stateID
	}
	return true
}

func isValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}
