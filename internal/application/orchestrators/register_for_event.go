package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gohuddleup/internal/adapters/backend"
	"gohuddleup/internal/adapters/storage"
	"gohuddleup/internal/application/access"
	"gohuddleup/internal/domain/event"
	"gohuddleup/internal/domain/user"
)

// RegisterForEventInput carries a student's sign-up for an event.
type RegisterForEventInput struct {
	UserID              string
	EventID             string
	SpecialRequests     string
	DietaryRestrictions string
	TransportationNeeds string
}

// RegisterForEventDeps holds dependencies for RegisterForEvent.
type RegisterForEventDeps struct {
	Students  StudentLookup
	Directory access.Directory
	Tx        TxFunc
	NewID     func() string
	Now       func() time.Time
}

// ExecuteRegisterForEvent registers the signed-in student for an event.
// PRE: UserID is the signed-in student's user id
// POST: One registration exists and the event's participant count matches its
// registrations. Events outside the student's placement are reported as
// event.ErrEventNotFound.
// INVARIANT: A capped event never holds more registrations than seats
func ExecuteRegisterForEvent(ctx context.Context, input RegisterForEventInput, deps RegisterForEventDeps) (event.Registration, error) {
	p, err := deps.Students.GetByUserID(ctx, input.UserID)
	if err != nil {
		if isNotFound(err) {
			return event.Registration{}, ErrProfileNotFound
		}
		return event.Registration{}, err
	}
	var placed access.Target
	if p.SchoolID != "" {
		placed, err = access.ResolveTarget(ctx, deps.Directory, user.ScopeSchool, p.SchoolID)
		if err != nil {
			return event.Registration{}, err
		}
	}

	now := deps.Now()
	reg := event.Registration{
		ID:                  deps.NewID(),
		StudentID:           p.ID,
		EventID:             input.EventID,
		RegistrationDate:    now,
		Status:              event.RegistrationRegistered,
		SpecialRequests:     strings.TrimSpace(input.SpecialRequests),
		DietaryRestrictions: strings.TrimSpace(input.DietaryRestrictions),
		TransportationNeeds: strings.TrimSpace(input.TransportationNeeds),
		CreatedAt:           now,
	}
	err = deps.Tx(ctx, func(tx backend.Tables) error {
		e, err := tx.Events().GetEvent(ctx, input.EventID)
		if isNotFound(err) || (err == nil && !e.Reaches(placed.StateID, placed.RegionID, placed.SchoolID)) {
			return event.ErrEventNotFound
		}
		if err != nil {
			return err
		}
		if !e.RegistrationOpen(now) {
			return event.ErrRegistrationClosed
		}
		reg.PaymentStatus = event.InitialPayment(e)
		if err := reg.Validate(); err != nil {
			return err
		}
		if err := tx.Events().InsertRegistration(ctx, reg); err != nil {
			if storage.IsUniqueViolation(err) {
				return event.ErrAlreadyRegistered
			}
			return err
		}
		n, err := tx.Events().CountRegistrations(ctx, e.ID)
		if err != nil {
			return err
		}
		if e.MaxParticipants > 0 && n > e.MaxParticipants {
			return event.ErrRegistrationClosed
		}
		return tx.Events().SetParticipants(ctx, e.ID, n)
	})
	if err != nil {
		return event.Registration{}, err
	}
	slog.Info("activity_event", "event", "event_registered", "student_id", p.ID, "event_id", input.EventID, "payment_status", reg.PaymentStatus)
	return reg, nil
}
