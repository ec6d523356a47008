package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gohuddleup/internal/adapters/storage"
	domain "gohuddleup/internal/domain/event"
)

var events = storage.NewTable("fca_events",
	"id", "name", "description", "event_type", "start_date", "end_date", "location",
	"school_id", "region_id", "state_id", "max_participants", "current_participants",
	"registration_deadline", "cost", "is_active", "created_at",
)

var registrations = storage.NewTable("student_event_registrations",
	"id", "student_id", "event_id", "registration_date", "status", "payment_status",
	"special_requests", "dietary_restrictions", "transportation_needs", "created_at",
)

// SQLStore implements Store on SQLite or Postgres.
type SQLStore struct {
	db storage.Querier
}

// NewSQLStore creates a new event store.
func NewSQLStore(db storage.Querier) *SQLStore {
	return &SQLStore{db: db}
}

// InsertEvent persists an event.
// PRE: value has been validated
// POST: Row is persisted
func (s *SQLStore) InsertEvent(ctx context.Context, e domain.Event) error {
	return events.Insert(ctx, s.db, map[string]any{
		"id":                    e.ID,
		"name":                  e.Name,
		"description":           e.Description,
		"event_type":            e.Type,
		"start_date":            storage.FormatTime(e.StartDate),
		"end_date":              storage.NullTime(e.EndDate),
		"location":              e.Location,
		"school_id":             storage.NullString(e.SchoolID),
		"region_id":             storage.NullString(e.RegionID),
		"state_id":              storage.NullString(e.StateID),
		"max_participants":      e.MaxParticipants,
		"current_participants":  e.CurrentParticipants,
		"registration_deadline": storage.NullTime(e.RegistrationDeadline),
		"cost":                  e.Cost,
		"is_active":             storage.BoolInt(e.IsActive),
		"created_at":            storage.FormatTime(e.CreatedAt),
	})
}

// GetEvent retrieves an event by id.
// POST: Returns an error wrapping storage.ErrNotFound when absent
func (s *SQLStore) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	var e domain.Event
	err := events.SelectOne(ctx, s.db, storage.Query{Where: []storage.Cond{storage.Eq("id", id)}}, func(row *sql.Row) error {
		var err error
		e, err = scanEvent(row.Scan)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Event{}, fmt.Errorf("event not found: %w", err)
	}
	return e, err
}

// ListEvents returns events in start order.
func (s *SQLStore) ListEvents(ctx context.Context, filter ListFilter) ([]domain.Event, error) {
	q := storage.Query{OrderBy: "start_date", Limit: filter.Limit}
	if filter.ActiveOnly {
		q.Where = append(q.Where, storage.Eq("is_active", 1))
	}
	rows, err := events.Select(ctx, s.db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Event
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, e)
	}
	return results, rows.Err()
}

// SetParticipants records the number of active registrations for an event.
// POST: Returns an error wrapping storage.ErrNotFound when the event is absent
func (s *SQLStore) SetParticipants(ctx context.Context, eventID string, n int) error {
	affected, err := events.Update(ctx, s.db,
		map[string]any{"current_participants": n},
		[]storage.Cond{storage.Eq("id", eventID)})
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("event not found: %w", storage.ErrNotFound)
	}
	return nil
}

// InsertRegistration persists a registration.
// PRE: value has been validated
// POST: Row is persisted; registering the same student twice fails with a unique violation
func (s *SQLStore) InsertRegistration(ctx context.Context, r domain.Registration) error {
	return registrations.Insert(ctx, s.db, map[string]any{
		"id":                   r.ID,
		"student_id":           r.StudentID,
		"event_id":             r.EventID,
		"registration_date":    storage.FormatTime(r.RegistrationDate),
		"status":               r.Status,
		"payment_status":       r.PaymentStatus,
		"special_requests":     r.SpecialRequests,
		"dietary_restrictions": r.DietaryRestrictions,
		"transportation_needs": r.TransportationNeeds,
		"created_at":           storage.FormatTime(r.CreatedAt),
	})
}

// ListRegistrationsByStudentID returns a student's registrations, newest first.
func (s *SQLStore) ListRegistrationsByStudentID(ctx context.Context, studentID string) ([]domain.Registration, error) {
	rows, err := registrations.Select(ctx, s.db, storage.Query{
		Where:   []storage.Cond{storage.Eq("student_id", studentID)},
		OrderBy: "registration_date",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Registration
	for rows.Next() {
		var r domain.Registration
		var registeredAt, createdAt string
		err := rows.Scan(
			&r.ID, &r.StudentID, &r.EventID, &registeredAt, &r.Status, &r.PaymentStatus,
			&r.SpecialRequests, &r.DietaryRestrictions, &r.TransportationNeeds, &createdAt,
		)
		if err != nil {
			return nil, err
		}
		r.RegistrationDate, _ = storage.ParseTime(registeredAt)
		r.CreatedAt, _ = storage.ParseTime(createdAt)
		results = append(results, r)
	}
	return results, rows.Err()
}

// CountRegistrations counts the registrations of an event that hold a seat.
// Cancelled registrations are not counted.
func (s *SQLStore) CountRegistrations(ctx context.Context, eventID string) (int, error) {
	return registrations.Count(ctx, s.db, []storage.Cond{
		storage.Eq("event_id", eventID),
		{Column: "status", Op: storage.OpIn, Value: []string{domain.RegistrationRegistered, domain.RegistrationAttended}},
	})
}

func scanEvent(scan func(dest ...any) error) (domain.Event, error) {
	var e domain.Event
	var start, created string
	var end, deadline, schoolID, regionID, stateID sql.NullString
	err := scan(
		&e.ID, &e.Name, &e.Description, &e.Type, &start, &end, &e.Location,
		&schoolID, &regionID, &stateID, &e.MaxParticipants, &e.CurrentParticipants,
		&deadline, &e.Cost, &e.IsActive, &created,
	)
	if err != nil {
		return domain.Event{}, err
	}
	e.StartDate, _ = storage.ParseTime(start)
	e.EndDate = storage.ParseNullTime(end)
	e.RegistrationDeadline = storage.ParseNullTime(deadline)
	e.SchoolID, e.RegionID, e.StateID = schoolID.String, regionID.String, stateID.String
	e.CreatedAt, _ = storage.ParseTime(created)
	return e, nil
}
