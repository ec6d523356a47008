package event_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"gohuddleup/internal/adapters/storage"
	eventstore "gohuddleup/internal/adapters/storage/event"
	domain "gohuddleup/internal/domain/event"
	"gohuddleup/internal/testkit"
)

func TestSQLStore_Events(t *testing.T) {
	ctx := context.Background()
	db := testkit.OpenDB(t)
	dir := testkit.SeedDirectory(t, db)
	store := eventstore.NewSQLStore(db)

	start := testkit.Now.Add(30 * 24 * time.Hour)
	camp := domain.Event{
		ID: "e-camp", Name: "Summer Camp", Type: domain.TypeCamp, StartDate: start, EndDate: start.Add(72 * time.Hour),
		Location: "Lake Cumberland", StateID: dir.State.ID, MaxParticipants: 40, Cost: 150,
		RegistrationDeadline: start.Add(-7 * 24 * time.Hour), IsActive: true, CreatedAt: testkit.Now,
	}
	rally := domain.Event{ID: "e-rally", Name: "Fall Rally", Type: domain.TypeRally, StartDate: start.Add(-24 * time.Hour), SchoolID: dir.School.ID, IsActive: true, CreatedAt: testkit.Now}
	retired := domain.Event{ID: "e-old", Name: "Old Retreat", Type: domain.TypeRetreat, StartDate: start, CreatedAt: testkit.Now}
	for _, e := range []domain.Event{camp, rally, retired} {
		if err := store.InsertEvent(ctx, e); err != nil {
			t.Fatalf("InsertEvent(%s): %v", e.ID, err)
		}
	}

	got, err := store.GetEvent(ctx, "e-camp")
	if err != nil {
		t.Fatalf("GetEvent() error = %v", err)
	}
	if got.StateID != dir.State.ID || got.SchoolID != "" || got.Cost != 150 || !got.IsActive || !got.EndDate.Equal(camp.EndDate) {
		t.Errorf("GetEvent() = %+v", got)
	}
	if _, err := store.GetEvent(ctx, "nope"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("GetEvent(nope) error = %v, want ErrNotFound", err)
	}

	active, err := store.ListEvents(ctx, eventstore.ListFilter{ActiveOnly: true})
	if err != nil || len(active) != 2 || active[0].ID != "e-rally" {
		t.Errorf("ListEvents(active) = %+v, %v", active, err)
	}
	all, err := store.ListEvents(ctx, eventstore.ListFilter{})
	if err != nil || len(all) != 3 {
		t.Errorf("ListEvents() = %d events, %v", len(all), err)
	}

	if err := store.SetParticipants(ctx, "e-camp", 3); err != nil {
		t.Fatalf("SetParticipants() error = %v", err)
	}
	if got, _ := store.GetEvent(ctx, "e-camp"); got.CurrentParticipants != 3 {
		t.Errorf("CurrentParticipants = %d, want 3", got.CurrentParticipants)
	}
	if err := store.SetParticipants(ctx, "nope", 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("SetParticipants(nope) error = %v, want ErrNotFound", err)
	}
}

func TestSQLStore_Registrations(t *testing.T) {
	ctx := context.Background()
	db := testkit.OpenDB(t)
	kai := testkit.SeedStudent(t, db, "Kai", testkit.Directory{})
	ada := testkit.SeedStudent(t, db, "Ada", testkit.Directory{})
	store := eventstore.NewSQLStore(db)
	e := domain.Event{ID: "e1", Name: "Rally", Type: domain.TypeRally, StartDate: testkit.Now.Add(time.Hour), IsActive: true, CreatedAt: testkit.Now}
	if err := store.InsertEvent(ctx, e); err != nil {
		t.Fatal(err)
	}

	regs := []domain.Registration{
		{ID: "r1", StudentID: kai.ID, EventID: "e1", RegistrationDate: testkit.Now, Status: domain.RegistrationRegistered, PaymentStatus: domain.PaymentWaived, DietaryRestrictions: "vegetarian", CreatedAt: testkit.Now},
		{ID: "r2", StudentID: ada.ID, EventID: "e1", RegistrationDate: testkit.Now, Status: domain.RegistrationCancelled, PaymentStatus: domain.PaymentWaived, CreatedAt: testkit.Now},
	}
	for _, r := range regs {
		if err := store.InsertRegistration(ctx, r); err != nil {
			t.Fatalf("InsertRegistration(%s): %v", r.ID, err)
		}
	}
	dup := regs[0]
	dup.ID = "r3"
	if err := store.InsertRegistration(ctx, dup); !storage.IsUniqueViolation(err) {
		t.Errorf("duplicate registration error = %v, want unique violation", err)
	}

	n, err := store.CountRegistrations(ctx, "e1")
	if err != nil || n != 1 {
		t.Errorf("CountRegistrations() = %d, %v; want 1", n, err)
	}
	got, err := store.ListRegistrationsByStudentID(ctx, kai.ID)
	if err != nil || len(got) != 1 || got[0].DietaryRestrictions != "vegetarian" || !got[0].RegistrationDate.Equal(testkit.Now) {
		t.Errorf("ListRegistrationsByStudentID() = %+v, %v", got, err)
	}
}
