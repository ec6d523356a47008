package orchestrators

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"gohuddleup/internal/application/access"
	"gohuddleup/internal/domain/achievement"
	"gohuddleup/internal/domain/attendance"
	"gohuddleup/internal/domain/event"
	"gohuddleup/internal/domain/user"
	"gohuddleup/internal/testkit"
)

func schoolAdmin(schoolID string) []user.RoleAssignment {
	return []user.RoleAssignment{{Role: user.RoleSchool, ScopeType: user.ScopeSchool, ScopeID: schoolID}}
}

func superAdmin() []user.RoleAssignment {
	return []user.RoleAssignment{{Role: user.RoleSuper, ScopeType: user.ScopeState, ScopeID: "any"}}
}

func attendanceDeps(b testkit.Backend) RecordAttendanceDeps {
	return RecordAttendanceDeps{Students: b.Server.Students(), Directory: b.Server.Schools(), Attendance: b.Server.Attendance(), NewID: uuid.NewString, Now: fixedNow}
}

// TestExecuteRecordAttendance defaults the huddle and date and rejects a second mark.
func TestExecuteRecordAttendance(t *testing.T) {
	b := testkit.OpenBackend(t)
	ctx := context.Background()
	dir := testkit.SeedDirectory(t, b.Service.DB())
	p := testkit.SeedStudent(t, b.Service.DB(), "Kai", dir)
	deps := attendanceDeps(b)

	got, err := ExecuteRecordAttendance(ctx, RecordAttendanceInput{
		StudentID: p.ID, Status: " Present ", RecordedBy: "admin-1", Grantor: schoolAdmin(dir.School.ID),
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteRecordAttendance() error = %v", err)
	}
	if got.HuddleID != dir.Huddle.ID || got.MeetingDate != "2024-09-03" || got.Status != attendance.StatusPresent {
		t.Errorf("record = %+v", got)
	}
	stored, err := b.Server.Attendance().ListByStudentID(ctx, p.ID)
	if err != nil || len(stored) != 1 || stored[0].RecordedBy != "admin-1" {
		t.Errorf("stored = %+v, %v", stored, err)
	}

	_, err = ExecuteRecordAttendance(ctx, RecordAttendanceInput{
		StudentID: p.ID, MeetingDate: "2024-09-03", Status: attendance.StatusAbsent, Grantor: schoolAdmin(dir.School.ID),
	}, deps)
	if !errors.Is(err, attendance.ErrAlreadyRecorded) {
		t.Errorf("second mark error = %v, want ErrAlreadyRecorded", err)
	}
}

func TestExecuteRecordAttendance_Rejects(t *testing.T) {
	b := testkit.OpenBackend(t)
	ctx := context.Background()
	db := b.Service.DB()
	ky := testkit.SeedDirectory(t, db)
	tn := testkit.SeedSchool(t, db, "TN", "Nashville", "Hillsboro High", "Burros FCA")
	p := testkit.SeedStudent(t, db, "Kai", ky)
	unplaced := testkit.SeedStudent(t, db, "Ada", testkit.Directory{})

	tests := []struct {
		name  string
		input RecordAttendanceInput
		want  error
	}{
		{"other school admin", RecordAttendanceInput{StudentID: p.ID, Status: attendance.StatusPresent, Grantor: schoolAdmin(tn.School.ID)}, access.ErrOutOfScope},
		{"huddle at another school", RecordAttendanceInput{StudentID: p.ID, HuddleID: tn.Huddle.ID, Status: attendance.StatusPresent, Grantor: superAdmin()}, ErrWrongHuddle},
		{"no huddle", RecordAttendanceInput{StudentID: unplaced.ID, Status: attendance.StatusPresent, Grantor: superAdmin()}, attendance.ErrEmptyHuddleID},
		{"bad status", RecordAttendanceInput{StudentID: p.ID, Status: "here", Grantor: superAdmin()}, attendance.ErrInvalidStatus},
		{"unknown student", RecordAttendanceInput{StudentID: "nope", Status: attendance.StatusPresent, Grantor: superAdmin()}, ErrProfileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExecuteRecordAttendance(ctx, tt.input, attendanceDeps(b)); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestExecuteAwardAchievement stores the award for students in scope only.
func TestExecuteAwardAchievement(t *testing.T) {
	b := testkit.OpenBackend(t)
	ctx := context.Background()
	db := b.Service.DB()
	ky := testkit.SeedDirectory(t, db)
	tn := testkit.SeedSchool(t, db, "TN", "Nashville", "Hillsboro High", "Burros FCA")
	p := testkit.SeedStudent(t, db, "Kai", ky)
	deps := AwardAchievementDeps{Students: b.Server.Students(), Directory: b.Server.Schools(), Achievements: b.Server.Achievements(), NewID: uuid.NewString, Now: fixedNow}

	got, err := ExecuteAwardAchievement(ctx, AwardAchievementInput{
		StudentID: p.ID, Type: "Leadership", Title: " Huddle Captain ", PointsAwarded: 40, AwardedBy: "coach@example.com",
		Grantor: schoolAdmin(ky.School.ID),
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteAwardAchievement() error = %v", err)
	}
	if got.Type != achievement.TypeLeadership || got.Title != "Huddle Captain" || got.DateEarned != "2024-09-03" {
		t.Errorf("achievement = %+v", got)
	}
	stored, err := b.Server.Achievements().ListByStudentID(ctx, p.ID)
	if err != nil || len(stored) != 1 || stored[0].PointsAwarded != 40 {
		t.Errorf("stored = %+v, %v", stored, err)
	}

	_, err = ExecuteAwardAchievement(ctx, AwardAchievementInput{StudentID: p.ID, Type: achievement.TypeFCA, Title: "X", Grantor: schoolAdmin(tn.School.ID)}, deps)
	if !errors.Is(err, access.ErrOutOfScope) {
		t.Errorf("out of scope error = %v", err)
	}
	_, err = ExecuteAwardAchievement(ctx, AwardAchievementInput{StudentID: p.ID, Type: achievement.TypeFCA, Title: "X", PointsAwarded: -1, Grantor: superAdmin()}, deps)
	if !errors.Is(err, achievement.ErrNegativePoints) {
		t.Errorf("negative points error = %v", err)
	}
}

// TestExecuteCreateEvent fills in the scope's ancestors and reserves global events for SUPER.
func TestExecuteCreateEvent(t *testing.T) {
	b := testkit.OpenBackend(t)
	ctx := context.Background()
	dir := testkit.SeedDirectory(t, b.Service.DB())
	deps := CreateEventDeps{Directory: b.Server.Schools(), Events: b.Server.Events(), NewID: uuid.NewString, Now: fixedNow}
	start := testkit.Now.Add(30 * 24 * time.Hour)

	got, err := ExecuteCreateEvent(ctx, CreateEventInput{
		Name: "Fields of Faith", Type: "Rally", StartDate: start, SchoolID: dir.School.ID, Grantor: schoolAdmin(dir.School.ID),
	}, deps)
	if err != nil {
		t.Fatalf("ExecuteCreateEvent() error = %v", err)
	}
	if got.RegionID != dir.Region.ID || got.StateID != dir.State.ID || !got.IsActive || got.Type != event.TypeRally {
		t.Errorf("event = %+v", got)
	}
	if stored, err := b.Server.Events().GetEvent(ctx, got.ID); err != nil || stored.SchoolID != dir.School.ID {
		t.Errorf("stored = %+v, %v", stored, err)
	}

	tests := []struct {
		name  string
		input CreateEventInput
		want  error
	}{
		{"region event by school admin", CreateEventInput{Name: "Rally", Type: event.TypeRally, StartDate: start, RegionID: dir.Region.ID, Grantor: schoolAdmin(dir.School.ID)}, access.ErrOutOfScope},
		{"global event by school admin", CreateEventInput{Name: "Rally", Type: event.TypeRally, StartDate: start, Grantor: schoolAdmin(dir.School.ID)}, access.ErrOutOfScope},
		{"no start", CreateEventInput{Name: "Rally", Type: event.TypeRally, Grantor: superAdmin()}, event.ErrMissingStart},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExecuteCreateEvent(ctx, tt.input, deps); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := ExecuteCreateEvent(ctx, CreateEventInput{Name: "National Camp", Type: event.TypeCamp, StartDate: start, Grantor: superAdmin()}, deps); err != nil {
		t.Errorf("global event by SUPER: %v", err)
	}
}

// TestExecuteRegisterForEvent registers once, keeps the seat count in step and
// hides events outside the student's placement.
func TestExecuteRegisterForEvent(t *testing.T) {
	b := testkit.OpenBackend(t)
	ctx := context.Background()
	db := b.Service.DB()
	ky := testkit.SeedDirectory(t, db)
	tn := testkit.SeedSchool(t, db, "TN", "Nashville", "Hillsboro High", "Burros FCA")
	kai := testkit.SeedStudent(t, db, "Kai", ky)
	ada := testkit.SeedStudent(t, db, "Ada", ky)
	start := testkit.Now.Add(7 * 24 * time.Hour)
	for _, e := range []event.Event{
		{ID: "camp", Name: "Camp", Type: event.TypeCamp, StartDate: start, StateID: ky.State.ID, MaxParticipants: 1, Cost: 100, IsActive: true, CreatedAt: testkit.Now},
		{ID: "tn-rally", Name: "TN Rally", Type: event.TypeRally, StartDate: start, StateID: tn.State.ID, IsActive: true, CreatedAt: testkit.Now},
		{ID: "past", Name: "Past", Type: event.TypeRally, StartDate: testkit.Now.Add(-time.Hour), IsActive: true, CreatedAt: testkit.Now},
	} {
		if err := b.Server.Events().InsertEvent(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	deps := RegisterForEventDeps{Students: b.Server.Students(), Directory: b.Server.Schools(), Tx: b.Server.WithTx, NewID: uuid.NewString, Now: fixedNow}

	reg, err := ExecuteRegisterForEvent(ctx, RegisterForEventInput{UserID: kai.UserID, EventID: "camp", DietaryRestrictions: " none "}, deps)
	if err != nil {
		t.Fatalf("ExecuteRegisterForEvent() error = %v", err)
	}
	if reg.PaymentStatus != event.PaymentPending || reg.DietaryRestrictions != "none" {
		t.Errorf("registration = %+v", reg)
	}
	if e, _ := b.Server.Events().GetEvent(ctx, "camp"); e.CurrentParticipants != 1 {
		t.Errorf("CurrentParticipants = %d, want 1", e.CurrentParticipants)
	}

	tests := []struct {
		name  string
		input RegisterForEventInput
		want  error
	}{
		{"twice", RegisterForEventInput{UserID: kai.UserID, EventID: "camp"}, event.ErrAlreadyRegistered},
		{"full", RegisterForEventInput{UserID: ada.UserID, EventID: "camp"}, event.ErrRegistrationClosed},
		{"other state", RegisterForEventInput{UserID: ada.UserID, EventID: "tn-rally"}, event.ErrEventNotFound},
		{"started", RegisterForEventInput{UserID: ada.UserID, EventID: "past"}, event.ErrRegistrationClosed},
		{"unknown event", RegisterForEventInput{UserID: ada.UserID, EventID: "nope"}, event.ErrEventNotFound},
		{"no profile", RegisterForEventInput{UserID: "nobody", EventID: "camp"}, ErrProfileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExecuteRegisterForEvent(ctx, tt.input, deps); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
	if regs, _ := b.Server.Events().ListRegistrationsByStudentID(ctx, ada.ID); len(regs) != 0 {
		t.Errorf("ada registrations = %+v, want none", regs)
	}
}
