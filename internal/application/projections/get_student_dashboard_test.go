package projections

import (
	"context"
	"testing"
	"time"

	"gohuddleup/internal/domain/achievement"
	"gohuddleup/internal/domain/attendance"
	"gohuddleup/internal/domain/event"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
	"gohuddleup/internal/testkit"
)

// TestQueryGetStudentDashboard gathers ministry data and parents by profile id.
func TestQueryGetStudentDashboard(t *testing.T) {
	s := openStores(t)
	dir := testkit.SeedDirectory(t, s.db)
	p := s.addStudent(t, dir.School.ID, "", user.StatusActive, testkit.Now)
	s.addMinistry(t, p.ID)
	s.addParent(t, p.ID, "Pat")
	s.addParent(t, p.ID, "Sam")
	bare := s.addStudent(t, "", "", user.StatusActive, testkit.Now)
	deps := s.dashboardDeps()
	ctx := context.Background()

	got := QueryGetStudentDashboard(ctx, GetStudentDashboardQuery{UserID: p.UserID}, deps)
	if !got.Found() {
		t.Fatalf("outcome = %v, err = %v", got.Outcome, got.Err)
	}
	if !got.Value.HasMinistry || got.Value.Ministry.ChurchName != "Grace Community" || len(got.Value.Parents) != 2 {
		t.Errorf("dashboard = %+v", got.Value)
	}
	if got.Value.School.ID != dir.School.ID {
		t.Errorf("School = %+v", got.Value.School)
	}

	got = QueryGetStudentDashboard(ctx, GetStudentDashboardQuery{UserID: bare.UserID}, deps)
	if !got.Found() || got.Value.HasMinistry || len(got.Value.Parents) != 0 {
		t.Errorf("bare dashboard = %+v", got)
	}
	if got.Value.Stats != (StudentStats{}) || len(got.Value.Events) != 0 {
		t.Errorf("bare stats = %+v, events = %+v", got.Value.Stats, got.Value.Events)
	}

	got = QueryGetStudentDashboard(ctx, GetStudentDashboardQuery{UserID: "nobody"}, deps)
	if got.Outcome != OutcomeNotFound || got.Err != nil {
		t.Errorf("missing dashboard = %v, %v; want not found", got.Outcome, got.Err)
	}
}

// TestQueryGetStudentDashboard_Activity lists events, achievements and
// attendance and derives the stats from them and the profile.
func TestQueryGetStudentDashboard_Activity(t *testing.T) {
	s := openStores(t)
	ctx := context.Background()
	dir := testkit.SeedDirectory(t, s.db)
	p := s.addStudent(t, dir.School.ID, dir.Huddle.ID, user.StatusActive, testkit.Now)
	hours, positions := 12, []string{"Huddle Captain", "Team Chaplain"}
	if err := s.students.Update(ctx, p.UserID, student.Patch{CommunityServiceHours: &hours, LeadershipPositions: &positions}, testkit.Now); err != nil {
		t.Fatal(err)
	}

	start := testkit.Now.Add(14 * 24 * time.Hour)
	for _, e := range []event.Event{
		{ID: "camp", Name: "Summer Camp", Type: event.TypeCamp, StartDate: start, IsActive: true, CreatedAt: testkit.Now},
		{ID: "rally", Name: "Fall Rally", Type: event.TypeRally, StartDate: start, IsActive: true, CreatedAt: testkit.Now},
	} {
		if err := s.events.InsertEvent(ctx, e); err != nil {
			t.Fatal(err)
		}
	}
	for i, id := range []string{"camp", "rally"} {
		r := event.Registration{
			ID: "reg-" + id, StudentID: p.ID, EventID: id, RegistrationDate: testkit.Now.Add(time.Duration(i) * time.Hour),
			Status: event.RegistrationRegistered, PaymentStatus: event.PaymentWaived, CreatedAt: testkit.Now,
		}
		if err := s.events.InsertRegistration(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	for _, a := range []achievement.Achievement{
		{ID: "a1", StudentID: p.ID, Type: achievement.TypeService, Title: "Service Star", DateEarned: "2024-05-01", PointsAwarded: 20, CreatedAt: testkit.Now},
		{ID: "a2", StudentID: p.ID, Type: achievement.TypeFCA, Title: "Camp Graduate", DateEarned: "2024-07-01", PointsAwarded: 35, CreatedAt: testkit.Now},
	} {
		if err := s.achievements.Insert(ctx, a); err != nil {
			t.Fatal(err)
		}
	}
	for date, status := range map[string]string{
		"2024-08-20": attendance.StatusPresent,
		"2024-08-27": attendance.StatusLate,
		"2024-09-03": attendance.StatusAbsent,
	} {
		r := attendance.Record{ID: "att-" + date, StudentID: p.ID, HuddleID: dir.Huddle.ID, MeetingDate: date, Status: status, CreatedAt: testkit.Now}
		if err := s.attendance.Insert(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	got := QueryGetStudentDashboard(ctx, GetStudentDashboardQuery{UserID: p.UserID}, s.dashboardDeps())
	if !got.Found() {
		t.Fatalf("outcome = %v, err = %v", got.Outcome, got.Err)
	}
	v := got.Value
	want := StudentStats{
		TotalPoints: 55, MeetingsAttended: 2, EventsRegistered: 2, AchievementsCount: 2,
		CommunityServiceHours: 12, LeadershipPositionsCount: 2,
	}
	if v.Stats != want {
		t.Errorf("Stats = %+v, want %+v", v.Stats, want)
	}
	if len(v.Events) != 2 || v.Events[0].Event.Name != "Fall Rally" || v.Events[1].Registration.EventID != "camp" {
		t.Errorf("Events = %+v", v.Events)
	}
	if v.Achievements[0].Title != "Camp Graduate" {
		t.Errorf("Achievements[0] = %+v, want most recent first", v.Achievements[0])
	}
	if len(v.Attendance) != 3 || v.Attendance[0].MeetingDate != "2024-09-03" {
		t.Errorf("Attendance = %+v, want newest meeting first", v.Attendance)
	}
}

// TestQueryGetStudentDashboard_ClosedDatabase reports a failure, not a missing profile.
func TestQueryGetStudentDashboard_ClosedDatabase(t *testing.T) {
	s := openStores(t)
	p := s.addStudent(t, "", "", user.StatusActive, testkit.Now)
	s.db.Close()

	got := QueryGetStudentDashboard(context.Background(), GetStudentDashboardQuery{UserID: p.UserID}, s.dashboardDeps())
	if got.Outcome != OutcomeFailed || got.Err == nil {
		t.Errorf("outcome = %v, err = %v; want failed", got.Outcome, got.Err)
	}
}
