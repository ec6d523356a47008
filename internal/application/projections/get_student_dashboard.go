package projections

import (
	"context"

	"gohuddleup/internal/domain/achievement"
	"gohuddleup/internal/domain/attendance"
	"gohuddleup/internal/domain/event"
	"gohuddleup/internal/domain/ministry"
	"gohuddleup/internal/domain/parent"
)

// GetStudentDashboardQuery carries query parameters.
type GetStudentDashboardQuery struct {
	UserID string
}

// EventRegistrationView pairs a registration with the event it is for.
type EventRegistrationView struct {
	Registration event.Registration `json:"registration"`
	Event        event.Event        `json:"event"`
}

// StudentStats are the headline numbers on the student dashboard.
type StudentStats struct {
	TotalPoints              int `json:"total_points"`
	MeetingsAttended         int `json:"meetings_attended"`
	EventsRegistered         int `json:"events_registered"`
	AchievementsCount        int `json:"achievements_count"`
	CommunityServiceHours    int `json:"community_service_hours"`
	LeadershipPositionsCount int `json:"leadership_positions_count"`
}

// GetStudentDashboardResult carries everything the student dashboard shows.
type GetStudentDashboardResult struct {
	StudentProfileView
	Ministry     ministry.Data
	HasMinistry  bool
	Parents      []parent.Parent
	Events       []EventRegistrationView
	Achievements []achievement.Achievement
	Attendance   []attendance.Record
	Stats        StudentStats
}

// GetStudentDashboardDeps holds dependencies for GetStudentDashboard.
type GetStudentDashboardDeps struct {
	Students     StudentStore
	Directory    DirectoryStore
	Ministry     MinistryStore
	Parents      ParentStore
	Events       EventStore
	Achievements AchievementStore
	Attendance   AttendanceStore
}

// QueryGetStudentDashboard retrieves the joined profile, ministry data, parents,
// event registrations, achievements and attendance, and derives the stats.
// PRE: none
// POST: NotFound when the user has no profile. A registration whose event has
// been deleted is left out.
func QueryGetStudentDashboard(ctx context.Context, query GetStudentDashboardQuery, deps GetStudentDashboardDeps) Lookup[GetStudentDashboardResult] {
	profile := QueryGetStudentProfile(ctx, GetStudentProfileQuery(query), GetStudentProfileDeps{Students: deps.Students, Directory: deps.Directory})
	if !profile.Found() {
		return Lookup[GetStudentDashboardResult]{Outcome: profile.Outcome, Err: profile.Err}
	}
	result := GetStudentDashboardResult{StudentProfileView: profile.Value}
	studentID := profile.Value.Profile.ID

	data, err := deps.Ministry.GetByStudentID(ctx, studentID)
	switch {
	case err == nil:
		result.Ministry, result.HasMinistry = data, true
	case !isMissing(err):
		return failedLookup[GetStudentDashboardResult]("student_dashboard", err)
	}

	parents, err := deps.Parents.ListByStudentID(ctx, studentID)
	if err != nil {
		return failedLookup[GetStudentDashboardResult]("student_dashboard", err)
	}
	result.Parents = parents

	result.Events, err = registrationViews(ctx, deps.Events, studentID)
	if err != nil {
		return failedLookup[GetStudentDashboardResult]("student_dashboard", err)
	}
	result.Achievements, err = deps.Achievements.ListByStudentID(ctx, studentID)
	if err != nil {
		return failedLookup[GetStudentDashboardResult]("student_dashboard", err)
	}
	result.Attendance, err = deps.Attendance.ListByStudentID(ctx, studentID)
	if err != nil {
		return failedLookup[GetStudentDashboardResult]("student_dashboard", err)
	}

	p := profile.Value.Profile
	result.Stats = StudentStats{
		TotalPoints:              achievement.TotalPoints(result.Achievements),
		MeetingsAttended:         attendance.CountAttended(result.Attendance),
		EventsRegistered:         len(result.Events),
		AchievementsCount:        len(result.Achievements),
		CommunityServiceHours:    p.CommunityServiceHours,
		LeadershipPositionsCount: len(p.LeadershipPositions),
	}
	return found(result)
}

func registrationViews(ctx context.Context, events EventStore, studentID string) ([]EventRegistrationView, error) {
	regs, err := events.ListRegistrationsByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	views := make([]EventRegistrationView, 0, len(regs))
	for _, r := range regs {
		e, err := events.GetEvent(ctx, r.EventID)
		if isMissing(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		views = append(views, EventRegistrationView{Registration: r, Event: e})
	}
	return views, nil
}
