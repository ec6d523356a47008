package projections

import (
	"context"

	eventstore "gohuddleup/internal/adapters/storage/event"
	schoolstore "gohuddleup/internal/adapters/storage/school"
	studentstore "gohuddleup/internal/adapters/storage/student"
	userstore "gohuddleup/internal/adapters/storage/user"
	"gohuddleup/internal/domain/achievement"
	"gohuddleup/internal/domain/attendance"
	"gohuddleup/internal/domain/event"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/ministry"
	"gohuddleup/internal/domain/parent"
	"gohuddleup/internal/domain/school"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
)

// SessionResolver resolves an access token to its identity.
type SessionResolver interface {
	GetUser(ctx context.Context, accessToken string) (identity.Identity, error)
}

// UserStore interface for users and role assignment queries.
type UserStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	Count(ctx context.Context, filter userstore.ListFilter) (int, error)
	ListAssignments(ctx context.Context, userID string) ([]user.RoleAssignment, error)
}

// StudentStore interface for student profile queries.
type StudentStore interface {
	GetByUserID(ctx context.Context, userID string) (student.Profile, error)
	List(ctx context.Context, filter studentstore.ListFilter) ([]student.Profile, error)
	Count(ctx context.Context, filter studentstore.ListFilter) (int, error)
}

// DirectoryStore interface for school directory queries.
type DirectoryStore interface {
	GetState(ctx context.Context, id string) (school.State, error)
	GetStateByCode(ctx context.Context, code string) (school.State, error)
	ListStates(ctx context.Context) ([]school.State, error)
	GetRegion(ctx context.Context, id string) (school.Region, error)
	GetSchool(ctx context.Context, id string) (school.School, error)
	ListSchools(ctx context.Context, filter schoolstore.SchoolFilter) ([]school.School, error)
	GetHuddle(ctx context.Context, id string) (school.Huddle, error)
	ListHuddles(ctx context.Context, schoolID string) ([]school.Huddle, error)
}

// MinistryStore interface for ministry data queries.
type MinistryStore interface {
	GetByStudentID(ctx context.Context, studentID string) (ministry.Data, error)
}

// ParentStore interface for parent queries.
type ParentStore interface {
	ListByStudentID(ctx context.Context, studentID string) ([]parent.Parent, error)
}

// EventStore interface for event and registration queries.
type EventStore interface {
	GetEvent(ctx context.Context, id string) (event.Event, error)
	ListEvents(ctx context.Context, filter eventstore.ListFilter) ([]event.Event, error)
	ListRegistrationsByStudentID(ctx context.Context, studentID string) ([]event.Registration, error)
}

// AchievementStore interface for achievement queries.
type AchievementStore interface {
	ListByStudentID(ctx context.Context, studentID string) ([]achievement.Achievement, error)
}

// AttendanceStore interface for attendance queries.
type AttendanceStore interface {
	ListByStudentID(ctx context.Context, studentID string) ([]attendance.Record, error)
}
