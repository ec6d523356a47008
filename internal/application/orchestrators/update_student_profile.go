package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gohuddleup/internal/domain/student"
)

// ErrProfileNotFound is returned when the user has no student profile.
var ErrProfileNotFound = errors.New("student profile not found")

// StudentProfileStore reads and patches student profiles.
type StudentProfileStore interface {
	GetByUserID(ctx context.Context, userID string) (student.Profile, error)
	Update(ctx context.Context, userID string, patch student.Patch, now time.Time) error
}

// UpdateStudentProfileInput carries a partial profile update.
type UpdateStudentProfileInput struct {
	UserID string
	Patch  student.Patch
}

// UpdateStudentProfileDeps holds dependencies for UpdateStudentProfile.
type UpdateStudentProfileDeps struct {
	Students StudentProfileStore
	Now      func() time.Time
}

// ExecuteUpdateStudentProfile applies a partial patch to the caller's own profile.
// PRE: UserID is the signed-in student's user id
// POST: Only fields present in Patch change; returns the stored profile after the write.
// An empty patch writes nothing and returns the current profile.
func ExecuteUpdateStudentProfile(ctx context.Context, input UpdateStudentProfileInput, deps UpdateStudentProfileDeps) (student.Profile, error) {
	current, err := deps.Students.GetByUserID(ctx, input.UserID)
	if err != nil {
		if isNotFound(err) {
			return student.Profile{}, ErrProfileNotFound
		}
		return student.Profile{}, err
	}
	if input.Patch.IsEmpty() {
		return current, nil
	}

	if input.Patch.Grade != nil {
		g := student.NormalizeGrade(*input.Patch.Grade)
		input.Patch.Grade = &g
	}
	now := deps.Now()
	candidate := current
	candidate.Apply(input.Patch, now)
	if err := candidate.Validate(); err != nil {
		return student.Profile{}, err
	}

	if err := deps.Students.Update(ctx, input.UserID, input.Patch, now); err != nil {
		if isNotFound(err) {
			return student.Profile{}, ErrProfileNotFound
		}
		return student.Profile{}, err
	}
	updated, err := deps.Students.GetByUserID(ctx, input.UserID)
	if err != nil {
		return student.Profile{}, err
	}
	slog.Info("profile_event", "event", "student_profile_updated", "user_id", input.UserID, "fields", len(input.Patch.Fields()))
	return updated, nil
}
