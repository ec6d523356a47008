package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gohuddleup/internal/application/access"
	"gohuddleup/internal/domain/achievement"
	"gohuddleup/internal/domain/user"
)

// AchievementWriter persists achievements.
type AchievementWriter interface {
	Insert(ctx context.Context, value achievement.Achievement) error
}

// AwardAchievementInput carries a new achievement.
type AwardAchievementInput struct {
	StudentID      string
	Type           string
	Title          string
	Description    string
	DateEarned     string // defaults to today
	CertificateURL string
	PointsAwarded  int
	AwardedBy      string
	Grantor        []user.RoleAssignment
}

// AwardAchievementDeps holds dependencies for AwardAchievement.
type AwardAchievementDeps struct {
	Students     StudentLookup
	Directory    access.Directory
	Achievements AchievementWriter
	NewID        func() string
	Now          func() time.Time
}

// ExecuteAwardAchievement awards an achievement to a student in the caller's scope.
// PRE: Grantor is the calling admin's role assignments
// POST: The achievement is stored; its points count toward the student's total
func ExecuteAwardAchievement(ctx context.Context, input AwardAchievementInput, deps AwardAchievementDeps) (achievement.Achievement, error) {
	p, err := studentByID(ctx, deps.Students, input.StudentID)
	if err != nil {
		return achievement.Achievement{}, err
	}
	if err := authorizeSchool(ctx, deps.Directory, input.Grantor, p.SchoolID); err != nil {
		return achievement.Achievement{}, err
	}

	now := deps.Now()
	a := achievement.Achievement{
		ID:             deps.NewID(),
		StudentID:      p.ID,
		Type:           strings.ToLower(strings.TrimSpace(input.Type)),
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		DateEarned:     strings.TrimSpace(input.DateEarned),
		AwardedBy:      input.AwardedBy,
		CertificateURL: strings.TrimSpace(input.CertificateURL),
		PointsAwarded:  input.PointsAwarded,
		CreatedAt:      now,
	}
	if a.DateEarned == "" {
		a.DateEarned = now.Format(achievement.DateLayout)
	}
	if err := a.Validate(); err != nil {
		return achievement.Achievement{}, err
	}
	if err := deps.Achievements.Insert(ctx, a); err != nil {
		return achievement.Achievement{}, err
	}
	slog.Info("activity_event", "event", "achievement_awarded", "student_id", p.ID, "type", a.Type, "points", a.PointsAwarded)
	return a, nil
}
