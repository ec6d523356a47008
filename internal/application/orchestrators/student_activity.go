package orchestrators

import (
	"context"
	"errors"

	"gohuddleup/internal/application/access"
	"gohuddleup/internal/domain/school"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
)

// ErrWrongHuddle is returned when a huddle is not at the student's school.
var ErrWrongHuddle = errors.New("huddle does not belong to the student's school")

// StudentLookup reads student profiles by profile or user id.
type StudentLookup interface {
	GetByID(ctx context.Context, id string) (student.Profile, error)
	GetByUserID(ctx context.Context, userID string) (student.Profile, error)
}

// HuddleDirectory resolves scopes and huddles.
type HuddleDirectory interface {
	access.Directory
	GetHuddle(ctx context.Context, id string) (school.Huddle, error)
}

// studentByID loads a profile, mapping a missing row to ErrProfileNotFound.
func studentByID(ctx context.Context, students StudentLookup, id string) (student.Profile, error) {
	p, err := students.GetByID(ctx, id)
	if isNotFound(err) {
		return student.Profile{}, ErrProfileNotFound
	}
	return p, err
}

// authorizeSchool checks that grantor reaches schoolID. Students no school has
// claimed yet are reachable only by SUPER.
func authorizeSchool(ctx context.Context, dir access.Directory, grantor []user.RoleAssignment, schoolID string) error {
	if schoolID == "" {
		return access.Authorize(grantor, access.Target{})
	}
	target, err := access.ResolveTarget(ctx, dir, user.ScopeSchool, schoolID)
	if err != nil {
		return err
	}
	return access.Authorize(grantor, target)
}
