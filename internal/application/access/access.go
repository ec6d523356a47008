// Package access decides whether an admin's role assignments reach a point in
// the school directory.
package access

import (
	"context"
	"errors"
	"fmt"

	"gohuddleup/internal/domain/school"
	"gohuddleup/internal/domain/user"
)

// Authorization errors
var (
	ErrOutOfScope  = errors.New("target is outside the caller's scope")
	ErrCannotGrant = fmt.Errorf("%w: role is not below the caller's own", ErrOutOfScope)
)

// Target is a resolved point in the directory. Narrower targets carry their
// ancestors, so a school target also names its region and state.
type Target struct {
	StateID  string
	RegionID string
	SchoolID string
}

// Directory is the slice of the school store needed to resolve scopes.
type Directory interface {
	GetState(ctx context.Context, id string) (school.State, error)
	GetRegion(ctx context.Context, id string) (school.Region, error)
	GetSchool(ctx context.Context, id string) (school.School, error)
}

// ResolveTarget looks up a scope and fills in its ancestors.
// PRE: scopeType is STATE, REGION or SCHOOL
// POST: Returns the lookup error (wrapping storage.ErrNotFound) for unknown ids
func ResolveTarget(ctx context.Context, dir Directory, scopeType, scopeID string) (Target, error) {
	switch scopeType {
	case user.ScopeState:
		st, err := dir.GetState(ctx, scopeID)
		if err != nil {
			return Target{}, err
		}
		return Target{StateID: st.ID}, nil
	case user.ScopeRegion:
		r, err := dir.GetRegion(ctx, scopeID)
		if err != nil {
			return Target{}, err
		}
		return Target{StateID: r.StateID, RegionID: r.ID}, nil
	case user.ScopeSchool:
		s, err := dir.GetSchool(ctx, scopeID)
		if err != nil {
			return Target{}, err
		}
		return Target{StateID: s.StateID, RegionID: s.RegionID, SchoolID: s.ID}, nil
	}
	return Target{}, user.ErrInvalidScope
}

// Covers reports whether one assignment reaches t.
// SUPER reaches everything; the other roles reach their own scope and everything beneath it.
func Covers(a user.RoleAssignment, t Target) bool {
	switch a.Role {
	case user.RoleSuper:
		return true
	case user.RoleState:
		return t.StateID != "" && t.StateID == a.ScopeID
	case user.RoleRegion:
		return t.RegionID != "" && t.RegionID == a.ScopeID
	case user.RoleSchool:
		return t.SchoolID != "" && t.SchoolID == a.ScopeID
	}
	return false
}

// Authorize succeeds when any assignment covers t.
func Authorize(assignments []user.RoleAssignment, t Target) error {
	for _, a := range assignments {
		if Covers(a, t) {
			return nil
		}
	}
	return ErrOutOfScope
}

// CanGrant checks that the caller may create an admin with role at t.
// The granting assignment must cover t and rank strictly above role; SUPER may
// grant any admin role, SUPER included.
// PRE: role is an admin role
// POST: Returns ErrOutOfScope or ErrCannotGrant otherwise
func CanGrant(assignments []user.RoleAssignment, role string, t Target) error {
	if !user.IsAdminRole(role) {
		return user.ErrNotAdminRole
	}
	covered := false
	for _, a := range assignments {
		if !Covers(a, t) {
			continue
		}
		covered = true
		if a.Role == user.RoleSuper || user.Precedence(a.Role) > user.Precedence(role) {
			return nil
		}
	}
	if covered {
		return ErrCannotGrant
	}
	return ErrOutOfScope
}

// Highest returns the assignment with the broadest reach.
// Ties keep the earliest assignment.
func Highest(assignments []user.RoleAssignment) (user.RoleAssignment, bool) {
	var best user.RoleAssignment
	found := false
	for _, a := range assignments {
		if !user.IsAdminRole(a.Role) {
			continue
		}
		if !found || user.Precedence(a.Role) > user.Precedence(best.Role) {
			best, found = a, true
		}
	}
	return best, found
}

// IsGlobal reports whether any assignment is SUPER.
func IsGlobal(assignments []user.RoleAssignment) bool {
	for _, a := range assignments {
		if a.Role == user.RoleSuper {
			return true
		}
	}
	return false
}
