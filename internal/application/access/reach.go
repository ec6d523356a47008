package access

import (
	"context"
	"slices"

	schoolstore "gohuddleup/internal/adapters/storage/school"
	"gohuddleup/internal/domain/school"
	"gohuddleup/internal/domain/user"
)

// SchoolLister lists directory schools.
type SchoolLister interface {
	ListSchools(ctx context.Context, filter schoolstore.SchoolFilter) ([]school.School, error)
}

// Reach is the set of schools a caller's assignments cover.
type Reach struct {
	All       bool
	SchoolIDs []string
}

// Contains reports whether schoolID is within reach.
func (r Reach) Contains(schoolID string) bool {
	return r.All || slices.Contains(r.SchoolIDs, schoolID)
}

// Filter returns the school restriction for a student query: nil when the
// reach is global, otherwise the (possibly empty) school set.
func (r Reach) Filter() []string {
	if r.All {
		return nil
	}
	if r.SchoolIDs == nil {
		return []string{}
	}
	return r.SchoolIDs
}

// ResolveReach expands assignments into the schools they cover.
// PRE: assignments belong to one admin
// POST: SchoolIDs is sorted and free of duplicates
func ResolveReach(ctx context.Context, dir SchoolLister, assignments []user.RoleAssignment) (Reach, error) {
	if IsGlobal(assignments) {
		return Reach{All: true}, nil
	}
	var ids []string
	for _, a := range assignments {
		var filter schoolstore.SchoolFilter
		switch a.Role {
		case user.RoleState:
			filter.StateID = a.ScopeID
		case user.RoleRegion:
			filter.RegionID = a.ScopeID
		case user.RoleSchool:
			ids = append(ids, a.ScopeID)
			continue
		default:
			continue
		}
		schools, err := dir.ListSchools(ctx, filter)
		if err != nil {
			return Reach{}, err
		}
		for _, s := range schools {
			ids = append(ids, s.ID)
		}
	}
	slices.Sort(ids)
	return Reach{SchoolIDs: slices.Compact(ids)}, nil
}
