package projections

import (
	"context"
	"time"

	schoolstore "gohuddleup/internal/adapters/storage/school"
	studentstore "gohuddleup/internal/adapters/storage/student"
	userstore "gohuddleup/internal/adapters/storage/user"
	"gohuddleup/internal/application/access"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
)

// RecentStudentLimit is how many of the newest students the overview lists.
const RecentStudentLimit = 5

// GetAdminOverviewQuery carries query parameters.
type GetAdminOverviewQuery struct {
	Assignments []user.RoleAssignment
	Now         time.Time
}

// GetAdminOverviewResult carries the admin dashboard numbers, restricted to the caller's scope.
type GetAdminOverviewResult struct {
	Role             user.RoleAssignment
	TotalStudents    int
	PendingStudents  int
	Schools          int
	Huddles          int
	NewThisWeek      int
	RecentStudents   []student.Profile
	UnplacedStudents int // only counted for global reach
}

// GetAdminOverviewDeps holds dependencies for GetAdminOverview.
type GetAdminOverviewDeps struct {
	Students  StudentStore
	Users     UserStore
	Directory DirectoryStore
}

// QueryGetAdminOverview summarizes the students and directory within the caller's reach.
// PRE: Assignments belong to an admin
// POST: Returns access.ErrOutOfScope when the caller holds no admin assignment
func QueryGetAdminOverview(ctx context.Context, query GetAdminOverviewQuery, deps GetAdminOverviewDeps) (GetAdminOverviewResult, error) {
	role, ok := access.Highest(query.Assignments)
	if !ok {
		return GetAdminOverviewResult{}, access.ErrOutOfScope
	}
	reach, err := access.ResolveReach(ctx, deps.Directory, query.Assignments)
	if err != nil {
		return GetAdminOverviewResult{}, err
	}
	result := GetAdminOverviewResult{Role: role}
	scoped := studentstore.ListFilter{SchoolIDs: reach.Filter()}

	if result.TotalStudents, err = deps.Students.Count(ctx, scoped); err != nil {
		return GetAdminOverviewResult{}, err
	}
	week := scoped
	week.Since = query.Now.Add(-7 * 24 * time.Hour)
	if result.NewThisWeek, err = deps.Students.Count(ctx, week); err != nil {
		return GetAdminOverviewResult{}, err
	}
	recent := scoped
	recent.Limit = RecentStudentLimit
	if result.RecentStudents, err = deps.Students.List(ctx, recent); err != nil {
		return GetAdminOverviewResult{}, err
	}

	if result.PendingStudents, err = countPending(ctx, deps, reach, scoped); err != nil {
		return GetAdminOverviewResult{}, err
	}

	if reach.All {
		schools, err := deps.Directory.ListSchools(ctx, schoolstore.SchoolFilter{})
		if err != nil {
			return GetAdminOverviewResult{}, err
		}
		result.Schools = len(schools)
		placed := 0
		for _, sc := range schools {
			n, err := deps.Students.Count(ctx, studentstore.ListFilter{SchoolID: sc.ID})
			if err != nil {
				return GetAdminOverviewResult{}, err
			}
			placed += n
		}
		result.UnplacedStudents = result.TotalStudents - placed
	} else {
		result.Schools = len(reach.SchoolIDs)
	}

	huddles, err := deps.Directory.ListHuddles(ctx, "")
	if err != nil {
		return GetAdminOverviewResult{}, err
	}
	for _, h := range huddles {
		if reach.Contains(h.SchoolID) {
			result.Huddles++
		}
	}
	return result, nil
}

// countPending counts STUDENT users still waiting on email confirmation.
// Users carry no school, so scoped callers check the students in reach one by one.
func countPending(ctx context.Context, deps GetAdminOverviewDeps, reach access.Reach, scoped studentstore.ListFilter) (int, error) {
	if reach.All {
		return deps.Users.Count(ctx, userstore.ListFilter{Role: user.RoleStudent, Status: user.StatusPending})
	}
	profiles, err := deps.Students.List(ctx, scoped)
	if err != nil {
		return 0, err
	}
	pending := 0
	for _, p := range profiles {
		u, err := deps.Users.GetByID(ctx, p.UserID)
		if err != nil {
			return 0, err
		}
		if u.Status == user.StatusPending {
			pending++
		}
	}
	return pending, nil
}
