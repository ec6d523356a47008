package projections

import (
	"context"

	studentstore "gohuddleup/internal/adapters/storage/student"
	"gohuddleup/internal/application/access"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
)

// ListScopedStudentsQuery carries query parameters.
type ListScopedStudentsQuery struct {
	Assignments []user.RoleAssignment
	// SchoolID narrows the list to one school, which must be within reach.
	SchoolID string
	Limit    int
	Offset   int
}

// ListScopedStudentsResult carries one page of students and the scoped total.
type ListScopedStudentsResult struct {
	Students []student.Profile
	Total    int
}

// ListScopedStudentsDeps holds dependencies for ListScopedStudents.
type ListScopedStudentsDeps struct {
	Students  StudentStore
	Directory DirectoryStore
}

// QueryListScopedStudents lists the students an admin may see, newest first.
// PRE: Assignments belong to an admin
// POST: Students outside every assignment are never returned; a SchoolID
// outside reach is access.ErrOutOfScope
func QueryListScopedStudents(ctx context.Context, query ListScopedStudentsQuery, deps ListScopedStudentsDeps) (ListScopedStudentsResult, error) {
	if _, ok := access.Highest(query.Assignments); !ok {
		return ListScopedStudentsResult{}, access.ErrOutOfScope
	}
	reach, err := access.ResolveReach(ctx, deps.Directory, query.Assignments)
	if err != nil {
		return ListScopedStudentsResult{}, err
	}
	filter := studentstore.ListFilter{SchoolIDs: reach.Filter(), Limit: query.Limit, Offset: query.Offset}
	if query.SchoolID != "" {
		if !reach.Contains(query.SchoolID) {
			return ListScopedStudentsResult{}, access.ErrOutOfScope
		}
		filter.SchoolID = query.SchoolID
	}

	total, err := deps.Students.Count(ctx, filter)
	if err != nil {
		return ListScopedStudentsResult{}, err
	}
	students, err := deps.Students.List(ctx, filter)
	if err != nil {
		return ListScopedStudentsResult{}, err
	}
	if students == nil {
		students = []student.Profile{}
	}
	return ListScopedStudentsResult{Students: students, Total: total}, nil
}
