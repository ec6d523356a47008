package projections

import (
	"context"

	"gohuddleup/internal/domain/school"
	"gohuddleup/internal/domain/student"
)

// GetStudentProfileQuery carries query parameters.
type GetStudentProfileQuery struct {
	UserID string
}

// StudentProfileView is a profile joined with its place in the directory.
// Directory fields are zero when the student has not been placed.
type StudentProfileView struct {
	Profile student.Profile
	School  school.School
	Region  school.Region
	State   school.State
	Huddle  school.Huddle
}

// GetStudentProfileDeps holds dependencies for GetStudentProfile.
type GetStudentProfileDeps struct {
	Students  StudentStore
	Directory DirectoryStore
}

// QueryGetStudentProfile retrieves a student's profile with school, region, state and huddle.
// PRE: none
// POST: NotFound when the user has no profile. A directory row that has since
// disappeared is left zero rather than failing the lookup.
func QueryGetStudentProfile(ctx context.Context, query GetStudentProfileQuery, deps GetStudentProfileDeps) Lookup[StudentProfileView] {
	if query.UserID == "" {
		return notFound[StudentProfileView]()
	}
	p, err := deps.Students.GetByUserID(ctx, query.UserID)
	if err != nil {
		return failedLookup[StudentProfileView]("student_profile", err)
	}
	view, err := joinDirectory(ctx, deps.Directory, p)
	if err != nil {
		return failedLookup[StudentProfileView]("student_profile", err)
	}
	return found(view)
}

func joinDirectory(ctx context.Context, dir DirectoryStore, p student.Profile) (StudentProfileView, error) {
	view := StudentProfileView{Profile: p}
	if p.SchoolID != "" {
		sc, err := dir.GetSchool(ctx, p.SchoolID)
		if err := ignoreMissing(err); err != nil {
			return StudentProfileView{}, err
		}
		view.School = sc
	}
	if view.School.RegionID != "" {
		r, err := dir.GetRegion(ctx, view.School.RegionID)
		if err := ignoreMissing(err); err != nil {
			return StudentProfileView{}, err
		}
		view.Region = r
	}
	if view.School.StateID != "" {
		st, err := dir.GetState(ctx, view.School.StateID)
		if err := ignoreMissing(err); err != nil {
			return StudentProfileView{}, err
		}
		view.State = st
	}
	if p.HuddleID != "" {
		h, err := dir.GetHuddle(ctx, p.HuddleID)
		if err := ignoreMissing(err); err != nil {
			return StudentProfileView{}, err
		}
		view.Huddle = h
	}
	return view, nil
}

func ignoreMissing(err error) error {
	if err == nil || isMissing(err) {
		return nil
	}
	return err
}
