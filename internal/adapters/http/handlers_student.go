package web

import (
	"net/http"

	"gohuddleup/internal/adapters/http/middleware"
	"gohuddleup/internal/application/orchestrators"
	"gohuddleup/internal/application/projections"
	"gohuddleup/internal/domain/student"
)

// handleStudentDashboard renders the signed-in student's dashboard.
func (a *app) handleStudentDashboard(w http.ResponseWriter, r *http.Request) {
	pr, _ := middleware.PrincipalFrom(r.Context())
	dash := projections.QueryGetStudentDashboard(r.Context(), projections.GetStudentDashboardQuery{UserID: pr.UserID},
		projections.GetStudentDashboardDeps{
			Students:  a.client.Students(),
			Directory: a.client.Schools(),
			Ministry:  a.client.Ministry(),
			Parents:   a.client.Parents(),

			Events:       a.client.Events(),
			Achievements: a.client.Achievements(),
			Attendance:   a.client.Attendance(),
		})
	switch dash.Outcome {
	case projections.OutcomeNotFound:
		a.render(w, r, http.StatusNotFound, "student_dashboard.html", "Dashboard", nil,
			"We could not find your student profile. Contact your huddle leader.")
	case projections.OutcomeFailed:
		internalError(w, dash.Err)
	default:
		a.render(w, r, http.StatusOK, "student_dashboard.html", "Dashboard", dash.Value, "")
	}
}

type profileResponse struct {
	Profile    student.Profile `json:"profile"`
	AvatarURL  string          `json:"avatar_url"`
	SchoolName string          `json:"school_name"`
	RegionName string          `json:"region_name"`
	StateCode  string          `json:"state_code"`
	HuddleName string          `json:"huddle_name"`
}

func newProfileResponse(v projections.StudentProfileView) profileResponse {
	return profileResponse{
		Profile:    v.Profile,
		AvatarURL:  v.Profile.AvatarURL(),
		SchoolName: v.School.Name,
		RegionName: v.Region.Name,
		StateCode:  v.State.Code,
		HuddleName: v.Huddle.Name,
	}
}

func (a *app) studentProfile(r *http.Request) projections.Lookup[projections.StudentProfileView] {
	pr, _ := middleware.PrincipalFrom(r.Context())
	return projections.QueryGetStudentProfile(r.Context(), projections.GetStudentProfileQuery{UserID: pr.UserID},
		projections.GetStudentProfileDeps{Students: a.client.Students(), Directory: a.client.Schools()})
}

// handleStudentProfile handles GET /student/profile as a page, or as JSON when
// the client asks for it.
func (a *app) handleStudentProfile(w http.ResponseWriter, r *http.Request) {
	view := a.studentProfile(r)
	wantsJSON := r.Header.Get("Accept") == "application/json"
	switch view.Outcome {
	case projections.OutcomeNotFound:
		if wantsJSON {
			writeError(w, orchestrators.ErrProfileNotFound)
			return
		}
		http.NotFound(w, r)
	case projections.OutcomeFailed:
		if wantsJSON {
			writeError(w, view.Err)
			return
		}
		internalError(w, view.Err)
	default:
		if wantsJSON {
			writeJSON(w, http.StatusOK, newProfileResponse(view.Value))
			return
		}
		a.render(w, r, http.StatusOK, "student_profile.html", "My profile", view.Value, "")
	}
}

// handlePatchStudentProfile handles PATCH /api/student/profile. Only fields
// present in the body change.
func (a *app) handlePatchStudentProfile(w http.ResponseWriter, r *http.Request) {
	var patch student.Patch
	if err := strictDecode(r, &patch); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	pr, _ := middleware.PrincipalFrom(r.Context())
	if _, err := orchestrators.ExecuteUpdateStudentProfile(r.Context(), orchestrators.UpdateStudentProfileInput{
		UserID: pr.UserID,
		Patch:  patch,
	}, orchestrators.UpdateStudentProfileDeps{Students: a.client.Students(), Now: a.now}); err != nil {
		writeError(w, err)
		return
	}
	view := a.studentProfile(r)
	if !view.Found() {
		writeError(w, orchestrators.ErrProfileNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newProfileResponse(view.Value))
}
