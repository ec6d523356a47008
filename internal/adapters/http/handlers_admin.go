package web

import (
	"net/http"
	"strconv"
	"time"

	"gohuddleup/internal/adapters/http/middleware"
	"gohuddleup/internal/application/listutil"
	"gohuddleup/internal/application/orchestrators"
	"gohuddleup/internal/application/projections"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
)

// assignments loads the signed-in admin's role assignments.
func (a *app) assignments(r *http.Request) ([]user.RoleAssignment, error) {
	pr, _ := middleware.PrincipalFrom(r.Context())
	return a.client.Users().ListAssignments(r.Context(), pr.UserID)
}

func (a *app) overview(r *http.Request) (projections.GetAdminOverviewResult, error) {
	assignments, err := a.assignments(r)
	if err != nil {
		return projections.GetAdminOverviewResult{}, err
	}
	return projections.QueryGetAdminOverview(r.Context(), projections.GetAdminOverviewQuery{
		Assignments: assignments,
		Now:         a.now(),
	}, projections.GetAdminOverviewDeps{
		Students:  a.client.Students(),
		Users:     a.client.Users(),
		Directory: a.client.Schools(),
	})
}

// handleAdminDashboard renders the overview page.
func (a *app) handleAdminDashboard(w http.ResponseWriter, r *http.Request) {
	res, err := a.overview(r)
	if err != nil {
		if statusFor(err) == http.StatusForbidden {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		internalError(w, err)
		return
	}
	a.render(w, r, http.StatusOK, "admin_dashboard.html", "Dashboard", res, "")
}

type overviewResponse struct {
	Role             scopeJSON         `json:"role"`
	TotalStudents    int               `json:"total_students"`
	PendingStudents  int               `json:"pending_students"`
	Schools          int               `json:"schools"`
	Huddles          int               `json:"huddles"`
	NewThisWeek      int               `json:"new_this_week"`
	UnplacedStudents int               `json:"unplaced_students"`
	RecentStudents   []student.Profile `json:"recent_students"`
}

// handleAdminOverview handles GET /api/admin/overview
func (a *app) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	res, err := a.overview(r)
	if err != nil {
		writeError(w, err)
		return
	}
	recent := res.RecentStudents
	if recent == nil {
		recent = []student.Profile{}
	}
	writeJSON(w, http.StatusOK, overviewResponse{
		Role:             scopeJSON{Role: res.Role.Role, ScopeType: res.Role.ScopeType, ScopeID: res.Role.ScopeID},
		TotalStudents:    res.TotalStudents,
		PendingStudents:  res.PendingStudents,
		Schools:          res.Schools,
		Huddles:          res.Huddles,
		NewThisWeek:      res.NewThisWeek,
		UnplacedStudents: res.UnplacedStudents,
		RecentStudents:   recent,
	})
}

type studentsResponse struct {
	Students []student.Profile `json:"students"`
	listutil.PageInfo
}

// handleAdminStudents handles GET /api/admin/students?school_id=&page=&per_page=
func (a *app) handleAdminStudents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := listutil.ParsePageParams(q)
	assignments, err := a.assignments(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := projections.QueryListScopedStudents(r.Context(), projections.ListScopedStudentsQuery{
		Assignments: assignments,
		SchoolID:    q.Get("school_id"),
		Limit:       page.PerPage,
		Offset:      page.Offset(),
	}, projections.ListScopedStudentsDeps{Students: a.client.Students(), Directory: a.client.Schools()})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, studentsResponse{Students: res.Students, PageInfo: listutil.NewPageInfo(page, res.Total)})
}

type createAdminRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	ScopeID  string `json:"scope_id"`
}

type createAdminResponse struct {
	ID    string    `json:"id"`
	Email string    `json:"email"`
	Scope scopeJSON `json:"scope"`
}

// handleCreateAdminUser handles POST /api/admin/users. The caller may only
// grant roles below their own within their own scope.
func (a *app) handleCreateAdminUser(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := strictDecode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	assignments, err := a.assignments(r)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := orchestrators.ExecuteCreateAdminUser(r.Context(), orchestrators.CreateAdminUserInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		ScopeID:  req.ScopeID,
		Grantor:  assignments,
	}, orchestrators.CreateAdminUserDeps{
		Admin:     a.server.Admin(),
		Directory: a.server.Schools(),
		Tx:        a.server.WithTx,
		Now:       a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createAdminResponse{
		ID:    res.User.ID,
		Email: res.User.Email,
		Scope: scopeJSON{Role: res.Assignment.Role, ScopeType: res.Assignment.ScopeType, ScopeID: res.Assignment.ScopeID},
	})
}

// handlePerf handles GET /api/admin/perf?minutes=60
func (a *app) handlePerf(w http.ResponseWriter, r *http.Request) {
	if a.collector == nil {
		http.NotFound(w, r)
		return
	}
	minutes, ok := intParam(w, r.URL.Query().Get("minutes"), 60, "minutes")
	if !ok {
		return
	}
	since := a.now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, a.collector.Snapshot(since, 10))
}

// intParam parses an optional non-negative integer query parameter and writes
// a 400 when it is malformed.
func intParam(w http.ResponseWriter, raw string, def int, name string) (int, bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		badRequest(w, name+" must be a non-negative integer")
		return 0, false
	}
	return n, true
}
