package web

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"gohuddleup/internal/adapters/http/middleware"
	"gohuddleup/internal/application/orchestrators"
	"gohuddleup/internal/application/projections"
)

type attendanceRequest struct {
	StudentID    string    `json:"student_id"`
	HuddleID     string    `json:"huddle_id"`
	MeetingDate  string    `json:"meeting_date"`
	Status       string    `json:"status"`
	CheckInTime  time.Time `json:"check_in_time"`
	CheckOutTime time.Time `json:"check_out_time"`
	Notes        string    `json:"notes"`
}

// handleRecordAttendance handles POST /api/admin/attendance
func (a *app) handleRecordAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendanceRequest
	if err := strictDecode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	assignments, err := a.assignments(r)
	if err != nil {
		writeError(w, err)
		return
	}
	pr, _ := middleware.PrincipalFrom(r.Context())
	rec, err := orchestrators.ExecuteRecordAttendance(r.Context(), orchestrators.RecordAttendanceInput{
		StudentID:    req.StudentID,
		HuddleID:     req.HuddleID,
		MeetingDate:  req.MeetingDate,
		Status:       req.Status,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
		Notes:        req.Notes,
		RecordedBy:   pr.UserID,
		Grantor:      assignments,
	}, orchestrators.RecordAttendanceDeps{
		Students:   a.client.Students(),
		Directory:  a.client.Schools(),
		Attendance: a.client.Attendance(),
		NewID:      uuid.NewString,
		Now:        a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

type achievementRequest struct {
	StudentID      string `json:"student_id"`
	Type           string `json:"achievement_type"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	DateEarned     string `json:"date_earned"`
	CertificateURL string `json:"certificate_url"`
	PointsAwarded  int    `json:"points_awarded"`
}

// handleAwardAchievement handles POST /api/admin/achievements
func (a *app) handleAwardAchievement(w http.ResponseWriter, r *http.Request) {
	var req achievementRequest
	if err := strictDecode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	assignments, err := a.assignments(r)
	if err != nil {
		writeError(w, err)
		return
	}
	pr, _ := middleware.PrincipalFrom(r.Context())
	award, err := orchestrators.ExecuteAwardAchievement(r.Context(), orchestrators.AwardAchievementInput{
		StudentID:      req.StudentID,
		Type:           req.Type,
		Title:          req.Title,
		Description:    req.Description,
		DateEarned:     req.DateEarned,
		CertificateURL: req.CertificateURL,
		PointsAwarded:  req.PointsAwarded,
		AwardedBy:      pr.Email,
		Grantor:        assignments,
	}, orchestrators.AwardAchievementDeps{
		Students:     a.client.Students(),
		Directory:    a.client.Schools(),
		Achievements: a.client.Achievements(),
		NewID:        uuid.NewString,
		Now:          a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, award)
}

type eventRequest struct {
	Name                 string    `json:"name"`
	Description          string    `json:"description"`
	Type                 string    `json:"event_type"`
	StartDate            time.Time `json:"start_date"`
	EndDate              time.Time `json:"end_date"`
	Location             string    `json:"location"`
	SchoolID             string    `json:"school_id"`
	RegionID             string    `json:"region_id"`
	StateID              string    `json:"state_id"`
	MaxParticipants      int       `json:"max_participants"`
	RegistrationDeadline time.Time `json:"registration_deadline"`
	Cost                 float64   `json:"cost"`
}

// handleCreateEvent handles POST /api/admin/events. Events without a scope
// reach every student and need SUPER.
func (a *app) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := strictDecode(r, &req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	assignments, err := a.assignments(r)
	if err != nil {
		writeError(w, err)
		return
	}
	e, err := orchestrators.ExecuteCreateEvent(r.Context(), orchestrators.CreateEventInput{
		Name:                 req.Name,
		Description:          req.Description,
		Type:                 req.Type,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		Location:             req.Location,
		SchoolID:             req.SchoolID,
		RegionID:             req.RegionID,
		StateID:              req.StateID,
		MaxParticipants:      req.MaxParticipants,
		RegistrationDeadline: req.RegistrationDeadline,
		Cost:                 req.Cost,
		Grantor:              assignments,
	}, orchestrators.CreateEventDeps{
		Directory: a.client.Schools(),
		Events:    a.client.Events(),
		NewID:     uuid.NewString,
		Now:       a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// handleStudentEvents handles GET /api/student/events
func (a *app) handleStudentEvents(w http.ResponseWriter, r *http.Request) {
	pr, _ := middleware.PrincipalFrom(r.Context())
	list := projections.QueryListStudentEvents(r.Context(), projections.ListStudentEventsQuery{UserID: pr.UserID, Now: a.now()},
		projections.ListStudentEventsDeps{Students: a.client.Students(), Directory: a.client.Schools(), Events: a.client.Events()})
	switch list.Outcome {
	case projections.OutcomeNotFound:
		writeError(w, orchestrators.ErrProfileNotFound)
	case projections.OutcomeFailed:
		writeError(w, list.Err)
	default:
		writeJSON(w, http.StatusOK, map[string]any{"events": list.Value})
	}
}

type eventRegistrationRequest struct {
	SpecialRequests     string `json:"special_requests"`
	DietaryRestrictions string `json:"dietary_restrictions"`
	TransportationNeeds string `json:"transportation_needs"`
}

// handleRegisterForEvent handles POST /api/student/events/{id}/register. The
// body is optional.
func (a *app) handleRegisterForEvent(w http.ResponseWriter, r *http.Request) {
	var req eventRegistrationRequest
	if err := strictDecode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(w, "invalid JSON body")
		return
	}
	pr, _ := middleware.PrincipalFrom(r.Context())
	reg, err := orchestrators.ExecuteRegisterForEvent(r.Context(), orchestrators.RegisterForEventInput{
		UserID:              pr.UserID,
		EventID:             r.PathValue("id"),
		SpecialRequests:     req.SpecialRequests,
		DietaryRestrictions: req.DietaryRestrictions,
		TransportationNeeds: req.TransportationNeeds,
	}, orchestrators.RegisterForEventDeps{
		Students:  a.client.Students(),
		Directory: a.client.Schools(),
		Tx:        a.client.WithTx,
		NewID:     uuid.NewString,
		Now:       a.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reg)
}
