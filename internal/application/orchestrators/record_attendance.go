package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"gohuddleup/internal/adapters/storage"
	"gohuddleup/internal/domain/attendance"
	"gohuddleup/internal/domain/user"
)

// AttendanceWriter persists attendance records.
type AttendanceWriter interface {
	Insert(ctx context.Context, value attendance.Record) error
}

// RecordAttendanceInput carries one student's mark for one huddle meeting.
type RecordAttendanceInput struct {
	StudentID    string
	HuddleID     string // defaults to the student's huddle
	MeetingDate  string // defaults to today
	Status       string
	CheckInTime  time.Time
	CheckOutTime time.Time
	Notes        string
	RecordedBy   string
	Grantor      []user.RoleAssignment
}

// RecordAttendanceDeps holds dependencies for RecordAttendance.
type RecordAttendanceDeps struct {
	Students   StudentLookup
	Directory  HuddleDirectory
	Attendance AttendanceWriter
	NewID      func() string
	Now        func() time.Time
}

// ExecuteRecordAttendance records a student's attendance at a huddle meeting.
// PRE: Grantor is the calling admin's role assignments
// POST: One record exists for the student, huddle and date. A second mark for
// the same meeting returns attendance.ErrAlreadyRecorded.
// INVARIANT: The caller's scope must reach the huddle's school, and the huddle
// must be at the student's school
func ExecuteRecordAttendance(ctx context.Context, input RecordAttendanceInput, deps RecordAttendanceDeps) (attendance.Record, error) {
	p, err := studentByID(ctx, deps.Students, input.StudentID)
	if err != nil {
		return attendance.Record{}, err
	}

	now := deps.Now()
	r := attendance.Record{
		ID:           deps.NewID(),
		StudentID:    p.ID,
		HuddleID:     strings.TrimSpace(input.HuddleID),
		MeetingDate:  strings.TrimSpace(input.MeetingDate),
		Status:       strings.ToLower(strings.TrimSpace(input.Status)),
		CheckInTime:  input.CheckInTime,
		CheckOutTime: input.CheckOutTime,
		Notes:        strings.TrimSpace(input.Notes),
		RecordedBy:   input.RecordedBy,
		CreatedAt:    now,
	}
	if r.HuddleID == "" {
		r.HuddleID = p.HuddleID
	}
	if r.MeetingDate == "" {
		r.MeetingDate = now.Format(attendance.DateLayout)
	}
	if err := r.Validate(); err != nil {
		return attendance.Record{}, err
	}

	h, err := deps.Directory.GetHuddle(ctx, r.HuddleID)
	if err != nil {
		return attendance.Record{}, err
	}
	if err := authorizeSchool(ctx, deps.Directory, input.Grantor, h.SchoolID); err != nil {
		return attendance.Record{}, err
	}
	if h.SchoolID != p.SchoolID {
		return attendance.Record{}, ErrWrongHuddle
	}

	if err := deps.Attendance.Insert(ctx, r); err != nil {
		if storage.IsUniqueViolation(err) {
			return attendance.Record{}, attendance.ErrAlreadyRecorded
		}
		return attendance.Record{}, err
	}
	slog.Info("activity_event", "event", "attendance_recorded", "student_id", p.ID, "huddle_id", r.HuddleID, "meeting_date", r.MeetingDate, "status", r.Status)
	return r, nil
}
