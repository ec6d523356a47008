package attendance

import (
	"errors"
	"strings"
	"time"
)

// Meeting statuses.
const (
	StatusPresent = "present"
	StatusLate    = "late"
	StatusExcused = "excused"
	StatusAbsent  = "absent"
)

// ValidStatuses contains all valid meeting statuses.
var ValidStatuses = []string{StatusPresent, StatusLate, StatusExcused, StatusAbsent}

// DateLayout is the format of MeetingDate.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrEmptyStudentID  = errors.New("attendance must be associated with a student")
	ErrEmptyHuddleID   = errors.New("attendance must be associated with a huddle")
	ErrInvalidDate     = errors.New("meeting date must be YYYY-MM-DD")
	ErrInvalidStatus   = errors.New("status must be one of: present, late, excused, absent")
	ErrCheckOutOrder   = errors.New("check-out time cannot be before check-in time")
	ErrAlreadyRecorded = errors.New("attendance is already recorded for this meeting")
)

// Record is one student's attendance at one huddle meeting.
// StudentID is the student profile id, not the user id.
type Record struct {
	ID           string    `json:"id"`
	StudentID    string    `json:"student_id"`
	HuddleID     string    `json:"huddle_id"`
	MeetingDate  string    `json:"meeting_date"`
	Status       string    `json:"status"`
	CheckInTime  time.Time `json:"check_in_time"`
	CheckOutTime time.Time `json:"check_out_time"`
	Notes        string    `json:"notes"`
	RecordedBy   string    `json:"recorded_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: StudentID and HuddleID must not be empty
func (r *Record) Validate() error {
	if strings.TrimSpace(r.StudentID) == "" {
		return ErrEmptyStudentID
	}
	if strings.TrimSpace(r.HuddleID) == "" {
		return ErrEmptyHuddleID
	}
	if _, err := time.Parse(DateLayout, r.MeetingDate); err != nil {
		return ErrInvalidDate
	}
	if !IsValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	if !r.CheckOutTime.IsZero() && r.CheckOutTime.Before(r.CheckInTime) {
		return ErrCheckOutOrder
	}
	return nil
}

// Attended reports whether the record counts toward meetings attended.
func (r *Record) Attended() bool {
	return r.Status == StatusPresent || r.Status == StatusLate
}

// IsCheckedOut returns true if the student has checked out.
func (r *Record) IsCheckedOut() bool {
	return !r.CheckOutTime.IsZero()
}

// Duration returns the time between check-in and check-out.
// PRE: Record is initialized
// POST: Returns zero unless both times are set
func (r *Record) Duration() time.Duration {
	if r.CheckInTime.IsZero() || !r.IsCheckedOut() {
		return 0
	}
	return r.CheckOutTime.Sub(r.CheckInTime)
}

// IsValidStatus reports whether s is a meeting status.
func IsValidStatus(s string) bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// CountAttended returns how many records count as attended.
func CountAttended(records []Record) int {
	n := 0
	for i := range records {
		if records[i].Attended() {
			n++
		}
	}
	return n
}
