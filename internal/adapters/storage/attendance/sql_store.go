package attendance

import (
	"context"
	"database/sql"

	"gohuddleup/internal/adapters/storage"
	domain "gohuddleup/internal/domain/attendance"
)

var records = storage.NewTable("student_attendance",
	"id", "student_id", "huddle_id", "meeting_date", "status",
	"check_in_time", "check_out_time", "notes", "recorded_by", "created_at",
)

// SQLStore implements Store on SQLite or Postgres.
type SQLStore struct {
	db storage.Querier
}

// NewSQLStore creates a new attendance store.
func NewSQLStore(db storage.Querier) *SQLStore {
	return &SQLStore{db: db}
}

// Insert persists an attendance record.
// PRE: value has been validated
// POST: Row is persisted; a second record for the same student, huddle and
// meeting date fails with a unique violation
func (s *SQLStore) Insert(ctx context.Context, r domain.Record) error {
	return records.Insert(ctx, s.db, map[string]any{
		"id":             r.ID,
		"student_id":     r.StudentID,
		"huddle_id":      r.HuddleID,
		"meeting_date":   r.MeetingDate,
		"status":         r.Status,
		"check_in_time":  storage.NullTime(r.CheckInTime),
		"check_out_time": storage.NullTime(r.CheckOutTime),
		"notes":          r.Notes,
		"recorded_by":    r.RecordedBy,
		"created_at":     storage.FormatTime(r.CreatedAt),
	})
}

// ListByStudentID returns a student's attendance, newest meeting first.
func (s *SQLStore) ListByStudentID(ctx context.Context, studentID string) ([]domain.Record, error) {
	return s.list(ctx, storage.Query{
		Where:   []storage.Cond{storage.Eq("student_id", studentID)},
		OrderBy: "meeting_date",
		Desc:    true,
	})
}

// ListByMeeting returns the roll for one huddle meeting.
func (s *SQLStore) ListByMeeting(ctx context.Context, huddleID, meetingDate string) ([]domain.Record, error) {
	return s.list(ctx, storage.Query{
		Where:   []storage.Cond{storage.Eq("huddle_id", huddleID), storage.Eq("meeting_date", meetingDate)},
		OrderBy: "created_at",
	})
}

func (s *SQLStore) list(ctx context.Context, q storage.Query) ([]domain.Record, error) {
	rows, err := records.Select(ctx, s.db, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Record
	for rows.Next() {
		var r domain.Record
		var checkIn, checkOut sql.NullString
		var createdAt string
		err := rows.Scan(
			&r.ID, &r.StudentID, &r.HuddleID, &r.MeetingDate, &r.Status,
			&checkIn, &checkOut, &r.Notes, &r.RecordedBy, &createdAt,
		)
		if err != nil {
			return nil, err
		}
		r.CheckInTime = storage.ParseNullTime(checkIn)
		r.CheckOutTime = storage.ParseNullTime(checkOut)
		r.CreatedAt, _ = storage.ParseTime(createdAt)
		results = append(results, r)
	}
	return results, rows.Err()
}
