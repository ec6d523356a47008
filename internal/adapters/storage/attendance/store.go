package attendance

import (
	"context"

	domain "gohuddleup/internal/domain/attendance"
)

// Store persists huddle meeting attendance.
type Store interface {
	Insert(ctx context.Context, value domain.Record) error
	ListByStudentID(ctx context.Context, studentID string) ([]domain.Record, error)
	ListByMeeting(ctx context.Context, huddleID, meetingDate string) ([]domain.Record, error)
}
