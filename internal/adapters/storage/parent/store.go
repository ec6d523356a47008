package parent

import (
	"context"

	domain "gohuddleup/internal/domain/parent"
)

// Store persists parents and guardians of student profiles.
type Store interface {
	Insert(ctx context.Context, value domain.Parent) error
	ListByStudentID(ctx context.Context, studentID string) ([]domain.Parent, error)
}
