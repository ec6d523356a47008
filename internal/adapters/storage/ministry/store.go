package ministry

import (
	"context"

	domain "gohuddleup/internal/domain/ministry"
)

// Store persists ministry data, one row per student profile.
type Store interface {
	Insert(ctx context.Context, value domain.Data) error
	GetByStudentID(ctx context.Context, studentID string) (domain.Data, error)
}
