package achievement

import (
	"context"

	domain "gohuddleup/internal/domain/achievement"
)

// Store persists student achievements.
type Store interface {
	Insert(ctx context.Context, value domain.Achievement) error
	ListByStudentID(ctx context.Context, studentID string) ([]domain.Achievement, error)
}
