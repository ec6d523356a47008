package student

import (
	"context"
	"time"

	domain "gohuddleup/internal/domain/student"
)

// Store persists student profiles.
type Store interface {
	Insert(ctx context.Context, value domain.Profile) error
	GetByID(ctx context.Context, id string) (domain.Profile, error)
	GetByUserID(ctx context.Context, userID string) (domain.Profile, error)
	Update(ctx context.Context, userID string, patch domain.Patch, now time.Time) error
	List(ctx context.Context, filter ListFilter) ([]domain.Profile, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List and Count.
type ListFilter struct {
	Limit    int
	Offset   int
	SchoolID string
	// SchoolIDs restricts results to these schools when non-nil. An empty,
	// non-nil slice matches nothing.
	SchoolIDs []string
	// Since keeps only profiles created at or after it. Zero disables the filter.
	Since time.Time
}
