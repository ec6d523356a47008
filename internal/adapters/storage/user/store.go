package user

import (
	"context"

	domain "gohuddleup/internal/domain/user"
)

// Store persists application users and their role assignments.
type Store interface {
	Insert(ctx context.Context, value domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, filter ListFilter) ([]domain.User, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	InsertAssignment(ctx context.Context, value domain.RoleAssignment) error
	ListAssignments(ctx context.Context, userID string) ([]domain.RoleAssignment, error)
}

// ListFilter carries filtering parameters for List and Count.
type ListFilter struct {
	Limit  int
	Offset int
	Role   string
	Status string
}
