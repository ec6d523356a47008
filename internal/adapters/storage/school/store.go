package school

import (
	"context"

	domain "gohuddleup/internal/domain/school"
)

// Store persists the school directory: states, regions, schools and huddles.
type Store interface {
	InsertState(ctx context.Context, value domain.State) error
	GetState(ctx context.Context, id string) (domain.State, error)
	GetStateByCode(ctx context.Context, code string) (domain.State, error)
	ListStates(ctx context.Context) ([]domain.State, error)

	InsertRegion(ctx context.Context, value domain.Region) error
	GetRegion(ctx context.Context, id string) (domain.Region, error)
	ListRegions(ctx context.Context, stateID string) ([]domain.Region, error)

	InsertSchool(ctx context.Context, value domain.School) error
	GetSchool(ctx context.Context, id string) (domain.School, error)
	FindSchoolByName(ctx context.Context, name string) (domain.School, error)
	ListSchools(ctx context.Context, filter SchoolFilter) ([]domain.School, error)

	InsertHuddle(ctx context.Context, value domain.Huddle) error
	GetHuddle(ctx context.Context, id string) (domain.Huddle, error)
	FindHuddleByName(ctx context.Context, schoolID, name string) (domain.Huddle, error)
	ListHuddles(ctx context.Context, schoolID string) ([]domain.Huddle, error)
}

// SchoolFilter narrows ListSchools. Empty fields are ignored.
type SchoolFilter struct {
	StateID  string
	RegionID string
	// Query matches a case-insensitive substring of the school name or city.
	Query string
	Limit int
}
