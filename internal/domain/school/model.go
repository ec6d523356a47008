package school

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyName     = errors.New("name cannot be empty")
	ErrInvalidCode   = errors.New("state code must be a two-letter US state code")
	ErrEmptyStateID  = errors.New("state id cannot be empty")
	ErrEmptyRegionID = errors.New("region id cannot be empty")
	ErrEmptySchoolID = errors.New("school id cannot be empty")
	ErrNameTooLong   = errors.New("name cannot exceed 200 characters")
)

// MaxNameLength bounds directory names.
const MaxNameLength = 200

// State is a US state the ministry operates in.
type State struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Region groups schools within a state.
type Region struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StateID   string    `json:"state_id"`
	CreatedAt time.Time `json:"created_at"`
}

// School is a school that hosts one or more huddles.
type School struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	RegionID  string    `json:"region_id"`
	StateID   string    `json:"state_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Huddle is a fellowship group at a school.
type Huddle struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	SchoolID  string    `json:"school_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Validate checks if the State has valid data.
// PRE: State struct is populated
// POST: Returns nil if valid, error otherwise
func (s *State) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if _, ok := LookupState(s.Code); !ok {
		return ErrInvalidCode
	}
	return nil
}

// Validate checks if the Region has valid data.
// PRE: Region struct is populated
// POST: Returns nil if valid, error otherwise
func (r *Region) Validate() error {
	if err := validateName(r.Name); err != nil {
		return err
	}
	if strings.TrimSpace(r.StateID) == "" {
		return ErrEmptyStateID
	}
	return nil
}

// Validate checks if the School has valid data.
// PRE: School struct is populated
// POST: Returns nil if valid, error otherwise
func (s *School) Validate() error {
	if err := validateName(s.Name); err != nil {
		return err
	}
	if strings.TrimSpace(s.StateID) == "" {
		return ErrEmptyStateID
	}
	if strings.TrimSpace(s.RegionID) == "" {
		return ErrEmptyRegionID
	}
	return nil
}

// PlaceIn copies the region and its state onto the school.
// PRE: region has been validated
// POST: RegionID and StateID match region
func (s *School) PlaceIn(region Region) {
	s.RegionID = region.ID
	s.StateID = region.StateID
}

// Validate checks if the Huddle has valid data.
// PRE: Huddle struct is populated
// POST: Returns nil if valid, error otherwise
func (h *Huddle) Validate() error {
	if err := validateName(h.Name); err != nil {
		return err
	}
	if strings.TrimSpace(h.SchoolID) == "" {
		return ErrEmptySchoolID
	}
	return nil
}

// SameName compares directory names the way the school lookup does: case and whitespace insensitive.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " "))
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
