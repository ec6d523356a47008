package user

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxEmailLength = 254
)

// Role constants
const (
	RoleSuper   = "SUPER"
	RoleState   = "STATE"
	RoleRegion  = "REGION"
	RoleSchool  = "SCHOOL"
	RoleStudent = "STUDENT"
)

// Status constants
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
	StatusPending  = "PENDING"
)

// Scope type constants
const (
	ScopeState  = "STATE"
	ScopeRegion = "REGION"
	ScopeSchool = "SCHOOL"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleSuper, RoleState, RoleRegion, RoleSchool, RoleStudent}

// AdminRoles are the roles allowed through the admin portal gate.
var AdminRoles = []string{RoleSuper, RoleState, RoleRegion, RoleSchool}

// ValidStatuses contains all valid status values.
var ValidStatuses = []string{StatusActive, StatusInactive, StatusPending}

// Domain errors
var (
	ErrEmptyID          = errors.New("user id cannot be empty")
	ErrEmptyEmail       = errors.New("email cannot be empty")
	ErrInvalidEmail     = errors.New("email must contain '@'")
	ErrInvalidRole      = errors.New("role must be one of: SUPER, STATE, REGION, SCHOOL, STUDENT")
	ErrInvalidStatus    = errors.New("status must be one of: ACTIVE, INACTIVE, PENDING")
	ErrNotAdminRole     = errors.New("role must be one of: SUPER, STATE, REGION, SCHOOL")
	ErrInvalidScope     = errors.New("scope type must be one of: STATE, REGION, SCHOOL")
	ErrEmptyScopeID     = errors.New("scope id cannot be empty")
	ErrScopeMismatch    = errors.New("scope type does not match role")
	ErrAlreadyActive    = errors.New("user is already active")
	ErrCannotReactivate = errors.New("inactive users must be reactivated by an administrator")
)

// User is the application-side record joined to an authenticated identity.
// ID is always the identity id.
type User struct {
	ID        string
	Email     string
	Role      string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleAssignment associates an admin user with the organisational scope they act within.
type RoleAssignment struct {
	ID        string
	UserID    string
	Role      string
	ScopeType string
	ScopeID   string
	CreatedAt time.Time
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, error otherwise
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return ErrEmptyID
	}
	if strings.TrimSpace(u.Email) == "" {
		return ErrEmptyEmail
	}
	if len(u.Email) > MaxEmailLength {
		return errors.New("email cannot exceed 254 characters")
	}
	if !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	if !contains(ValidRoles, u.Role) {
		return ErrInvalidRole
	}
	if !contains(ValidStatuses, u.Status) {
		return ErrInvalidStatus
	}
	return nil
}

// IsAdmin returns true if the user holds one of the admin roles.
// INVARIANT: User fields are not mutated
func (u *User) IsAdmin() bool {
	return IsAdminRole(u.Role)
}

// IsStudent returns true if the user has the student role.
// INVARIANT: User fields are not mutated
func (u *User) IsStudent() bool {
	return u.Role == RoleStudent
}

// IsInactive returns true if the user has been deactivated.
// INVARIANT: User fields are not mutated
func (u *User) IsInactive() bool {
	return u.Status == StatusInactive
}

// Activate moves a pending user to active.
// PRE: Status is PENDING
// POST: Status is ACTIVE
func (u *User) Activate(now time.Time) error {
	switch u.Status {
	case StatusActive:
		return ErrAlreadyActive
	case StatusInactive:
		return ErrCannotReactivate
	}
	u.Status = StatusActive
	u.UpdatedAt = now
	return nil
}

// Validate checks if the RoleAssignment has valid data.
// PRE: RoleAssignment struct is populated
// POST: Returns nil if valid, error otherwise
func (r *RoleAssignment) Validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return ErrEmptyID
	}
	if !IsAdminRole(r.Role) {
		return ErrNotAdminRole
	}
	if r.ScopeType != ScopeState && r.ScopeType != ScopeRegion && r.ScopeType != ScopeSchool {
		return ErrInvalidScope
	}
	if strings.TrimSpace(r.ScopeID) == "" {
		return ErrEmptyScopeID
	}
	if r.ScopeType != ScopeTypeFor(r.Role) {
		return ErrScopeMismatch
	}
	return nil
}

// ScopeTypeFor returns the scope type recorded for an admin role.
// SUPER is recorded against a STATE scope even though its reach is global.
func ScopeTypeFor(role string) string {
	if role == RoleSuper {
		return ScopeState
	}
	return role
}

// IsAdminRole reports whether role passes the admin portal gate.
func IsAdminRole(role string) bool {
	return contains(AdminRoles, role)
}

// Precedence ranks admin roles, highest reach first. Unknown roles rank 0.
func Precedence(role string) int {
	switch role {
	case RoleSuper:
		return 4
	case RoleState:
		return 3
	case RoleRegion:
		return 2
	case RoleSchool:
		return 1
	}
	return 0
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
