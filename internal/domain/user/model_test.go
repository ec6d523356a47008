package user_test

import (
	"testing"
	"time"

	"gohuddleup/internal/domain/user"
)

// TestUser_Validate tests validation of User.
func TestUser_Validate(t *testing.T) {
	tests := []struct {
		name    string
		user    user.User
		wantErr error
	}{
		{"valid super", user.User{ID: "1", Email: "admin@gohuddleup.com", Role: user.RoleSuper, Status: user.StatusActive}, nil},
		{"valid student", user.User{ID: "2", Email: "sam@school.org", Role: user.RoleStudent, Status: user.StatusPending}, nil},
		{"empty id", user.User{Email: "a@b.com", Role: user.RoleSchool, Status: user.StatusActive}, user.ErrEmptyID},
		{"empty email", user.User{ID: "3", Role: user.RoleSchool, Status: user.StatusActive}, user.ErrEmptyEmail},
		{"no at sign", user.User{ID: "4", Email: "nope", Role: user.RoleSchool, Status: user.StatusActive}, user.ErrInvalidEmail},
		{"lowercase role", user.User{ID: "5", Email: "a@b.com", Role: "school", Status: user.StatusActive}, user.ErrInvalidRole},
		{"unknown status", user.User{ID: "6", Email: "a@b.com", Role: user.RoleSchool, Status: "DELETED"}, user.ErrInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.user.Validate()
			if err != tt.wantErr {
				t.Errorf("User.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestUser_RoleChecks verifies the admin and student gates.
func TestUser_RoleChecks(t *testing.T) {
	for _, role := range user.AdminRoles {
		u := user.User{Role: role}
		if !u.IsAdmin() {
			t.Errorf("expected %s to pass the admin gate", role)
		}
		if u.IsStudent() {
			t.Errorf("expected %s to fail the student gate", role)
		}
	}
	student := user.User{Role: user.RoleStudent}
	if student.IsAdmin() {
		t.Error("STUDENT must not pass the admin gate")
	}
	if !student.IsStudent() {
		t.Error("STUDENT must pass the student gate")
	}
}

// TestUser_Activate tests the pending to active transition.
func TestUser_Activate(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	u := user.User{Status: user.StatusPending}
	if err := u.Activate(now); err != nil {
		t.Fatalf("Activate() unexpected error: %v", err)
	}
	if u.Status != user.StatusActive || !u.UpdatedAt.Equal(now) {
		t.Errorf("expected ACTIVE updated at %v, got %s at %v", now, u.Status, u.UpdatedAt)
	}
	if err := u.Activate(now); err != user.ErrAlreadyActive {
		t.Errorf("second Activate() error = %v, want ErrAlreadyActive", err)
	}

	inactive := user.User{Status: user.StatusInactive}
	if err := inactive.Activate(now); err != user.ErrCannotReactivate {
		t.Errorf("Activate() on inactive error = %v, want ErrCannotReactivate", err)
	}
}

// TestScopeTypeFor documents that SUPER is recorded against a STATE scope.
func TestScopeTypeFor(t *testing.T) {
	tests := map[string]string{
		user.RoleSuper:  user.ScopeState,
		user.RoleState:  user.ScopeState,
		user.RoleRegion: user.ScopeRegion,
		user.RoleSchool: user.ScopeSchool,
	}
	for role, want := range tests {
		if got := user.ScopeTypeFor(role); got != want {
			t.Errorf("ScopeTypeFor(%s) = %s, want %s", role, got, want)
		}
	}
}

// TestRoleAssignment_Validate tests validation of RoleAssignment.
func TestRoleAssignment_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ra      user.RoleAssignment
		wantErr error
	}{
		{"school", user.RoleAssignment{UserID: "u", Role: user.RoleSchool, ScopeType: user.ScopeSchool, ScopeID: "s"}, nil},
		{"super on state", user.RoleAssignment{UserID: "u", Role: user.RoleSuper, ScopeType: user.ScopeState, ScopeID: "ky"}, nil},
		{"student role", user.RoleAssignment{UserID: "u", Role: user.RoleStudent, ScopeType: user.ScopeSchool, ScopeID: "s"}, user.ErrNotAdminRole},
		{"missing scope id", user.RoleAssignment{UserID: "u", Role: user.RoleRegion, ScopeType: user.ScopeRegion}, user.ErrEmptyScopeID},
		{"mismatched scope", user.RoleAssignment{UserID: "u", Role: user.RoleRegion, ScopeType: user.ScopeSchool, ScopeID: "s"}, user.ErrScopeMismatch},
		{"bad scope", user.RoleAssignment{UserID: "u", Role: user.RoleRegion, ScopeType: "COUNTY", ScopeID: "s"}, user.ErrInvalidScope},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.ra.Validate(); err != tt.wantErr {
				t.Errorf("RoleAssignment.Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestPrecedence verifies admin roles rank by reach.
func TestPrecedence(t *testing.T) {
	order := []string{user.RoleSuper, user.RoleState, user.RoleRegion, user.RoleSchool, user.RoleStudent}
	for i := 0; i < len(order)-1; i++ {
		if user.Precedence(order[i]) <= user.Precedence(order[i+1]) {
			t.Errorf("expected %s to outrank %s", order[i], order[i+1])
		}
	}
}
