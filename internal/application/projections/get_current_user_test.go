package projections

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"gohuddleup/internal/adapters/storage"
	userstore "gohuddleup/internal/adapters/storage/user"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/user"
)

type mockSessionResolver struct {
	ident identity.Identity
	err   error
}

// GetUser returns the seeded identity or error.
func (m *mockSessionResolver) GetUser(_ context.Context, _ string) (identity.Identity, error) {
	return m.ident, m.err
}

type mockUserStore struct {
	users       map[string]user.User
	assignments map[string][]user.RoleAssignment
	err         error
}

// GetByID returns the seeded user, or a wrapped ErrNotFound.
func (m *mockUserStore) GetByID(_ context.Context, id string) (user.User, error) {
	if m.err != nil {
		return user.User{}, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return user.User{}, fmt.Errorf("user not found: %w", storage.ErrNotFound)
	}
	return u, nil
}

// Count is a stub to satisfy the projections.UserStore interface.
func (m *mockUserStore) Count(_ context.Context, _ userstore.ListFilter) (int, error) {
	return len(m.users), m.err
}

// ListAssignments returns the seeded assignments.
func (m *mockUserStore) ListAssignments(_ context.Context, userID string) ([]user.RoleAssignment, error) {
	return m.assignments[userID], m.err
}

// TestQueryGetCurrentUser distinguishes every outcome.
func TestQueryGetCurrentUser(t *testing.T) {
	ident := identity.Identity{ID: "u1", Email: "jordan@example.com"}
	row := user.User{ID: "u1", Role: user.RoleStudent, Status: user.StatusActive}
	boom := errors.New("connection refused")

	tests := []struct {
		name        string
		token       string
		auth        *mockSessionResolver
		users       *mockUserStore
		wantOutcome Outcome
		wantHasUser bool
	}{
		{"no token", "", &mockSessionResolver{}, &mockUserStore{}, OutcomeNotFound, false},
		{"revoked session", "t", &mockSessionResolver{err: identity.ErrNoSession}, &mockUserStore{}, OutcomeNotFound, false},
		{"backend down", "t", &mockSessionResolver{err: boom}, &mockUserStore{}, OutcomeFailed, false},
		{"identity with row", "t", &mockSessionResolver{ident: ident}, &mockUserStore{users: map[string]user.User{"u1": row}}, OutcomeOK, true},
		{"identity without row", "t", &mockSessionResolver{ident: ident}, &mockUserStore{}, OutcomeOK, false},
		{"users lookup fails", "t", &mockSessionResolver{ident: ident}, &mockUserStore{err: boom}, OutcomeFailed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QueryGetCurrentUser(context.Background(), GetCurrentUserQuery{AccessToken: tt.token}, GetCurrentUserDeps{Auth: tt.auth, Users: tt.users})
			if got.Outcome != tt.wantOutcome {
				t.Fatalf("Outcome = %v, want %v (err %v)", got.Outcome, tt.wantOutcome, got.Err)
			}
			if got.Value.HasUser != tt.wantHasUser {
				t.Errorf("HasUser = %v, want %v", got.Value.HasUser, tt.wantHasUser)
			}
			if tt.wantOutcome == OutcomeFailed && !errors.Is(got.Err, boom) {
				t.Errorf("Err = %v, want %v", got.Err, boom)
			}
			if tt.wantOutcome != OutcomeOK && got.Value.Identity.ID != "" {
				t.Errorf("Value should be zero on %v, got %+v", got.Outcome, got.Value)
			}
		})
	}
}

// TestQueryGetUserRole picks the broadest assignment.
func TestQueryGetUserRole(t *testing.T) {
	store := &mockUserStore{assignments: map[string][]user.RoleAssignment{
		"multi": {
			{Role: user.RoleSchool, ScopeType: user.ScopeSchool, ScopeID: "sc1"},
			{Role: user.RoleState, ScopeType: user.ScopeState, ScopeID: "ky"},
			{Role: user.RoleRegion, ScopeType: user.ScopeRegion, ScopeID: "r1"},
		},
		"student": {{Role: user.RoleStudent}},
	}}
	deps := GetUserRoleDeps{Users: store}
	ctx := context.Background()

	got := QueryGetUserRole(ctx, GetUserRoleQuery{UserID: "multi"}, deps)
	if !got.Found() || got.Value.Role != user.RoleState || got.Value.ScopeID != "ky" {
		t.Errorf("QueryGetUserRole(multi) = %+v", got)
	}
	for _, id := range []string{"student", "nobody", ""} {
		if got := QueryGetUserRole(ctx, GetUserRoleQuery{UserID: id}, deps); got.Outcome != OutcomeNotFound {
			t.Errorf("QueryGetUserRole(%q) = %v, want not found", id, got.Outcome)
		}
	}

	boom := errors.New("timeout")
	got = QueryGetUserRole(ctx, GetUserRoleQuery{UserID: "multi"}, GetUserRoleDeps{Users: &mockUserStore{err: boom}})
	if got.Outcome != OutcomeFailed || !errors.Is(got.Err, boom) {
		t.Errorf("QueryGetUserRole(failing) = %+v", got)
	}
}

// TestOutcome_String names every outcome.
func TestOutcome_String(t *testing.T) {
	for o, want := range map[Outcome]string{OutcomeOK: "ok", OutcomeNotFound: "not_found", OutcomeFailed: "failed", Outcome(9): "unknown"} {
		if got := o.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", o, got, want)
		}
	}
}
