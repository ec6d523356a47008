package web

import (
	"context"
	"errors"
	"net/http"

	"gohuddleup/internal/adapters/http/middleware"
	"gohuddleup/internal/application/orchestrators"
	"gohuddleup/internal/application/projections"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/user"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// portal is one of the two sign-in pages.
type portal struct {
	page     string
	title    string
	home     string
	signIn   func(context.Context, orchestrators.SignInInput, orchestrators.SignInDeps) (orchestrators.SignInResult, error)
	accepted func(role string) bool
}

var (
	adminPortal = portal{
		page: "admin_login.html", title: "Admin sign in", home: "/admin/dashboard",
		signIn: orchestrators.ExecuteSignInAdmin, accepted: user.IsAdminRole,
	}
	studentPortal = portal{
		page: "student_login.html", title: "Student sign in", home: "/student/dashboard",
		signIn: orchestrators.ExecuteSignInStudent, accepted: func(role string) bool { return role == user.RoleStudent },
	}
)

func (a *app) handleAdminLoginForm(w http.ResponseWriter, r *http.Request) {
	a.loginForm(w, r, adminPortal)
}

func (a *app) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	a.login(w, r, adminPortal)
}

func (a *app) handleStudentLoginForm(w http.ResponseWriter, r *http.Request) {
	a.loginForm(w, r, studentPortal)
}

func (a *app) handleStudentLogin(w http.ResponseWriter, r *http.Request) {
	a.login(w, r, studentPortal)
}

func (a *app) loginForm(w http.ResponseWriter, r *http.Request, p portal) {
	if pr, ok := middleware.PrincipalFrom(r.Context()); ok && p.accepted(pr.Role) {
		http.Redirect(w, r, p.home, http.StatusSeeOther)
		return
	}
	a.render(w, r, http.StatusOK, p.page, p.title, nil, "")
}

// login signs in through a portal. JSON callers get {"redirect": ...};
// form posts are redirected or shown the form again with a message.
func (a *app) login(w http.ResponseWriter, r *http.Request, p portal) {
	var in credentials
	if isJSONRequest(r) {
		if err := strictDecode(r, &in); err != nil {
			badRequest(w, "invalid JSON body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form submission", http.StatusBadRequest)
			return
		}
		in = credentials{Email: r.FormValue("email"), Password: r.FormValue("password")}
	}

	res, err := p.signIn(r.Context(), orchestrators.SignInInput{Email: in.Email, Password: in.Password},
		orchestrators.SignInDeps{Auth: a.client.Auth(), Users: a.client.Users()})
	if err != nil {
		if isJSONRequest(r) {
			writeError(w, err)
			return
		}
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			internalError(w, err)
			return
		}
		a.render(w, r, status, p.page, p.title, map[string]string{"Email": in.Email}, loginMessage(err))
		return
	}

	middleware.SetSessionCookie(w, res.Session.AccessToken, a.sessionTTL)
	if isJSONRequest(r) {
		writeJSON(w, http.StatusOK, map[string]string{"redirect": p.home, "role": res.User.Role})
		return
	}
	http.Redirect(w, r, p.home, http.StatusSeeOther)
}

// loginMessage is the text shown above a rejected sign-in form.
func loginMessage(err error) string {
	switch {
	case errors.Is(err, orchestrators.ErrAccountInactive):
		return "This account has been deactivated."
	case errors.Is(err, orchestrators.ErrInsufficientPrivileges):
		return "This account cannot sign in here."
	default:
		return "Invalid email or password."
	}
}

// handleLogout handles POST /logout
func (a *app) handleLogout(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteSignOut(r.Context(), orchestrators.SignOutInput{AccessToken: middleware.SessionToken(r)},
		orchestrators.SignOutDeps{Auth: a.client.Auth()})
	middleware.ClearSessionCookie(w)
	if err != nil {
		writeError(w, err)
		return
	}
	if isJSONRequest(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

type scopeJSON struct {
	Role      string `json:"role"`
	ScopeType string `json:"scope_type"`
	ScopeID   string `json:"scope_id"`
}

type meResponse struct {
	ID    string     `json:"id"`
	Email string     `json:"email"`
	Role  string     `json:"role"`
	Scope *scopeJSON `json:"scope,omitempty"`
}

// handleMe handles GET /api/me
func (a *app) handleMe(w http.ResponseWriter, r *http.Request) {
	pr, _ := middleware.PrincipalFrom(r.Context())
	resp := meResponse{ID: pr.UserID, Email: pr.Email, Role: pr.Role}
	if user.IsAdminRole(pr.Role) {
		role := projections.QueryGetUserRole(r.Context(), projections.GetUserRoleQuery{UserID: pr.UserID},
			projections.GetUserRoleDeps{Users: a.client.Users()})
		switch role.Outcome {
		case projections.OutcomeOK:
			resp.Scope = &scopeJSON{Role: role.Value.Role, ScopeType: role.Value.ScopeType, ScopeID: role.Value.ScopeID}
		case projections.OutcomeFailed:
			writeError(w, role.Err)
			return
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleConfirmEmail handles GET /auth/confirm?token=...
func (a *app) handleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	ident, err := orchestrators.ExecuteConfirmEmail(r.Context(), orchestrators.ConfirmEmailInput{Token: r.URL.Query().Get("token")},
		orchestrators.ConfirmEmailDeps{Auth: a.client.Auth(), Users: a.client.Users()})
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			internalError(w, err)
			return
		}
		a.render(w, r, status, "confirm.html", "Confirm email", nil, confirmMessage(err))
		return
	}
	a.render(w, r, http.StatusOK, "confirm.html", "Email confirmed", map[string]string{"Email": ident.Email}, "")
}

func confirmMessage(err error) string {
	switch {
	case errors.Is(err, identity.ErrTokenExpired):
		return "This confirmation link has expired. Request a new one below."
	case errors.Is(err, identity.ErrAlreadyConfirmed):
		return "Your email address is already confirmed. You can sign in."
	default:
		return "This confirmation link is not valid."
	}
}
