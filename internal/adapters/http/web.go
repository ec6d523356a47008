package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"gohuddleup/internal/adapters/backend"
	"gohuddleup/internal/adapters/http/middleware"
	"gohuddleup/internal/adapters/http/perf"
	"gohuddleup/internal/application/projections"
	"gohuddleup/internal/domain/user"
)

// ErrMissingHandle is returned by NewMux when a backend handle is nil.
var ErrMissingHandle = errors.New("web: client and server handles are required")

// Deps holds everything the HTTP surface needs.
type Deps struct {
	Client *backend.Client
	Server *backend.ServerClient
	// Collector receives request timings. Nil disables the perf endpoint.
	Collector *perf.Collector
	CSRFKey   []byte
	// TrustedOrigins lists extra hosts allowed to submit forms, such as a proxy's.
	TrustedOrigins []string
	SessionTTL     time.Duration
	SlowRequest    time.Duration
	// RateLimitPerSecond caps requests per client IP. Zero selects 10.
	RateLimitPerSecond int
	Now                func() time.Time
}

// app carries request-independent state for the handlers.
type app struct {
	client     *backend.Client
	server     *backend.ServerClient
	collector  *perf.Collector
	sessionTTL time.Duration
	now        func() time.Time
	pages      *pages
}

// NewMux wires HTTP handlers for the app.
// PRE: deps.Client and deps.Server are open handles; CSRFKey is 32 bytes
// POST: Returns the handler with the middleware chain applied
func NewMux(deps Deps) (http.Handler, error) {
	if deps.Client == nil || deps.Server == nil {
		return nil, ErrMissingHandle
	}
	pg, err := loadPages()
	if err != nil {
		return nil, err
	}
	a := &app{
		client:     deps.Client,
		server:     deps.Server,
		collector:  deps.Collector,
		sessionTTL: deps.SessionTTL,
		now:        deps.Now,
		pages:      pg,
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.sessionTTL <= 0 {
		a.sessionTTL = time.Hour
	}
	rate := deps.RateLimitPerSecond
	if rate <= 0 {
		rate = 10
	}

	mux := http.NewServeMux()
	a.registerRoutes(mux)

	// Applied inside out: Timing runs first, SecurityHeaders last before the mux.
	return middleware.Chain(middleware.Route(mux),
		middleware.SecurityHeaders,
		middleware.CSRF(deps.CSRFKey, deps.TrustedOrigins...),
		middleware.Auth(a.resolvePrincipal),
		middleware.RateLimit(middleware.NewRateLimiter(rate, time.Second)),
		middleware.Timing(deps.Collector, deps.SlowRequest),
	), nil
}

func (a *app) registerRoutes(mux *http.ServeMux) {
	admin := middleware.RequireRole("/admin", user.IsAdminRole)
	super := middleware.RequireRole("/admin", func(role string) bool { return role == user.RoleSuper })
	student := middleware.RequireRole("/student/login", func(role string) bool { return role == user.RoleStudent })
	signedIn := middleware.RequireRole("/student/login", func(string) bool { return true })

	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.Handle("GET /static/", staticHandler())

	// Public
	mux.HandleFunc("GET /{$}", a.handleHome)
	mux.HandleFunc("GET /api/states", a.handleListStates)
	mux.HandleFunc("GET /api/schools", a.handleSearchSchools)

	// Auth
	mux.HandleFunc("GET /admin", a.handleAdminLoginForm)
	mux.HandleFunc("POST /admin", a.handleAdminLogin)
	mux.HandleFunc("GET /student/login", a.handleStudentLoginForm)
	mux.HandleFunc("POST /student/login", a.handleStudentLogin)
	mux.HandleFunc("POST /logout", a.handleLogout)
	mux.Handle("GET /api/me", signedIn(http.HandlerFunc(a.handleMe)))

	// Registration
	mux.HandleFunc("GET /register", a.handleRegisterForm)
	mux.HandleFunc("POST /api/register/validate", a.handleValidateStep)
	mux.HandleFunc("POST /register", a.handleRegister)
	mux.HandleFunc("GET /register/success", a.handleRegisterSuccess)
	mux.HandleFunc("POST /register/resend", a.handleResendConfirmation)
	mux.HandleFunc("GET /auth/confirm", a.handleConfirmEmail)

	// Admin
	mux.Handle("GET /admin/dashboard", admin(http.HandlerFunc(a.handleAdminDashboard)))
	mux.Handle("GET /api/admin/overview", admin(http.HandlerFunc(a.handleAdminOverview)))
	mux.Handle("GET /api/admin/students", admin(http.HandlerFunc(a.handleAdminStudents)))
	mux.Handle("POST /api/admin/users", admin(http.HandlerFunc(a.handleCreateAdminUser)))
	mux.Handle("POST /api/admin/attendance", admin(http.HandlerFunc(a.handleRecordAttendance)))
	mux.Handle("POST /api/admin/achievements", admin(http.HandlerFunc(a.handleAwardAchievement)))
	mux.Handle("POST /api/admin/events", admin(http.HandlerFunc(a.handleCreateEvent)))
	mux.Handle("GET /api/admin/perf", super(http.HandlerFunc(a.handlePerf)))

	// Student
	mux.Handle("GET /student/dashboard", student(http.HandlerFunc(a.handleStudentDashboard)))
	mux.Handle("GET /student/profile", student(http.HandlerFunc(a.handleStudentProfile)))
	mux.Handle("PATCH /api/student/profile", student(http.HandlerFunc(a.handlePatchStudentProfile)))
	mux.Handle("GET /api/student/events", student(http.HandlerFunc(a.handleStudentEvents)))
	mux.Handle("POST /api/student/events/{id}/register", student(http.HandlerFunc(a.handleRegisterForEvent)))
}

// resolvePrincipal maps a session cookie to the signed-in user.
// Identities without a users row never become a principal. A user deactivated
// after signing in loses the session on their next request.
func (a *app) resolvePrincipal(ctx context.Context, token string) (middleware.Principal, bool) {
	current := projections.QueryGetCurrentUser(ctx, projections.GetCurrentUserQuery{AccessToken: token},
		projections.GetCurrentUserDeps{Auth: a.client.Auth(), Users: a.client.Users()})
	if !current.Found() || !current.Value.HasUser {
		return middleware.Principal{}, false
	}
	u := current.Value.User
	if u.IsInactive() {
		if err := a.client.Auth().SignOut(ctx, token); err != nil {
			slog.Warn("session_revoke_failed", "user_id", u.ID, "error", err)
		}
		slog.Info("auth_event", "event", "inactive_session_rejected", "user_id", u.ID)
		return middleware.Principal{}, false
	}
	return middleware.Principal{UserID: u.ID, Email: u.Email, Role: u.Role, AccessToken: token}, true
}

func (a *app) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok"))
}
