package backend

import (
	"context"

	"gohuddleup/internal/adapters/storage"
	achievementstore "gohuddleup/internal/adapters/storage/achievement"
	attendancestore "gohuddleup/internal/adapters/storage/attendance"
	eventstore "gohuddleup/internal/adapters/storage/event"
	ministrystore "gohuddleup/internal/adapters/storage/ministry"
	parentstore "gohuddleup/internal/adapters/storage/parent"
	schoolstore "gohuddleup/internal/adapters/storage/school"
	studentstore "gohuddleup/internal/adapters/storage/student"
	userstore "gohuddleup/internal/adapters/storage/user"
)

// Tables is the row-level data API. The same set is bound either to the
// database or to one open transaction.
type Tables struct {
	users    *userstore.SQLStore
	students *studentstore.SQLStore
	ministry *ministrystore.SQLStore
	parents  *parentstore.SQLStore
	schools  *schoolstore.SQLStore

	attendance   *attendancestore.SQLStore
	achievements *achievementstore.SQLStore
	events       *eventstore.SQLStore
}

func newTables(q storage.Querier) Tables {
	return Tables{
		users:    userstore.NewSQLStore(q),
		students: studentstore.NewSQLStore(q),
		ministry: ministrystore.NewSQLStore(q),
		parents:  parentstore.NewSQLStore(q),
		schools:  schoolstore.NewSQLStore(q),

		attendance:   attendancestore.NewSQLStore(q),
		achievements: achievementstore.NewSQLStore(q),
		events:       eventstore.NewSQLStore(q),
	}
}

// Users is the users table.
func (t Tables) Users() userstore.Store { return t.users }

// RoleAssignments is the role_assignments table. It shares the users store.
func (t Tables) RoleAssignments() userstore.Store { return t.users }

// Students is the students table.
func (t Tables) Students() studentstore.Store { return t.students }

// Ministry is the ministry_data table.
func (t Tables) Ministry() ministrystore.Store { return t.ministry }

// Parents is the parents table.
func (t Tables) Parents() parentstore.Store { return t.parents }

// Schools is the school directory: states, regions, schools and huddles.
func (t Tables) Schools() schoolstore.Store { return t.schools }

// Attendance is the student_attendance table.
func (t Tables) Attendance() attendancestore.Store { return t.attendance }

// Achievements is the student_achievements table.
func (t Tables) Achievements() achievementstore.Store { return t.achievements }

// Events holds fca_events and student_event_registrations.
func (t Tables) Events() eventstore.Store { return t.events }

// Client is the public handle onto a Service.
type Client struct {
	Tables
	svc  *Service
	role string
}

func newClient(svc *Service, role string) *Client {
	return &Client{Tables: newTables(svc.db), svc: svc, role: role}
}

// Role is the role of the API key the handle was opened with.
func (c *Client) Role() string {
	return c.role
}

// Auth returns the authentication API.
func (c *Client) Auth() *Auth {
	return &Auth{svc: c.svc}
}

// WithTx runs fn against tables bound to one transaction.
// POST: Committed when fn returns nil, rolled back otherwise
func (c *Client) WithTx(ctx context.Context, fn func(Tables) error) error {
	return c.svc.db.WithTx(ctx, func(tx *storage.Tx) error {
		return fn(newTables(tx))
	})
}

// ServerClient is the privileged handle. Only it exposes Admin.
type ServerClient struct {
	*Client
}

// Admin returns the identity administration API.
func (c *ServerClient) Admin() *Admin {
	return &Admin{svc: c.svc}
}
