// Package testkit holds fixtures shared by package tests: a migrated temp
// database, a seeded school directory and a fully wired backend.
package testkit

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"gohuddleup/internal/adapters/backend"
	"gohuddleup/internal/adapters/email"
	"gohuddleup/internal/adapters/session"
	"gohuddleup/internal/adapters/storage"
	identitystore "gohuddleup/internal/adapters/storage/identity"
	schoolstore "gohuddleup/internal/adapters/storage/school"
	studentstore "gohuddleup/internal/adapters/storage/student"
	userstore "gohuddleup/internal/adapters/storage/user"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/school"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
)

// JWTSecret signs every key and token minted by Backend.
var JWTSecret = strings.Repeat("k", session.MinSecretLength)

// Now is the fixed clock used by fixtures.
var Now = time.Date(2024, 9, 3, 15, 0, 0, 0, time.UTC)

// OpenDB opens a migrated SQLite database in a per-test temp dir.
// PRE: none
// POST: The database is closed when the test ends
func OpenDB(t testing.TB) *storage.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), "sqlite://"+filepath.Join(t.TempDir(), "huddle.db"), storage.Options{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Directory is a seeded state, region, school and huddle.
type Directory struct {
	State  school.State
	Region school.Region
	School school.School
	Huddle school.Huddle
}

// SeedDirectory inserts one state (KY), region, school and huddle.
// PRE: db is migrated
// POST: Returns the inserted rows
func SeedDirectory(t testing.TB, db storage.Querier) Directory {
	t.Helper()
	return SeedSchool(t, db, "KY", "Louisville Metro", "Central High School", "Central FCA")
}

// SeedSchool inserts a region, school and huddle under the given state code,
// creating the state when it is missing.
func SeedSchool(t testing.TB, db storage.Querier, code, region, schoolName, huddle string) Directory {
	t.Helper()
	ctx := context.Background()
	store := schoolstore.NewSQLStore(db)

	var d Directory
	st, err := store.GetStateByCode(ctx, code)
	if err != nil {
		info, ok := school.LookupState(code)
		if !ok {
			t.Fatalf("unknown state code %q", code)
		}
		st = school.State{ID: uuid.NewString(), Code: info.Code, Name: info.Name, CreatedAt: Now}
		if err := store.InsertState(ctx, st); err != nil {
			t.Fatalf("insert state: %v", err)
		}
	}
	d.State = st
	d.Region = school.Region{ID: uuid.NewString(), Name: region, StateID: st.ID, CreatedAt: Now}
	if err := store.InsertRegion(ctx, d.Region); err != nil {
		t.Fatalf("insert region: %v", err)
	}
	d.School = school.School{ID: uuid.NewString(), Name: schoolName, City: "Louisville", CreatedAt: Now}
	d.School.PlaceIn(d.Region)
	if err := store.InsertSchool(ctx, d.School); err != nil {
		t.Fatalf("insert school: %v", err)
	}
	d.Huddle = school.Huddle{ID: uuid.NewString(), Name: huddle, SchoolID: d.School.ID, CreatedAt: Now}
	if err := store.InsertHuddle(ctx, d.Huddle); err != nil {
		t.Fatalf("insert huddle: %v", err)
	}
	return d
}

// SeedStudent inserts an identity, an ACTIVE STUDENT users row and a profile
// placed in d's school and huddle. A zero d leaves the student unplaced.
// POST: Returns the profile; the user id is "user-"+first
func SeedStudent(t testing.TB, db storage.Querier, first string, d Directory) student.Profile {
	t.Helper()
	ctx := context.Background()
	userID := "user-" + first
	addr := strings.ToLower(first) + "@example.com"
	if err := identitystore.NewSQLStore(db).Insert(ctx, identity.Identity{ID: userID, Email: addr, PasswordHash: "h", CreatedAt: Now}); err != nil {
		t.Fatalf("insert identity: %v", err)
	}
	u := user.User{ID: userID, Email: addr, Role: user.RoleStudent, Status: user.StatusActive, CreatedAt: Now, UpdatedAt: Now}
	if err := userstore.NewSQLStore(db).Insert(ctx, u); err != nil {
		t.Fatalf("insert user: %v", err)
	}
	p := student.Profile{
		ID: "profile-" + first, UserID: userID, FirstName: first, LastName: "Tester", Email: addr,
		SchoolID: d.School.ID, HuddleID: d.Huddle.ID, CreatedAt: Now, UpdatedAt: Now,
	}
	if err := studentstore.NewSQLStore(db).Insert(ctx, p); err != nil {
		t.Fatalf("insert student: %v", err)
	}
	return p
}

// Backend is an opened backend service with both handles and a recording mailer.
type Backend struct {
	Service *backend.Service
	Client  *backend.Client
	Server  *backend.ServerClient
	Mail    *email.NoopSender
	Config  backend.Config
}

// MintKeys returns anon and service_role keys signed with JWTSecret.
func MintKeys(t testing.TB) (anon, service string) {
	t.Helper()
	tokens, err := session.NewTokens([]byte(JWTSecret))
	if err != nil {
		t.Fatalf("new tokens: %v", err)
	}
	anon, err = tokens.MintAPIKey(session.KeyRoleAnon)
	if err != nil {
		t.Fatalf("mint anon key: %v", err)
	}
	service, err = tokens.MintAPIKey(session.KeyRoleService)
	if err != nil {
		t.Fatalf("mint service key: %v", err)
	}
	return anon, service
}

// BackendConfig returns a complete config over a temp SQLite file.
func BackendConfig(t testing.TB) backend.Config {
	t.Helper()
	anon, service := MintKeys(t)
	return backend.Config{
		URL:        "sqlite://" + filepath.Join(t.TempDir(), "huddle.db"),
		AnonKey:    anon,
		ServiceKey: service,
		JWTSecret:  JWTSecret,
		SessionTTL: time.Hour,
		BaseURL:    "http://huddle.test",
		Sender:     email.NewNoopSender(),
		From:       "goHuddleUp <noreply@huddle.test>",
	}
}

// OpenBackend opens a backend with both handles. Password hashing runs at the
// minimum bcrypt cost.
// PRE: none
// POST: The service is closed when the test ends
func OpenBackend(t testing.TB) Backend {
	t.Helper()
	identity.HashCost = bcrypt.MinCost
	cfg := BackendConfig(t)
	svc, err := backend.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("open backend: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	client, err := svc.Client()
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	server, err := svc.ServerClient()
	if err != nil {
		t.Fatalf("server client: %v", err)
	}
	return Backend{Service: svc, Client: client, Server: server, Mail: cfg.Sender.(*email.NoopSender), Config: cfg}
}

var tokenPattern = regexp.MustCompile(`token=([0-9a-f]+)`)

// ConfirmationToken returns the token from the last confirmation mail sent to addr.
func (b Backend) ConfirmationToken(t testing.TB, addr string) string {
	t.Helper()
	msg, ok := b.Mail.Last(addr)
	if !ok {
		t.Fatalf("no mail sent to %s", addr)
	}
	m := tokenPattern.FindStringSubmatch(msg.Text)
	if m == nil {
		t.Fatalf("no confirmation token in mail to %s", addr)
	}
	return m[1]
}

// CreateIdentity creates a confirmed identity through the server client.
func (b Backend) CreateIdentity(t testing.TB, addr, password string) identity.Identity {
	t.Helper()
	ident, err := b.Server.Admin().CreateUser(context.Background(), addr, password)
	if err != nil {
		t.Fatalf("create identity %s: %v", addr, err)
	}
	return ident
}
