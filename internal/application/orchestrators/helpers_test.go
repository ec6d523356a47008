package orchestrators

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"gohuddleup/internal/adapters/backend"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/registration"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
	"gohuddleup/internal/testkit"
)

func fixedNow() time.Time { return testkit.Now }

func adminDeps(b testkit.Backend) CreateAdminUserDeps {
	return CreateAdminUserDeps{
		Admin:     b.Server.Admin(),
		Directory: b.Server.Schools(),
		Tx:        b.Server.WithTx,
		Now:       fixedNow,
	}
}

func signInDeps(b testkit.Backend) SignInDeps {
	return SignInDeps{Auth: b.Client.Auth(), Users: b.Client.Users()}
}

func registerDeps(b testkit.Backend) RegisterStudentDeps {
	return RegisterStudentDeps{
		Auth:  b.Client.Auth(),
		Admin: b.Server.Admin(),
		Tx:    b.Server.WithTx,
		NewID: uuid.NewString,
		Now:   fixedNow,
	}
}

// provisionAdmin creates an admin as an operator.
func provisionAdmin(t *testing.T, b testkit.Backend, email, role, scopeID string) CreateAdminUserResult {
	t.Helper()
	res, err := ExecuteCreateAdminUser(context.Background(), CreateAdminUserInput{
		Email: email, Password: "password123", Role: role, ScopeID: scopeID, Operator: true,
	}, adminDeps(b))
	if err != nil {
		t.Fatalf("provision %s %s: %v", role, email, err)
	}
	return res
}

// provisionStudentUser creates a confirmed identity with a STUDENT users row and profile.
func provisionStudentUser(t *testing.T, b testkit.Backend, email string, schoolID string) student.Profile {
	t.Helper()
	ctx := context.Background()
	ident := b.CreateIdentity(t, email, "password123")
	u := user.User{ID: ident.ID, Email: ident.Email, Role: user.RoleStudent, Status: user.StatusActive, CreatedAt: testkit.Now, UpdatedAt: testkit.Now}
	if err := b.Server.Users().Insert(ctx, u); err != nil {
		t.Fatalf("insert student user: %v", err)
	}
	p := student.Profile{
		ID: uuid.NewString(), UserID: ident.ID, FirstName: "Jordan", LastName: "Lee", Email: ident.Email,
		Mobile: "5025550142", Grade: "10th", GraduationYear: 2027, GPA: 3.4, ShirtSize: "M",
		SchoolID: schoolID, Address: student.Address{Street: "1 Main St", City: "Louisville", State: "KY", Zip: "40202"},
		Sports: []string{"Soccer"}, CreatedAt: testkit.Now, UpdatedAt: testkit.Now,
	}
	if err := b.Server.Students().Insert(ctx, p); err != nil {
		t.Fatalf("insert profile: %v", err)
	}
	return p
}

func studentForm(email string) registration.Form {
	return registration.Form{
		Email:           email,
		Password:        "huddle-up-2024",
		ConfirmPassword: "huddle-up-2024",
		FirstName:       "jordan",
		LastName:        "lee",
		Mobile:          "(502) 555-0142",
		Grade:           "10th Grade",
		GraduationYear:  "2027",
		GPA:             "3.8",
		ChurchName:      "Grace Community",
		Relationship:    "yes",
		SpiritualGifts:  []string{"teaching"},
		Sports:          []string{"Soccer", "Track & Field"},
		SchoolName:      "central high school",
		HuddleName:      "Central FCA",
		Address:         student.Address{Street: "1 Main St", City: "Louisville", State: "ky", Zip: "40202"},

		EmergencyContactName:  "Pat Lee",
		EmergencyContactPhone: "502-555-0100",
		Parent1:               registration.ParentForm{Name: "Pat Lee", Phone: "502-555-0100", Email: "pat@example.com", Relationship: "Mother"},
		Parent2:               registration.ParentForm{Name: "Sam Lee", Phone: "502-555-0101", Email: "sam@example.com", Relationship: "Father"},
		ConsentCommunications: true,
		ConsentPhotos:         true,
		ShirtSize:             "m",
	}
}

// spyAuth records sign-outs and forwards sign-ins to the wrapped service.
type spyAuth struct {
	AuthService
	lastToken  string
	signedOut  []string
	signOutErr error
}

func (s *spyAuth) SignInWithPassword(ctx context.Context, email, password string) (identity.Session, error) {
	sess, err := s.AuthService.SignInWithPassword(ctx, email, password)
	s.lastToken = sess.AccessToken
	return sess, err
}

func (s *spyAuth) SignOut(ctx context.Context, token string) error {
	if s.signOutErr != nil {
		return s.signOutErr
	}
	s.signedOut = append(s.signedOut, token)
	return s.AuthService.SignOut(ctx, token)
}

// failingTx never runs fn.
func failingTx(err error) TxFunc {
	return func(context.Context, func(backend.Tables) error) error { return err }
}
