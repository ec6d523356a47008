package orchestrators

import (
	"context"
	"errors"
	"testing"

	"gohuddleup/internal/adapters/storage"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/registration"
	"gohuddleup/internal/domain/user"
	"gohuddleup/internal/testkit"
)

// TestExecuteRegisterStudent writes every record keyed by the profile id.
func TestExecuteRegisterStudent(t *testing.T) {
	b := testkit.OpenBackend(t)
	dir := testkit.SeedDirectory(t, b.Service.DB())
	ctx := context.Background()

	res, err := ExecuteRegisterStudent(ctx, RegisterStudentInput{Form: studentForm("Jordan@Example.com")}, registerDeps(b))
	if err != nil {
		t.Fatalf("ExecuteRegisterStudent: %v", err)
	}
	if res.Identity.Email != "jordan@example.com" || res.Identity.IsConfirmed() {
		t.Errorf("identity = %+v", res.Identity)
	}
	if !res.SchoolMatched || res.Profile.SchoolID != dir.School.ID || res.Profile.HuddleID != dir.Huddle.ID {
		t.Errorf("placement = %v %q %q", res.SchoolMatched, res.Profile.SchoolID, res.Profile.HuddleID)
	}

	u, err := b.Server.Users().GetByID(ctx, res.Identity.ID)
	if err != nil || u.Role != user.RoleStudent || u.Status != user.StatusPending {
		t.Errorf("users row = %+v, %v", u, err)
	}
	profile, err := b.Server.Students().GetByUserID(ctx, res.Identity.ID)
	if err != nil || profile.ID != res.Profile.ID || profile.FirstName != "Jordan" || profile.Grade != "10th" {
		t.Errorf("profile = %+v, %v", profile, err)
	}
	data, err := b.Server.Ministry().GetByStudentID(ctx, profile.ID)
	if err != nil || data.StudentID != profile.ID || data.RelationshipToChrist != "YES" {
		t.Errorf("ministry data = %+v, %v", data, err)
	}
	parents, err := b.Server.Parents().ListByStudentID(ctx, profile.ID)
	if err != nil || len(parents) != 2 {
		t.Fatalf("parents = %+v, %v", parents, err)
	}
	for _, p := range parents {
		if p.StudentID != profile.ID {
			t.Errorf("parent %s keyed by %q, want profile id %q", p.FirstName, p.StudentID, profile.ID)
		}
	}

	if _, ok := b.Mail.Last("jordan@example.com"); !ok {
		t.Error("no confirmation mail sent")
	}
}

// TestExecuteRegisterStudent_UnknownSchool keeps the requested names for admin placement.
func TestExecuteRegisterStudent_UnknownSchool(t *testing.T) {
	b := testkit.OpenBackend(t)
	testkit.SeedDirectory(t, b.Service.DB())

	form := studentForm("new@example.com")
	form.SchoolName = "Nowhere Academy"
	res, err := ExecuteRegisterStudent(context.Background(), RegisterStudentInput{Form: form}, registerDeps(b))
	if err != nil {
		t.Fatalf("ExecuteRegisterStudent: %v", err)
	}
	if res.SchoolMatched || res.Profile.SchoolID != "" || res.Profile.RequestedSchool != "Nowhere Academy" {
		t.Errorf("profile = %+v", res.Profile)
	}
}

// TestExecuteRegisterStudent_InvalidForm rejects before any account is created.
func TestExecuteRegisterStudent_InvalidForm(t *testing.T) {
	b := testkit.OpenBackend(t)
	ctx := context.Background()

	form := studentForm("bad@example.com")
	form.ConfirmPassword = "something-else"
	_, err := ExecuteRegisterStudent(ctx, RegisterStudentInput{Form: form}, registerDeps(b))
	var verr *registration.ValidationError
	if !errors.As(err, &verr) || verr.Step != registration.StepAccount {
		t.Fatalf("error = %v, want step 1 validation error", err)
	}
	if _, err := b.Server.Admin().GetUserByEmail(ctx, "bad@example.com"); err == nil {
		t.Error("invalid form created an identity")
	}
}

// TestExecuteRegisterStudent_Compensates deletes the identity when the records fail.
func TestExecuteRegisterStudent_Compensates(t *testing.T) {
	b := testkit.OpenBackend(t)
	ctx := context.Background()

	boom := errors.New("profile insert failed")
	deps := registerDeps(b)
	deps.Tx = failingTx(boom)
	if _, err := ExecuteRegisterStudent(ctx, RegisterStudentInput{Form: studentForm("jordan@example.com")}, deps); !errors.Is(err, boom) {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	if _, err := b.Server.Admin().GetUserByEmail(ctx, "jordan@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("identity after compensation: error = %v, want ErrNotFound", err)
	}
	if msg, ok := b.Mail.Last("jordan@example.com"); ok {
		t.Errorf("rolled back registration mailed %q", msg.Subject)
	}

	if _, err := ExecuteRegisterStudent(ctx, RegisterStudentInput{Form: studentForm("jordan@example.com")}, registerDeps(b)); err != nil {
		t.Errorf("retry after compensation: %v", err)
	}
}

// TestExecuteRegisterStudent_DirectoryFailure does not mistake a broken directory for an unknown school.
func TestExecuteRegisterStudent_DirectoryFailure(t *testing.T) {
	b := testkit.OpenBackend(t)
	testkit.SeedDirectory(t, b.Service.DB())
	ctx := context.Background()
	if _, err := b.Service.DB().ExecContext(ctx, "ALTER TABLE schools RENAME TO schools_archived"); err != nil {
		t.Fatalf("rename schools: %v", err)
	}

	_, err := ExecuteRegisterStudent(ctx, RegisterStudentInput{Form: studentForm("jordan@example.com")}, registerDeps(b))
	if err == nil || isNotFound(err) {
		t.Fatalf("error = %v, want the directory failure", err)
	}
	if _, err := b.Server.Admin().GetUserByEmail(ctx, "jordan@example.com"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("identity after directory failure: error = %v, want ErrNotFound", err)
	}
	if _, ok := b.Mail.Last("jordan@example.com"); ok {
		t.Error("failed registration sent a confirmation mail")
	}
}

// mailFailingAuth signs up normally but cannot deliver mail.
type mailFailingAuth struct {
	SignUpService
}

func (mailFailingAuth) SendConfirmation(context.Context, string) error {
	return errors.New("mail provider unavailable")
}

// TestExecuteRegisterStudent_MailFailure keeps the committed account when the mail cannot be sent.
func TestExecuteRegisterStudent_MailFailure(t *testing.T) {
	b := testkit.OpenBackend(t)
	testkit.SeedDirectory(t, b.Service.DB())
	ctx := context.Background()

	deps := registerDeps(b)
	deps.Auth = mailFailingAuth{SignUpService: b.Client.Auth()}
	res, err := ExecuteRegisterStudent(ctx, RegisterStudentInput{Form: studentForm("jordan@example.com")}, deps)
	if err != nil {
		t.Fatalf("ExecuteRegisterStudent: %v", err)
	}
	if _, err := b.Server.Students().GetByUserID(ctx, res.Identity.ID); err != nil {
		t.Errorf("profile after mail failure: %v", err)
	}

	if err := b.Client.Auth().SendConfirmation(ctx, "jordan@example.com"); err != nil {
		t.Fatalf("SendConfirmation: %v", err)
	}
	if b.ConfirmationToken(t, "jordan@example.com") == "" {
		t.Error("resent mail carries no token")
	}
}

// TestExecuteRegisterStudent_DuplicateEmail surfaces the taken address.
func TestExecuteRegisterStudent_DuplicateEmail(t *testing.T) {
	b := testkit.OpenBackend(t)
	b.CreateIdentity(t, "jordan@example.com", "password123")

	_, err := ExecuteRegisterStudent(context.Background(), RegisterStudentInput{Form: studentForm("jordan@example.com")}, registerDeps(b))
	if !errors.Is(err, identity.ErrEmailTaken) {
		t.Errorf("error = %v, want ErrEmailTaken", err)
	}
}

// TestExecuteConfirmEmail activates the student and enables sign-in.
func TestExecuteConfirmEmail(t *testing.T) {
	b := testkit.OpenBackend(t)
	testkit.SeedDirectory(t, b.Service.DB())
	ctx := context.Background()

	res, err := ExecuteRegisterStudent(ctx, RegisterStudentInput{Form: studentForm("jordan@example.com")}, registerDeps(b))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	deps := ConfirmEmailDeps{Auth: b.Client.Auth(), Users: b.Client.Users()}

	if _, err := ExecuteConfirmEmail(ctx, ConfirmEmailInput{}, deps); !errors.Is(err, identity.ErrTokenInvalid) {
		t.Errorf("empty token error = %v, want ErrTokenInvalid", err)
	}

	token := b.ConfirmationToken(t, "jordan@example.com")
	ident, err := ExecuteConfirmEmail(ctx, ConfirmEmailInput{Token: token}, deps)
	if err != nil || ident.ID != res.Identity.ID {
		t.Fatalf("ExecuteConfirmEmail() = %+v, %v", ident, err)
	}
	u, err := b.Server.Users().GetByID(ctx, ident.ID)
	if err != nil || u.Status != user.StatusActive {
		t.Errorf("users row after confirm = %+v, %v", u, err)
	}
	if _, err := ExecuteConfirmEmail(ctx, ConfirmEmailInput{Token: token}, deps); err == nil {
		t.Error("a used token should not confirm twice")
	}

	signed, err := ExecuteSignInStudent(ctx, SignInInput{Email: "jordan@example.com", Password: "huddle-up-2024"}, signInDeps(b))
	if err != nil || signed.User.ID != ident.ID {
		t.Errorf("sign in after confirm = %+v, %v", signed, err)
	}
}
