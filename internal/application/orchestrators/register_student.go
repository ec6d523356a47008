package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"gohuddleup/internal/adapters/backend"
	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/registration"
	"gohuddleup/internal/domain/student"
	"gohuddleup/internal/domain/user"
)

// RegisterStudentInput carries the completed registration wizard.
type RegisterStudentInput struct {
	Form registration.Form
}

// RegisterStudentResult carries the new identity and profile.
type RegisterStudentResult struct {
	Identity identity.Identity
	Profile  student.Profile
	// SchoolMatched is false when the requested school was not in the directory
	// and an admin still has to place the student.
	SchoolMatched bool
}

// RegisterStudentDeps holds dependencies for RegisterStudent.
type RegisterStudentDeps struct {
	Auth  SignUpService
	Admin IdentityAdmin
	Tx    TxFunc
	NewID func() string
	Now   func() time.Time
}

// ExecuteRegisterStudent signs a student up and writes their records.
// PRE: none; the form is normalized and validated here
// POST: On success there is an unconfirmed identity, a PENDING STUDENT users row,
// one profile, its ministry data and one row per filled-in parent, all keyed by
// the profile id. On any write failure the identity is deleted again and no mail
// goes out. The confirmation link is mailed only after the records commit.
func ExecuteRegisterStudent(ctx context.Context, input RegisterStudentInput, deps RegisterStudentDeps) (RegisterStudentResult, error) {
	form := input.Form.Normalize()
	if err := form.Validate(); err != nil {
		return RegisterStudentResult{}, err
	}

	ident, err := deps.Auth.SignUp(ctx, form.Email, form.Password)
	if err != nil {
		return RegisterStudentResult{}, err
	}

	now := deps.Now()
	var result RegisterStudentResult
	err = deps.Tx(ctx, func(tx backend.Tables) error {
		schoolID, huddleID, err := matchSchool(ctx, tx, form)
		if err != nil {
			return err
		}
		u := user.User{
			ID:        ident.ID,
			Email:     ident.Email,
			Role:      user.RoleStudent,
			Status:    user.StatusPending,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Users().Insert(ctx, u); err != nil {
			return err
		}

		profile := form.Profile(deps.NewID(), ident.ID, schoolID, huddleID, now)
		if err := profile.Validate(); err != nil {
			return err
		}
		if err := tx.Students().Insert(ctx, profile); err != nil {
			return err
		}

		data := form.Ministry(deps.NewID(), profile.ID, now)
		if err := data.Validate(); err != nil {
			return err
		}
		if err := tx.Ministry().Insert(ctx, data); err != nil {
			return err
		}

		for _, p := range form.Parents(deps.NewID, profile.ID, now) {
			if err := p.Validate(); err != nil {
				return err
			}
			if err := tx.Parents().Insert(ctx, p); err != nil {
				return err
			}
		}
		result = RegisterStudentResult{Identity: ident, Profile: profile, SchoolMatched: schoolID != ""}
		return nil
	})
	if err != nil {
		return RegisterStudentResult{}, compensate(ctx, deps.Admin, ident.ID, "student_register", err)
	}

	if err := deps.Auth.SendConfirmation(ctx, ident.Email); err != nil {
		// The account stands; the student can ask for the link again.
		slog.Error("confirmation_mail_failed", "user_id", ident.ID, "error", err)
	}
	slog.Info("auth_event", "event", "student_registered", "user_id", ident.ID, "profile_id", result.Profile.ID, "school_matched", result.SchoolMatched)
	return result, nil
}

// matchSchool resolves the requested school and huddle names against the directory.
// Unknown names resolve to empty ids; the names are kept on the profile.
// Directory failures other than a miss are returned.
func matchSchool(ctx context.Context, tx backend.Tables, form registration.Form) (schoolID, huddleID string, err error) {
	if form.SchoolName == "" {
		return "", "", nil
	}
	sc, err := tx.Schools().FindSchoolByName(ctx, form.SchoolName)
	if isNotFound(err) {
		return "", "", nil
	}
	if err != nil {
		return "", "", err
	}
	if form.HuddleName == "" {
		return sc.ID, "", nil
	}
	h, err := tx.Schools().FindHuddleByName(ctx, sc.ID, form.HuddleName)
	if isNotFound(err) {
		return sc.ID, "", nil
	}
	if err != nil {
		return "", "", err
	}
	return sc.ID, h.ID, nil
}

// ConfirmEmailInput carries a confirmation token from a mailed link.
type ConfirmEmailInput struct {
	Token string
}

// ConfirmEmailDeps holds dependencies for ConfirmEmail.
type ConfirmEmailDeps struct {
	Auth  SignUpService
	Users UserStatusWriter
}

// UserStatusWriter reads and updates users rows.
type UserStatusWriter interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// ExecuteConfirmEmail redeems the token and activates a PENDING users row.
// PRE: none
// POST: Identity is confirmed; a PENDING user becomes ACTIVE. INACTIVE users stay inactive.
func ExecuteConfirmEmail(ctx context.Context, input ConfirmEmailInput, deps ConfirmEmailDeps) (identity.Identity, error) {
	if input.Token == "" {
		return identity.Identity{}, identity.ErrTokenInvalid
	}
	ident, err := deps.Auth.ConfirmEmail(ctx, input.Token)
	if err != nil {
		return identity.Identity{}, err
	}
	u, err := deps.Users.GetByID(ctx, ident.ID)
	if err != nil {
		return identity.Identity{}, err
	}
	if u.Status == user.StatusPending {
		if err := deps.Users.UpdateStatus(ctx, ident.ID, user.StatusActive); err != nil {
			return identity.Identity{}, err
		}
	}
	slog.Info("auth_event", "event", "email_confirmed", "user_id", ident.ID)
	return ident, nil
}
