package registration

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/ministry"
	"gohuddleup/internal/domain/parent"
	"gohuddleup/internal/domain/student"
)

// ErrInvalidForm is matched by every ValidationError.
var ErrInvalidForm = errors.New("registration form is invalid")

// FieldErrors maps a form field name to a user-facing message.
type FieldErrors map[string]string

// ValidationError reports the first wizard step that failed validation.
type ValidationError struct {
	Step   int
	Fields FieldErrors
}

// Error implements error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("registration step %d (%s) has %d invalid field(s)", e.Step, StepTitle(e.Step), len(e.Fields))
}

// Is lets errors.Is(err, ErrInvalidForm) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidForm
}

// ParentForm is one parent or guardian block of the wizard.
type ParentForm struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Email             string `json:"email"`
	Relationship      string `json:"relationship"`
	Occupation        string `json:"occupation"`
	Employer          string `json:"employer"`
	ChurchAffiliation string `json:"churchAffiliation"`
	FCAInvolvement    bool   `json:"fcaInvolvement"`
	FCARole           string `json:"fcaRole"`
}

// IsBlank returns true if no identifying parent field was filled in.
func (p ParentForm) IsBlank() bool {
	return p.Name == "" && p.Phone == "" && p.Email == ""
}

// Form is the complete student registration wizard.
type Form struct {
	// Account
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`

	// Personal
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	PreferredName  string `json:"preferredName"`
	DateOfBirth    string `json:"dateOfBirth"`
	Gender         string `json:"gender"`
	Mobile         string `json:"mobile"`
	Grade          string `json:"grade"`
	GraduationYear string `json:"graduationYear"`
	GPA            string `json:"gpa"`

	// Ministry
	ChurchName             string   `json:"churchName"`
	Relationship           string   `json:"relationship"`
	OwnsBible              bool     `json:"ownsBible"`
	CampAttended           bool     `json:"campAttended"`
	CampInterest           bool     `json:"campInterest"`
	LeadershipInterest     bool     `json:"leadershipInterest"`
	SpiritualMaturityLevel string   `json:"spiritualMaturityLevel"`
	PrayerPartner          string   `json:"prayerPartner"`
	AccountabilityPartner  string   `json:"accountabilityPartner"`
	BibleStudyGroup        string   `json:"bibleStudyGroup"`
	WorshipTeamInvolvement bool     `json:"worshipTeamInvolvement"`
	EvangelismTraining     bool     `json:"evangelismTraining"`
	DiscipleshipTraining   bool     `json:"discipleshipTraining"`
	LeadershipTraining     bool     `json:"leadershipTraining"`
	SpiritualGifts         []string `json:"spiritualGifts"`
	PersonalTestimony      string   `json:"personalTestimony"`
	FamilyFaithBackground  string   `json:"familyFaithBackground"`
	PrayerRequests         string   `json:"prayerRequests"`
	SpiritualGoals         string   `json:"spiritualGoals"`

	// Activities
	Sports                []string `json:"sports"`
	AcademicInterests     []string `json:"academicInterests"`
	CareerInterests       []string `json:"careerInterests"`
	LeadershipPositions   []string `json:"leadershipPositions"`
	CommunityServiceHours string   `json:"communityServiceHours"`

	// School & huddle
	SchoolName string `json:"schoolName"`
	HuddleName string `json:"huddleName"`

	Address student.Address `json:"address"`

	// Emergency & medical
	EmergencyContactName         string `json:"emergencyContactName"`
	EmergencyContactPhone        string `json:"emergencyContactPhone"`
	EmergencyContactRelationship string `json:"emergencyContactRelationship"`
	MedicalConditions            string `json:"medicalConditions"`
	Allergies                    string `json:"allergies"`
	DietaryRestrictions          string `json:"dietaryRestrictions"`
	TransportationNeeds          string `json:"transportationNeeds"`
	SpecialAccommodations        string `json:"specialAccommodations"`

	Parent1 ParentForm `json:"parent1"`
	Parent2 ParentForm `json:"parent2"`

	// Consents
	ConsentCommunications   bool `json:"consentCommunications"`
	ConsentPhotos           bool `json:"consentPhotos"`
	ConsentSocialMedia      bool `json:"consentSocialMedia"`
	ConsentMedicalTreatment bool `json:"consentMedicalTreatment"`

	Socials student.Socials `json:"socials"`

	// Sizes
	ShirtSize  string `json:"shirtSize"`
	TShirtSize string `json:"tShirtSize"`
	HoodieSize string `json:"hoodieSize"`

	Notes string `json:"notes"`
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// Normalize trims every text field, lowercases the email and title-cases personal names.
// PRE: none
// POST: Returns a cleaned copy; passwords are left untouched
func (f Form) Normalize() Form {
	trim := strings.TrimSpace
	name := func(s string) string { return titleCaser.String(strings.Join(strings.Fields(s), " ")) }

	f.Email = identity.NormalizeEmail(f.Email)
	f.FirstName = name(f.FirstName)
	f.LastName = name(f.LastName)
	f.PreferredName = name(f.PreferredName)
	f.DateOfBirth = trim(f.DateOfBirth)
	f.Gender = strings.ToLower(trim(f.Gender))
	f.Mobile = trim(f.Mobile)
	f.Grade = student.NormalizeGrade(f.Grade)
	f.GraduationYear = trim(f.GraduationYear)
	f.GPA = trim(f.GPA)
	f.ChurchName = trim(f.ChurchName)
	f.Relationship = strings.ToUpper(trim(f.Relationship))
	f.CommunityServiceHours = trim(f.CommunityServiceHours)
	f.SchoolName = trim(f.SchoolName)
	f.HuddleName = trim(f.HuddleName)
	f.Address = student.Address{
		Street: trim(f.Address.Street),
		City:   trim(f.Address.City),
		State:  strings.ToUpper(trim(f.Address.State)),
		Zip:    trim(f.Address.Zip),
	}
	f.EmergencyContactName = name(f.EmergencyContactName)
	f.EmergencyContactPhone = trim(f.EmergencyContactPhone)
	f.Parent1 = normalizeParent(f.Parent1, name)
	f.Parent2 = normalizeParent(f.Parent2, name)
	f.ShirtSize = strings.ToUpper(trim(f.ShirtSize))
	f.TShirtSize = strings.ToUpper(trim(f.TShirtSize))
	f.HoodieSize = strings.ToUpper(trim(f.HoodieSize))
	f.Notes = trim(f.Notes)
	return f
}

func normalizeParent(p ParentForm, name func(string) string) ParentForm {
	p.Name = name(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Email = identity.NormalizeEmail(p.Email)
	p.Relationship = strings.TrimSpace(p.Relationship)
	return p
}

// Validate runs every step in order and returns the first failure as a *ValidationError.
// PRE: Form has been normalized
// POST: Returns nil if every step validates
func (f Form) Validate() error {
	for step := 1; step <= TotalSteps; step++ {
		if errs := f.ValidateStep(step); len(errs) > 0 {
			return &ValidationError{Step: step, Fields: errs}
		}
	}
	return nil
}

// GraduationYearValue parses the graduation year, returning 0 when blank or malformed.
func (f Form) GraduationYearValue() int {
	n, _ := strconv.Atoi(f.GraduationYear)
	return n
}

// GPAValue parses the GPA, returning 0 when blank or malformed.
func (f Form) GPAValue() float64 {
	v, _ := strconv.ParseFloat(f.GPA, 64)
	return v
}

// ServiceHoursValue parses community service hours, returning 0 when blank or malformed.
func (f Form) ServiceHoursValue() int {
	n, _ := strconv.Atoi(f.CommunityServiceHours)
	return n
}

// Profile builds the student profile row. School and huddle ids are empty when the
// requested names did not match the directory.
// PRE: Form has been validated
func (f Form) Profile(id, userID, schoolID, huddleID string, now time.Time) student.Profile {
	return student.Profile{
		ID:                           id,
		UserID:                       userID,
		FirstName:                    f.FirstName,
		LastName:                     f.LastName,
		PreferredName:                f.PreferredName,
		Email:                        f.Email,
		Mobile:                       f.Mobile,
		Grade:                        f.Grade,
		GraduationYear:               f.GraduationYearValue(),
		GPA:                          f.GPAValue(),
		DateOfBirth:                  f.DateOfBirth,
		Gender:                       f.Gender,
		ShirtSize:                    f.ShirtSize,
		TShirtSize:                   f.TShirtSize,
		HoodieSize:                   f.HoodieSize,
		SchoolID:                     schoolID,
		HuddleID:                     huddleID,
		RequestedSchool:              f.SchoolName,
		RequestedHuddle:              f.HuddleName,
		Address:                      f.Address,
		Socials:                      f.Socials,
		EmergencyContactName:         f.EmergencyContactName,
		EmergencyContactPhone:        f.EmergencyContactPhone,
		EmergencyContactRelationship: f.EmergencyContactRelationship,
		MedicalConditions:            f.MedicalConditions,
		Allergies:                    f.Allergies,
		DietaryRestrictions:          f.DietaryRestrictions,
		TransportationNeeds:          f.TransportationNeeds,
		SpecialAccommodations:        f.SpecialAccommodations,
		Sports:                       f.Sports,
		AcademicInterests:            f.AcademicInterests,
		CareerInterests:              f.CareerInterests,
		LeadershipPositions:          f.LeadershipPositions,
		CommunityServiceHours:        f.ServiceHoursValue(),
		Notes:                        f.Notes,
		CreatedAt:                    now,
		UpdatedAt:                    now,
	}
}

// Ministry builds the ministry data row, keyed by the student profile id.
// PRE: Form has been validated
func (f Form) Ministry(id, studentID string, now time.Time) ministry.Data {
	return ministry.Data{
		ID:                     id,
		StudentID:              studentID,
		ChurchName:             f.ChurchName,
		RelationshipToChrist:   f.Relationship,
		OwnsBible:              f.OwnsBible,
		CampAttended:           f.CampAttended,
		CampInterest:           f.CampInterest,
		LeadershipInterest:     f.LeadershipInterest,
		SpiritualMaturityLevel: f.SpiritualMaturityLevel,
		PrayerPartner:          f.PrayerPartner,
		AccountabilityPartner:  f.AccountabilityPartner,
		BibleStudyGroup:        f.BibleStudyGroup,
		WorshipTeamInvolvement: f.WorshipTeamInvolvement,
		EvangelismTraining:     f.EvangelismTraining,
		DiscipleshipTraining:   f.DiscipleshipTraining,
		LeadershipTraining:     f.LeadershipTraining,
		SpiritualGifts:         f.SpiritualGifts,
		PersonalTestimony:      f.PersonalTestimony,
		FamilyFaithBackground:  f.FamilyFaithBackground,
		PrayerRequests:         f.PrayerRequests,
		SpiritualGoals:         f.SpiritualGoals,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

// Parents builds one parent row per filled-in parent block, keyed by the student profile id.
// The consents given on the form apply to every parent.
// PRE: Form has been validated
func (f Form) Parents(newID func() string, studentID string, now time.Time) []parent.Parent {
	consents := parent.Consents{
		Communications:   f.ConsentCommunications,
		Photos:           f.ConsentPhotos,
		SocialMedia:      f.ConsentSocialMedia,
		MedicalTreatment: f.ConsentMedicalTreatment,
	}
	var out []parent.Parent
	for _, pf := range []ParentForm{f.Parent1, f.Parent2} {
		if pf.IsBlank() {
			continue
		}
		first, last := parent.SplitName(pf.Name)
		out = append(out, parent.Parent{
			ID:                newID(),
			StudentID:         studentID,
			FirstName:         first,
			LastName:          last,
			Email:             pf.Email,
			Phone:             pf.Phone,
			Relationship:      pf.Relationship,
			Occupation:        pf.Occupation,
			Employer:          pf.Employer,
			ChurchAffiliation: pf.ChurchAffiliation,
			FCAInvolvement:    pf.FCAInvolvement,
			FCARole:           pf.FCARole,
			Consents:          consents,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return out
}
