package registration

import (
	"regexp"
	"slices"
	"strconv"
	"time"

	"gohuddleup/internal/domain/identity"
	"gohuddleup/internal/domain/ministry"
	"gohuddleup/internal/domain/student"
)

// Wizard steps, in display order.
const (
	StepAccount = iota + 1
	StepPersonal
	StepMinistry
	StepActivities
	StepSchool
	StepAddress
	StepEmergency
	StepParents
	StepConsents
	StepSocials
	StepSizes
	StepNotes
)

// TotalSteps is the number of wizard steps.
const TotalSteps = StepNotes

var stepTitles = map[int]string{
	StepAccount:    "Account",
	StepPersonal:   "Personal Information",
	StepMinistry:   "Ministry",
	StepActivities: "Activities & Interests",
	StepSchool:     "School & Huddle",
	StepAddress:    "Address",
	StepEmergency:  "Emergency & Medical",
	StepParents:    "Parents & Guardians",
	StepConsents:   "Consents",
	StepSocials:    "Social Media",
	StepSizes:      "Clothing Sizes",
	StepNotes:      "Additional Notes",
}

// StepTitle returns the heading shown for a wizard step.
func StepTitle(step int) string {
	if t, ok := stepTitles[step]; ok {
		return t
	}
	return "Unknown"
}

var zipPattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// ValidateStep validates the fields collected on one wizard step.
// Steps without required fields only check the format of what was supplied.
// PRE: Form has been normalized
// POST: Returns an empty map when the step is valid
func (f Form) ValidateStep(step int) FieldErrors {
	errs := FieldErrors{}
	switch step {
	case StepAccount:
		f.validateAccount(errs)
	case StepPersonal:
		f.validatePersonal(errs)
	case StepMinistry:
		if f.ChurchName == "" {
			errs["churchName"] = "Church name is required"
		}
		switch f.Relationship {
		case "":
			errs["relationship"] = "Please select your relationship with Christ"
		case ministry.RelationshipYes, ministry.RelationshipNo, ministry.RelationshipInterested:
		default:
			errs["relationship"] = "Please select a valid option"
		}
		if len(f.PersonalTestimony) > ministry.MaxTestimonyLength {
			errs["personalTestimony"] = "Testimony is too long"
		}
	case StepActivities:
		if f.CommunityServiceHours != "" {
			if n, err := strconv.Atoi(f.CommunityServiceHours); err != nil || n < 0 {
				errs["communityServiceHours"] = "Service hours must be a whole number"
			}
		}
	case StepSchool:
		if f.SchoolName == "" {
			errs["schoolName"] = "School name is required"
		}
		if f.HuddleName == "" {
			errs["huddleName"] = "Huddle name is required"
		}
	case StepAddress:
		if f.Address.Street == "" {
			errs["street"] = "Street address is required"
		}
		if f.Address.City == "" {
			errs["city"] = "City is required"
		}
		if f.Address.State == "" {
			errs["state"] = "State is required"
		}
		if f.Address.Zip == "" {
			errs["zip"] = "ZIP code is required"
		} else if !zipPattern.MatchString(f.Address.Zip) {
			errs["zip"] = "Please enter a valid ZIP code"
		}
	case StepEmergency:
		if f.EmergencyContactName == "" {
			errs["emergencyContactName"] = "Emergency contact name is required"
		}
		if f.EmergencyContactPhone == "" {
			errs["emergencyContactPhone"] = "Emergency contact phone is required"
		} else if !student.ValidatePhone(f.EmergencyContactPhone) {
			errs["emergencyContactPhone"] = "Please enter a valid phone number"
		}
	case StepParents:
		validateParent("parent1", f.Parent1, errs)
		if !f.Parent2.IsBlank() {
			validateParent("parent2", f.Parent2, errs)
		}
	case StepSizes:
		for field, size := range map[string]string{"shirtSize": f.ShirtSize, "tShirtSize": f.TShirtSize, "hoodieSize": f.HoodieSize} {
			if size != "" && !student.IsValidSize(size) {
				errs[field] = "Please select a valid size"
			}
		}
	case StepNotes:
		if len(f.Notes) > student.MaxNotesLength {
			errs["notes"] = "Notes are too long"
		}
	}
	return errs
}

func (f Form) validateAccount(errs FieldErrors) {
	if f.Email == "" {
		errs["email"] = "Email is required"
	} else if err := identity.ValidateEmail(f.Email); err != nil {
		errs["email"] = "Please enter a valid email"
	}
	if f.Password == "" {
		errs["password"] = "Password is required"
	} else if len(f.Password) < identity.MinPasswordLength {
		errs["password"] = "Password must be at least 8 characters"
	}
	if f.Password != f.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}
}

func (f Form) validatePersonal(errs FieldErrors) {
	if f.FirstName == "" {
		errs["firstName"] = "First name is required"
	} else if len(f.FirstName) > student.MaxNameLength {
		errs["firstName"] = "First name is too long"
	}
	if f.LastName == "" {
		errs["lastName"] = "Last name is required"
	} else if len(f.LastName) > student.MaxNameLength {
		errs["lastName"] = "Last name is too long"
	}
	if f.Mobile == "" {
		errs["mobile"] = "Mobile number is required"
	} else if !student.ValidatePhone(f.Mobile) {
		errs["mobile"] = "Please enter a valid phone number"
	}
	if f.Grade == "" {
		errs["grade"] = "Grade is required"
	} else if !student.IsValidGrade(f.Grade) {
		errs["grade"] = "Please select a valid grade"
	}
	if f.GraduationYear == "" {
		errs["graduationYear"] = "Graduation year is required"
	} else if y, err := strconv.Atoi(f.GraduationYear); err != nil || y < 2000 || y > 2100 {
		errs["graduationYear"] = "Please enter a valid graduation year"
	}
	if f.Gender != "" && !slices.Contains(student.Genders, f.Gender) {
		errs["gender"] = "Please select a valid option"
	}
	if f.GPA != "" {
		if v, err := strconv.ParseFloat(f.GPA, 64); err != nil || v < 0 || v > 5 {
			errs["gpa"] = "GPA must be between 0 and 5"
		}
	}
	if f.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", f.DateOfBirth); err != nil {
			errs["dateOfBirth"] = "Please enter a valid date"
		}
	}
}

func validateParent(prefix string, p ParentForm, errs FieldErrors) {
	if p.Name == "" {
		errs[prefix+"Name"] = "Parent/guardian name is required"
	}
	if p.Phone == "" {
		errs[prefix+"Phone"] = "Parent/guardian phone is required"
	} else if !student.ValidatePhone(p.Phone) {
		errs[prefix+"Phone"] = "Please enter a valid phone number"
	}
	if p.Email == "" {
		errs[prefix+"Email"] = "Parent/guardian email is required"
	} else if err := identity.ValidateEmail(p.Email); err != nil {
		errs[prefix+"Email"] = "Please enter a valid email"
	}
}
