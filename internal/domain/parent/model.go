package parent

import (
	"errors"
	"strings"
	"time"
)

// Preferred contact methods.
const (
	ContactEmail = "email"
	ContactPhone = "phone"
	ContactText  = "text"
)

// Domain errors
var (
	ErrEmptyStudentID = errors.New("parent must belong to a student")
	ErrEmptyName      = errors.New("parent/guardian name is required")
	ErrEmptyPhone     = errors.New("parent/guardian phone is required")
	ErrEmptyEmail     = errors.New("parent/guardian email is required")
	ErrInvalidEmail   = errors.New("parent/guardian email must contain '@'")
	ErrInvalidContact = errors.New("preferred contact method must be one of: email, phone, text")
)

// Consents records what a parent agreed to at registration.
type Consents struct {
	Communications   bool `json:"communications"`
	Photos           bool `json:"photos"`
	SocialMedia      bool `json:"social_media"`
	MedicalTreatment bool `json:"medical_treatment"`
}

// Parent is a parent or guardian of a registered student.
// StudentID is the student profile id, not the user id.
type Parent struct {
	ID                     string    `json:"id"`
	StudentID              string    `json:"student_id"`
	FirstName              string    `json:"first_name"`
	LastName               string    `json:"last_name"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone"`
	Relationship           string    `json:"relationship_to_student"`
	IsLegalGuardian        bool      `json:"is_legal_guardian"`
	PreferredContactMethod string    `json:"preferred_contact_method"`
	Occupation             string    `json:"occupation"`
	Employer               string    `json:"employer"`
	ChurchAffiliation      string    `json:"church_affiliation"`
	FCAInvolvement         bool      `json:"fca_involvement"`
	FCARole                string    `json:"fca_role"`
	Consents               Consents  `json:"consents"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Validate checks if the Parent has valid data.
// PRE: Parent struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Parent) Validate() error {
	if strings.TrimSpace(p.StudentID) == "" {
		return ErrEmptyStudentID
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return ErrEmptyName
	}
	if strings.TrimSpace(p.Phone) == "" {
		return ErrEmptyPhone
	}
	if strings.TrimSpace(p.Email) == "" {
		return ErrEmptyEmail
	}
	if !strings.Contains(p.Email, "@") {
		return ErrInvalidEmail
	}
	switch p.PreferredContactMethod {
	case "", ContactEmail, ContactPhone, ContactText:
	default:
		return ErrInvalidContact
	}
	return nil
}

// FullName joins first and last name.
// INVARIANT: Parent fields are not mutated
func (p *Parent) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SplitName splits a single "full name" form field into first and last name.
// Everything after the first word is treated as the last name.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
