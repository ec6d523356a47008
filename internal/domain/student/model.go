package student

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength  = 100
	MaxNotesLength = 5000
)

// Grades lists the grade levels a student may be enrolled in.
var Grades = []string{"6th", "7th", "8th", "9th", "10th", "11th", "12th"}

// ShirtSizes lists the apparel sizes offered for huddle shirts and hoodies.
var ShirtSizes = []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}

// Sports lists the sports a student can report playing.
var Sports = []string{
	"Baseball", "Basketball", "Cross Country", "Football", "Golf", "Lacrosse", "Soccer",
	"Softball", "Swimming", "Tennis", "Track & Field", "Volleyball", "Wrestling", "Other",
}

// Gender values offered by the registration form.
var Genders = []string{"male", "female", "other", "prefer-not-to-say"}

// Domain errors
var (
	ErrEmptyUserID      = errors.New("student profile must belong to a user")
	ErrEmptyFirstName   = errors.New("first name is required")
	ErrEmptyLastName    = errors.New("last name is required")
	ErrNameTooLong      = errors.New("names cannot exceed 100 characters")
	ErrEmptyMobile      = errors.New("mobile number is required")
	ErrInvalidPhone     = errors.New("invalid phone number")
	ErrInvalidGrade     = errors.New("grade must be one of: 6th, 7th, 8th, 9th, 10th, 11th, 12th")
	ErrInvalidSize      = errors.New("size must be one of: XS, S, M, L, XL, XXL, XXXL")
	ErrInvalidGender    = errors.New("gender must be one of: male, female, other, prefer-not-to-say")
	ErrInvalidGPA       = errors.New("gpa must be between 0 and 5")
	ErrInvalidGradYear  = errors.New("graduation year is out of range")
	ErrNegativeHours    = errors.New("community service hours cannot be negative")
	ErrNotesTooLong     = errors.New("notes cannot exceed 5000 characters")
	ErrInvalidBirthDate = errors.New("date of birth must be YYYY-MM-DD")
)

var phonePattern = regexp.MustCompile(`^[+]?[1-9]\d{0,15}$`)
var nonDigits = regexp.MustCompile(`\D`)

// Address is a student's mailing address.
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// Socials holds a student's social media handles.
type Socials struct {
	Instagram string `json:"instagram"`
	Snapchat  string `json:"snapchat"`
	TikTok    string `json:"tiktok"`
}

// Profile holds state for a registered student. One per STUDENT user.
type Profile struct {
	ID                           string    `json:"id"`
	UserID                       string    `json:"user_id"`
	FirstName                    string    `json:"first_name"`
	LastName                     string    `json:"last_name"`
	PreferredName                string    `json:"preferred_name"`
	Email                        string    `json:"email"`
	Mobile                       string    `json:"mobile"`
	Grade                        string    `json:"grade"`
	GraduationYear               int       `json:"graduation_year"`
	GPA                          float64   `json:"gpa"`
	DateOfBirth                  string    `json:"date_of_birth"`
	Gender                       string    `json:"gender"`
	ShirtSize                    string    `json:"shirt_size"`
	TShirtSize                   string    `json:"t_shirt_size"`
	HoodieSize                   string    `json:"hoodie_size"`
	SchoolID                     string    `json:"school_id"`
	HuddleID                     string    `json:"huddle_id"`
	RequestedSchool              string    `json:"requested_school"`
	RequestedHuddle              string    `json:"requested_huddle"`
	ProfilePictureURL            string    `json:"profile_picture_url"`
	Address                      Address   `json:"address"`
	Socials                      Socials   `json:"socials"`
	EmergencyContactName         string    `json:"emergency_contact_name"`
	EmergencyContactPhone        string    `json:"emergency_contact_phone"`
	EmergencyContactRelationship string    `json:"emergency_contact_relationship"`
	MedicalConditions            string    `json:"medical_conditions"`
	Allergies                    string    `json:"allergies"`
	DietaryRestrictions          string    `json:"dietary_restrictions"`
	TransportationNeeds          string    `json:"transportation_needs"`
	SpecialAccommodations        string    `json:"special_accommodations"`
	Sports                       []string  `json:"sports"`
	AcademicInterests            []string  `json:"academic_interests"`
	CareerInterests              []string  `json:"career_interests"`
	LeadershipPositions          []string  `json:"leadership_positions"`
	CommunityServiceHours        int       `json:"community_service_hours"`
	Notes                        string    `json:"notes"`
	CreatedAt                    time.Time `json:"created_at"`
	UpdatedAt                    time.Time `json:"updated_at"`
}

// Validate checks if the Profile has valid data.
// PRE: Profile struct is populated
// POST: Returns nil if valid, error otherwise
func (p *Profile) Validate() error {
	if strings.TrimSpace(p.UserID) == "" {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(p.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(p.LastName) == "" {
		return ErrEmptyLastName
	}
	if len(p.FirstName) > MaxNameLength || len(p.LastName) > MaxNameLength || len(p.PreferredName) > MaxNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(p.Mobile) == "" {
		return ErrEmptyMobile
	}
	if !ValidatePhone(p.Mobile) {
		return ErrInvalidPhone
	}
	if p.EmergencyContactPhone != "" && !ValidatePhone(p.EmergencyContactPhone) {
		return ErrInvalidPhone
	}
	if !IsValidGrade(p.Grade) {
		return ErrInvalidGrade
	}
	for _, size := range []string{p.ShirtSize, p.TShirtSize, p.HoodieSize} {
		if size != "" && !contains(ShirtSizes, size) {
			return ErrInvalidSize
		}
	}
	if p.Gender != "" && !contains(Genders, p.Gender) {
		return ErrInvalidGender
	}
	if p.GPA < 0 || p.GPA > 5 {
		return ErrInvalidGPA
	}
	if p.GraduationYear != 0 && (p.GraduationYear < 2000 || p.GraduationYear > 2100) {
		return ErrInvalidGradYear
	}
	if p.CommunityServiceHours < 0 {
		return ErrNegativeHours
	}
	if len(p.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}
	if p.DateOfBirth != "" {
		if _, err := time.Parse("2006-01-02", p.DateOfBirth); err != nil {
			return ErrInvalidBirthDate
		}
	}
	return nil
}

// DisplayName prefers the preferred name over the legal first name.
// INVARIANT: Profile fields are not mutated
func (p *Profile) DisplayName() string {
	first := p.FirstName
	if p.PreferredName != "" {
		first = p.PreferredName
	}
	return strings.TrimSpace(first + " " + p.LastName)
}

// AvatarURL returns the profile picture, falling back to a generated avatar.
// INVARIANT: Profile fields are not mutated
func (p *Profile) AvatarURL() string {
	if p.ProfilePictureURL != "" {
		return p.ProfilePictureURL
	}
	return DefaultAvatarURL(p.UserID)
}

// DefaultAvatarURL returns a generated avatar seeded by the user id.
func DefaultAvatarURL(userID string) string {
	return "https://api.dicebear.com/7.x/avataaars/svg?seed=" + userID
}

// ValidatePhone reports whether phone, stripped of non-digits, is a plausible number.
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(nonDigits.ReplaceAllString(phone, ""))
}

// NormalizeGrade maps "9th Grade" style labels onto the stored grade value.
func NormalizeGrade(grade string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(grade), " Grade"))
}

// IsValidGrade reports whether grade is one of Grades.
func IsValidGrade(grade string) bool {
	return contains(Grades, grade)
}

// IsValidSize reports whether size is one of ShirtSizes.
func IsValidSize(size string) bool {
	return contains(ShirtSizes, size)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
