package ministry

import (
	"errors"
	"strings"
	"time"
)

// Relationship-to-Christ values offered by the registration form.
const (
	RelationshipYes        = "YES"
	RelationshipNo         = "NO"
	RelationshipInterested = "INTERESTED"
)

// ValidRelationships contains all valid relationship values.
var ValidRelationships = []string{RelationshipYes, RelationshipNo, RelationshipInterested}

// Spiritual maturity levels.
var MaturityLevels = []string{"new-believer", "growing", "mature", "leader"}

// Domain errors
var (
	ErrEmptyStudentID      = errors.New("ministry data must belong to a student")
	ErrEmptyChurch         = errors.New("church name is required")
	ErrInvalidRelationship = errors.New("relationship must be one of: YES, NO, INTERESTED")
	ErrInvalidMaturity     = errors.New("spiritual maturity level must be one of: new-believer, growing, mature, leader")
	ErrTestimonyTooLong    = errors.New("testimony cannot exceed 10000 characters")
)

// MaxTestimonyLength bounds the free-text testimony field.
const MaxTestimonyLength = 10000

// Data holds a student's faith and ministry-interest answers.
// StudentID is the student profile id, not the user id.
type Data struct {
	ID                     string    `json:"id"`
	StudentID              string    `json:"student_id"`
	ChurchName             string    `json:"church_name"`
	RelationshipToChrist   string    `json:"relationship_to_christ"`
	OwnsBible              bool      `json:"owns_bible"`
	CampAttended           bool      `json:"camp_attended"`
	CampInterest           bool      `json:"camp_interest"`
	LeadershipInterest     bool      `json:"leadership_interest"`
	BaptismStatus          string    `json:"baptism_status"`
	SpiritualMaturityLevel string    `json:"spiritual_maturity_level"`
	PrayerPartner          string    `json:"prayer_partner"`
	AccountabilityPartner  string    `json:"accountability_partner"`
	BibleStudyGroup        string    `json:"bible_study_group"`
	WorshipTeamInvolvement bool      `json:"worship_team_involvement"`
	EvangelismTraining     bool      `json:"evangelism_training"`
	DiscipleshipTraining   bool      `json:"discipleship_training"`
	LeadershipTraining     bool      `json:"leadership_training"`
	SpiritualGifts         []string  `json:"spiritual_gifts"`
	PersonalTestimony      string    `json:"personal_testimony"`
	FamilyFaithBackground  string    `json:"family_faith_background"`
	PrayerRequests         string    `json:"prayer_requests"`
	SpiritualGoals         string    `json:"spiritual_goals"`
	CreatedAt              time.Time `json:"created_at"`
	UpdatedAt              time.Time `json:"updated_at"`
}

// Validate checks if the Data has valid data.
// PRE: Data struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Data) Validate() error {
	if strings.TrimSpace(d.StudentID) == "" {
		return ErrEmptyStudentID
	}
	if strings.TrimSpace(d.ChurchName) == "" {
		return ErrEmptyChurch
	}
	if !contains(ValidRelationships, d.RelationshipToChrist) {
		return ErrInvalidRelationship
	}
	if d.SpiritualMaturityLevel != "" && !contains(MaturityLevels, d.SpiritualMaturityLevel) {
		return ErrInvalidMaturity
	}
	if len(d.PersonalTestimony) > MaxTestimonyLength {
		return ErrTestimonyTooLong
	}
	return nil
}

// IsBeliever returns true if the student reported a relationship with Christ.
// INVARIANT: Data fields are not mutated
func (d *Data) IsBeliever() bool {
	return d.RelationshipToChrist == RelationshipYes
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
