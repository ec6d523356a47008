package achievement

import (
	"errors"
	"strings"
	"time"
)

// Domain errors
var (
	ErrEmptyStudentID = errors.New("achievement must belong to a student")
	ErrEmptyTitle     = errors.New("achievement title cannot be empty")
	ErrInvalidType    = errors.New("type must be one of: academic, athletic, leadership, service, spiritual, fca")
	ErrNegativePoints = errors.New("points awarded cannot be negative")
	ErrInvalidDate    = errors.New("date earned must be YYYY-MM-DD")
)

// Achievement types
const (
	TypeAcademic   = "academic"
	TypeAthletic   = "athletic"
	TypeLeadership = "leadership"
	TypeService    = "service"
	TypeSpiritual  = "spiritual"
	TypeFCA        = "fca"
)

// ValidTypes contains all valid achievement types.
var ValidTypes = []string{TypeAcademic, TypeAthletic, TypeLeadership, TypeService, TypeSpiritual, TypeFCA}

// DateLayout is the format of DateEarned.
const DateLayout = "2006-01-02"

// Achievement is a recognition awarded to a student, e.g. "Huddle Leader" or "Camp Graduate".
// StudentID is the student profile id.
type Achievement struct {
	ID             string    `json:"id"`
	StudentID      string    `json:"student_id"`
	Type           string    `json:"achievement_type"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	DateEarned     string    `json:"date_earned"`
	AwardedBy      string    `json:"awarded_by"`
	CertificateURL string    `json:"certificate_url"`
	PointsAwarded  int       `json:"points_awarded"`
	CreatedAt      time.Time `json:"created_at"`
}

// Validate checks if the Achievement has valid data.
// PRE: Achievement struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Achievement) Validate() error {
	if strings.TrimSpace(a.StudentID) == "" {
		return ErrEmptyStudentID
	}
	if strings.TrimSpace(a.Title) == "" {
		return ErrEmptyTitle
	}
	if !isValidType(a.Type) {
		return ErrInvalidType
	}
	if a.PointsAwarded < 0 {
		return ErrNegativePoints
	}
	if _, err := time.Parse(DateLayout, a.DateEarned); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// TotalPoints sums the points of a set of achievements.
func TotalPoints(achievements []Achievement) int {
	total := 0
	for _, a := range achievements {
		total += a.PointsAwarded
	}
	return total
}

func isValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}
