package achievement

import (
	"errors"
	"testing"
)

func TestAchievement_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Achievement)
		want   error
	}{
		{"valid", func(*Achievement) {}, nil},
		{"no student", func(a *Achievement) { a.StudentID = "" }, ErrEmptyStudentID},
		{"no title", func(a *Achievement) { a.Title = "  " }, ErrEmptyTitle},
		{"unknown type", func(a *Achievement) { a.Type = "badge" }, ErrInvalidType},
		{"negative points", func(a *Achievement) { a.PointsAwarded = -5 }, ErrNegativePoints},
		{"bad date", func(a *Achievement) { a.DateEarned = "" }, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := Achievement{StudentID: "p1", Title: "Huddle Leader", Type: TypeLeadership, DateEarned: "2025-05-01", PointsAwarded: 50}
			tt.mutate(&a)
			if err := a.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestTotalPoints(t *testing.T) {
	got := TotalPoints([]Achievement{{PointsAwarded: 50}, {PointsAwarded: 25}, {}})
	if got != 75 {
		t.Errorf("TotalPoints() = %d, want 75", got)
	}
}
