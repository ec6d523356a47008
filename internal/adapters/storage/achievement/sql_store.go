package achievement

import (
	"context"

	"gohuddleup/internal/adapters/storage"
	domain "gohuddleup/internal/domain/achievement"
)

var achievements = storage.NewTable("student_achievements",
	"id", "student_id", "achievement_type", "title", "description", "date_earned",
	"awarded_by", "certificate_url", "points_awarded", "created_at",
)

// SQLStore implements Store on SQLite or Postgres.
type SQLStore struct {
	db storage.Querier
}

// NewSQLStore creates a new achievement store.
func NewSQLStore(db storage.Querier) *SQLStore {
	return &SQLStore{db: db}
}

// Insert persists an achievement.
// PRE: value has been validated
// POST: Row is persisted
func (s *SQLStore) Insert(ctx context.Context, a domain.Achievement) error {
	return achievements.Insert(ctx, s.db, map[string]any{
		"id":               a.ID,
		"student_id":       a.StudentID,
		"achievement_type": a.Type,
		"title":            a.Title,
		"description":      a.Description,
		"date_earned":      a.DateEarned,
		"awarded_by":       a.AwardedBy,
		"certificate_url":  a.CertificateURL,
		"points_awarded":   a.PointsAwarded,
		"created_at":       storage.FormatTime(a.CreatedAt),
	})
}

// ListByStudentID returns a student's achievements, most recently earned first.
// PRE: studentID is a student profile id
// POST: Returns an empty slice when none are recorded
func (s *SQLStore) ListByStudentID(ctx context.Context, studentID string) ([]domain.Achievement, error) {
	rows, err := achievements.Select(ctx, s.db, storage.Query{
		Where:   []storage.Cond{storage.Eq("student_id", studentID)},
		OrderBy: "date_earned",
		Desc:    true,
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Achievement
	for rows.Next() {
		var a domain.Achievement
		var createdAt string
		err := rows.Scan(
			&a.ID, &a.StudentID, &a.Type, &a.Title, &a.Description, &a.DateEarned,
			&a.AwardedBy, &a.CertificateURL, &a.PointsAwarded, &createdAt,
		)
		if err != nil {
			return nil, err
		}
		a.CreatedAt, _ = storage.ParseTime(createdAt)
		results = append(results, a)
	}
	return results, rows.Err()
}
