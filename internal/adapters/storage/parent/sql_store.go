package parent

import (
	"context"

	"gohuddleup/internal/adapters/storage"
	domain "gohuddleup/internal/domain/parent"
)

var parents = storage.NewTable("parents",
	"id", "student_id", "first_name", "last_name", "email", "phone",
	"relationship_to_student", "is_legal_guardian", "preferred_contact_method",
	"occupation", "employer", "church_affiliation", "fca_involvement", "fca_role",
	"consent_communications", "consent_photos", "consent_social_media", "consent_medical_treatment",
	"created_at", "updated_at",
)

// SQLStore implements Store on SQLite or Postgres.
type SQLStore struct {
	db storage.Querier
}

// NewSQLStore creates a new parent store.
func NewSQLStore(db storage.Querier) *SQLStore {
	return &SQLStore{db: db}
}

// Insert persists a parent.
// PRE: value has been validated; StudentID is a student profile id
// POST: Row is persisted
func (s *SQLStore) Insert(ctx context.Context, p domain.Parent) error {
	return parents.Insert(ctx, s.db, map[string]any{
		"id":                        p.ID,
		"student_id":                p.StudentID,
		"first_name":                p.FirstName,
		"last_name":                 p.LastName,
		"email":                     p.Email,
		"phone":                     p.Phone,
		"relationship_to_student":   p.Relationship,
		"is_legal_guardian":         storage.BoolInt(p.IsLegalGuardian),
		"preferred_contact_method":  p.PreferredContactMethod,
		"occupation":                p.Occupation,
		"employer":                  p.Employer,
		"church_affiliation":        p.ChurchAffiliation,
		"fca_involvement":           storage.BoolInt(p.FCAInvolvement),
		"fca_role":                  p.FCARole,
		"consent_communications":    storage.BoolInt(p.Consents.Communications),
		"consent_photos":            storage.BoolInt(p.Consents.Photos),
		"consent_social_media":      storage.BoolInt(p.Consents.SocialMedia),
		"consent_medical_treatment": storage.BoolInt(p.Consents.MedicalTreatment),
		"created_at":                storage.FormatTime(p.CreatedAt),
		"updated_at":                storage.FormatTime(p.UpdatedAt),
	})
}

// ListByStudentID returns the parents of a student profile in the order they were entered.
// PRE: studentID is a student profile id
// POST: Returns an empty slice when none are recorded
func (s *SQLStore) ListByStudentID(ctx context.Context, studentID string) ([]domain.Parent, error) {
	rows, err := parents.Select(ctx, s.db, storage.Query{
		Where:   []storage.Cond{storage.Eq("student_id", studentID)},
		OrderBy: "created_at",
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Parent
	for rows.Next() {
		var p domain.Parent
		var createdAt, updatedAt string
		err := rows.Scan(
			&p.ID, &p.StudentID, &p.FirstName, &p.LastName, &p.Email, &p.Phone,
			&p.Relationship, &p.IsLegalGuardian, &p.PreferredContactMethod,
			&p.Occupation, &p.Employer, &p.ChurchAffiliation, &p.FCAInvolvement, &p.FCARole,
			&p.Consents.Communications, &p.Consents.Photos, &p.Consents.SocialMedia, &p.Consents.MedicalTreatment,
			&createdAt, &updatedAt,
		)
		if err != nil {
			return nil, err
		}
		p.CreatedAt, _ = storage.ParseTime(createdAt)
		p.UpdatedAt, _ = storage.ParseTime(updatedAt)
		results = append(results, p)
	}
	return results, rows.Err()
}
