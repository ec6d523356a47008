package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gohuddleup/internal/adapters/storage"
	domain "gohuddleup/internal/domain/student"
)

var students = storage.NewTable("students",
	"id", "user_id", "first_name", "last_name", "preferred_name", "email", "mobile",
	"grade", "graduation_year", "gpa", "date_of_birth", "gender",
	"shirt_size", "t_shirt_size", "hoodie_size",
	"school_id", "huddle_id", "requested_school", "requested_huddle", "profile_picture_url",
	"address", "socials_instagram", "socials_snap", "socials_tiktok",
	"emergency_contact_name", "emergency_contact_phone", "emergency_contact_relationship",
	"medical_conditions", "allergies", "dietary_restrictions", "transportation_needs", "special_accommodations",
	"sports", "academic_interests", "career_interests", "leadership_positions",
	"community_service_hours", "notes", "created_at", "updated_at",
)

// SQLStore implements Store on SQLite or Postgres.
type SQLStore struct {
	db storage.Querier
}

// NewSQLStore creates a new student profile store.
func NewSQLStore(db storage.Querier) *SQLStore {
	return &SQLStore{db: db}
}

// Insert persists a new profile.
// PRE: value has been validated; the user exists
// POST: Profile is persisted; a second profile for the same user is a unique violation
func (s *SQLStore) Insert(ctx context.Context, value domain.Profile) error {
	values, err := profileValues(value)
	if err != nil {
		return err
	}
	return students.Insert(ctx, s.db, values)
}

// GetByID retrieves a profile by its own id.
// PRE: id is non-empty
// POST: Returns the profile or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Profile, error) {
	return s.getOne(ctx, storage.Eq("id", id))
}

// GetByUserID retrieves the profile of a STUDENT user.
// PRE: userID is non-empty
// POST: Returns the profile or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByUserID(ctx context.Context, userID string) (domain.Profile, error) {
	return s.getOne(ctx, storage.Eq("user_id", userID))
}

func (s *SQLStore) getOne(ctx context.Context, cond storage.Cond) (domain.Profile, error) {
	var entity domain.Profile
	err := students.SelectOne(ctx, s.db, storage.Query{Where: []storage.Cond{cond}}, func(row *sql.Row) error {
		var err error
		entity, err = scanProfile(row.Scan)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, fmt.Errorf("student profile not found: %w", err)
	}
	return entity, err
}

// Update writes only the columns present in patch, plus updated_at.
// PRE: patch has been applied to the loaded profile and the result validated
// POST: Unsupplied columns keep their stored values
func (s *SQLStore) Update(ctx context.Context, userID string, patch domain.Patch, now time.Time) error {
	set := make(map[string]any)
	for col, v := range patch.Fields() {
		switch v.(type) {
		case domain.Address, []string:
			encoded, err := storage.EncodeJSON(v)
			if err != nil {
				return err
			}
			set[col] = encoded
		default:
			set[col] = v
		}
	}
	set["updated_at"] = storage.FormatTime(now)

	n, err := students.Update(ctx, s.db, set, []storage.Cond{storage.Eq("user_id", userID)})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("student profile not found: %w", storage.ErrNotFound)
	}
	return nil
}

func conditions(filter ListFilter) []storage.Cond {
	var where []storage.Cond
	if filter.SchoolID != "" {
		where = append(where, storage.Eq("school_id", filter.SchoolID))
	}
	if filter.SchoolIDs != nil {
		where = append(where, storage.Cond{Column: "school_id", Op: storage.OpIn, Value: filter.SchoolIDs})
	}
	if !filter.Since.IsZero() {
		where = append(where, storage.Cond{Column: "created_at", Op: storage.OpGTE, Value: storage.FormatTime(filter.Since)})
	}
	return where
}

// List retrieves profiles based on the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching profiles
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.Profile, error) {
	rows, err := students.Select(ctx, s.db, storage.Query{
		Where:   conditions(filter),
		OrderBy: "created_at",
		Desc:    true,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Profile
	for rows.Next() {
		entity, err := scanProfile(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of profiles matching the filter.
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	return students.Count(ctx, s.db, conditions(filter))
}

func profileValues(p domain.Profile) (map[string]any, error) {
	address, err := storage.EncodeJSON(p.Address)
	if err != nil {
		return nil, err
	}
	lists := map[string][]string{
		"sports":               p.Sports,
		"academic_interests":   p.AcademicInterests,
		"career_interests":     p.CareerInterests,
		"leadership_positions": p.LeadershipPositions,
	}
	values := map[string]any{
		"id":                             p.ID,
		"user_id":                        p.UserID,
		"first_name":                     p.FirstName,
		"last_name":                      p.LastName,
		"preferred_name":                 p.PreferredName,
		"email":                          p.Email,
		"mobile":                         p.Mobile,
		"grade":                          p.Grade,
		"graduation_year":                p.GraduationYear,
		"gpa":                            p.GPA,
		"date_of_birth":                  p.DateOfBirth,
		"gender":                         p.Gender,
		"shirt_size":                     p.ShirtSize,
		"t_shirt_size":                   p.TShirtSize,
		"hoodie_size":                    p.HoodieSize,
		"school_id":                      storage.NullString(p.SchoolID),
		"huddle_id":                      storage.NullString(p.HuddleID),
		"requested_school":               p.RequestedSchool,
		"requested_huddle":               p.RequestedHuddle,
		"profile_picture_url":            p.ProfilePictureURL,
		"address":                        address,
		"socials_instagram":              p.Socials.Instagram,
		"socials_snap":                   p.Socials.Snapchat,
		"socials_tiktok":                 p.Socials.TikTok,
		"emergency_contact_name":         p.EmergencyContactName,
		"emergency_contact_phone":        p.EmergencyContactPhone,
		"emergency_contact_relationship": p.EmergencyContactRelationship,
		"medical_conditions":             p.MedicalConditions,
		"allergies":                      p.Allergies,
		"dietary_restrictions":           p.DietaryRestrictions,
		"transportation_needs":           p.TransportationNeeds,
		"special_accommodations":         p.SpecialAccommodations,
		"community_service_hours":        p.CommunityServiceHours,
		"notes":                          p.Notes,
		"created_at":                     storage.FormatTime(p.CreatedAt),
		"updated_at":                     storage.FormatTime(p.UpdatedAt),
	}
	for col, list := range lists {
		encoded, err := storage.EncodeJSON(list)
		if err != nil {
			return nil, err
		}
		values[col] = encoded
	}
	return values, nil
}

// scanProfile extracts a Profile from a row scanner function.
// Column order matches the students table declaration.
func scanProfile(scan func(dest ...interface{}) error) (domain.Profile, error) {
	var p domain.Profile
	var schoolID, huddleID sql.NullString
	var address, sports, academic, career, leadership, createdAt, updatedAt string
	err := scan(
		&p.ID, &p.UserID, &p.FirstName, &p.LastName, &p.PreferredName, &p.Email, &p.Mobile,
		&p.Grade, &p.GraduationYear, &p.GPA, &p.DateOfBirth, &p.Gender,
		&p.ShirtSize, &p.TShirtSize, &p.HoodieSize,
		&schoolID, &huddleID, &p.RequestedSchool, &p.RequestedHuddle, &p.ProfilePictureURL,
		&address, &p.Socials.Instagram, &p.Socials.Snapchat, &p.Socials.TikTok,
		&p.EmergencyContactName, &p.EmergencyContactPhone, &p.EmergencyContactRelationship,
		&p.MedicalConditions, &p.Allergies, &p.DietaryRestrictions, &p.TransportationNeeds, &p.SpecialAccommodations,
		&sports, &academic, &career, &leadership,
		&p.CommunityServiceHours, &p.Notes, &createdAt, &updatedAt,
	)
	if err != nil {
		return domain.Profile{}, err
	}
	p.SchoolID = schoolID.String
	p.HuddleID = huddleID.String
	for src, dst := range map[*string]any{
		&address:    &p.Address,
		&sports:     &p.Sports,
		&academic:   &p.AcademicInterests,
		&career:     &p.CareerInterests,
		&leadership: &p.LeadershipPositions,
	} {
		if err := storage.DecodeJSON(*src, dst); err != nil {
			return domain.Profile{}, err
		}
	}
	p.CreatedAt, _ = storage.ParseTime(createdAt)
	p.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return p, nil
}
