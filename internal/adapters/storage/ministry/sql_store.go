package ministry

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gohuddleup/internal/adapters/storage"
	domain "gohuddleup/internal/domain/ministry"
)

var ministryData = storage.NewTable("ministry_data",
	"id", "student_id", "church_name", "relationship_to_christ",
	"owns_bible", "camp_attended", "camp_interest", "leadership_interest",
	"baptism_status", "spiritual_maturity_level", "prayer_partner", "accountability_partner", "bible_study_group",
	"worship_team_involvement", "evangelism_training", "discipleship_training", "leadership_training",
	"spiritual_gifts", "personal_testimony", "family_faith_background", "prayer_requests", "spiritual_goals",
	"created_at", "updated_at",
)

// SQLStore implements Store on SQLite or Postgres.
type SQLStore struct {
	db storage.Querier
}

// NewSQLStore creates a new ministry data store.
func NewSQLStore(db storage.Querier) *SQLStore {
	return &SQLStore{db: db}
}

// Insert persists ministry data.
// PRE: value has been validated; StudentID is a student profile id
// POST: Row is persisted
func (s *SQLStore) Insert(ctx context.Context, d domain.Data) error {
	gifts, err := storage.EncodeJSON(d.SpiritualGifts)
	if err != nil {
		return err
	}
	return ministryData.Insert(ctx, s.db, map[string]any{
		"id":                       d.ID,
		"student_id":               d.StudentID,
		"church_name":              d.ChurchName,
		"relationship_to_christ":   d.RelationshipToChrist,
		"owns_bible":               storage.BoolInt(d.OwnsBible),
		"camp_attended":            storage.BoolInt(d.CampAttended),
		"camp_interest":            storage.BoolInt(d.CampInterest),
		"leadership_interest":      storage.BoolInt(d.LeadershipInterest),
		"baptism_status":           d.BaptismStatus,
		"spiritual_maturity_level": d.SpiritualMaturityLevel,
		"prayer_partner":           d.PrayerPartner,
		"accountability_partner":   d.AccountabilityPartner,
		"bible_study_group":        d.BibleStudyGroup,
		"worship_team_involvement": storage.BoolInt(d.WorshipTeamInvolvement),
		"evangelism_training":      storage.BoolInt(d.EvangelismTraining),
		"discipleship_training":    storage.BoolInt(d.DiscipleshipTraining),
		"leadership_training":      storage.BoolInt(d.LeadershipTraining),
		"spiritual_gifts":          gifts,
		"personal_testimony":       d.PersonalTestimony,
		"family_faith_background":  d.FamilyFaithBackground,
		"prayer_requests":          d.PrayerRequests,
		"spiritual_goals":          d.SpiritualGoals,
		"created_at":               storage.FormatTime(d.CreatedAt),
		"updated_at":               storage.FormatTime(d.UpdatedAt),
	})
}

// GetByStudentID retrieves the ministry data of a student profile.
// PRE: studentID is a student profile id
// POST: Returns the data or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByStudentID(ctx context.Context, studentID string) (domain.Data, error) {
	var d domain.Data
	err := ministryData.SelectOne(ctx, s.db, storage.Query{Where: []storage.Cond{storage.Eq("student_id", studentID)}}, func(row *sql.Row) error {
		var gifts, createdAt, updatedAt string
		err := row.Scan(
			&d.ID, &d.StudentID, &d.ChurchName, &d.RelationshipToChrist,
			&d.OwnsBible, &d.CampAttended, &d.CampInterest, &d.LeadershipInterest,
			&d.BaptismStatus, &d.SpiritualMaturityLevel, &d.PrayerPartner, &d.AccountabilityPartner, &d.BibleStudyGroup,
			&d.WorshipTeamInvolvement, &d.EvangelismTraining, &d.DiscipleshipTraining, &d.LeadershipTraining,
			&gifts, &d.PersonalTestimony, &d.FamilyFaithBackground, &d.PrayerRequests, &d.SpiritualGoals,
			&createdAt, &updatedAt,
		)
		if err != nil {
			return err
		}
		d.CreatedAt, _ = storage.ParseTime(createdAt)
		d.UpdatedAt, _ = storage.ParseTime(updatedAt)
		return storage.DecodeJSON(gifts, &d.SpiritualGifts)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Data{}, fmt.Errorf("ministry data not found: %w", err)
	}
	return d, err
}
