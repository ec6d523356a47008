package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// migrations are applied in order; the index plus one is the schema version.
// Column types are chosen to mean the same thing in SQLite and Postgres:
// TEXT ids and RFC3339 timestamps, INTEGER booleans, TEXT-encoded JSON.
var migrations = [][]string{
	{
		`CREATE TABLE IF NOT EXISTS identities (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			email_confirmed_at TEXT,
			last_sign_in_at TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS confirmation_tokens (
			id TEXT PRIMARY KEY,
			identity_id TEXT NOT NULL REFERENCES identities(id) ON DELETE CASCADE,
			token TEXT NOT NULL UNIQUE,
			expires_at TEXT NOT NULL,
			used INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY REFERENCES identities(id) ON DELETE CASCADE,
			email TEXT NOT NULL,
			role TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS role_assignments (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			scope_type TEXT NOT NULL,
			scope_id TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_role_assignments_user ON role_assignments(user_id)`,
		`CREATE TABLE IF NOT EXISTS states (
			id TEXT PRIMARY KEY,
			code TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS regions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			state_id TEXT NOT NULL REFERENCES states(id),
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS schools (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			city TEXT NOT NULL DEFAULT '',
			region_id TEXT NOT NULL REFERENCES regions(id),
			state_id TEXT NOT NULL REFERENCES states(id),
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_schools_state ON schools(state_id)`,
		`CREATE TABLE IF NOT EXISTS huddles (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			school_id TEXT NOT NULL REFERENCES schools(id),
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS students (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL UNIQUE REFERENCES users(id) ON DELETE CASCADE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			preferred_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			mobile TEXT NOT NULL DEFAULT '',
			grade TEXT NOT NULL DEFAULT '',
			graduation_year INTEGER NOT NULL DEFAULT 0,
			gpa DOUBLE PRECISION NOT NULL DEFAULT 0,
			date_of_birth TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			shirt_size TEXT NOT NULL DEFAULT '',
			t_shirt_size TEXT NOT NULL DEFAULT '',
			hoodie_size TEXT NOT NULL DEFAULT '',
			school_id TEXT REFERENCES schools(id),
			huddle_id TEXT REFERENCES huddles(id),
			requested_school TEXT NOT NULL DEFAULT '',
			requested_huddle TEXT NOT NULL DEFAULT '',
			profile_picture_url TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '{}',
			socials_instagram TEXT NOT NULL DEFAULT '',
			socials_snap TEXT NOT NULL DEFAULT '',
			socials_tiktok TEXT NOT NULL DEFAULT '',
			emergency_contact_name TEXT NOT NULL DEFAULT '',
			emergency_contact_phone TEXT NOT NULL DEFAULT '',
			emergency_contact_relationship TEXT NOT NULL DEFAULT '',
			medical_conditions TEXT NOT NULL DEFAULT '',
			allergies TEXT NOT NULL DEFAULT '',
			dietary_restrictions TEXT NOT NULL DEFAULT '',
			transportation_needs TEXT NOT NULL DEFAULT '',
			special_accommodations TEXT NOT NULL DEFAULT '',
			sports TEXT NOT NULL DEFAULT '[]',
			academic_interests TEXT NOT NULL DEFAULT '[]',
			career_interests TEXT NOT NULL DEFAULT '[]',
			leadership_positions TEXT NOT NULL DEFAULT '[]',
			community_service_hours INTEGER NOT NULL DEFAULT 0,
			notes TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_students_school ON students(school_id)`,
		`CREATE TABLE IF NOT EXISTS ministry_data (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL UNIQUE REFERENCES students(id) ON DELETE CASCADE,
			church_name TEXT NOT NULL,
			relationship_to_christ TEXT NOT NULL,
			owns_bible INTEGER NOT NULL DEFAULT 0,
			camp_attended INTEGER NOT NULL DEFAULT 0,
			camp_interest INTEGER NOT NULL DEFAULT 0,
			leadership_interest INTEGER NOT NULL DEFAULT 0,
			baptism_status TEXT NOT NULL DEFAULT '',
			spiritual_maturity_level TEXT NOT NULL DEFAULT '',
			prayer_partner TEXT NOT NULL DEFAULT '',
			accountability_partner TEXT NOT NULL DEFAULT '',
			bible_study_group TEXT NOT NULL DEFAULT '',
			worship_team_involvement INTEGER NOT NULL DEFAULT 0,
			evangelism_training INTEGER NOT NULL DEFAULT 0,
			discipleship_training INTEGER NOT NULL DEFAULT 0,
			leadership_training INTEGER NOT NULL DEFAULT 0,
			spiritual_gifts TEXT NOT NULL DEFAULT '[]',
			personal_testimony TEXT NOT NULL DEFAULT '',
			family_faith_background TEXT NOT NULL DEFAULT '',
			prayer_requests TEXT NOT NULL DEFAULT '',
			spiritual_goals TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS parents (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL,
			phone TEXT NOT NULL,
			relationship_to_student TEXT NOT NULL DEFAULT '',
			is_legal_guardian INTEGER NOT NULL DEFAULT 0,
			preferred_contact_method TEXT NOT NULL DEFAULT '',
			occupation TEXT NOT NULL DEFAULT '',
			employer TEXT NOT NULL DEFAULT '',
			church_affiliation TEXT NOT NULL DEFAULT '',
			fca_involvement INTEGER NOT NULL DEFAULT 0,
			fca_role TEXT NOT NULL DEFAULT '',
			consent_communications INTEGER NOT NULL DEFAULT 0,
			consent_photos INTEGER NOT NULL DEFAULT 0,
			consent_social_media INTEGER NOT NULL DEFAULT 0,
			consent_medical_treatment INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_parents_student ON parents(student_id)`,
	},
	{
		`CREATE TABLE IF NOT EXISTS student_attendance (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			huddle_id TEXT NOT NULL REFERENCES huddles(id),
			meeting_date TEXT NOT NULL,
			status TEXT NOT NULL,
			check_in_time TEXT,
			check_out_time TEXT,
			notes TEXT NOT NULL DEFAULT '',
			recorded_by TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			UNIQUE (student_id, huddle_id, meeting_date)
		)`,
		`CREATE TABLE IF NOT EXISTS student_achievements (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			achievement_type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			date_earned TEXT NOT NULL,
			awarded_by TEXT NOT NULL DEFAULT '',
			certificate_url TEXT NOT NULL DEFAULT '',
			points_awarded INTEGER NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_achievements_student ON student_achievements(student_id)`,
		`CREATE TABLE IF NOT EXISTS fca_events (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			event_type TEXT NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT,
			location TEXT NOT NULL DEFAULT '',
			school_id TEXT REFERENCES schools(id),
			region_id TEXT REFERENCES regions(id),
			state_id TEXT REFERENCES states(id),
			max_participants INTEGER NOT NULL DEFAULT 0,
			current_participants INTEGER NOT NULL DEFAULT 0,
			registration_deadline TEXT,
			cost DOUBLE PRECISION NOT NULL DEFAULT 0,
			is_active INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS student_event_registrations (
			id TEXT PRIMARY KEY,
			student_id TEXT NOT NULL REFERENCES students(id) ON DELETE CASCADE,
			event_id TEXT NOT NULL REFERENCES fca_events(id) ON DELETE CASCADE,
			registration_date TEXT NOT NULL,
			status TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			special_requests TEXT NOT NULL DEFAULT '',
			dietary_restrictions TEXT NOT NULL DEFAULT '',
			transportation_needs TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			UNIQUE (student_id, event_id)
		)`,
	},
}

// SchemaVersion is the version a fully migrated database reports.
var SchemaVersion = len(migrations)

// Migrate applies every migration newer than the recorded schema version.
// Each migration runs in its own transaction.
// PRE: db is open
// POST: CurrentVersion(db) == SchemaVersion
func Migrate(ctx context.Context, db *DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_version: %w", err)
	}

	current, err := CurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	for i := current; i < len(migrations); i++ {
		version := i + 1
		err := db.WithTx(ctx, func(tx *Tx) error {
			for _, stmt := range migrations[i] {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("migration %d: %w", version, err)
				}
			}
			_, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
				version, FormatTime(time.Now()))
			return err
		})
		if err != nil {
			return err
		}
		slog.Info("schema_migrated", "version", version, "dialect", db.Dialect().String())
	}
	return nil
}

// CurrentVersion returns the highest applied migration, or 0 for a fresh database.
// PRE: schema_version exists
// POST: Returns the recorded version
func CurrentVersion(ctx context.Context, q Querier) (int, error) {
	var version sql.NullInt64
	err := q.QueryRowContext(ctx, "SELECT MAX(version) FROM schema_version").Scan(&version)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return int(version.Int64), nil
}
