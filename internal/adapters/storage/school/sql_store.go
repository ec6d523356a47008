package school

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"gohuddleup/internal/adapters/storage"
	domain "gohuddleup/internal/domain/school"
)

// SQLStore implements Store on SQLite or Postgres.
type SQLStore struct {
	db storage.Querier
}

// NewSQLStore creates a new school directory store.
func NewSQLStore(db storage.Querier) *SQLStore {
	return &SQLStore{db: db}
}

func notFound(kind string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s not found: %w", kind, err)
	}
	return err
}

// InsertState persists a state.
// PRE: value has been validated
// POST: A duplicate code is reported as a unique violation
func (s *SQLStore) InsertState(ctx context.Context, v domain.State) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO states (id, code, name, created_at) VALUES (?, ?, ?, ?)",
		v.ID, strings.ToUpper(v.Code), v.Name, storage.FormatTime(v.CreatedAt))
	return err
}

// GetState retrieves a state by id.
func (s *SQLStore) GetState(ctx context.Context, id string) (domain.State, error) {
	st, err := scanState(s.db.QueryRowContext(ctx, "SELECT id, code, name, created_at FROM states WHERE id = ?", id).Scan)
	return st, notFound("state", err)
}

// GetStateByCode retrieves a state by its two-letter code.
// PRE: code is a two-letter code in any case
// POST: Returns the state or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetStateByCode(ctx context.Context, code string) (domain.State, error) {
	st, err := scanState(s.db.QueryRowContext(ctx, "SELECT id, code, name, created_at FROM states WHERE code = ?",
		strings.ToUpper(strings.TrimSpace(code))).Scan)
	return st, notFound("state", err)
}

// ListStates returns every seeded state ordered by name.
func (s *SQLStore) ListStates(ctx context.Context) ([]domain.State, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, code, name, created_at FROM states ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []domain.State
	for rows.Next() {
		st, err := scanState(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, st)
	}
	return results, rows.Err()
}

// InsertRegion persists a region.
func (s *SQLStore) InsertRegion(ctx context.Context, v domain.Region) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO regions (id, name, state_id, created_at) VALUES (?, ?, ?, ?)",
		v.ID, v.Name, v.StateID, storage.FormatTime(v.CreatedAt))
	return err
}

// GetRegion retrieves a region by id.
func (s *SQLStore) GetRegion(ctx context.Context, id string) (domain.Region, error) {
	r, err := scanRegion(s.db.QueryRowContext(ctx, "SELECT id, name, state_id, created_at FROM regions WHERE id = ?", id).Scan)
	return r, notFound("region", err)
}

// ListRegions returns the regions of a state, or every region when stateID is empty.
func (s *SQLStore) ListRegions(ctx context.Context, stateID string) ([]domain.Region, error) {
	query := "SELECT id, name, state_id, created_at FROM regions"
	var args []interface{}
	if stateID != "" {
		query += " WHERE state_id = ?"
		args = append(args, stateID)
	}
	rows, err := s.db.QueryContext(ctx, query+" ORDER BY name", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []domain.Region
	for rows.Next() {
		r, err := scanRegion(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// InsertSchool persists a school.
// PRE: value has been placed in a region
func (s *SQLStore) InsertSchool(ctx context.Context, v domain.School) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO schools (id, name, city, region_id, state_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		v.ID, v.Name, v.City, v.RegionID, v.StateID, storage.FormatTime(v.CreatedAt))
	return err
}

// GetSchool retrieves a school by id.
func (s *SQLStore) GetSchool(ctx context.Context, id string) (domain.School, error) {
	sc, err := scanSchool(s.db.QueryRowContext(ctx,
		"SELECT id, name, city, region_id, state_id, created_at FROM schools WHERE id = ?", id).Scan)
	return sc, notFound("school", err)
}

// FindSchoolByName matches a school name case-insensitively, ignoring repeated whitespace.
// PRE: name is non-empty
// POST: Returns the first match or an error wrapping storage.ErrNotFound
func (s *SQLStore) FindSchoolByName(ctx context.Context, name string) (domain.School, error) {
	candidates, err := s.ListSchools(ctx, SchoolFilter{Query: strings.Join(strings.Fields(name), " ")})
	if err != nil {
		return domain.School{}, err
	}
	for _, sc := range candidates {
		if domain.SameName(sc.Name, name) {
			return sc, nil
		}
	}
	return domain.School{}, fmt.Errorf("school not found: %w", storage.ErrNotFound)
}

// ListSchools returns schools matching the filter ordered by name.
// PRE: none
// POST: Returns at most filter.Limit schools when Limit > 0
func (s *SQLStore) ListSchools(ctx context.Context, filter SchoolFilter) ([]domain.School, error) {
	var queryBuilder strings.Builder
	var conds []string
	var args []interface{}
	queryBuilder.WriteString("SELECT id, name, city, region_id, state_id, created_at FROM schools")
	if filter.StateID != "" {
		conds = append(conds, "state_id = ?")
		args = append(args, filter.StateID)
	}
	if filter.RegionID != "" {
		conds = append(conds, "region_id = ?")
		args = append(args, filter.RegionID)
	}
	if q := strings.TrimSpace(filter.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		conds = append(conds, "(LOWER(name) LIKE ? OR LOWER(city) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	if len(conds) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY name")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ?")
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []domain.School
	for rows.Next() {
		sc, err := scanSchool(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, sc)
	}
	return results, rows.Err()
}

// InsertHuddle persists a huddle.
func (s *SQLStore) InsertHuddle(ctx context.Context, v domain.Huddle) error {
	_, err := s.db.ExecContext(ctx, "INSERT INTO huddles (id, name, school_id, created_at) VALUES (?, ?, ?, ?)",
		v.ID, v.Name, v.SchoolID, storage.FormatTime(v.CreatedAt))
	return err
}

// GetHuddle retrieves a huddle by id.
func (s *SQLStore) GetHuddle(ctx context.Context, id string) (domain.Huddle, error) {
	h, err := scanHuddle(s.db.QueryRowContext(ctx, "SELECT id, name, school_id, created_at FROM huddles WHERE id = ?", id).Scan)
	return h, notFound("huddle", err)
}

// FindHuddleByName matches a huddle of a school by name, case-insensitively.
func (s *SQLStore) FindHuddleByName(ctx context.Context, schoolID, name string) (domain.Huddle, error) {
	huddles, err := s.ListHuddles(ctx, schoolID)
	if err != nil {
		return domain.Huddle{}, err
	}
	for _, h := range huddles {
		if domain.SameName(h.Name, name) {
			return h, nil
		}
	}
	return domain.Huddle{}, fmt.Errorf("huddle not found: %w", storage.ErrNotFound)
}

// ListHuddles returns the huddles of a school, or every huddle when schoolID is empty.
func (s *SQLStore) ListHuddles(ctx context.Context, schoolID string) ([]domain.Huddle, error) {
	query := "SELECT id, name, school_id, created_at FROM huddles"
	var args []interface{}
	if schoolID != "" {
		query += " WHERE school_id = ?"
		args = append(args, schoolID)
	}
	rows, err := s.db.QueryContext(ctx, query+" ORDER BY name", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var results []domain.Huddle
	for rows.Next() {
		h, err := scanHuddle(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, h)
	}
	return results, rows.Err()
}

func scanState(scan func(dest ...interface{}) error) (domain.State, error) {
	var v domain.State
	var createdAt string
	if err := scan(&v.ID, &v.Code, &v.Name, &createdAt); err != nil {
		return domain.State{}, err
	}
	v.CreatedAt, _ = storage.ParseTime(createdAt)
	return v, nil
}

func scanRegion(scan func(dest ...interface{}) error) (domain.Region, error) {
	var v domain.Region
	var createdAt string
	if err := scan(&v.ID, &v.Name, &v.StateID, &createdAt); err != nil {
		return domain.Region{}, err
	}
	v.CreatedAt, _ = storage.ParseTime(createdAt)
	return v, nil
}

func scanSchool(scan func(dest ...interface{}) error) (domain.School, error) {
	var v domain.School
	var createdAt string
	if err := scan(&v.ID, &v.Name, &v.City, &v.RegionID, &v.StateID, &createdAt); err != nil {
		return domain.School{}, err
	}
	v.CreatedAt, _ = storage.ParseTime(createdAt)
	return v, nil
}

func scanHuddle(scan func(dest ...interface{}) error) (domain.Huddle, error) {
	var v domain.Huddle
	var createdAt string
	if err := scan(&v.ID, &v.Name, &v.SchoolID, &createdAt); err != nil {
		return domain.Huddle{}, err
	}
	v.CreatedAt, _ = storage.ParseTime(createdAt)
	return v, nil
}
