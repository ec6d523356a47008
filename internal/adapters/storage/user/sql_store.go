package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gohuddleup/internal/adapters/storage"
	domain "gohuddleup/internal/domain/user"
)

// SQLStore implements Store on SQLite or Postgres.
type SQLStore struct {
	db storage.Querier
}

// NewSQLStore creates a new user store.
func NewSQLStore(db storage.Querier) *SQLStore {
	return &SQLStore{db: db}
}

// Insert persists a new user row.
// PRE: value has been validated; an identity with the same id exists
// POST: Row is persisted; a duplicate id is reported as a unique violation
func (s *SQLStore) Insert(ctx context.Context, value domain.User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, role, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		value.ID,
		value.Email,
		value.Role,
		value.Status,
		storage.FormatTime(value.CreatedAt),
		storage.FormatTime(value.UpdatedAt),
	)
	return err
}

// GetByID retrieves a user by identity id.
// PRE: id is non-empty
// POST: Returns the user or an error wrapping storage.ErrNotFound
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, email, role, status, created_at, updated_at FROM users WHERE id = ?", id)
	entity, err := scanUser(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, fmt.Errorf("user not found: %w", err)
	}
	return entity, err
}

// UpdateStatus changes a user's lifecycle status. Role is never updated.
// PRE: status is one of domain.ValidStatuses
// POST: status and updated_at are persisted
func (s *SQLStore) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE users SET status = ?, updated_at = ? WHERE id = ?",
		status, storage.FormatTime(time.Now()), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user not found: %w", storage.ErrNotFound)
	}
	return nil
}

func buildWhere(filter ListFilter) (string, []interface{}) {
	var conds []string
	var args []interface{}
	if filter.Role != "" {
		conds = append(conds, "role = ?")
		args = append(args, filter.Role)
	}
	if filter.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, filter.Status)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// List retrieves users based on the filter, newest first.
// PRE: filter has valid parameters
// POST: Returns matching users
func (s *SQLStore) List(ctx context.Context, filter ListFilter) ([]domain.User, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString("SELECT id, email, role, status, created_at, updated_at FROM users")
	where, args := buildWhere(filter)
	queryBuilder.WriteString(where)
	queryBuilder.WriteString(" ORDER BY created_at DESC")
	if filter.Limit > 0 {
		queryBuilder.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.User
	for rows.Next() {
		entity, err := scanUser(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Count returns the number of users matching the filter.
// PRE: none
// POST: Returns the matching user count
func (s *SQLStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := buildWhere(filter)
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users"+where, args...).Scan(&count)
	return count, err
}

// InsertAssignment persists a role assignment.
// PRE: value has been validated; the user exists
// POST: Assignment is persisted
func (s *SQLStore) InsertAssignment(ctx context.Context, value domain.RoleAssignment) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO role_assignments (id, user_id, role, scope_type, scope_id, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		value.ID,
		value.UserID,
		value.Role,
		value.ScopeType,
		value.ScopeID,
		storage.FormatTime(value.CreatedAt),
	)
	return err
}

// ListAssignments returns every assignment of a user, oldest first.
// PRE: userID is non-empty
// POST: Returns an empty slice when the user has none
func (s *SQLStore) ListAssignments(ctx context.Context, userID string) ([]domain.RoleAssignment, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, role, scope_type, scope_id, created_at FROM role_assignments WHERE user_id = ? ORDER BY created_at",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.RoleAssignment
	for rows.Next() {
		var a domain.RoleAssignment
		var createdAt string
		if err := rows.Scan(&a.ID, &a.UserID, &a.Role, &a.ScopeType, &a.ScopeID, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = storage.ParseTime(createdAt)
		results = append(results, a)
	}
	return results, rows.Err()
}

// scanUser extracts a User from a row scanner function.
func scanUser(scan func(dest ...interface{}) error) (domain.User, error) {
	var entity domain.User
	var createdAt, updatedAt string
	err := scan(
		&entity.ID,
		&entity.Email,
		&entity.Role,
		&entity.Status,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	entity.CreatedAt, _ = storage.ParseTime(createdAt)
	entity.UpdatedAt, _ = storage.ParseTime(updatedAt)
	return entity, nil
}
