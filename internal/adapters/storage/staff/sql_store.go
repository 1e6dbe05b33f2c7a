package staff

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"goodlife/internal/adapters/storage"
	"goodlife/internal/domain/privilege"
	domain "goodlife/internal/domain/staff"
)

const columns = "id, full_name, email, role, position, phone, avatar, privileges, password_hash, failed_logins, locked_until, created_at"

// SQLStore implements Store over the staff table.
// Privileges are a JSON array of strings in a TEXT column.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new staff Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// decodePrivileges parses the stored set, rejecting unknown values explicitly.
// INVARIANT: only catalogue privileges leave the storage boundary
func decodePrivileges(staffID, raw string) []privilege.Privilege {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		slog.Warn("data_integrity", "entity", "staff", "id", staffID, "field", "privileges", "error", err)
		return nil
	}
	valid, rejected := privilege.ParseList(values)
	if len(rejected) > 0 {
		slog.Warn("data_integrity", "entity", "staff", "id", staffID, "field", "privileges", "rejected", rejected)
	}
	return valid
}

func encodePrivileges(ps []privilege.Privilege) string {
	b, _ := json.Marshal(privilege.Strings(ps))
	return string(b)
}

func scanStaff(row storage.Scanner) (domain.Staff, error) {
	var s domain.Staff
	var role, privs, locked, created string
	if err := row.Scan(&s.ID, &s.FullName, &s.Email, &role, &s.Position, &s.Phone, &s.Avatar,
		&privs, &s.PasswordHash, &s.FailedLogins, &locked, &created); err != nil {
		return domain.Staff{}, err
	}
	r, err := privilege.ParseRole(role)
	if err != nil {
		slog.Warn("data_integrity", "entity", "staff", "id", s.ID, "field", "role", "rejected", role)
		r = privilege.RoleStaff
	}
	s.Role = r
	s.Privileges = decodePrivileges(s.ID, privs)
	if locked != "" {
		if t, err := storage.ParseTime(locked); err == nil {
			s.LockedUntil = t
		}
	}
	if t, err := storage.ParseTime(created); err == nil {
		s.CreatedAt = t
	}
	return s, nil
}

func formatLock(s domain.Staff) string {
	if s.LockedUntil.IsZero() {
		return ""
	}
	return storage.FormatTime(s.LockedUntil)
}

// GetAll returns every account ordered by name.
func (s *SQLStore) GetAll(ctx context.Context) ([]domain.Staff, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM staff ORDER BY full_name")
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	var out []domain.Staff
	for rows.Next() {
		st, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("scan staff: %w", err)
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

// GetByID retrieves an account by id.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Staff, error) {
	st, err := scanStaff(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM staff WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Staff{}, fmt.Errorf("staff not found: %w", err)
	}
	return st, err
}

// GetByEmail retrieves an account by its login email.
// PRE: email is non-empty
// POST: lookup is case-insensitive
func (s *SQLStore) GetByEmail(ctx context.Context, email string) (domain.Staff, error) {
	st, err := scanStaff(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM staff WHERE LOWER(email) = $1", domain.NormalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Staff{}, fmt.Errorf("staff not found: %w", err)
	}
	return st, err
}

// Create inserts an account under a fresh backend id.
// PRE: value has been validated and carries a password hash
func (s *SQLStore) Create(ctx context.Context, value domain.Staff) (domain.Staff, error) {
	value.ID = uuid.NewString()
	if value.CreatedAt.IsZero() {
		return domain.Staff{}, errors.New("create staff: created_at is required")
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO staff ("+columns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)",
		value.ID, value.FullName, value.Email, string(value.Role), value.Position, value.Phone, value.Avatar,
		encodePrivileges(value.Privileges), value.PasswordHash, value.FailedLogins, formatLock(value),
		storage.FormatTime(value.CreatedAt),
	)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("create staff: %w", err)
	}
	return value, nil
}

// Update overwrites the profile, credential and lockout columns.
func (s *SQLStore) Update(ctx context.Context, value domain.Staff) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE staff SET full_name = $1, email = $2, role = $3, position = $4, phone = $5, avatar = $6,
			privileges = $7, password_hash = $8, failed_logins = $9, locked_until = $10 WHERE id = $11`,
		value.FullName, value.Email, string(value.Role), value.Position, value.Phone, value.Avatar,
		encodePrivileges(value.Privileges), value.PasswordHash, value.FailedLogins, formatLock(value), value.ID,
	)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	return storage.RequireAffected(res, "staff")
}

// UpdatePrivileges rewrites the privilege set of one account.
func (s *SQLStore) UpdatePrivileges(ctx context.Context, id string, privileges []privilege.Privilege) error {
	res, err := s.db.ExecContext(ctx, "UPDATE staff SET privileges = $1 WHERE id = $2", encodePrivileges(privileges), id)
	if err != nil {
		return fmt.Errorf("update staff privileges: %w", err)
	}
	return storage.RequireAffected(res, "staff")
}

// Delete removes an account.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM staff WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	return nil
}
