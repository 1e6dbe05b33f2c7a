package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"goodlife/internal/adapters/storage"
	domain "goodlife/internal/domain/attendance"
	"goodlife/internal/domain/privilege"
)

const columns = "id, staff_email, staff_role, date, sign_in_time, sign_out_time"

// SQLStore implements Store over the attendance_records table.
// Emails are stored lower-cased so the open-shift index matches regardless of input case.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new attendance Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) query(ctx context.Context, q string, args ...any) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var out []domain.Record
	for rows.Next() {
		var r domain.Record
		var role, signIn string
		var signOut sql.NullString
		if err := rows.Scan(&r.ID, &r.StaffEmail, &role, &r.Date, &signIn, &signOut); err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		r.StaffRole = privilege.Role(role)
		if r.SignIn, err = storage.ParseTime(signIn); err != nil {
			return nil, fmt.Errorf("attendance %s sign_in_time: %w", r.ID, err)
		}
		if r.SignOut, err = storage.ParseNullTime(signOut); err != nil {
			return nil, fmt.Errorf("attendance %s sign_out_time: %w", r.ID, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetAll returns every record, most recent sign-in first.
func (s *SQLStore) GetAll(ctx context.Context) ([]domain.Record, error) {
	return s.query(ctx, "SELECT "+columns+" FROM attendance_records ORDER BY sign_in_time DESC")
}

// GetByEmail returns one staff member's records, most recent first.
func (s *SQLStore) GetByEmail(ctx context.Context, email string) ([]domain.Record, error) {
	return s.query(ctx, "SELECT "+columns+" FROM attendance_records WHERE staff_email = $1 ORDER BY sign_in_time DESC",
		strings.ToLower(strings.TrimSpace(email)))
}

// Create inserts a sign-in under a fresh backend id.
// POST: a second open record for the same (email, date) is rejected by the backend
func (s *SQLStore) Create(ctx context.Context, value domain.Record) (domain.Record, error) {
	value.ID = uuid.NewString()
	value.StaffEmail = strings.ToLower(strings.TrimSpace(value.StaffEmail))
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO attendance_records ("+columns+") VALUES ($1, $2, $3, $4, $5, $6)",
		value.ID, value.StaffEmail, string(value.StaffRole), value.Date,
		storage.FormatTime(value.SignIn), storage.NullTime(value.SignOut),
	)
	if err != nil {
		return domain.Record{}, fmt.Errorf("create attendance: %w", err)
	}
	return value, nil
}

// Update stamps the sign-out of an existing record.
func (s *SQLStore) Update(ctx context.Context, value domain.Record) error {
	res, err := s.db.ExecContext(ctx, "UPDATE attendance_records SET sign_in_time = $1, sign_out_time = $2 WHERE id = $3",
		storage.FormatTime(value.SignIn), storage.NullTime(value.SignOut), value.ID)
	if err != nil {
		return fmt.Errorf("update attendance: %w", err)
	}
	return storage.RequireAffected(res, "attendance record")
}
