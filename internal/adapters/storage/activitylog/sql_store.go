package activitylog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"goodlife/internal/adapters/storage"
	domain "goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/privilege"
)

// SQLStore implements Store over the activity_logs table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new activity log Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetAll returns every entry, newest first.
func (s *SQLStore) GetAll(ctx context.Context) ([]domain.Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, role, user_email, action, details, timestamp, category, severity FROM activity_logs ORDER BY timestamp DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	defer rows.Close()

	var out []domain.Entry
	for rows.Next() {
		var e domain.Entry
		var role, ts, category, severity string
		if err := rows.Scan(&e.ID, &role, &e.UserEmail, &e.Action, &e.Details, &ts, &category, &severity); err != nil {
			return nil, fmt.Errorf("scan activity log: %w", err)
		}
		e.Role = privilege.Role(role)
		e.Category = domain.Category(category)
		e.Severity = domain.Severity(severity)
		if t, err := storage.ParseTime(ts); err == nil {
			e.Timestamp = t
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Create appends an entry under a fresh backend id.
func (s *SQLStore) Create(ctx context.Context, value domain.Entry) (domain.Entry, error) {
	value.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_logs (id, role, user_email, action, details, timestamp, category, severity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		value.ID, string(value.Role), value.UserEmail, value.Action, value.Details,
		storage.FormatTime(value.Timestamp), string(value.Category), string(value.Severity),
	)
	if err != nil {
		return domain.Entry{}, fmt.Errorf("create activity log: %w", err)
	}
	return value, nil
}
