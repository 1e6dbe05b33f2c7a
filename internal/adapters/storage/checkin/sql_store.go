package checkin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"goodlife/internal/adapters/storage"
	domain "goodlife/internal/domain/checkin"
)

const columns = "id, full_name, phone, email, check_in_time, check_out_time, date, notes"

// SQLStore implements Store over the client_checkins table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new check-in Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scanCheckIn(row storage.Scanner) (domain.CheckIn, error) {
	var c domain.CheckIn
	var in string
	var out sql.NullString
	if err := row.Scan(&c.ID, &c.FullName, &c.Phone, &c.Email, &in, &out, &c.Date, &c.Notes); err != nil {
		return domain.CheckIn{}, err
	}
	var err error
	if c.CheckInAt, err = storage.ParseTime(in); err != nil {
		return domain.CheckIn{}, fmt.Errorf("check-in %s check_in_time: %w", c.ID, err)
	}
	if c.CheckOutAt, err = storage.ParseNullTime(out); err != nil {
		return domain.CheckIn{}, fmt.Errorf("check-in %s check_out_time: %w", c.ID, err)
	}
	return c, nil
}

// GetAll returns every check-in, most recent first.
func (s *SQLStore) GetAll(ctx context.Context) ([]domain.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM client_checkins ORDER BY check_in_time DESC")
	if err != nil {
		return nil, fmt.Errorf("list check-ins: %w", err)
	}
	defer rows.Close()

	var list []domain.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan check-in: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// GetByID retrieves one check-in.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.CheckIn, error) {
	c, err := scanCheckIn(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM client_checkins WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CheckIn{}, fmt.Errorf("check-in not found: %w", err)
	}
	return c, err
}

// Create inserts a check-in under a fresh backend id.
func (s *SQLStore) Create(ctx context.Context, value domain.CheckIn) (domain.CheckIn, error) {
	value.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO client_checkins ("+columns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8)",
		value.ID, value.FullName, value.Phone, value.Email, storage.FormatTime(value.CheckInAt),
		storage.NullTime(value.CheckOutAt), value.Date, value.Notes,
	)
	if err != nil {
		return domain.CheckIn{}, fmt.Errorf("create check-in: %w", err)
	}
	return value, nil
}

// Update overwrites a check-in, typically to stamp the check-out.
func (s *SQLStore) Update(ctx context.Context, value domain.CheckIn) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE client_checkins SET full_name = $1, phone = $2, email = $3, check_in_time = $4,
			check_out_time = $5, date = $6, notes = $7 WHERE id = $8`,
		value.FullName, value.Phone, value.Email, storage.FormatTime(value.CheckInAt),
		storage.NullTime(value.CheckOutAt), value.Date, value.Notes, value.ID,
	)
	if err != nil {
		return fmt.Errorf("update check-in: %w", err)
	}
	return storage.RequireAffected(res, "check-in")
}

// Delete removes a check-in.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM client_checkins WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete check-in: %w", err)
	}
	return nil
}
