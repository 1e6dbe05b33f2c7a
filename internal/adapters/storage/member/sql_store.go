package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"goodlife/internal/adapters/storage"
	domain "goodlife/internal/domain/member"
	"goodlife/internal/domain/plan"
)

const columns = "id, full_name, email, phone, address, emergency_contact, plan, start_date, expiry_date, status, photo"

// SQLStore implements Store over the members table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new member Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scanMember(row storage.Scanner) (domain.Member, error) {
	var m domain.Member
	var p, status string
	err := row.Scan(&m.ID, &m.FullName, &m.Email, &m.Phone, &m.Address, &m.EmergencyContact,
		&p, &m.StartDate, &m.ExpiryDate, &status, &m.Photo)
	m.Plan = plan.Plan(p)
	m.Status = domain.Status(status)
	return m, err
}

// GetAll returns every member ordered by name.
func (s *SQLStore) GetAll(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM members ORDER BY full_name")
	if err != nil {
		return nil, fmt.Errorf("list members: %w", storage.TranslateError(err))
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM members WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return m, err
}

// GetByEmail retrieves a Member by email, case-insensitively.
func (s *SQLStore) GetByEmail(ctx context.Context, email string) (domain.Member, error) {
	m, err := scanMember(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM members WHERE LOWER(email) = $1", strings.ToLower(strings.TrimSpace(email))))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return m, err
}

// Create inserts a member under a fresh backend id.
// PRE: value has been validated
// POST: returned member carries the stored id
func (s *SQLStore) Create(ctx context.Context, value domain.Member) (domain.Member, error) {
	value.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO members ("+columns+") VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)",
		value.ID, value.FullName, value.Email, value.Phone, value.Address, value.EmergencyContact,
		string(value.Plan), value.StartDate, value.ExpiryDate, string(value.Status), value.Photo,
	)
	if err != nil {
		return domain.Member{}, fmt.Errorf("create member: %w", storage.TranslateError(err))
	}
	return value, nil
}

// Update overwrites every column of an existing member.
// POST: returns sql.ErrNoRows when id is unknown
func (s *SQLStore) Update(ctx context.Context, value domain.Member) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE members SET full_name = $1, email = $2, phone = $3, address = $4, emergency_contact = $5,
			plan = $6, start_date = $7, expiry_date = $8, status = $9, photo = $10 WHERE id = $11`,
		value.FullName, value.Email, value.Phone, value.Address, value.EmergencyContact,
		string(value.Plan), value.StartDate, value.ExpiryDate, string(value.Status), value.Photo, value.ID,
	)
	if err != nil {
		return fmt.Errorf("update member: %w", storage.TranslateError(err))
	}
	return storage.RequireAffected(res, "member")
}

// Delete removes a Member from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM members WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return nil
}
