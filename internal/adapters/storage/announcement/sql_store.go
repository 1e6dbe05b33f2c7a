package announcement

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"goodlife/internal/adapters/storage"
	domain "goodlife/internal/domain/announcement"
)

// SQLStore implements Store over the announcements table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new announcement Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scanAnnouncement(row storage.Scanner) (domain.Announcement, error) {
	var a domain.Announcement
	var priority string
	err := row.Scan(&a.ID, &a.Title, &a.Content, &a.Date, &priority)
	a.Priority = domain.Priority(priority)
	return a, err
}

// GetAll returns announcements newest first.
func (s *SQLStore) GetAll(ctx context.Context) ([]domain.Announcement, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, title, content, date, priority FROM announcements ORDER BY date DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	defer rows.Close()

	var out []domain.Announcement
	for rows.Next() {
		a, err := scanAnnouncement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan announcement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetByID retrieves one announcement.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Announcement, error) {
	a, err := scanAnnouncement(s.db.QueryRowContext(ctx, "SELECT id, title, content, date, priority FROM announcements WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Announcement{}, fmt.Errorf("announcement not found: %w", err)
	}
	return a, err
}

// Create inserts an announcement under a fresh backend id.
func (s *SQLStore) Create(ctx context.Context, value domain.Announcement) (domain.Announcement, error) {
	value.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx, "INSERT INTO announcements (id, title, content, date, priority) VALUES ($1, $2, $3, $4, $5)",
		value.ID, value.Title, value.Content, value.Date, string(value.Priority))
	if err != nil {
		return domain.Announcement{}, fmt.Errorf("create announcement: %w", err)
	}
	return value, nil
}

// Update overwrites an announcement.
func (s *SQLStore) Update(ctx context.Context, value domain.Announcement) error {
	res, err := s.db.ExecContext(ctx, "UPDATE announcements SET title = $1, content = $2, date = $3, priority = $4 WHERE id = $5",
		value.Title, value.Content, value.Date, string(value.Priority), value.ID)
	if err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return storage.RequireAffected(res, "announcement")
}

// Delete removes an announcement.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
