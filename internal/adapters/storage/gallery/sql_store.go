package gallery

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"goodlife/internal/adapters/storage"
	domain "goodlife/internal/domain/gallery"
)

// SQLStore implements Store over the gallery table.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new gallery Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

// GetAll returns every image.
func (s *SQLStore) GetAll(ctx context.Context) ([]domain.Image, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, url, caption FROM gallery ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	defer rows.Close()

	var out []domain.Image
	for rows.Next() {
		var img domain.Image
		if err := rows.Scan(&img.ID, &img.URL, &img.Caption); err != nil {
			return nil, fmt.Errorf("scan gallery image: %w", err)
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

// Create inserts an image under a fresh backend id.
func (s *SQLStore) Create(ctx context.Context, value domain.Image) (domain.Image, error) {
	value.ID = uuid.NewString()
	if _, err := s.db.ExecContext(ctx, "INSERT INTO gallery (id, url, caption) VALUES ($1, $2, $3)", value.ID, value.URL, value.Caption); err != nil {
		return domain.Image{}, fmt.Errorf("create gallery image: %w", err)
	}
	return value, nil
}

// Update rewrites the url and caption.
func (s *SQLStore) Update(ctx context.Context, value domain.Image) error {
	res, err := s.db.ExecContext(ctx, "UPDATE gallery SET url = $1, caption = $2 WHERE id = $3", value.URL, value.Caption, value.ID)
	if err != nil {
		return fmt.Errorf("update gallery image: %w", err)
	}
	return storage.RequireAffected(res, "gallery image")
}

// Delete removes an image.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM gallery WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete gallery image: %w", err)
	}
	return nil
}
