package announcement

import (
	"context"

	domain "goodlife/internal/domain/announcement"
)

// Store persists announcements.
type Store interface {
	GetAll(ctx context.Context) ([]domain.Announcement, error)
	GetByID(ctx context.Context, id string) (domain.Announcement, error)
	Create(ctx context.Context, value domain.Announcement) (domain.Announcement, error)
	Update(ctx context.Context, value domain.Announcement) error
	Delete(ctx context.Context, id string) error
}
