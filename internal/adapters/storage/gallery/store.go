package gallery

import (
	"context"

	domain "goodlife/internal/domain/gallery"
)

// Store persists gallery images.
type Store interface {
	GetAll(ctx context.Context) ([]domain.Image, error)
	Create(ctx context.Context, value domain.Image) (domain.Image, error)
	Update(ctx context.Context, value domain.Image) error
	Delete(ctx context.Context, id string) error
}
