package member

import (
	"context"

	domain "goodlife/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetAll(ctx context.Context) ([]domain.Member, error)
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByEmail(ctx context.Context, email string) (domain.Member, error)
	// Create assigns the backend id and returns the stored row.
	Create(ctx context.Context, value domain.Member) (domain.Member, error)
	Update(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
}
