package checkin

import (
	"context"

	domain "goodlife/internal/domain/checkin"
)

// Store persists walk-in client check-ins.
type Store interface {
	GetAll(ctx context.Context) ([]domain.CheckIn, error)
	GetByID(ctx context.Context, id string) (domain.CheckIn, error)
	Create(ctx context.Context, value domain.CheckIn) (domain.CheckIn, error)
	Update(ctx context.Context, value domain.CheckIn) error
	Delete(ctx context.Context, id string) error
}
