package attendance

import (
	"context"

	domain "goodlife/internal/domain/attendance"
)

// Store persists staff shift records. Records are never deleted.
type Store interface {
	GetAll(ctx context.Context) ([]domain.Record, error)
	GetByEmail(ctx context.Context, email string) ([]domain.Record, error)
	Create(ctx context.Context, value domain.Record) (domain.Record, error)
	Update(ctx context.Context, value domain.Record) error
}
