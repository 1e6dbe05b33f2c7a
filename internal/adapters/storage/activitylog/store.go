package activitylog

import (
	"context"

	domain "goodlife/internal/domain/activitylog"
)

// Store is the append-only activity log.
type Store interface {
	// GetAll returns entries newest first.
	GetAll(ctx context.Context) ([]domain.Entry, error)
	Create(ctx context.Context, value domain.Entry) (domain.Entry, error)
}
