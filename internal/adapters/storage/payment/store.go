package payment

import (
	"context"

	domain "goodlife/internal/domain/payment"
)

// Store persists payment records.
type Store interface {
	GetAll(ctx context.Context) ([]domain.Payment, error)
	GetByID(ctx context.Context, id string) (domain.Payment, error)
	Create(ctx context.Context, value domain.Payment) (domain.Payment, error)
	Update(ctx context.Context, value domain.Payment) error
	Delete(ctx context.Context, id string) error
}
