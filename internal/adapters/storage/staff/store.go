package staff

import (
	"context"

	"goodlife/internal/domain/privilege"
	domain "goodlife/internal/domain/staff"
)

// Store persists portal accounts.
type Store interface {
	GetAll(ctx context.Context) ([]domain.Staff, error)
	GetByID(ctx context.Context, id string) (domain.Staff, error)
	GetByEmail(ctx context.Context, email string) (domain.Staff, error)
	Create(ctx context.Context, value domain.Staff) (domain.Staff, error)
	Update(ctx context.Context, value domain.Staff) error
	// UpdatePrivileges rewrites only the privilege set.
	UpdatePrivileges(ctx context.Context, id string, privileges []privilege.Privilege) error
	Delete(ctx context.Context, id string) error
}
