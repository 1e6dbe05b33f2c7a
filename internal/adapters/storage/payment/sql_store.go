package payment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"goodlife/internal/adapters/storage"
	domain "goodlife/internal/domain/payment"
	"goodlife/internal/domain/plan"
)

const columns = `id, member_id, member_name, amount, date, method, status, confirmed_by, transaction_id,
	momo_phone, network, is_pending_member, member_email, member_phone, member_address, member_photo,
	member_plan, member_start_date, member_expiry_date`

// SQLStore implements Store over the payments table.
// Backend errors about the checkout columns surface as storage.ErrMigrationRequired.
type SQLStore struct {
	db storage.SQLDB
}

// NewSQLStore creates a new payment Store.
func NewSQLStore(db storage.SQLDB) *SQLStore {
	return &SQLStore{db: db}
}

func scanPayment(row storage.Scanner) (domain.Payment, error) {
	var p domain.Payment
	var method, status, memberPlan string
	var pending int
	err := row.Scan(&p.ID, &p.MemberID, &p.MemberName, &p.Amount, &p.Date, &method, &status,
		&p.ConfirmedBy, &p.TransactionID, &p.MomoPhone, &p.Network, &pending,
		&p.PendingMember.Email, &p.PendingMember.Phone, &p.PendingMember.Address, &p.PendingMember.Photo,
		&memberPlan, &p.PendingMember.StartDate, &p.PendingMember.ExpiryDate)
	p.Method = domain.Method(method)
	p.Status = domain.Status(status)
	p.IsPendingMember = pending != 0
	p.PendingMember.Plan = plan.Plan(memberPlan)
	return p, err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func args(p domain.Payment) []any {
	return []any{p.MemberID, p.MemberName, p.Amount, p.Date, string(p.Method), string(p.Status),
		p.ConfirmedBy, p.TransactionID, p.MomoPhone, p.Network, boolInt(p.IsPendingMember),
		p.PendingMember.Email, p.PendingMember.Phone, p.PendingMember.Address, p.PendingMember.Photo,
		string(p.PendingMember.Plan), p.PendingMember.StartDate, p.PendingMember.ExpiryDate}
}

// GetAll returns every payment, newest date first.
func (s *SQLStore) GetAll(ctx context.Context) ([]domain.Payment, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+columns+" FROM payments ORDER BY date DESC, id")
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", storage.TranslateError(err))
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID retrieves a payment by id.
func (s *SQLStore) GetByID(ctx context.Context, id string) (domain.Payment, error) {
	p, err := scanPayment(s.db.QueryRowContext(ctx, "SELECT "+columns+" FROM payments WHERE id = $1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Payment{}, fmt.Errorf("payment not found: %w", err)
	}
	if err != nil {
		return domain.Payment{}, storage.TranslateError(err)
	}
	return p, nil
}

// Create inserts a payment under a fresh backend id.
// PRE: value has been validated
func (s *SQLStore) Create(ctx context.Context, value domain.Payment) (domain.Payment, error) {
	value.ID = uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO payments ("+columns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
			$13, $14, $15, $16, $17, $18, $19)`,
		append([]any{value.ID}, args(value)...)...,
	)
	if err != nil {
		return domain.Payment{}, fmt.Errorf("create payment: %w", storage.TranslateError(err))
	}
	return value, nil
}

// Update overwrites a payment row.
func (s *SQLStore) Update(ctx context.Context, value domain.Payment) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE payments SET member_id = $1, member_name = $2, amount = $3, date = $4, method = $5, status = $6,
			confirmed_by = $7, transaction_id = $8, momo_phone = $9, network = $10, is_pending_member = $11,
			member_email = $12, member_phone = $13, member_address = $14, member_photo = $15, member_plan = $16,
			member_start_date = $17, member_expiry_date = $18 WHERE id = $19`,
		append(args(value), value.ID)...,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", storage.TranslateError(err))
	}
	return storage.RequireAffected(res, "payment")
}

// Delete removes a payment.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM payments WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}
