package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	emailAdapter "goodlife/internal/adapters/email"
	"goodlife/internal/adapters/photostore"
	"goodlife/internal/application/state"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/payment"
	"goodlife/internal/domain/plan"
	"goodlife/internal/domain/privilege"
)

// PaymentDeps holds dependencies for the payment orchestrators.
type PaymentDeps struct {
	State  *state.Container
	Photos photostore.Store
	Email  emailAdapter.Sender
	// CreateMemberOnConfirm makes confirmation of a checkout payment also
	// create the member described by its pending registration.
	CreateMemberOnConfirm bool
	GenerateID            func() string
	Now                   func() time.Time
}

// PaymentResult is a saved payment plus non-fatal problems met on the way.
type PaymentResult struct {
	Payment  payment.Payment `json:"payment"`
	Member   *member.Member  `json:"member,omitempty"`
	Warnings []string        `json:"warnings,omitempty"`
}

var (
	ErrMissingContact = errors.New("full name, email and phone are required")
	ErrMemberRequired = errors.New("select the member this payment is for")
)

// --- Checkout (public) ---

// CheckoutInput is a visitor's online registration.
type CheckoutInput struct {
	FullName      string
	Email         string
	Phone         string
	Address       string
	Photo         string
	Plan          string
	Amount        float64 // only used for legacy plans without a catalogue price
	TransactionID string
	MomoPhone     string
	Network       string
}

// ExecuteCheckout records a pending mobile-money payment carrying the registration.
// No member exists until staff confirm the payment.
// PRE: contact fields present; plan known
// POST: Payment{Status: Pending, IsPendingMember: true, MemberID: ""} stored
func ExecuteCheckout(ctx context.Context, input CheckoutInput, deps PaymentDeps) (PaymentResult, error) {
	if strings.TrimSpace(input.FullName) == "" || strings.TrimSpace(input.Email) == "" || strings.TrimSpace(input.Phone) == "" {
		return PaymentResult{}, ErrMissingContact
	}
	if !strings.Contains(input.Email, "@") {
		return PaymentResult{}, member.ErrInvalidEmail
	}
	p, err := plan.Parse(input.Plan)
	if err != nil {
		return PaymentResult{}, err
	}
	amount := input.Amount
	if offer, ok := plan.Lookup(p); ok && offer.Price > 0 {
		amount = offer.Price
	}

	now := deps.Now()
	pay := payment.Payment{
		ID:              deps.GenerateID(),
		MemberName:      strings.TrimSpace(input.FullName),
		Amount:          amount,
		Date:            calendar.Today(now),
		Method:          payment.MethodMobileMoney,
		Status:          payment.StatusPending,
		TransactionID:   strings.TrimSpace(input.TransactionID),
		MomoPhone:       strings.TrimSpace(input.MomoPhone),
		Network:         strings.TrimSpace(input.Network),
		IsPendingMember: true,
		PendingMember: payment.PendingMember{
			Email:      strings.TrimSpace(input.Email),
			Phone:      strings.TrimSpace(input.Phone),
			Address:    strings.TrimSpace(input.Address),
			Plan:       p,
			StartDate:  calendar.Today(now),
			ExpiryDate: calendar.Today(plan.TentativeExpiry(p, now)),
		},
	}
	if err := pay.Validate(); err != nil {
		return PaymentResult{}, err
	}
	var warnings []string
	pay.PendingMember.Photo, warnings = savePhoto(ctx, deps.Photos, "checkout-"+pay.ID, input.Photo, warnings)

	res, err := deps.State.Write(ctx, state.AddPayment(pay))
	if err != nil {
		return PaymentResult{}, err
	}
	pay.ID = res.ID
	slog.Info("checkout_recorded", "payment_id", pay.ID, "plan", p, "amount", amount)
	return PaymentResult{Payment: pay, Warnings: warnings}, nil
}

// --- Record payment (staff) ---

// RecordPaymentInput is a payment taken at the front desk.
type RecordPaymentInput struct {
	Actor         Actor
	MemberID      string
	Amount        float64
	Method        string
	Date          string // empty means today
	TransactionID string
	MomoPhone     string
	Network       string
}

// ExecuteRecordPayment records a payment for an existing member.
// Cash is confirmed at once and receipted; mobile money waits for confirmation.
// PRE: Actor holds MANAGE_PAYMENTS; member exists; amount > 0
// POST: Payment stored with status from payment.InitialStatus
func ExecuteRecordPayment(ctx context.Context, input RecordPaymentInput, deps PaymentDeps) (PaymentResult, error) {
	if err := input.Actor.require(privilege.ManagePayments); err != nil {
		return PaymentResult{}, err
	}
	if input.MemberID == "" {
		return PaymentResult{}, ErrMemberRequired
	}
	m, ok := deps.State.Snapshot().MemberByID(input.MemberID)
	if !ok {
		return PaymentResult{}, member.ErrNotFound
	}
	method, err := payment.ParseMethod(input.Method)
	if err != nil {
		return PaymentResult{}, err
	}
	now := deps.Now()
	date := strings.TrimSpace(input.Date)
	if date == "" {
		date = calendar.Today(now)
	}

	pay := payment.Payment{
		ID:            deps.GenerateID(),
		MemberID:      m.ID,
		MemberName:    m.FullName,
		Amount:        input.Amount,
		Date:          date,
		Method:        method,
		Status:        payment.InitialStatus(method),
		TransactionID: strings.TrimSpace(input.TransactionID),
		MomoPhone:     strings.TrimSpace(input.MomoPhone),
		Network:       strings.TrimSpace(input.Network),
	}
	if pay.IsConfirmed() {
		pay.ConfirmedBy = input.Actor.DisplayName()
	}
	if err := pay.Validate(); err != nil {
		return PaymentResult{}, err
	}

	res, err := deps.State.Write(ctx, state.AddPayment(pay))
	if err != nil {
		return PaymentResult{}, err
	}
	pay.ID = res.ID

	var warnings []string
	if pay.IsConfirmed() {
		warnings = appendWarning(warnings, sendReceipt(ctx, deps.Email, pay, m.Email, m.ExpiryDate))
	}
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryFinancial, activitylog.ActionRecordPayment,
			fmt.Sprintf("%s payment of ₵%.2f for %s (%s)", pay.Method, pay.Amount, pay.MemberName, pay.Status)))
	return PaymentResult{Payment: pay, Warnings: warnings}, nil
}

// --- Confirm payment ---

// ConfirmPaymentInput carries input for the confirm orchestrator.
type ConfirmPaymentInput struct {
	Actor     Actor
	PaymentID string
}

// ExecuteConfirmPayment moves a pending payment to Confirmed and stamps who verified it.
// With CreateMemberOnConfirm set, a checkout payment also gets its member created.
// PRE: Actor holds CONFIRM_PAYMENTS; payment is Pending
// POST: Status is Confirmed; ConfirmedBy is the actor's name
func ExecuteConfirmPayment(ctx context.Context, input ConfirmPaymentInput, deps PaymentDeps) (PaymentResult, error) {
	if err := input.Actor.require(privilege.ConfirmPayments); err != nil {
		return PaymentResult{}, err
	}
	snap := deps.State.Snapshot()
	pay, ok := snap.PaymentByID(input.PaymentID)
	if !ok {
		return PaymentResult{}, payment.ErrNotFound
	}
	if err := pay.Confirm(input.Actor.DisplayName()); err != nil {
		return PaymentResult{}, err
	}
	if _, err := deps.State.Write(ctx, state.ConfirmPayment(pay)); err != nil {
		return PaymentResult{}, err
	}
	activity := ActivityDeps{deps.State, deps.GenerateID, deps.Now}
	recordActivity(ctx, activity, input.Actor.entry(activitylog.CategoryFinancial, activitylog.ActionConfirmPayment,
		fmt.Sprintf("Confirmed ₵%.2f from %s", pay.Amount, pay.MemberName)))

	result := PaymentResult{Payment: pay}
	recipient, expiry := pay.PendingMember.Email, pay.PendingMember.ExpiryDate
	if m, ok := snap.MemberByID(pay.MemberID); ok {
		recipient, expiry = m.Email, m.ExpiryDate
	}

	if pay.IsPendingMember && deps.CreateMemberOnConfirm {
		created, err := ExecuteCreateMemberFromPayment(ctx, CreateMemberFromPaymentInput{Actor: input.Actor, PaymentID: pay.ID}, deps)
		if err != nil {
			slog.Warn("create_member_from_payment_failed", "payment_id", pay.ID, "error", err)
			result.Warnings = append(result.Warnings, "payment confirmed but the member could not be created: "+err.Error())
		} else {
			result.Payment = created.Payment
			result.Member = created.Member
		}
	}

	result.Warnings = appendWarning(result.Warnings, sendReceipt(ctx, deps.Email, result.Payment, recipient, expiry))
	return result, nil
}

// CreateMemberFromPaymentInput carries input for the pending-registration transition.
type CreateMemberFromPaymentInput struct {
	Actor     Actor
	PaymentID string
}

// ExecuteCreateMemberFromPayment creates the member a confirmed checkout payment describes
// and links the payment to it.
// PRE: payment is Confirmed and IsPendingMember
// POST: a Member exists; payment.MemberID is its id and IsPendingMember is false
func ExecuteCreateMemberFromPayment(ctx context.Context, input CreateMemberFromPaymentInput, deps PaymentDeps) (PaymentResult, error) {
	pay, ok := deps.State.Snapshot().PaymentByID(input.PaymentID)
	if !ok {
		return PaymentResult{}, payment.ErrNotFound
	}
	if !pay.IsConfirmed() {
		return PaymentResult{}, fmt.Errorf("create member from payment: %w", ErrPaymentUnconfirmed)
	}
	m, err := pay.NewMember(deps.GenerateID())
	if err != nil {
		return PaymentResult{}, err
	}
	m.Status = member.DeriveStatus(m.ExpiryDate, deps.Now())
	if err := m.Validate(); err != nil {
		return PaymentResult{}, err
	}
	res, err := deps.State.Write(ctx, state.AddMember(m))
	if err != nil {
		return PaymentResult{}, err
	}
	m.ID = res.ID

	pay.LinkMember(m.ID)
	if _, err := deps.State.Write(ctx, state.UpdatePayment(pay)); err != nil {
		// Member exists without the link; the payment still carries the registration.
		return PaymentResult{Member: &m}, fmt.Errorf("link payment to member: %w", err)
	}
	recordActivity(ctx, ActivityDeps{deps.State, deps.GenerateID, deps.Now},
		input.Actor.entry(activitylog.CategoryAdmin, activitylog.ActionCreateFromPayment,
			fmt.Sprintf("Created %s (%s) from payment %s", m.FullName, m.Plan, pay.ID)))
	return PaymentResult{Payment: pay, Member: &m}, nil
}

// ErrPaymentUnconfirmed is returned when a member is requested from an unverified payment.
var ErrPaymentUnconfirmed = errors.New("payment must be confirmed first")

func sendReceipt(ctx context.Context, sender emailAdapter.Sender, pay payment.Payment, to, expiry string) string {
	req, err := emailAdapter.PaymentConfirmation(emailAdapter.PaymentData{
		MemberName:    pay.MemberName,
		MemberEmail:   to,
		Amount:        pay.Amount,
		Method:        string(pay.Method),
		Date:          pay.Date,
		TransactionID: pay.TransactionID,
		ExpiryDate:    expiry,
	})
	return notify(ctx, sender, "Payment confirmation", req, err)
}
