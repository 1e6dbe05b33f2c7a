package payment

import (
	"errors"
	"strings"

	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/member"
	"goodlife/internal/domain/plan"
)

// Method is how a payment was made.
type Method string

const (
	MethodCash        Method = "Cash"
	MethodMobileMoney Method = "Mobile Money"
)

// Status is the verification state of a payment.
type Status string

const (
	StatusPending   Status = "Pending"
	StatusConfirmed Status = "Confirmed"
	StatusRejected  Status = "Rejected"
)

// Domain errors
var (
	ErrNonPositiveAmount   = errors.New("amount must be greater than zero")
	ErrInvalidMethod       = errors.New("method must be 'Cash' or 'Mobile Money'")
	ErrInvalidStatus       = errors.New("status must be 'Pending', 'Confirmed', or 'Rejected'")
	ErrEmptyMemberName     = errors.New("member name cannot be empty")
	ErrPendingHasMember    = errors.New("pending-member payment cannot reference a member id")
	ErrNotPending          = errors.New("payment is not pending")
	ErrNotPendingMember    = errors.New("payment does not carry a pending registration")
	ErrPendingMemberFields = errors.New("pending registration is missing email, phone or plan")
	ErrNotFound            = errors.New("payment not found")
)

// PendingMember holds the registration captured at checkout.
// It is authoritative only while Payment.IsPendingMember is true.
type PendingMember struct {
	Email      string    `json:"memberEmail,omitempty"`
	Phone      string    `json:"memberPhone,omitempty"`
	Address    string    `json:"memberAddress,omitempty"`
	Photo      string    `json:"memberPhoto,omitempty"`
	Plan       plan.Plan `json:"memberPlan,omitempty"`
	StartDate  string    `json:"memberStartDate,omitempty"`
	ExpiryDate string    `json:"memberExpiryDate,omitempty"`
}

// Payment is a recorded transaction.
type Payment struct {
	ID              string  `json:"id"`
	MemberID        string  `json:"memberId"`
	MemberName      string  `json:"memberName"`
	Amount          float64 `json:"amount"`
	Date            string  `json:"date"`
	Method          Method  `json:"method"`
	Status          Status  `json:"status"`
	ConfirmedBy     string  `json:"confirmedBy,omitempty"`
	TransactionID   string  `json:"transactionId,omitempty"`
	MomoPhone       string  `json:"momoPhone,omitempty"`
	Network         string  `json:"network,omitempty"`
	IsPendingMember bool    `json:"isPendingMember"`
	PendingMember
}

// Validate checks if the Payment has valid data.
// PRE: Payment struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: IsPendingMember implies MemberID is empty
func (p *Payment) Validate() error {
	if strings.TrimSpace(p.MemberName) == "" {
		return ErrEmptyMemberName
	}
	if p.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	if !calendar.IsDate(p.Date) {
		return calendar.ErrInvalidDate
	}
	switch p.Method {
	case MethodCash, MethodMobileMoney:
	default:
		return ErrInvalidMethod
	}
	switch p.Status {
	case StatusPending, StatusConfirmed, StatusRejected:
	default:
		return ErrInvalidStatus
	}
	if p.IsPendingMember && p.MemberID != "" {
		return ErrPendingHasMember
	}
	return nil
}

// ParseMethod resolves a method name case-insensitively; empty defaults to Mobile Money.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return MethodMobileMoney, nil
	case "cash":
		return MethodCash, nil
	case "mobile money", "mobile_money", "momo":
		return MethodMobileMoney, nil
	}
	return "", ErrInvalidMethod
}

// InitialStatus is the status a newly recorded payment receives:
// cash is self-attested and confirmed at once, mobile money waits for verification.
func InitialStatus(m Method) Status {
	if m == MethodCash {
		return StatusConfirmed
	}
	return StatusPending
}

// IsPending reports whether the payment still awaits confirmation.
func (p *Payment) IsPending() bool {
	return p.Status == StatusPending
}

// IsConfirmed reports whether the payment counts towards revenue.
func (p *Payment) IsConfirmed() bool {
	return p.Status == StatusConfirmed
}

// Confirm transitions Pending to Confirmed and stamps who verified it.
// It is the only path to Confirmed for a pending payment.
// PRE: Status is Pending
// POST: Status is Confirmed, ConfirmedBy set
func (p *Payment) Confirm(by string) error {
	if p.Status != StatusPending {
		return ErrNotPending
	}
	p.Status = StatusConfirmed
	p.ConfirmedBy = by
	return nil
}

// NewMember builds the Member described by the pending registration.
// PRE: IsPendingMember is true
// POST: returns a Member with the given id; status derived by the caller
func (p *Payment) NewMember(id string) (member.Member, error) {
	if !p.IsPendingMember {
		return member.Member{}, ErrNotPendingMember
	}
	if p.PendingMember.Email == "" || p.PendingMember.Phone == "" || p.PendingMember.Plan == "" {
		return member.Member{}, ErrPendingMemberFields
	}
	return member.Member{
		ID:         id,
		FullName:   p.MemberName,
		Email:      p.PendingMember.Email,
		Phone:      p.PendingMember.Phone,
		Address:    p.PendingMember.Address,
		Photo:      p.PendingMember.Photo,
		Plan:       p.PendingMember.Plan,
		StartDate:  p.PendingMember.StartDate,
		ExpiryDate: p.PendingMember.ExpiryDate,
		Status:     member.StatusActive,
	}, nil
}

// LinkMember attaches the created member and clears the pending flag.
// POST: IsPendingMember is false, MemberID is memberID
func (p *Payment) LinkMember(memberID string) {
	p.MemberID = memberID
	p.IsPendingMember = false
}
