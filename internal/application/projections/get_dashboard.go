package projections

import (
	"context"

	"goodlife/internal/domain/member"
	"goodlife/internal/domain/payment"
)

// Distribution counts members by stored status.
type Distribution struct {
	Active   int `json:"active"`
	Expiring int `json:"expiring"`
	Expired  int `json:"expired"`
	Total    int `json:"total"`
}

// PendingRegistration is a checkout waiting for payment confirmation.
type PendingRegistration struct {
	PaymentID string  `json:"paymentId"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Plan      string  `json:"plan"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"`
}

// Notifications is the dashboard alert panel.
type Notifications struct {
	PendingPayments int                   `json:"pendingPayments"`
	PendingMembers  []PendingRegistration `json:"pendingMembers"`
}

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct{}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	Distribution  Distribution  `json:"distribution"`
	TotalRevenue  float64       `json:"totalRevenue"`
	Notifications Notifications `json:"notifications"`
}

// QueryGetDashboard builds the portal landing figures.
// PRE: deps.State is set
// POST: Distribution.Total equals the member count; TotalRevenue sums confirmed payments only
func QueryGetDashboard(_ context.Context, _ GetDashboardQuery, deps Deps) (DashboardResult, error) {
	snap := deps.State.Snapshot()
	result := DashboardResult{
		Distribution: Distribute(snap.Members),
		TotalRevenue: confirmedTotal(snap.Payments),
		Notifications: Notifications{
			PendingMembers: []PendingRegistration{},
		},
	}
	for _, p := range snap.Payments {
		if !p.IsPending() {
			continue
		}
		result.Notifications.PendingPayments++
		if p.IsPendingMember {
			result.Notifications.PendingMembers = append(result.Notifications.PendingMembers, PendingRegistration{
				PaymentID: p.ID,
				Name:      p.MemberName,
				Email:     p.PendingMember.Email,
				Plan:      string(p.PendingMember.Plan),
				Amount:    p.Amount,
				Date:      p.Date,
			})
		}
	}
	return result, nil
}

// Distribute counts members per status.
func Distribute(members []member.Member) Distribution {
	d := Distribution{Total: len(members)}
	for _, m := range members {
		switch m.Status {
		case member.StatusActive:
			d.Active++
		case member.StatusExpiring:
			d.Expiring++
		case member.StatusExpired:
			d.Expired++
		}
	}
	return d
}

func confirmedTotal(list []payment.Payment) float64 {
	total := 0.0
	for _, p := range list {
		if p.IsConfirmed() {
			total += p.Amount
		}
	}
	return total
}
