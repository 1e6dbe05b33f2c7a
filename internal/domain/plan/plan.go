package plan

import (
	"errors"
	"strings"
	"time"
)

// Plan names a subscription plan.
type Plan string

const (
	Monthly    Plan = "Monthly"
	TwoWeeks   Plan = "2 Weeks"
	OneWeek    Plan = "1 Week"
	DayMorning Plan = "Day Morning"
	DayEvening Plan = "Day Evening"

	// Legacy plans remain valid on existing members and at checkout.
	Basic   Plan = "Basic"
	Premium Plan = "Premium"
	VIP     Plan = "VIP"
)

// RegistrationFee applies to the multi-day plans.
const RegistrationFee = 100.0

// ErrUnknownPlan is returned for names outside the catalogue.
var ErrUnknownPlan = errors.New("unknown subscription plan")

// Offer is a catalogue entry.
type Offer struct {
	Plan            Plan    `json:"plan"`
	Price           float64 `json:"price"`
	RegistrationFee float64 `json:"registrationFee"`
	Period          string  `json:"period"`
	Legacy          bool    `json:"legacy"`
}

var offers = []Offer{
	{Plan: Monthly, Price: 140, RegistrationFee: RegistrationFee, Period: "month"},
	{Plan: TwoWeeks, Price: 100, RegistrationFee: RegistrationFee, Period: "2 weeks"},
	{Plan: OneWeek, Price: 70, RegistrationFee: RegistrationFee, Period: "week"},
	{Plan: DayMorning, Price: 25, Period: "session"},
	{Plan: DayEvening, Price: 25, Period: "session"},
	{Plan: Basic, Legacy: true},
	{Plan: Premium, Legacy: true},
	{Plan: VIP, Legacy: true},
}

// Catalogue returns every offer, current plans first.
func Catalogue() []Offer {
	out := make([]Offer, len(offers))
	copy(out, offers)
	return out
}

// Current returns the non-legacy offers shown on the public pricing page.
func Current() []Offer {
	var out []Offer
	for _, o := range offers {
		if !o.Legacy {
			out = append(out, o)
		}
	}
	return out
}

// Lookup returns the offer for p.
func Lookup(p Plan) (Offer, bool) {
	for _, o := range offers {
		if o.Plan == p {
			return o, true
		}
	}
	return Offer{}, false
}

// Parse resolves a plan name case-insensitively, accepting "2-Weeks" style separators.
// PRE: none
// POST: returns ErrUnknownPlan for names outside the catalogue
func Parse(s string) (Plan, error) {
	key := canonical(s)
	for _, o := range offers {
		if canonical(string(o.Plan)) == key {
			return o.Plan, nil
		}
	}
	return "", ErrUnknownPlan
}

// IsValid reports whether p is a catalogue plan.
func (p Plan) IsValid() bool {
	_, ok := Lookup(p)
	return ok
}

// TentativeExpiry is the expiry a checkout promises before confirmation:
// six months for VIP, one month for every other plan, anchored to now.
func TentativeExpiry(p Plan, now time.Time) time.Time {
	if p == VIP {
		return now.AddDate(0, 6, 0)
	}
	return now.AddDate(0, 1, 0)
}

func canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", " ", "_", " ").Replace(s)
}
