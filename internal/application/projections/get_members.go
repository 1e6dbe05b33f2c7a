package projections

import (
	"context"
	"sort"
	"strings"

	"goodlife/internal/application/listutil"
	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/member"
)

// MemberSortColumns are the columns the member list may be sorted by.
var MemberSortColumns = []string{"name", "plan", "expiry", "status"}

// MemberFilterKeys are the exact-match filters the member list accepts.
var MemberFilterKeys = []string{"status", "plan"}

// GetMemberListQuery carries search, filters and paging for the member list.
type GetMemberListQuery struct {
	Params listutil.ListParams
}

// GetMemberListResult carries one page of members.
type GetMemberListResult struct {
	Members []member.Member   `json:"members"`
	Page    listutil.PageInfo `json:"page"`
}

// QueryGetMemberList searches members by name, email or phone.
// PRE: Params were parsed through listutil
// POST: Members holds at most PerPage rows of the filtered, sorted set
func QueryGetMemberList(_ context.Context, query GetMemberListQuery, deps Deps) (GetMemberListResult, error) {
	p := query.Params
	var matched []member.Member
	for _, m := range deps.State.Snapshot().Members {
		if !m.Matches(p.Search) {
			continue
		}
		if s := p.Filters["status"]; s != "" && string(m.Status) != s {
			continue
		}
		if pl := p.Filters["plan"]; pl != "" && !strings.EqualFold(string(m.Plan), pl) {
			continue
		}
		matched = append(matched, m)
	}
	sortMembers(matched, p.Sort, p.Desc)
	page, info := listutil.Paginate(matched, p)
	return GetMemberListResult{Members: page, Page: info}, nil
}

func sortMembers(list []member.Member, col string, desc bool) {
	var less func(a, b member.Member) bool
	switch col {
	case "name":
		less = func(a, b member.Member) bool { return strings.ToLower(a.FullName) < strings.ToLower(b.FullName) }
	case "plan":
		less = func(a, b member.Member) bool { return a.Plan < b.Plan }
	case "expiry":
		less = func(a, b member.Member) bool { return a.ExpiryDate < b.ExpiryDate }
	case "status":
		less = func(a, b member.Member) bool { return a.Status < b.Status }
	default:
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		if desc {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

// Subscription is a member's membership term as of today.
type Subscription struct {
	MemberID      string        `json:"memberId"`
	FullName      string        `json:"fullName"`
	Email         string        `json:"email"`
	Plan          string        `json:"plan"`
	StartDate     string        `json:"startDate"`
	ExpiryDate    string        `json:"expiryDate"`
	DaysRemaining int           `json:"daysRemaining"`
	Status        member.Status `json:"status"`
}

// GetSubscriptionsQuery optionally limits the view to one derived status.
type GetSubscriptionsQuery struct {
	Status string
}

// QueryGetSubscriptions lists terms soonest expiry first with days remaining.
// POST: Status is derived from the expiry date, not the stored value
func QueryGetSubscriptions(_ context.Context, query GetSubscriptionsQuery, deps Deps) ([]Subscription, error) {
	now := deps.Now()
	today := calendar.Today(now)
	out := []Subscription{}
	for _, m := range deps.State.Snapshot().Members {
		days, err := calendar.DaysBetween(today, m.ExpiryDate)
		if err != nil {
			days = 0
		}
		sub := Subscription{
			MemberID:      m.ID,
			FullName:      m.FullName,
			Email:         m.Email,
			Plan:          string(m.Plan),
			StartDate:     m.StartDate,
			ExpiryDate:    m.ExpiryDate,
			DaysRemaining: days,
			Status:        member.DeriveStatus(m.ExpiryDate, now),
		}
		if query.Status != "" && query.Status != "all" && string(sub.Status) != query.Status {
			continue
		}
		out = append(out, sub)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiryDate < out[j].ExpiryDate })
	return out, nil
}
