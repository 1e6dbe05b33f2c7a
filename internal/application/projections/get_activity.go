package projections

import (
	"context"
	"strings"

	"goodlife/internal/application/listutil"
	"goodlife/internal/domain/activitylog"
	"goodlife/internal/domain/attendance"
	"goodlife/internal/domain/payment"
)

// ActivityFilterKeys are the exact-match filters the activity log accepts.
var ActivityFilterKeys = []string{"category", "severity", "user"}

// GetActivityLogsQuery carries search, filters and paging for the activity log.
type GetActivityLogsQuery struct {
	Params listutil.ListParams
}

// GetActivityLogsResult carries one page of entries, newest first.
type GetActivityLogsResult struct {
	Entries []activitylog.Entry `json:"entries"`
	Page    listutil.PageInfo   `json:"page"`
}

// QueryGetActivityLogs filters the activity log.
// PRE: caller holds VIEW_ACTIVITY_LOGS
// POST: entries keep the log's newest-first order
func QueryGetActivityLogs(_ context.Context, query GetActivityLogsQuery, deps Deps) (GetActivityLogsResult, error) {
	p := query.Params
	q := strings.ToLower(strings.TrimSpace(p.Search))
	var matched []activitylog.Entry
	for _, e := range deps.State.Snapshot().ActivityLogs {
		if c := p.Filters["category"]; c != "" && string(e.Category) != c {
			continue
		}
		if s := p.Filters["severity"]; s != "" && string(e.Severity) != s {
			continue
		}
		if u := p.Filters["user"]; u != "" && !strings.EqualFold(e.UserEmail, u) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(e.Action+" "+e.Details+" "+e.UserEmail), q) {
			continue
		}
		matched = append(matched, e)
	}
	page, info := listutil.Paginate(matched, p)
	return GetActivityLogsResult{Entries: page, Page: info}, nil
}

// GetAttendanceQuery scopes the attendance view.
type GetAttendanceQuery struct {
	Email   string // the signed-in staff member
	ViewAll bool   // caller holds VIEW_ALL_ATTENDANCE
	Date    string // optional YYYY-MM-DD
}

// QueryGetAttendance lists shift records.
// POST: without ViewAll only the caller's own records are returned
func QueryGetAttendance(_ context.Context, query GetAttendanceQuery, deps Deps) ([]attendance.Record, error) {
	list := deps.State.Snapshot().Attendance
	if !query.ViewAll {
		list = attendance.ForStaff(list, query.Email)
	}
	out := []attendance.Record{}
	for _, r := range list {
		if query.Date == "" || r.Date == query.Date {
			out = append(out, r)
		}
	}
	return out, nil
}

// GetPaymentsQuery filters the payments list.
type GetPaymentsQuery struct {
	Status string // Pending, Confirmed, Rejected or empty
	Search string // member name or transaction id
}

// QueryGetPayments lists payments in stored order.
func QueryGetPayments(_ context.Context, query GetPaymentsQuery, deps Deps) ([]payment.Payment, error) {
	q := strings.ToLower(strings.TrimSpace(query.Search))
	out := []payment.Payment{}
	for _, p := range deps.State.Snapshot().Payments {
		if query.Status != "" && !strings.EqualFold(string(p.Status), query.Status) {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.MemberName), q) && !strings.Contains(strings.ToLower(p.TransactionID), q) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
