package projections

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/checkin"
)

// GetCheckInsQuery filters the visit list.
type GetCheckInsQuery struct {
	Search string // name, phone or email
	Date   string // YYYY-MM-DD, empty for every day
	Status string // all, checked-in, checked-out
}

// Matches reports whether c passes every filter.
func (q GetCheckInsQuery) Matches(c checkin.CheckIn) bool {
	if q.Date != "" && c.Date != q.Date {
		return false
	}
	return c.Matches(q.Search) && c.MatchesStatus(q.Status)
}

// QueryGetCheckIns lists visits matching the filters, in stored order.
func QueryGetCheckIns(_ context.Context, query GetCheckInsQuery, deps Deps) ([]checkin.CheckIn, error) {
	out := []checkin.CheckIn{}
	for _, c := range deps.State.Snapshot().CheckIns {
		if query.Matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// CheckInAnalytics is the check-in summary strip.
type CheckInAnalytics struct {
	TodayTotal         int `json:"todayTotal"`
	TodayCheckedIn     int `json:"todayCheckedIn"`
	TodayCheckedOut    int `json:"todayCheckedOut"`
	ThisWeek           int `json:"thisWeek"`
	ThisMonth          int `json:"thisMonth"`
	UniqueVisitors     int `json:"uniqueVisitors"`
	AvgDurationMinutes int `json:"avgDurationMinutes"`
}

// QueryGetCheckInAnalytics summarises every visit on record.
// POST: AvgDurationMinutes is 0 when no visit has checked out
func QueryGetCheckInAnalytics(_ context.Context, deps Deps) (CheckInAnalytics, error) {
	today := calendar.Today(deps.Now())
	t, _ := calendar.ParseDate(today)
	weekCutoff := t.AddDate(0, 0, -7).Format(calendar.DateLayout)
	monthCutoff, _ := calendar.AddMonths(today, -1)

	var a CheckInAnalytics
	phones := map[string]struct{}{}
	var total time.Duration
	closed := 0
	for _, c := range deps.State.Snapshot().CheckIns {
		if c.Date == today {
			a.TodayTotal++
			if c.IsCheckedOut() {
				a.TodayCheckedOut++
			} else {
				a.TodayCheckedIn++
			}
		}
		if c.Date > weekCutoff {
			a.ThisWeek++
		}
		if c.Date > monthCutoff {
			a.ThisMonth++
		}
		phones[c.Phone] = struct{}{}
		if c.IsCheckedOut() {
			total += c.CheckOutAt.Sub(c.CheckInAt)
			closed++
		}
	}
	a.UniqueVisitors = len(phones)
	if closed > 0 {
		a.AvgDurationMinutes = int(math.Round(total.Minutes() / float64(closed)))
	}
	return a, nil
}

// CheckInCSVHeader is the export column order.
var CheckInCSVHeader = []string{"Date", "Name", "Phone", "Email", "Check-In Time", "Check-Out Time", "Duration (minutes)", "Status"}

// ExportTimeLayout formats check-in and check-out stamps in the export.
const ExportTimeLayout = "2006-01-02 15:04:05"

// CheckInExportName is the download file name for an export made on date.
func CheckInExportName(now time.Time) string {
	return "Goodlife_CheckIns_" + calendar.Today(now) + ".csv"
}

// CheckInRow renders one visit as export cells.
// POST: Duration is whole minutes when checked out, otherwise N/A
func CheckInRow(c checkin.CheckIn, loc *time.Location) []string {
	email := c.Email
	if email == "" {
		email = "N/A"
	}
	checkOut, duration, status := "N/A", "N/A", "Checked In"
	if c.IsCheckedOut() {
		checkOut = c.CheckOutAt.In(loc).Format(ExportTimeLayout)
		mins, _ := c.DurationMinutes()
		duration = strconv.Itoa(mins)
		status = "Checked Out"
	}
	return []string{c.Date, c.FullName, c.Phone, email, c.CheckInAt.In(loc).Format(ExportTimeLayout), checkOut, duration, status}
}

// WriteCheckInCSV writes the header and one quoted row per visit.
// INVARIANT: data rows equal len(list); every data cell is quoted
func WriteCheckInCSV(w io.Writer, list []checkin.CheckIn, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}
	if _, err := io.WriteString(w, strings.Join(CheckInCSVHeader, ",")); err != nil {
		return err
	}
	for _, c := range list {
		cells := CheckInRow(c, loc)
		for i, cell := range cells {
			cells[i] = `"` + strings.ReplaceAll(cell, `"`, `""`) + `"`
		}
		if _, err := fmt.Fprintf(w, "\n%s", strings.Join(cells, ",")); err != nil {
			return err
		}
	}
	return nil
}
