package projections

import (
	"context"
	"errors"
	"sort"
	"strings"

	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/payment"
)

// Period selects the revenue window.
type Period string

const (
	PeriodDay    Period = "day"
	PeriodWeek   Period = "week"
	PeriodMonth  Period = "month"
	PeriodYear   Period = "year"
	PeriodCustom Period = "custom"
	PeriodAll    Period = "all"
)

var (
	ErrUnknownPeriod = errors.New("period must be one of: day, week, month, year, custom, all")
	ErrInvalidRange  = errors.New("custom range needs a start and an end date with start on or before end")
)

// ParsePeriod resolves a period name; empty means month.
func ParsePeriod(s string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PeriodMonth, nil
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear, PeriodCustom, PeriodAll:
		return p, nil
	}
	return "", ErrUnknownPeriod
}

// GetRevenueQuery selects the reporting window.
type GetRevenueQuery struct {
	Period Period
	Start  string // custom only, YYYY-MM-DD
	End    string // custom only, inclusive
}

// DailyRevenue is one bar of the revenue chart.
type DailyRevenue struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// RevenueReport carries the output of the revenue projection.
type RevenueReport struct {
	Period             Period         `json:"period"`
	Label              string         `json:"label"`
	Total              float64        `json:"total"`
	Cash               float64        `json:"cash"`
	MobileMoney        float64        `json:"mobileMoney"`
	TransactionCount   int            `json:"transactionCount"`
	AverageTransaction float64        `json:"averageTransaction"`
	Daily              []DailyRevenue `json:"daily"`
}

// QueryGetRevenue totals confirmed payments inside the selected window.
// PRE: custom windows carry valid Start and End
// POST: Total == Cash + MobileMoney; Daily is sorted by date
// INVARIANT: only Confirmed payments count; a custom End is inclusive of its whole day
func QueryGetRevenue(_ context.Context, query GetRevenueQuery, deps Deps) (RevenueReport, error) {
	period := query.Period
	if period == "" {
		period = PeriodMonth
	}
	inWindow, label, err := revenueWindow(period, query.Start, query.End, calendar.Today(deps.Now()))
	if err != nil {
		return RevenueReport{}, err
	}

	report := RevenueReport{Period: period, Label: label, Daily: []DailyRevenue{}}
	perDay := map[string]float64{}
	for _, p := range deps.State.Snapshot().Payments {
		if !p.IsConfirmed() || !inWindow(p.Date) {
			continue
		}
		report.Total += p.Amount
		report.TransactionCount++
		switch p.Method {
		case payment.MethodCash:
			report.Cash += p.Amount
		case payment.MethodMobileMoney:
			report.MobileMoney += p.Amount
		}
		perDay[p.Date] += p.Amount
	}
	if report.TransactionCount > 0 {
		report.AverageTransaction = report.Total / float64(report.TransactionCount)
	}
	for date, amount := range perDay {
		report.Daily = append(report.Daily, DailyRevenue{Date: date, Amount: amount})
	}
	sort.Slice(report.Daily, func(i, j int) bool { return report.Daily[i].Date < report.Daily[j].Date })
	return report, nil
}

// revenueWindow returns a date predicate and display label for period.
// Rolling windows start the day after the cutoff, so "week" is today and the six days before.
func revenueWindow(period Period, start, end, today string) (func(string) bool, string, error) {
	after := func(cutoff string) func(string) bool {
		return func(d string) bool { return d > cutoff }
	}
	switch period {
	case PeriodDay:
		return func(d string) bool { return d == today }, "Today", nil
	case PeriodWeek:
		t, _ := calendar.ParseDate(today)
		return after(t.AddDate(0, 0, -7).Format(calendar.DateLayout)), "Last 7 Days", nil
	case PeriodMonth:
		cutoff, _ := calendar.AddMonths(today, -1)
		return after(cutoff), "Last 30 Days", nil
	case PeriodYear:
		cutoff, _ := calendar.AddMonths(today, -12)
		return after(cutoff), "Last 12 Months", nil
	case PeriodAll:
		return func(string) bool { return true }, "All Time", nil
	case PeriodCustom:
		if !calendar.IsDate(start) || !calendar.IsDate(end) || start > end {
			return nil, "", ErrInvalidRange
		}
		return func(d string) bool { return d >= start && d <= end }, start + " to " + end, nil
	}
	return nil, "", ErrUnknownPeriod
}
