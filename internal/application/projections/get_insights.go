package projections

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Health grades the share of active members.
type Health string

const (
	HealthExcellent Health = "EXCELLENT"
	HealthModerate  Health = "MODERATE"
	HealthAttention Health = "ATTENTION NEEDED"
)

// Thresholds used by the recommendation rules.
const (
	expiringFocusThreshold = 5
	expiredShareOfActive   = 0.3
	minRevenuePerActive    = 150.0
	minActiveMembers       = 10
)

// GetInsightsQuery selects the revenue window the analysis quotes.
type GetInsightsQuery struct {
	Revenue GetRevenueQuery
}

// InsightsResult carries the analytics summary.
type InsightsResult struct {
	Health          Health        `json:"health"`
	Distribution    Distribution  `json:"distribution"`
	Revenue         RevenueReport `json:"revenue"`
	Recommendations []string      `json:"recommendations"`
	Text            string        `json:"text"`
}

// QueryGetInsights writes the rule-based business health summary.
// PRE: query.Revenue is a valid window
// POST: at most five recommendations, in rule order
func QueryGetInsights(ctx context.Context, query GetInsightsQuery, deps Deps) (InsightsResult, error) {
	rev, err := QueryGetRevenue(ctx, query.Revenue, deps)
	if err != nil {
		return InsightsResult{}, err
	}
	snap := deps.State.Snapshot()
	dist := Distribute(snap.Members)
	allTime := confirmedTotal(snap.Payments)

	activePct := percent(dist.Active, dist.Total)
	res := InsightsResult{
		Health:          gradeHealth(activePct),
		Distribution:    dist,
		Revenue:         rev,
		Recommendations: recommend(dist, rev),
	}

	var b strings.Builder
	line := func(format string, args ...any) { fmt.Fprintf(&b, format+"\n", args...) }

	line("MEMBER STATUS OVERVIEW")
	line("Active Members: %d (%.1f%%)", dist.Active, activePct)
	line("Expiring Soon: %d (%.1f%%)", dist.Expiring, percent(dist.Expiring, dist.Total))
	line("Expired: %d (%.1f%%)", dist.Expired, percent(dist.Expired, dist.Total))
	line("")
	switch res.Health {
	case HealthExcellent:
		line("%s: High member retention rate indicates strong business health.", res.Health)
	case HealthModerate:
		line("%s: Member retention could be improved. Consider engagement campaigns.", res.Health)
	default:
		line("%s: Low active member rate. Review retention strategies.", res.Health)
	}
	line("")
	if dist.Expiring > 0 {
		line("ACTION REQUIRED: %d member(s) expiring soon.", dist.Expiring)
		line("Recommendation: Send renewal reminders and offer incentives.")
		line("")
	}

	line("REVENUE ANALYSIS")
	line("Total Revenue (All Time): %s", Cedis(allTime))
	line("Period Revenue (%s): %s", rev.Label, Cedis(rev.Total))
	if rev.TransactionCount > 0 {
		line("Average Transaction: ₵%.0f", rev.AverageTransaction)
		line("Total Transactions: %d", rev.TransactionCount)
	}
	line("")
	if rev.Total > 0 {
		line("PAYMENT METHOD BREAKDOWN")
		line("Cash: %s (%.1f%%)", Cedis(rev.Cash), rev.Cash/rev.Total*100)
		line("Mobile Money: %s (%.1f%%)", Cedis(rev.MobileMoney), rev.MobileMoney/rev.Total*100)
		line("")
	}

	line("RECOMMENDATIONS")
	for i, r := range res.Recommendations {
		line("%d. %s", i+1, r)
	}
	res.Text = strings.TrimRight(b.String(), "\n")
	return res, nil
}

func percent(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*1000) / 10
}

func gradeHealth(activePct float64) Health {
	switch {
	case activePct >= 70:
		return HealthExcellent
	case activePct >= 50:
		return HealthModerate
	}
	return HealthAttention
}

func recommend(d Distribution, rev RevenueReport) []string {
	out := []string{}
	if d.Expiring >= expiringFocusThreshold {
		out = append(out, fmt.Sprintf("Focus on member retention - %d members expiring soon", d.Expiring))
	}
	if float64(d.Expired) > float64(d.Active)*expiredShareOfActive {
		out = append(out, "High expired member count - Consider re-engagement campaigns")
	}
	if rev.Total > 0 && d.Active > 0 {
		if perActive := rev.Total / float64(d.Active); perActive < minRevenuePerActive {
			out = append(out, fmt.Sprintf("Low revenue per active member (₵%.0f) - Consider upselling premium plans", perActive))
		}
	}
	if d.Active < minActiveMembers {
		out = append(out, "Low active member count - Focus on new member acquisition")
	}
	if d.Expiring == 0 && d.Active > 0 {
		out = append(out, "Great job! No expiring members - Continue maintaining member satisfaction")
	}
	return out
}

// Cedis formats an amount with thousands separators, e.g. ₵3,600 or ₵1,250.5.
func Cedis(v float64) string {
	sign := ""
	if v < 0 {
		sign, v = "-", -v
	}
	digits, frac, _ := strings.Cut(strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64), ".")

	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString("." + frac)
	}
	return sign + "₵" + b.String()
}
