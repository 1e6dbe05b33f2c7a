package web

import (
	"net/http"
	"strconv"
	"time"

	"goodlife/internal/adapters/aidraft"
	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/application/projections"
)

// handleDashboard handles GET /api/dashboard
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	res, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{}, s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// revenueQuery reads ?period=&start=&end=.
func revenueQuery(r *http.Request) (projections.GetRevenueQuery, error) {
	q := r.URL.Query()
	period, err := projections.ParsePeriod(q.Get("period"))
	if err != nil {
		return projections.GetRevenueQuery{}, err
	}
	return projections.GetRevenueQuery{Period: period, Start: q.Get("start"), End: q.Get("end")}, nil
}

// handleRevenue handles GET /api/dashboard/revenue
func (s *Server) handleRevenue(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	query, err := revenueQuery(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	report, err := projections.QueryGetRevenue(r.Context(), query, s.views())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleInsights handles GET /api/dashboard/insights
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	query, err := revenueQuery(r)
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := projections.QueryGetInsights(r.Context(), projections.GetInsightsQuery{Revenue: query}, s.views())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleDashboardSummary handles POST /api/dashboard/summary
// It asks the drafting model for a management summary of the dashboard figures.
func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	dash, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{}, s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	text, err := s.drafter.Summary(r.Context(), aidraft.SummaryStats{
		Active:   dash.Distribution.Active,
		Expiring: dash.Distribution.Expiring,
		Expired:  dash.Distribution.Expired,
		Total:    dash.Distribution.Total,
		Revenue:  dash.TotalRevenue,
	})
	if err != nil {
		middleware.WriteError(w, http.StatusBadGateway, "the AI service could not write a summary right now")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"summary": text, "configured": s.drafter.Configured()})
}

// handleTeam handles GET /api/dashboard/team
func (s *Server) handleTeam(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	res, err := projections.QueryGetTeam(r.Context(), projections.GetTeamQuery{}, s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handlePerf handles GET /api/admin/perf?minutes=&top=
func (s *Server) handlePerf(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	if s.collector == nil {
		middleware.WriteError(w, http.StatusNotFound, "performance collection is disabled")
		return
	}
	minutes, top := 60, 10
	q := r.URL.Query()
	if n, err := strconv.Atoi(q.Get("minutes")); err == nil && n > 0 {
		minutes = n
	}
	if n, err := strconv.Atoi(q.Get("top")); err == nil && n > 0 {
		top = n
	}
	since := s.now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, s.collector.Snapshot(since, top))
}
