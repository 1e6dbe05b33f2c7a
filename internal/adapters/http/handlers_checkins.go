package web

import (
	"bytes"
	"net/http"

	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/application/projections"
)

func checkInQuery(r *http.Request) projections.GetCheckInsQuery {
	q := r.URL.Query()
	return projections.GetCheckInsQuery{Search: q.Get("q"), Date: q.Get("date"), Status: q.Get("status")}
}

// handleListCheckIns handles GET /api/checkins?q=&date=&status=
func (s *Server) handleListCheckIns(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	list, err := projections.QueryGetCheckIns(r.Context(), checkInQuery(r), s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleCheckInAnalytics handles GET /api/checkins/analytics
func (s *Server) handleCheckInAnalytics(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	res, err := projections.QueryGetCheckInAnalytics(r.Context(), s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleExportCheckIns handles GET /api/checkins/export with the list filters.
func (s *Server) handleExportCheckIns(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	list, err := projections.QueryGetCheckIns(r.Context(), checkInQuery(r), s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	var buf bytes.Buffer
	if err := projections.WriteCheckInCSV(&buf, list, s.now().Location()); err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+projections.CheckInExportName(s.now())+`"`)
	_, _ = buf.WriteTo(w)
}

// handleDeleteCheckIn handles DELETE /api/checkins/{id}
func (s *Server) handleDeleteCheckIn(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	err := orchestrators.ExecuteDeleteCheckIn(r.Context(), orchestrators.DeleteCheckInInput{Actor: who, ID: r.PathValue("id")}, s.checkInDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
