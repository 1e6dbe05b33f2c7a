package web

import (
	"net/http"

	"github.com/gorilla/csrf"

	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/application/projections"
	"goodlife/internal/domain/attendance"
	"goodlife/internal/domain/authz"
	"goodlife/internal/domain/calendar"
	"goodlife/internal/domain/privilege"
)

type logoutRequest struct {
	AcknowledgeShift bool `json:"acknowledgeShift"`
}

// handleLogout handles POST /api/logout
// While on shift the first call answers 409; repeating it with
// acknowledgeShift logs the warning and signs out.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, sess middleware.Session) {
	var req logoutRequest
	if r.ContentLength > 0 {
		if err := strictDecode(w, r, &req); err != nil {
			writeFailure(w, r, err)
			return
		}
	}
	err := orchestrators.ExecuteLogout(r.Context(), orchestrators.LogoutInput{
		Actor:            who,
		AcknowledgeShift: req.AcknowledgeShift,
	}, orchestrators.LogoutDeps{State: s.state, GenerateID: s.generateID, Now: s.now})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	s.sessions.Revoke(sess)
	s.sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	projections.SessionView
	CSRFToken string `json:"csrfToken"`
}

// handleSession handles GET /api/session
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, sess middleware.Session) {
	view, err := projections.QueryGetSession(r.Context(), projections.GetSessionQuery{
		Role:        sess.Role,
		Email:       sess.Email,
		CurrentPage: sess.CurrentPage,
	}, s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{SessionView: view, CSRFToken: csrf.Token(r)})
}

type pageRequest struct {
	Page string `json:"page"`
}

// handleSessionPage handles PUT /api/session/page
// The page survives a reload because it is re-signed into the session cookie.
func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, sess middleware.Session) {
	var req pageRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	if !authz.CanOpen(req.Page, who.Role, who.Staff) {
		middleware.WriteError(w, http.StatusForbidden, restricted)
		return
	}
	sess.CurrentPage = req.Page
	if _, err := s.sessions.SetCookie(w, sess); err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pageRequest{Page: req.Page})
}

// handleNav handles GET /api/nav
func (s *Server) handleNav(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	nav := authz.VisibleNav(who.Role, who.Staff)
	if nav == nil {
		nav = []authz.NavItem{}
	}
	writeJSON(w, http.StatusOK, nav)
}

type shiftResponse struct {
	OnShift bool               `json:"onShift"`
	Open    *attendance.Record `json:"open,omitempty"`
}

// handleShift handles GET /api/shift
func (s *Server) handleShift(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	now := s.now()
	var res shiftResponse
	if rec, ok := attendance.FindOpen(s.state.Snapshot().Attendance, who.Email, calendar.Today(now)); ok {
		res = shiftResponse{OnShift: true, Open: &rec}
	}
	writeJSON(w, http.StatusOK, res)
}

// handleShiftSignIn handles POST /api/shift/sign-in
func (s *Server) handleShiftSignIn(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	rec, err := orchestrators.ExecuteShiftSignIn(r.Context(), orchestrators.ShiftInput{Actor: who}, s.shiftDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// handleShiftSignOut handles POST /api/shift/sign-out
func (s *Server) handleShiftSignOut(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	rec, err := orchestrators.ExecuteShiftSignOut(r.Context(), orchestrators.ShiftInput{Actor: who}, s.shiftDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// handleAttendance handles GET /api/attendance
// Without VIEW_ALL_ATTENDANCE only the caller's own shifts are listed.
func (s *Server) handleAttendance(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	q := r.URL.Query()
	list, err := projections.QueryGetAttendance(r.Context(), projections.GetAttendanceQuery{
		Email:   who.Email,
		ViewAll: who.Can(privilege.ViewAllAttendance),
		Date:    q.Get("date"),
	}, s.views())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleAnnouncementUpdates handles GET /api/announcements/updates
// The check time is re-signed into the session so the next poll compares against it.
func (s *Server) handleAnnouncementUpdates(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, sess middleware.Session) {
	res, err := projections.QueryGetAnnouncementUpdates(r.Context(), projections.GetAnnouncementUpdatesQuery{Since: sess.LastChecked}, s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	sess.LastChecked = res.CheckedAt
	if _, err := s.sessions.SetCookie(w, sess); err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
