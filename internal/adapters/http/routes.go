package web

import (
	"log/slog"
	"net/http"

	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/domain/authz"
	"goodlife/internal/domain/privilege"
)

// portalHandler is an endpoint that needs a signed-in portal user.
type portalHandler func(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, sess middleware.Session)

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// Public site
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/plans", s.handlePlans)
	mux.HandleFunc("GET /api/announcements", s.handleAnnouncements)
	mux.HandleFunc("GET /api/gallery", s.handleGallery)
	mux.HandleFunc("POST /api/checkout", s.handleCheckout)
	mux.HandleFunc("GET /api/checkout/qr", s.handleCheckoutQR)
	mux.HandleFunc("POST /api/checkins", s.handleCheckIn)
	mux.HandleFunc("POST /api/checkins/{id}/checkout", s.handleCheckOut)
	mux.HandleFunc("GET /api/checkins/qr", s.handleCheckInQR)
	mux.HandleFunc("POST /api/login", s.handleLogin)

	// Session and shift
	mux.Handle("POST /api/logout", s.portal(s.handleLogout))
	mux.Handle("GET /api/session", s.portal(s.handleSession))
	mux.Handle("PUT /api/session/page", s.portal(s.handleSessionPage))
	mux.Handle("GET /api/nav", s.portal(s.handleNav))
	mux.Handle("GET /api/shift", s.portal(s.handleShift))
	mux.Handle("POST /api/shift/sign-in", s.portal(s.handleShiftSignIn))
	mux.Handle("POST /api/shift/sign-out", s.portal(s.handleShiftSignOut))
	mux.Handle("GET /api/attendance", s.portal(s.handleAttendance))

	// Dashboard
	mux.Handle("GET /api/dashboard", s.portal(s.handleDashboard))
	mux.Handle("GET /api/dashboard/revenue", s.gated(privilege.ViewRevenueAnalytics, s.handleRevenue))
	mux.Handle("GET /api/dashboard/insights", s.gated(privilege.ViewRevenueAnalytics, s.handleInsights))
	mux.Handle("POST /api/dashboard/summary", s.gated(privilege.ViewRevenueAnalytics, s.handleDashboardSummary))
	mux.Handle("GET /api/dashboard/team", s.gated(privilege.ViewTeamMonitoring, s.handleTeam))

	// Members and payments
	mux.Handle("GET /api/members", s.gated(privilege.ManageMembers, s.handleListMembers))
	mux.Handle("POST /api/members", s.portal(s.handleRegisterMember))
	mux.Handle("PUT /api/members/{id}", s.portal(s.handleUpdateMember))
	mux.Handle("DELETE /api/members/{id}", s.portal(s.handleDeleteMember))
	mux.Handle("POST /api/members/import", s.portal(s.handleImportMembers))
	mux.Handle("GET /api/subscriptions", s.gated(privilege.ManageMembers, s.handleSubscriptions))
	mux.Handle("GET /api/payments", s.gated(privilege.ManagePayments, s.handleListPayments))
	mux.Handle("POST /api/payments", s.portal(s.handleRecordPayment))
	mux.Handle("POST /api/payments/{id}/confirm", s.portal(s.handleConfirmPayment))

	// Client check-ins
	mux.Handle("GET /api/checkins", s.portal(s.handleListCheckIns))
	mux.Handle("GET /api/checkins/analytics", s.portal(s.handleCheckInAnalytics))
	mux.Handle("GET /api/checkins/export", s.portal(s.handleExportCheckIns))
	mux.Handle("DELETE /api/checkins/{id}", s.portal(s.handleDeleteCheckIn))

	// Communications
	mux.Handle("POST /api/communications/send", s.portal(s.handleSendMessage))
	mux.Handle("POST /api/communications/broadcast", s.portal(s.handleBroadcast))
	mux.Handle("POST /api/communications/draft", s.portal(s.handleDraft))
	mux.Handle("GET /api/email/config", s.portal(s.handleEmailConfig))
	mux.Handle("POST /api/email/test", s.portal(s.handleTestEmail))

	// Staff administration
	mux.Handle("GET /api/activity-logs", s.gated(privilege.ViewActivityLogs, s.handleActivityLogs))
	mux.Handle("GET /api/staff", s.gated(privilege.ManageStaff, s.handleListStaff))
	mux.Handle("POST /api/staff", s.portal(s.handleCreateStaff))
	mux.Handle("DELETE /api/staff/{id}", s.portal(s.handleDeleteStaff))
	mux.Handle("GET /api/privileges", s.portal(s.handlePrivileges))
	mux.Handle("PUT /api/staff/{id}/privileges", s.portal(s.handleUpdatePrivileges))
	mux.Handle("GET /api/admin/perf", s.superAdmin(s.handlePerf))

	// Content
	mux.Handle("POST /api/announcements", s.portal(s.handleCreateAnnouncement))
	mux.Handle("PUT /api/announcements/{id}", s.portal(s.handleUpdateAnnouncement))
	mux.Handle("DELETE /api/announcements/{id}", s.portal(s.handleDeleteAnnouncement))
	mux.Handle("GET /api/announcements/updates", s.portal(s.handleAnnouncementUpdates))
	mux.Handle("POST /api/gallery", s.portal(s.handleAddGalleryImage))
	mux.Handle("DELETE /api/gallery/{id}", s.portal(s.handleDeleteGalleryImage))
}

// portal resolves the actor for a signed-in session. A session whose
// account has since been deleted is signed out.
func (s *Server) portal(h portalHandler) http.Handler {
	return middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := middleware.SessionFromContext(r.Context())
		who := orchestrators.ActorFor(s.state.Snapshot(), sess.Role, sess.Email)
		if who.Staff == nil {
			slog.Info("auth_event", "event", "session_orphaned", "email", sess.Email)
			s.sessions.Revoke(sess)
			s.sessions.ClearCookie(w)
			middleware.WriteError(w, http.StatusUnauthorized, middleware.ErrNoSession.Error())
			return
		}
		h(w, r, who, sess)
	}))
}

// gated is portal plus a read-side privilege check.
func (s *Server) gated(p privilege.Privilege, h portalHandler) http.Handler {
	return s.portal(func(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, sess middleware.Session) {
		if !authz.HasPrivilege(who.Role, p, who.Staff) {
			slog.Info("authz_denied", "email", who.Email, "role", who.Role, "privilege", p)
			middleware.WriteError(w, http.StatusForbidden, restricted)
			return
		}
		h(w, r, who, sess)
	})
}

func (s *Server) superAdmin(h portalHandler) http.Handler {
	return s.portal(func(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, sess middleware.Session) {
		if who.Role != privilege.RoleSuperAdmin {
			middleware.WriteError(w, http.StatusForbidden, restricted)
			return
		}
		h(w, r, who, sess)
	})
}
