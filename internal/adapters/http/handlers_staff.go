package web

import (
	"net/http"

	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/application/listutil"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/application/projections"
	"goodlife/internal/domain/staff"
)

// handleActivityLogs handles GET /api/activity-logs?q=&category=&severity=&user=&page=&per_page=
func (s *Server) handleActivityLogs(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	lp := listutil.ParseListParams(r.URL.Query(), nil, projections.ActivityFilterKeys)
	res, err := projections.QueryGetActivityLogs(r.Context(), projections.GetActivityLogsQuery{Params: lp}, s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleListStaff handles GET /api/staff
// Password hashes never leave the server; staff.Staff omits them from JSON.
func (s *Server) handleListStaff(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	list := s.state.Snapshot().Staff
	if list == nil {
		list = []staff.Staff{}
	}
	writeJSON(w, http.StatusOK, list)
}

type staffRequest struct {
	FullName   string   `json:"fullName"`
	Email      string   `json:"email"`
	Role       string   `json:"role"`
	Position   string   `json:"position"`
	Phone      string   `json:"phone"`
	Avatar     string   `json:"avatar"`
	Password   string   `json:"password"`
	Privileges []string `json:"privileges"`
}

// handleCreateStaff handles POST /api/staff
func (s *Server) handleCreateStaff(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req staffRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteCreateStaff(r.Context(), orchestrators.CreateStaffInput{
		Actor:      who,
		FullName:   req.FullName,
		Email:      req.Email,
		Role:       req.Role,
		Position:   req.Position,
		Phone:      req.Phone,
		Avatar:     req.Avatar,
		Password:   req.Password,
		Privileges: req.Privileges,
	}, s.staffDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleDeleteStaff handles DELETE /api/staff/{id}
func (s *Server) handleDeleteStaff(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	err := orchestrators.ExecuteDeleteStaff(r.Context(), orchestrators.DeleteStaffInput{Actor: who, ID: r.PathValue("id")}, s.staffDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlePrivileges handles GET /api/privileges
func (s *Server) handlePrivileges(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	writeJSON(w, http.StatusOK, projections.PrivilegeCatalogue())
}

type privilegesRequest struct {
	Privileges []string `json:"privileges"`
}

// handleUpdatePrivileges handles PUT /api/staff/{id}/privileges
func (s *Server) handleUpdatePrivileges(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req privilegesRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteUpdatePrivileges(r.Context(), orchestrators.UpdatePrivilegesInput{
		Actor:      who,
		StaffID:    r.PathValue("id"),
		Privileges: req.Privileges,
	}, s.staffDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
