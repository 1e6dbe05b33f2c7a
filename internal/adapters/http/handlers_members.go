package web

import (
	"io"
	"net/http"
	"strings"

	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/application/listutil"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/application/projections"
)

// maxImportBytes caps member import files.
const maxImportBytes = 5 << 20

// handleListMembers handles GET /api/members?q=&status=&plan=&sort=&dir=&page=&per_page=
func (s *Server) handleListMembers(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	lp := listutil.ParseListParams(r.URL.Query(), projections.MemberSortColumns, projections.MemberFilterKeys)
	res, err := projections.QueryGetMemberList(r.Context(), projections.GetMemberListQuery{Params: lp}, s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type memberRequest struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	EmergencyContact string `json:"emergencyContact"`
	Plan             string `json:"plan"`
	StartDate        string `json:"startDate"`
	ExpiryDate       string `json:"expiryDate"`
	Photo            string `json:"photo"`
}

// handleRegisterMember handles POST /api/members
func (s *Server) handleRegisterMember(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req memberRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteRegisterMember(r.Context(), orchestrators.RegisterMemberInput{
		Actor:            who,
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		Plan:             req.Plan,
		StartDate:        req.StartDate,
		ExpiryDate:       req.ExpiryDate,
		Photo:            req.Photo,
	}, s.memberDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleUpdateMember handles PUT /api/members/{id}
func (s *Server) handleUpdateMember(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req memberRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteUpdateMember(r.Context(), orchestrators.UpdateMemberInput{
		Actor:            who,
		ID:               r.PathValue("id"),
		FullName:         req.FullName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		Plan:             req.Plan,
		StartDate:        req.StartDate,
		ExpiryDate:       req.ExpiryDate,
		Photo:            req.Photo,
	}, s.memberDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleDeleteMember handles DELETE /api/members/{id}
func (s *Server) handleDeleteMember(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	err := orchestrators.ExecuteDeleteMember(r.Context(), orchestrators.DeleteMemberInput{Actor: who, ID: r.PathValue("id")}, s.memberDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImportMembers handles POST /api/members/import?skipWelcome=true
// The file arrives either as the "file" field of a multipart form or as a
// raw text/csv or application/json body.
func (s *Server) handleImportMembers(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)
	var (
		body   io.Reader = r.Body
		format orchestrators.ImportFormat
	)
	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "multipart/form-data"):
		file, hdr, err := r.FormFile("file")
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "attach the member file as the \"file\" field")
			return
		}
		defer file.Close()
		body = file
		if strings.HasSuffix(strings.ToLower(hdr.Filename), ".json") {
			format = orchestrators.ImportJSON
		} else if strings.HasSuffix(strings.ToLower(hdr.Filename), ".csv") {
			format = orchestrators.ImportCSV
		}
	case strings.HasPrefix(ct, "application/json"):
		format = orchestrators.ImportJSON
	case strings.HasPrefix(ct, "text/csv"):
		format = orchestrators.ImportCSV
	}

	res, err := orchestrators.ExecuteImportMembers(r.Context(), orchestrators.ImportMembersInput{
		Actor:       who,
		Reader:      body,
		Format:      format,
		SkipWelcome: r.URL.Query().Get("skipWelcome") == "true",
	}, s.memberDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleSubscriptions handles GET /api/subscriptions?status=
func (s *Server) handleSubscriptions(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	list, err := projections.QueryGetSubscriptions(r.Context(), projections.GetSubscriptionsQuery{Status: r.URL.Query().Get("status")}, s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleListPayments handles GET /api/payments?status=&search=
func (s *Server) handleListPayments(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	q := r.URL.Query()
	list, err := projections.QueryGetPayments(r.Context(), projections.GetPaymentsQuery{Status: q.Get("status"), Search: q.Get("search")}, s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

type paymentRequest struct {
	MemberID      string  `json:"memberId"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	Date          string  `json:"date"`
	TransactionID string  `json:"transactionId"`
	MomoPhone     string  `json:"momoPhone"`
	Network       string  `json:"network"`
}

// handleRecordPayment handles POST /api/payments
func (s *Server) handleRecordPayment(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req paymentRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteRecordPayment(r.Context(), orchestrators.RecordPaymentInput{
		Actor:         who,
		MemberID:      req.MemberID,
		Amount:        req.Amount,
		Method:        req.Method,
		Date:          req.Date,
		TransactionID: req.TransactionID,
		MomoPhone:     req.MomoPhone,
		Network:       req.Network,
	}, s.paymentDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleConfirmPayment handles POST /api/payments/{id}/confirm
func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	res, err := orchestrators.ExecuteConfirmPayment(r.Context(), orchestrators.ConfirmPaymentInput{
		Actor:     who,
		PaymentID: r.PathValue("id"),
	}, s.paymentDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
