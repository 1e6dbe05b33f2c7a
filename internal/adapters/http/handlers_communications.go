package web

import (
	"net/http"

	"goodlife/internal/adapters/email"
	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/application/orchestrators"
)

type sendRequest struct {
	MemberID string `json:"memberId"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

type sendResponse struct {
	Sent      bool   `json:"sent"`
	MessageID string `json:"messageId,omitempty"`
}

// handleSendMessage handles POST /api/communications/send
// A provider failure is reported as 502; nothing was written.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req sendRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteSendMessage(r.Context(), orchestrators.SendMessageInput{
		Actor:    who,
		MemberID: req.MemberID,
		Subject:  req.Subject,
		Message:  req.Message,
	}, s.communicationDeps())
	if err != nil {
		s.writeSendFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sendResponse{Sent: true, MessageID: res.MessageID})
}

type broadcastRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// handleBroadcast handles POST /api/communications/broadcast
func (s *Server) handleBroadcast(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req broadcastRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteBroadcast(r.Context(), orchestrators.BroadcastInput{
		Actor:   who,
		Subject: req.Subject,
		Message: req.Message,
		Status:  req.Status,
	}, s.communicationDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type draftRequest struct {
	Kind     string `json:"kind"`
	MemberID string `json:"memberId"`
}

// handleDraft handles POST /api/communications/draft
func (s *Server) handleDraft(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req draftRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	text, err := orchestrators.ExecuteDraftMessage(r.Context(), orchestrators.DraftMessageInput{
		Actor:    who,
		Kind:     req.Kind,
		MemberID: req.MemberID,
	}, s.communicationDeps())
	if err != nil {
		if isClientError(err) {
			writeFailure(w, r, err)
			return
		}
		middleware.WriteError(w, http.StatusBadGateway, "the AI service could not write a draft right now")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"draft": text, "configured": s.drafter.Configured()})
}

// handleEmailConfig handles GET /api/email/config
func (s *Server) handleEmailConfig(w http.ResponseWriter, r *http.Request, _ orchestrators.Actor, _ middleware.Session) {
	writeJSON(w, http.StatusOK, email.Diagnose(s.cfg.EmailFrom, s.cfg.EmailConfigured()))
}

type testEmailRequest struct {
	To string `json:"to"`
}

// handleTestEmail handles POST /api/email/test
func (s *Server) handleTestEmail(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req testEmailRequest
	if r.ContentLength > 0 {
		if err := strictDecode(w, r, &req); err != nil {
			writeFailure(w, r, err)
			return
		}
	}
	res, err := orchestrators.ExecuteTestEmail(r.Context(), orchestrators.TestEmailInput{Actor: who, To: req.To}, s.communicationDeps())
	if err != nil {
		s.writeSendFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sendResponse{Sent: true, MessageID: res.MessageID})
}

// writeSendFailure keeps client errors on their usual status and reports the
// rest as a provider failure with the provider's message.
func (s *Server) writeSendFailure(w http.ResponseWriter, r *http.Request, err error) {
	if isClientError(err) {
		writeFailure(w, r, err)
		return
	}
	middleware.WriteError(w, http.StatusBadGateway, "email could not be sent: "+err.Error())
}

func isClientError(err error) bool {
	return matchAny(err, badRequest) != nil || matchAny(err, notFound) != nil ||
		matchAny(err, []error{orchestrators.ErrForbidden}) != nil
}
