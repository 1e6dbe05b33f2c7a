package web

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/skip2/go-qrcode"

	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/application/orchestrators"
	"goodlife/internal/application/projections"
	"goodlife/internal/domain/plan"
)

const (
	qrDefaultSize = 256
	qrMaxSize     = 1024
)

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	mode := "local"
	if s.state.Connected() {
		mode = "connected"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"mode":          mode,
		"uptimeSeconds": int(s.now().Sub(s.started).Seconds()),
	})
}

// handlePlans handles GET /api/plans
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	offers := plan.Current()
	if r.URL.Query().Get("legacy") == "true" {
		offers = plan.Catalogue()
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"plans":      offers,
		"momoNumber": s.cfg.MomoNumber,
	})
}

// handleAnnouncements handles GET /api/announcements
func (s *Server) handleAnnouncements(w http.ResponseWriter, r *http.Request) {
	list, err := projections.QueryGetAnnouncements(r.Context(), s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleGallery handles GET /api/gallery
func (s *Server) handleGallery(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Snapshot().Gallery)
}

type checkoutRequest struct {
	FullName      string  `json:"fullName"`
	Email         string  `json:"email"`
	Phone         string  `json:"phone"`
	Address       string  `json:"address"`
	Photo         string  `json:"photo"`
	Plan          string  `json:"plan"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
	MomoPhone     string  `json:"momoPhone"`
	Network       string  `json:"network"`
}

// handleCheckout handles POST /api/checkout
func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteCheckout(r.Context(), orchestrators.CheckoutInput(req), s.paymentDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleCheckoutQR handles GET /api/checkout/qr
// The code carries the mobile-money number visitors pay to.
func (s *Server) handleCheckoutQR(w http.ResponseWriter, r *http.Request) {
	writeQR(w, r, s.cfg.MomoNumber, "momo.png")
}

// handleCheckInQR handles GET /api/checkins/qr
// The code opens the public self check-in page.
func (s *Server) handleCheckInQR(w http.ResponseWriter, r *http.Request) {
	writeQR(w, r, strings.TrimRight(s.cfg.PublicURL, "/")+"/checkin", "checkin.png")
}

func writeQR(w http.ResponseWriter, r *http.Request, content, filename string) {
	size := qrDefaultSize
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 64 || n > qrMaxSize {
			middleware.WriteError(w, http.StatusBadRequest, "size must be between 64 and 1024 pixels")
			return
		}
		size = n
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", `inline; filename="`+filename+`"`)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	if _, err := w.Write(png); err != nil {
		slog.Warn("qr_write_failed", "error", err)
	}
}

type checkInRequest struct {
	FullName string `json:"fullName"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Notes    string `json:"notes"`
}

// handleCheckIn handles POST /api/checkins
func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	c, err := orchestrators.ExecuteCheckIn(r.Context(), orchestrators.CheckInInput(req), s.checkInDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// handleCheckOut handles POST /api/checkins/{id}/checkout
func (s *Server) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	c, err := orchestrators.ExecuteCheckOut(r.Context(), orchestrators.CheckOutInput{ID: r.PathValue("id")}, s.checkInDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin handles POST /api/login
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput(req), orchestrators.LoginDeps{
		State:      s.state,
		GenerateID: s.generateID,
		Now:        s.now,
	})
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	sess, err := s.sessions.SetCookie(w, middleware.Session{
		StaffID:     res.StaffID,
		Email:       res.Email,
		Role:        res.Role,
		CurrentPage: "dashboard",
	})
	if err != nil {
		internalError(w, r, err)
		return
	}
	view, err := projections.QueryGetSession(r.Context(), projections.GetSessionQuery{
		Role:        sess.Role,
		Email:       sess.Email,
		CurrentPage: sess.CurrentPage,
	}, s.views())
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
