package web

import (
	"net/http"

	"goodlife/internal/adapters/http/middleware"
	"goodlife/internal/application/orchestrators"
)

type announcementRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Date     string `json:"date"`
	Priority string `json:"priority"`
}

func (req announcementRequest) input(who orchestrators.Actor, id string) orchestrators.AnnouncementInput {
	return orchestrators.AnnouncementInput{
		Actor:    who,
		ID:       id,
		Title:    req.Title,
		Content:  req.Content,
		Date:     req.Date,
		Priority: req.Priority,
	}
}

// handleCreateAnnouncement handles POST /api/announcements
func (s *Server) handleCreateAnnouncement(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req announcementRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteCreateAnnouncement(r.Context(), req.input(who, ""), s.contentDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleUpdateAnnouncement handles PUT /api/announcements/{id}
func (s *Server) handleUpdateAnnouncement(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req announcementRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteUpdateAnnouncement(r.Context(), req.input(who, r.PathValue("id")), s.contentDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleDeleteAnnouncement handles DELETE /api/announcements/{id}
func (s *Server) handleDeleteAnnouncement(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	err := orchestrators.ExecuteDeleteAnnouncement(r.Context(), orchestrators.DeleteContentInput{Actor: who, ID: r.PathValue("id")}, s.contentDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type galleryRequest struct {
	URL     string `json:"url"`
	Caption string `json:"caption"`
}

// handleAddGalleryImage handles POST /api/gallery
func (s *Server) handleAddGalleryImage(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	var req galleryRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeFailure(w, r, err)
		return
	}
	res, err := orchestrators.ExecuteAddGalleryImage(r.Context(), orchestrators.GalleryImageInput{
		Actor:   who,
		URL:     req.URL,
		Caption: req.Caption,
	}, s.contentDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// handleDeleteGalleryImage handles DELETE /api/gallery/{id}
func (s *Server) handleDeleteGalleryImage(w http.ResponseWriter, r *http.Request, who orchestrators.Actor, _ middleware.Session) {
	err := orchestrators.ExecuteDeleteGalleryImage(r.Context(), orchestrators.DeleteContentInput{Actor: who, ID: r.PathValue("id")}, s.contentDeps())
	if err != nil {
		writeFailure(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
