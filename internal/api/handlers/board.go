package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mira/feedhub/internal/api/dto"
	"github.com/mira/feedhub/internal/database/models"
	"github.com/mira/feedhub/internal/orgs"
	"gorm.io/gorm"
)

// BoardHandler serves the tenant-scoped board surface: the /external paths
// that subdomain requests are rewritten to, and the /embed widget data.
type BoardHandler struct {
	db   *gorm.DB
	orgs *orgs.Service
}

func NewBoardHandler(db *gorm.DB, orgService *orgs.Service) *BoardHandler {
	return &BoardHandler{db: db, orgs: orgService}
}

type boardResponse struct {
	Organization *models.Organization `json:"organization"`
	Posts        []models.Post        `json:"posts"`
}

// Board returns the organization's feedback board.
func (h *BoardHandler) Board(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

// Changelog returns the organization's shipped changelog entries.
func (h *BoardHandler) Changelog(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

func (h *BoardHandler) respond(w http.ResponseWriter, r *http.Request, changelog bool) {
	slug := chi.URLParam(r, "slug")

	org, err := h.orgs.FindBySlug(r.Context(), slug)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}
	if org == nil {
		writeJSON(w, http.StatusNotFound, dto.ErrorResponse{Error: "Organization not found"})
		return
	}

	var posts []models.Post
	if err := h.db.WithContext(r.Context()).
		Where("organization_id = ? AND is_changelog = ?", org.ID, changelog).
		Order("created_at DESC").
		Limit(100).
		Find(&posts).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, boardResponse{
		Organization: org,
		Posts:        posts,
	})
}
