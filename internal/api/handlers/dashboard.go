package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mira/feedhub/internal/api/dto"
	"github.com/mira/feedhub/internal/api/middleware"
	"github.com/mira/feedhub/internal/database/models"
	"github.com/mira/feedhub/internal/orgs"
	"github.com/mira/feedhub/internal/tenant"
	"gorm.io/gorm"
)

// DashboardHandler serves the protected per-organization pages. The session
// gate only established that a session exists; membership in the requested
// organization is re-checked here.
type DashboardHandler struct {
	db   *gorm.DB
	orgs *orgs.Service
}

func NewDashboardHandler(db *gorm.DB, orgService *orgs.Service) *DashboardHandler {
	return &DashboardHandler{db: db, orgs: orgService}
}

type dashboardResponse struct {
	Organization *models.Organization `json:"organization"`
	Role         string               `json:"role"`
	OpenPosts    int64                `json:"open_posts"`
}

func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	ctx := r.Context()

	cache := middleware.GetRequestCache(ctx)
	if cache == nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	// Memoized: the gate already paid for this lookup.
	sess, err := cache.Session(ctx)
	if err != nil || sess == nil {
		http.Redirect(w, r, tenant.SignInPath, http.StatusFound)
		return
	}

	org, err := h.orgs.FindBySlug(ctx, slug)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}
	if org == nil {
		http.Redirect(w, r, tenant.NotFoundPath, http.StatusFound)
		return
	}

	memberships, err := cache.Memberships(ctx, sess.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	role := ""
	for _, m := range memberships {
		if m.OrganizationID == org.ID {
			role = m.Role
			break
		}
	}
	if role == "" {
		writeJSON(w, http.StatusForbidden, dto.ErrorResponse{Error: "Not a member of this organization"})
		return
	}

	var openPosts int64
	if err := h.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("organization_id = ? AND status = ?", org.ID, models.PostStatusOpen).
		Count(&openPosts).Error; err != nil {
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		Organization: org,
		Role:         role,
		OpenPosts:    openPosts,
	})
}
