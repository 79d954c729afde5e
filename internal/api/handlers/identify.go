package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/mira/feedhub/internal/api/dto"
	"github.com/mira/feedhub/internal/api/middleware"
	"github.com/mira/feedhub/internal/api/validation"
	"github.com/mira/feedhub/internal/identify"
	"github.com/mira/feedhub/internal/metrics"
)

// IdentifyHandler serves the machine-credential ingestion endpoint. The
// caller is an external system pushing its own users into an organization.
type IdentifyHandler struct {
	identify *identify.Service
	metrics  *metrics.GatewayMetrics
}

func NewIdentifyHandler(identifyService *identify.Service, m *metrics.GatewayMetrics) *IdentifyHandler {
	return &IdentifyHandler{identify: identifyService, metrics: m}
}

func (h *IdentifyHandler) Identify(w http.ResponseWriter, r *http.Request) {
	org := middleware.GetOrganization(r.Context())
	if org == nil {
		// The API key middleware always runs first; reaching here
		// without an organization is a wiring bug.
		h.metrics.IdentifyRequests.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	var req dto.IdentifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.metrics.IdentifyRequests.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	if errors := req.Validate(); len(errors) > 0 {
		h.metrics.IdentifyRequests.WithLabelValues("bad_request").Inc()
		writeJSON(w, http.StatusBadRequest, dto.ErrorResponse{Error: "Validation failed", Details: errors})
		return
	}

	user, err := h.identify.Upsert(r.Context(), identify.Input{
		OrganizationID: org.ID,
		ExternalID:     req.ID,
		Email:          req.Email,
		Name:           validation.SanitizeString(req.Name),
		Avatar:         req.Avatar,
	})
	if err != nil {
		h.metrics.IdentifyRequests.WithLabelValues("error").Inc()
		writeJSON(w, http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
		return
	}

	h.metrics.IdentifyRequests.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, dto.IdentifyResponse{
		Success: true,
		User: dto.IdentifiedUserDTO{
			ID:     user.ExternalID,
			Email:  user.Email,
			Name:   user.Name,
			Avatar: user.AvatarURL,
		},
		OrganizationSlug: org.Slug,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
