package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mira/feedhub/internal/apikeys"
	"github.com/mira/feedhub/internal/database/models"
	"github.com/mira/feedhub/internal/metrics"
)

type contextKey string

const (
	APIKeyKey       contextKey = "api_key"
	OrganizationKey contextKey = "organization"
)

// APIKeyAuth authenticates the machine surface via the X-API-Key header.
// There is no session or redirect concept here: every failure is a
// structured JSON error.
func APIKeyAuth(keys *apikeys.Service, m *metrics.GatewayMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("X-API-Key")
			if raw == "" {
				m.APIKeyAuth.WithLabelValues("missing").Inc()
				writeError(w, http.StatusUnauthorized, "Missing API key")
				return
			}

			key, err := keys.Authenticate(r.Context(), raw)
			if err != nil {
				switch {
				case errors.Is(err, apikeys.ErrKeyMalformed):
					m.APIKeyAuth.WithLabelValues("malformed").Inc()
					writeError(w, http.StatusUnauthorized, "Malformed API key")
				case errors.Is(err, apikeys.ErrKeyInvalid):
					m.APIKeyAuth.WithLabelValues("invalid").Inc()
					writeError(w, http.StatusUnauthorized, "Invalid or expired API key")
				default:
					m.APIKeyAuth.WithLabelValues("error").Inc()
					writeError(w, http.StatusInternalServerError, "Internal server error")
				}
				return
			}

			m.APIKeyAuth.WithLabelValues("ok").Inc()

			ctx := r.Context()
			ctx = context.WithValue(ctx, APIKeyKey, key)
			ctx = context.WithValue(ctx, OrganizationKey, key.Organization)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAPIKey returns the authenticated key record, or nil.
func GetAPIKey(ctx context.Context) *models.APIKey {
	if key, ok := ctx.Value(APIKeyKey).(*models.APIKey); ok {
		return key
	}
	return nil
}

// GetOrganization returns the organization resolved from the API key, or
// nil.
func GetOrganization(ctx context.Context) *models.Organization {
	if org, ok := ctx.Value(OrganizationKey).(*models.Organization); ok {
		return org
	}
	return nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
