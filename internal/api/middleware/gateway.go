package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/mira/feedhub/internal/metrics"
	"github.com/mira/feedhub/internal/tenant"
)

const RequestCacheKey contextKey = "request_cache"

// skippedPrefixes never enter gateway evaluation: static assets and the
// operational endpoints.
var skippedPrefixes = []string{
	"/static/",
	"/favicon.ico",
	"/health",
	"/ready",
	"/metrics",
}

// Gateway is the HTTP adapter over the tenant rewrite engine. It builds the
// per-request lookup cache, asks the engine for a decision and translates
// it to a rewrite, redirect or rejection. The cache rides along in the
// request context so handlers share the memoized lookups.
func Gateway(engine *tenant.Engine, sessions tenant.SessionProvider, members tenant.MembershipLister, m *metrics.GatewayMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			for _, p := range skippedPrefixes {
				if strings.HasPrefix(path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			cache := tenant.NewRequestCache(sessions, members, r)
			ctx := context.WithValue(r.Context(), RequestCacheKey, cache)

			decision := engine.Route(ctx, r.Host, path, cache)
			m.RoutingDecisions.WithLabelValues(decision.Kind.String()).Inc()

			switch decision.Kind {
			case tenant.KindRewrite:
				rewritten := r.Clone(ctx)
				rewritten.URL.Path = decision.Path
				rewritten.URL.RawPath = ""
				next.ServeHTTP(w, rewritten)
			case tenant.KindRedirect:
				http.Redirect(w, r, decision.Location(), http.StatusFound)
			case tenant.KindReject:
				http.Error(w, http.StatusText(decision.Code), decision.Code)
			default:
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}

// GetRequestCache returns the request's lookup cache, or nil outside the
// gateway.
func GetRequestCache(ctx context.Context) *tenant.RequestCache {
	if cache, ok := ctx.Value(RequestCacheKey).(*tenant.RequestCache); ok {
		return cache
	}
	return nil
}
