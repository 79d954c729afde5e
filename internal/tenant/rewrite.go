package tenant

import (
	"context"
	"log/slog"

	"github.com/mira/feedhub/internal/database/models"
)

// OrganizationFinder looks up an organization by slug. Implementations
// return (nil, nil) when no organization carries the slug.
type OrganizationFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Organization, error)
}

// Engine turns (hostname, path) into a routing decision. Tenant-addressed
// hosts are rewritten to /external paths and never consult the session:
// per-page authorization is the rendering layer's job. Everything else goes
// through the session gate.
type Engine struct {
	resolver Resolver
	orgs     OrganizationFinder
	gate     *Gate
	logger   *slog.Logger
}

func NewEngine(resolver Resolver, orgs OrganizationFinder, gate *Gate, logger *slog.Logger) *Engine {
	return &Engine{resolver: resolver, orgs: orgs, gate: gate, logger: logger}
}

// Route decides how to handle one request. Rewriting is idempotent: routing
// an already-rewritten path passes it through unchanged.
func (e *Engine) Route(ctx context.Context, host, path string, cache *RequestCache) Decision {
	if hasPathPrefix(path, ExternalPrefix) || path == NotFoundPath {
		return Allow()
	}

	slug, ok := e.resolver.Resolve(host)
	if !ok {
		return e.gate.Evaluate(ctx, path, cache)
	}

	org, err := e.orgs.FindBySlug(ctx, slug)
	if err != nil {
		// Fail closed: an unverifiable tenant routes like a missing one.
		e.logger.Error("organization lookup failed", "slug", slug, "error", err)
		return RedirectTo(NotFoundPath, nil)
	}
	if org == nil {
		return RedirectTo(NotFoundPath, nil)
	}

	suffix := path
	if suffix == "/" {
		suffix = ""
	}
	return RewriteTo(ExternalPrefix + "/" + slug + suffix)
}
