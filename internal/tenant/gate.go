package tenant

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mira/feedhub/internal/database/models"
)

// Well-known paths the gate routes to.
const (
	SignInPath     = "/sign-in"
	SignUpPath     = "/sign-up"
	OnboardingPath = "/onboarding"
	NotFoundPath   = "/not-found"
	ExternalPrefix = "/external"

	// CallbackParam carries the original destination through sign-in and
	// profile-completion redirects.
	CallbackParam = "callbackUrl"
)

// publicPrefixes mark paths reachable without a session. Auth pages are a
// subset: public, but session-sensitive.
var publicPrefixes = []string{
	SignInPath,
	SignUpPath,
	"/api/auth",
	"/api/trpc",
	ExternalPrefix,
	"/embed",
	"/api/identify",
	"/static",
	"/favicon.ico",
}

// PathClass partitions request paths for the session gate.
type PathClass int

const (
	PathPublic PathClass = iota
	PathAuthPage
	PathProtected
)

// ClassifyPath assigns a path class by prefix. Everything not explicitly
// public is protected.
func ClassifyPath(path string) PathClass {
	if hasPathPrefix(path, SignInPath) || hasPathPrefix(path, SignUpPath) {
		return PathAuthPage
	}
	for _, p := range publicPrefixes {
		if hasPathPrefix(path, p) {
			return PathPublic
		}
	}
	return PathProtected
}

// hasPathPrefix matches on segment boundaries, so "/sign-in/next" matches
// "/sign-in" but "/sign-integration" does not.
func hasPathPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// SessionInfo is the slice of an identity-provider session the gate reads.
type SessionInfo struct {
	UserID      uuid.UUID
	DisplayName string
	ExpiresAt   time.Time
}

// ProfileComplete reports whether the user finished the profile step of
// onboarding. The identity layer assigns a placeholder display name until
// then.
func (s *SessionInfo) ProfileComplete() bool {
	return s.DisplayName != models.DefaultDisplayName
}

// Membership is one organization a user belongs to, in stable order.
type Membership struct {
	OrganizationID uuid.UUID
	Slug           string
	Role           string
}

// Gate decides whether a non-tenant request may proceed, given the session
// state. Lookups go through the per-request cache; any lookup failure is
// treated as "no session" so the worst outcome of an upstream fault is a
// redirect to sign-in.
type Gate struct {
	logger *slog.Logger
}

func NewGate(logger *slog.Logger) *Gate {
	return &Gate{logger: logger}
}

func (g *Gate) Evaluate(ctx context.Context, path string, cache *RequestCache) Decision {
	class := ClassifyPath(path)
	if class == PathPublic {
		return Allow()
	}

	sess, err := cache.Session(ctx)
	if err != nil {
		// Fail closed: an unreadable session is no session.
		g.logger.Error("session lookup failed", "path", path, "error", err)
		sess = nil
	}

	if class == PathAuthPage {
		if sess != nil {
			return RedirectTo("/", nil)
		}
		return Allow()
	}

	if sess == nil {
		return RedirectTo(SignInPath, callback(path))
	}

	if !sess.ProfileComplete() {
		if path == OnboardingPath {
			return Allow()
		}
		return RedirectTo(OnboardingPath, callback(path))
	}

	orgs, err := cache.Memberships(ctx, sess.UserID)
	if err != nil {
		g.logger.Error("membership lookup failed", "path", path, "user_id", sess.UserID, "error", err)
		return RedirectTo(SignInPath, callback(path))
	}

	if path == "/" {
		if len(orgs) > 0 {
			// Deterministic: the first membership wins.
			return RedirectTo("/"+orgs[0].Slug, nil)
		}
		// No organizations yet: the root renders onboarding.
		return Allow()
	}

	if len(orgs) == 0 {
		return RedirectTo("/", nil)
	}

	return Allow()
}

func callback(path string) url.Values {
	return url.Values{CallbackParam: {path}}
}
