package tenant

import (
	"context"
	"testing"

	"github.com/mira/feedhub/internal/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrgs struct {
	orgs map[string]*models.Organization
	err  error
}

func (f *fakeOrgs) FindBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.orgs[slug], nil
}

func newTestEngine(orgs *fakeOrgs) *Engine {
	resolver := Resolver{BaseDomain: "example.com"}
	gate := NewGate(discardLogger())
	return NewEngine(resolver, orgs, gate, discardLogger())
}

func TestEngine_TenantHostRewritten(t *testing.T) {
	engine := newTestEngine(&fakeOrgs{orgs: map[string]*models.Organization{
		"acme": {Name: "Acme", Slug: "acme"},
	}})
	cache := newTestCache(&fakeSessions{}, &fakeMembers{})

	tests := []struct {
		path    string
		rewrite string
	}{
		{"/", "/external/acme"},
		{"/changelog", "/external/acme/changelog"},
		{"/posts/123", "/external/acme/posts/123"},
	}

	for _, tt := range tests {
		d := engine.Route(context.Background(), "acme.example.com", tt.path, cache)
		require.Equal(t, KindRewrite, d.Kind, "path %q", tt.path)
		assert.Equal(t, tt.rewrite, d.Path)
	}
}

func TestEngine_RewriteIsIdempotent(t *testing.T) {
	engine := newTestEngine(&fakeOrgs{orgs: map[string]*models.Organization{
		"acme": {Name: "Acme", Slug: "acme"},
	}})
	cache := newTestCache(&fakeSessions{}, &fakeMembers{})

	first := engine.Route(context.Background(), "acme.example.com", "/changelog", cache)
	require.Equal(t, KindRewrite, first.Kind)

	second := engine.Route(context.Background(), "acme.example.com", first.Path, cache)
	assert.Equal(t, KindAllow, second.Kind)
}

func TestEngine_ExternalPrefixMatchesWholeSegmentOnly(t *testing.T) {
	engine := newTestEngine(&fakeOrgs{orgs: map[string]*models.Organization{
		"acme": {Name: "Acme", Slug: "acme"},
	}})
	cache := newTestCache(&fakeSessions{}, &fakeMembers{})

	// "/externalfoo" is an ordinary path, not an already-rewritten one.
	d := engine.Route(context.Background(), "acme.example.com", "/externalfoo", cache)

	require.Equal(t, KindRewrite, d.Kind)
	assert.Equal(t, "/external/acme/externalfoo", d.Path)
}

func TestEngine_UnknownTenantRedirectsToNotFound(t *testing.T) {
	engine := newTestEngine(&fakeOrgs{})
	cache := newTestCache(&fakeSessions{}, &fakeMembers{})

	d := engine.Route(context.Background(), "ghost.example.com", "/", cache)

	require.Equal(t, KindRedirect, d.Kind)
	assert.Equal(t, NotFoundPath, d.Path)
}

func TestEngine_LookupFailureRoutesLikeMissingTenant(t *testing.T) {
	engine := newTestEngine(&fakeOrgs{err: assert.AnError})
	cache := newTestCache(&fakeSessions{}, &fakeMembers{})

	d := engine.Route(context.Background(), "acme.example.com", "/", cache)

	require.Equal(t, KindRedirect, d.Kind)
	assert.Equal(t, NotFoundPath, d.Path)
}

func TestEngine_NotFoundPageNeverLoops(t *testing.T) {
	engine := newTestEngine(&fakeOrgs{err: assert.AnError})
	cache := newTestCache(&fakeSessions{}, &fakeMembers{})

	d := engine.Route(context.Background(), "acme.example.com", NotFoundPath, cache)

	assert.Equal(t, KindAllow, d.Kind)
}

func TestEngine_NonTenantHostGoesThroughGate(t *testing.T) {
	engine := newTestEngine(&fakeOrgs{})
	cache := newTestCache(&fakeSessions{}, &fakeMembers{})

	d := engine.Route(context.Background(), "app.example.com", "/settings", cache)

	require.Equal(t, KindRedirect, d.Kind)
	assert.Equal(t, SignInPath, d.Path)
	assert.Equal(t, "/settings", d.Query.Get(CallbackParam))
}
