package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_LocalHosts(t *testing.T) {
	r := Resolver{BaseDomain: "example.com"}

	for _, host := range []string{"", "localhost", "localhost:3000", "127.0.0.1", "127.0.0.1:8080", "192.168.1.5", "192.168.0.10:3000", "::1", "[::1]:3000"} {
		slug, ok := r.Resolve(host)
		assert.False(t, ok, "host %q should not resolve", host)
		assert.Empty(t, slug)
	}
}

func TestResolver_BaseDomain(t *testing.T) {
	r := Resolver{BaseDomain: "example.com"}

	tests := []struct {
		name string
		host string
		slug string
		ok   bool
	}{
		{name: "apex_is_not_a_tenant", host: "example.com", ok: false},
		{name: "single_level_subdomain", host: "acme.example.com", slug: "acme", ok: true},
		{name: "subdomain_with_port", host: "acme.example.com:8080", slug: "acme", ok: true},
		{name: "multi_level_rejected", host: "foo.acme.example.com", ok: false},
		{name: "unrelated_domain", host: "acme.other.com", ok: false},
		{name: "suffix_without_dot", host: "notexample.com", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, ok := r.Resolve(tt.host)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.slug, slug)
		})
	}
}

func TestResolver_ReservedSlugs(t *testing.T) {
	r := Resolver{BaseDomain: "example.com"}

	for word := range reservedSlugs {
		slug, ok := r.Resolve(word + ".example.com")
		assert.False(t, ok, "reserved word %q must not resolve", word)
		assert.Empty(t, slug)
	}
}

func TestResolver_PreviewSuffix(t *testing.T) {
	r := Resolver{BaseDomain: "example.com", PreviewSuffix: ".preview.example.dev"}

	tests := []struct {
		name string
		host string
		slug string
		ok   bool
	}{
		{name: "slug_label_before_deploy_id", host: "acme.pr-42.preview.example.dev", slug: "acme", ok: true},
		{name: "no_slug_label", host: "pr-42.preview.example.dev", ok: false},
		{name: "reserved_slug_label", host: "www.pr-42.preview.example.dev", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slug, ok := r.Resolve(tt.host)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.slug, slug)
		})
	}
}

func TestResolver_NoBaseDomainConfigured(t *testing.T) {
	r := Resolver{}

	slug, ok := r.Resolve("acme.example.com")
	assert.False(t, ok)
	assert.Empty(t, slug)
}
