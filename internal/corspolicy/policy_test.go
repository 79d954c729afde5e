package corspolicy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPolicy_ExactOrigins(t *testing.T) {
	p := New([]string{"https://widget.partner.com", "https://app.other.io/"}, "", "")

	assert.True(t, p.Allow("https://widget.partner.com"))
	assert.True(t, p.Allow("https://app.other.io"), "trailing slash in config is normalized")
	assert.False(t, p.Allow("https://evil.com"))
}

func TestPolicy_BaseDomainSuffix(t *testing.T) {
	p := New(nil, "example.com", "")

	tests := []struct {
		origin string
		ok     bool
	}{
		{"https://acme.example.com", true},
		{"https://example.com", true},
		{"https://acme.example.com:8443", true},
		{"http://acme.example.com", false},
		{"http://example.com", false},
		{"https://notexample.com", false},
		{"https://example.com.evil.com", false},
		{"https://evil.com", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, p.Allow(tt.origin), "origin %q", tt.origin)
	}
}

func TestPolicy_CustomDomainSuffix(t *testing.T) {
	p := New(nil, "example.com", "feedback.customer.dev")

	assert.True(t, p.Allow("https://acme.feedback.customer.dev"))
	assert.False(t, p.Allow("https://acme.customer.dev"))
}

func TestPolicy_Localhost(t *testing.T) {
	p := New(nil, "example.com", "")

	tests := []struct {
		origin string
		ok     bool
	}{
		{"http://localhost", true},
		{"http://localhost:3000", true},
		{"https://localhost:8443", true},
		{"http://127.0.0.1:5173", true},
		{"http://localhost.evil.com", false},
		{"http://192.168.1.5:3000", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, p.Allow(tt.origin), "origin %q", tt.origin)
	}
}

func TestPolicy_EmptyAndGarbageOrigins(t *testing.T) {
	p := New([]string{"https://widget.partner.com"}, "example.com", "")

	assert.False(t, p.Allow(""))
	assert.False(t, p.Allow("not a url"))
	assert.False(t, p.Allow("null"))
}
