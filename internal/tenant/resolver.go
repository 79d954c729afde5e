package tenant

import (
	"net"
	"strings"
)

// reservedSlugs are platform-owned hostnames that can never be tenant slugs.
var reservedSlugs = map[string]struct{}{
	"app":       {},
	"www":       {},
	"api":       {},
	"cdn":       {},
	"admin":     {},
	"dashboard": {},
	"static":    {},
	"staging":   {},
	"dev":       {},
	"test":      {},
}

// Resolver maps hostnames to tenant slugs. It is pure configuration data:
// Resolve performs no I/O and existence of the tenant is the caller's
// problem.
type Resolver struct {
	// BaseDomain is the platform apex, e.g. "feedhub.io". Empty disables
	// base-domain matching.
	BaseDomain string
	// PreviewSuffix matches preview deployment hosts, e.g.
	// ".preview.feedhub.dev". Empty disables preview matching.
	PreviewSuffix string
}

// Resolve returns the tenant slug for a hostname, or false when the host is
// not tenant-addressed (local development, the apex domain itself, reserved
// platform names, multi-level subdomains).
func (r Resolver) Resolve(host string) (string, bool) {
	host = stripPort(host)

	if host == "" || host == "localhost" || host == "127.0.0.1" || strings.HasPrefix(host, "192.168.") {
		return "", false
	}

	if r.PreviewSuffix != "" && strings.HasSuffix(host, r.PreviewSuffix) {
		rest := strings.TrimSuffix(host, r.PreviewSuffix)
		if !strings.Contains(rest, ".") {
			return "", false
		}
		return checkSlug(rest[:strings.Index(rest, ".")])
	}

	if r.BaseDomain == "" {
		return "", false
	}
	if host == r.BaseDomain {
		return "", false
	}
	if suffix := "." + r.BaseDomain; strings.HasSuffix(host, suffix) {
		prefix := strings.TrimSuffix(host, suffix)
		// Only single-level subdomains address tenants.
		if prefix == "" || strings.Contains(prefix, ".") {
			return "", false
		}
		return checkSlug(prefix)
	}

	return "", false
}

func checkSlug(slug string) (string, bool) {
	if _, reserved := reservedSlugs[slug]; reserved || slug == "" {
		return "", false
	}
	return slug, true
}

func stripPort(host string) string {
	// Bare IPv6 hosts have colons but no port; SplitHostPort rejects them
	// and the host passes through unchanged.
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
