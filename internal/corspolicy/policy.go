package corspolicy

import (
	"net/url"
	"regexp"
	"strings"
)

// localhostRe accepts http://localhost and http://127.0.0.1 on any port,
// for development embeds.
var localhostRe = regexp.MustCompile(`^https?://(localhost|127\.0\.0\.1)(:\d+)?$`)

// Policy is the immutable origin allow-list, built once at process start.
// Evaluation order: exact set membership, then suffix patterns, then the
// localhost pattern.
type Policy struct {
	exact    map[string]struct{}
	suffixes []string
}

// New builds a policy from explicit origins plus the first-party domain.
// Any subdomain of baseDomain is first-party; customDomainSuffix admits
// tenant-owned custom domains.
func New(allowedOrigins []string, baseDomain, customDomainSuffix string) *Policy {
	p := &Policy{exact: make(map[string]struct{}, len(allowedOrigins))}
	for _, o := range allowedOrigins {
		p.exact[strings.TrimSuffix(o, "/")] = struct{}{}
	}
	if baseDomain != "" {
		p.suffixes = append(p.suffixes, "."+baseDomain)
	}
	if customDomainSuffix != "" {
		if !strings.HasPrefix(customDomainSuffix, ".") {
			customDomainSuffix = "." + customDomainSuffix
		}
		p.suffixes = append(p.suffixes, customDomainSuffix)
	}
	return p
}

// Allow reports whether the origin may make credentialed cross-origin
// requests. The reflected header value is always the validated origin
// itself, never a wildcard. Suffix-matched origins must be https; only
// exact-list entries and the localhost pattern may carry plain http.
func (p *Policy) Allow(origin string) bool {
	if origin == "" {
		return false
	}
	if _, ok := p.exact[origin]; ok {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}

	if u.Scheme == "https" {
		host := u.Hostname()
		for _, suffix := range p.suffixes {
			if strings.HasSuffix(host, suffix) || host == strings.TrimPrefix(suffix, ".") {
				return true
			}
		}
	}

	return localhostRe.MatchString(origin)
}
