package tenant

import "net/url"

// DecisionKind enumerates the possible outcomes of routing a request.
type DecisionKind int

const (
	// KindAllow lets the request through untouched.
	KindAllow DecisionKind = iota
	// KindRedirect sends the client to another path.
	KindRedirect
	// KindRewrite substitutes the request path server-side, invisible to
	// the client.
	KindRewrite
	// KindReject terminates the request with a status code.
	KindReject
)

func (k DecisionKind) String() string {
	switch k {
	case KindAllow:
		return "allow"
	case KindRedirect:
		return "redirect"
	case KindRewrite:
		return "rewrite"
	case KindReject:
		return "reject"
	}
	return "unknown"
}

// Decision is the routing verdict for one request. It is a pure value:
// producing one must not mutate shared state.
type Decision struct {
	Kind  DecisionKind
	Path  string     // redirect or rewrite target
	Query url.Values // redirect query, may be nil
	Code  int        // reject status
}

func Allow() Decision {
	return Decision{Kind: KindAllow}
}

func RedirectTo(path string, query url.Values) Decision {
	return Decision{Kind: KindRedirect, Path: path, Query: query}
}

func RewriteTo(path string) Decision {
	return Decision{Kind: KindRewrite, Path: path}
}

func Reject(code int) Decision {
	return Decision{Kind: KindReject, Code: code}
}

// Location renders the redirect target including the query string.
func (d Decision) Location() string {
	if len(d.Query) == 0 {
		return d.Path
	}
	return d.Path + "?" + d.Query.Encode()
}
