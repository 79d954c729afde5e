package tenant

import (
	"context"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// SessionProvider resolves the session attached to a request, if any.
// Implementations return (nil, nil) when no valid session exists.
type SessionProvider interface {
	SessionFromRequest(ctx context.Context, r *http.Request) (*SessionInfo, error)
}

// MembershipLister lists the organizations a user belongs to, in a stable
// order.
type MembershipLister interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Membership, error)
}

// RequestCache memoizes session and membership lookups for the lifetime of
// one inbound request. It is built at the top of the pipeline and torn down
// with the request, so nothing leaks across requests. Concurrent callers
// asking for the same key share a single upstream call.
type RequestCache struct {
	sessions SessionProvider
	members  MembershipLister
	req      *http.Request

	group   singleflight.Group
	mu      sync.Mutex
	results map[string]cached
}

type cached struct {
	val any
	err error
}

func NewRequestCache(sessions SessionProvider, members MembershipLister, req *http.Request) *RequestCache {
	return &RequestCache{
		sessions: sessions,
		members:  members,
		req:      req,
		results:  make(map[string]cached),
	}
}

func (c *RequestCache) do(key string, fn func() (any, error)) (any, error) {
	c.mu.Lock()
	if r, ok := c.results[key]; ok {
		c.mu.Unlock()
		return r.val, r.err
	}
	c.mu.Unlock()

	val, err, _ := c.group.Do(key, fn)

	c.mu.Lock()
	c.results[key] = cached{val: val, err: err}
	c.mu.Unlock()

	return val, err
}

// Session returns the request's session, fetching it at most once.
func (c *RequestCache) Session(ctx context.Context) (*SessionInfo, error) {
	val, err := c.do("session", func() (any, error) {
		return c.sessions.SessionFromRequest(ctx, c.req)
	})
	if err != nil {
		return nil, err
	}
	sess, _ := val.(*SessionInfo)
	return sess, nil
}

// Memberships returns the user's organizations, fetching them at most once
// per user id.
func (c *RequestCache) Memberships(ctx context.Context, userID uuid.UUID) ([]Membership, error) {
	val, err := c.do("orgs:"+userID.String(), func() (any, error) {
		return c.members.ListForUser(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	orgs, _ := val.([]Membership)
	return orgs, nil
}
