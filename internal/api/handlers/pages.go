package handlers

import (
	"net/http"

	"github.com/mira/feedhub/internal/api/middleware"
)

// PageHandler serves the minimal page endpoints the gateway redirects to.
// Real rendering lives in the frontend; these exist so every redirect
// target resolves.
type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

func (h *PageHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Sign in")
}

func (h *PageHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Sign up")
}

func (h *PageHandler) Onboarding(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Complete your profile")
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write([]byte("<!doctype html><title>Not found</title><h1>This board does not exist</h1>"))
}

// Home is the protected root. The gate only lets it through for users
// without an organization, so it renders the create-organization prompt.
func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	writePage(w, "Create your organization")
}

// Session reports the current session state as JSON, for frontend boot.
func (h *PageHandler) Session(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	cache := middleware.GetRequestCache(ctx)
	if cache == nil {
		writeJSON(w, http.StatusOK, map[string]any{"session": nil})
		return
	}
	sess, err := cache.Session(ctx)
	if err != nil || sess == nil {
		writeJSON(w, http.StatusOK, map[string]any{"session": nil})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session": map[string]any{
			"userId":      sess.UserID,
			"displayName": sess.DisplayName,
			"expiresAt":   sess.ExpiresAt,
		},
	})
}

func writePage(w http.ResponseWriter, title string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte("<!doctype html><title>" + title + "</title><h1>" + title + "</h1>"))
}
