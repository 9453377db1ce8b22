package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/xand3reth/vibe-coded-blog-platform/internal/auth"
	"github.com/xand3reth/vibe-coded-blog-platform/internal/models"
)

// OAuthProvider is the slice of the Google flow the handlers use; tests
// substitute a stub that never leaves the process.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*auth.Identity, error)
}

const stateCookie = "oauth_state"

type AuthHandler struct {
	store    Store
	provider OAuthProvider
	sessions *auth.Manager
	secure   bool
}

func NewAuthHandler(store Store, provider OAuthProvider, sessions *auth.Manager, secureCookies bool) *AuthHandler {
	return &AuthHandler{store: store, provider: provider, sessions: sessions, secure: secureCookies}
}

// Login starts the OAuth redirect flow.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.provider.AuthCodeURL(state), http.StatusFound)
}

// Callback finishes the flow: verifies state, exchanges the code, upserts
// the profile, and sets the session cookie.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie(stateCookie)
	if err != nil || state == "" || state != cookie.Value {
		respondError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, "missing code")
		return
	}

	identity, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		log.Printf("oauth exchange: %v", err)
		respondError(w, http.StatusBadGateway, "sign-in failed")
		return
	}

	// Google subjects are opaque strings; profile ids are UUIDs. Derive the
	// id deterministically so the same account always maps to one profile.
	profileID := uuid.NewSHA1(uuid.NameSpaceURL, []byte("google:"+identity.Subject)).String()

	profile, err := h.store.UpsertProfile(r.Context(), models.Profile{
		ID:          profileID,
		Email:       identity.Email,
		DisplayName: identity.Name,
		AvatarURL:   identity.Picture,
	})
	if err != nil {
		log.Printf("upsert profile: %v", err)
		respondError(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	token, err := h.sessions.Issue(auth.Session{
		ProfileID:   profile.ID,
		Email:       profile.Email,
		DisplayName: profile.DisplayName,
		AvatarURL:   profile.AvatarURL,
	})
	if err != nil {
		log.Printf("issue session: %v", err)
		respondError(w, http.StatusInternalServerError, "sign-in failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   7 * 24 * 3600,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Session returns the signed-in profile, or 401 for anonymous callers.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.SessionFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	profile, err := h.store.GetProfile(r.Context(), session.ProfileID)
	if err != nil {
		log.Printf("get profile: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to load profile")
		return
	}
	if profile == nil {
		respondError(w, http.StatusUnauthorized, "not signed in")
		return
	}
	respondJSON(w, http.StatusOK, profile)
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
