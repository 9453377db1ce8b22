package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const googleUserinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Identity is what Google reports about the signed-in account.
type Identity struct {
	Subject string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Google runs the OAuth authorization-code flow against Google accounts.
type Google struct {
	cfg         *oauth2.Config
	userinfoURL string
}

func NewGoogle(clientID, clientSecret, redirectURL string) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     endpoints.Google,
		},
		userinfoURL: googleUserinfoURL,
	}
}

// AuthCodeURL builds the consent-screen redirect for the given CSRF state.
func (g *Google) AuthCodeURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

// Exchange trades the callback code for a token and fetches the userinfo
// record behind it.
func (g *Google) Exchange(ctx context.Context, code string) (*Identity, error) {
	token, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	resp, err := g.cfg.Client(ctx, token).Get(g.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: status %d", resp.StatusCode)
	}

	var id Identity
	if err := json.NewDecoder(resp.Body).Decode(&id); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if id.Subject == "" || id.Email == "" {
		return nil, fmt.Errorf("userinfo missing id or email")
	}
	return &id, nil
}
