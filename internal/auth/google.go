package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"kompas/internal/cache"
)

const (
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
	statePrefix       = "oauth:state:"
	stateTTL          = 10 * time.Minute
)

var ErrInvalidState = errors.New("invalid oauth state")

type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

type Google struct {
	cfg         *oauth2.Config
	states      cache.Cache
	userInfoURL string
}

func NewGoogle(clientID, clientSecret, redirectURL string, states cache.Cache) *Google {
	return &Google{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		states:      states,
		userInfoURL: googleUserInfoURL,
	}
}

// AuthCodeURL starts a sign-in. The state it embeds is single use.
func (g *Google) AuthCodeURL(ctx context.Context) (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	state := base64.RawURLEncoding.EncodeToString(buf)
	if err := g.states.Set(ctx, statePrefix+state, []byte("1"), stateTTL); err != nil {
		return "", fmt.Errorf("save oauth state: %w", err)
	}
	return g.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline), nil
}

// Exchange finishes a sign-in and returns the Google account.
func (g *Google) Exchange(ctx context.Context, state, code string) (GoogleUser, error) {
	if state == "" {
		return GoogleUser{}, ErrInvalidState
	}
	if _, err := g.states.GetDel(ctx, statePrefix+state); err != nil {
		return GoogleUser{}, ErrInvalidState
	}
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("exchange code: %w", err)
	}
	return g.fetchUser(ctx, tok)
}

func (g *Google) fetchUser(ctx context.Context, tok *oauth2.Token) (GoogleUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return GoogleUser{}, err
	}
	resp, err := g.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return GoogleUser{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return GoogleUser{}, fmt.Errorf("google user info request failed: %s", resp.Status)
	}

	var u GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return GoogleUser{}, err
	}
	if u.ID == "" || u.Email == "" {
		return GoogleUser{}, errors.New("google user info without id or email")
	}
	return u, nil
}
