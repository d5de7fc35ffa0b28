// Package googleauth exchanges a Google OAuth authorization code for the
// signed-in user's profile.
package googleauth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/yungbote/force-backend/internal/platform/logger"
)

// ErrExchange means Google rejected the code (expired, reused or issued for
// another redirect URI). Callers treat it as an authentication failure.
var ErrExchange = errors.New("google code exchange failed")

// ErrNotConfigured is returned when client credentials are missing.
var ErrNotConfigured = errors.New("google oauth is not configured")

type Profile struct {
	ID      string
	Email   string
	Name    string
	Picture string
}

type Config struct {
	ClientID     string
	ClientSecret string
	// Endpoint and UserinfoURL are overridable for tests.
	Endpoint    oauth2.Endpoint
	UserinfoURL string
	HTTPClient  *http.Client
}

type Client struct {
	log         *logger.Logger
	oauth       oauth2.Config
	userinfoURL string
	httpClient  *http.Client
}

func New(cfg Config, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	endpoint := cfg.Endpoint
	if endpoint.TokenURL == "" {
		endpoint = google.Endpoint
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		log: log.With("client", "GoogleAuth"),
		oauth: oauth2.Config{
			ClientID:     strings.TrimSpace(cfg.ClientID),
			ClientSecret: strings.TrimSpace(cfg.ClientSecret),
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userinfoURL: strings.TrimSpace(cfg.UserinfoURL),
		httpClient:  hc,
	}
}

// Exchange trades code for a token and loads the userinfo profile.
func (c *Client) Exchange(ctx context.Context, code, redirectURI string) (*Profile, error) {
	if c.oauth.ClientID == "" || c.oauth.ClientSecret == "" {
		return nil, ErrNotConfigured
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	conf := c.oauth
	conf.RedirectURL = strings.TrimSpace(redirectURI)
	tok, err := conf.Exchange(ctx, strings.TrimSpace(code))
	if err != nil {
		c.log.Warn("google token exchange failed", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrExchange, err)
	}

	opts := []option.ClientOption{option.WithHTTPClient(conf.Client(ctx, tok))}
	if c.userinfoURL != "" {
		opts = append(opts, option.WithEndpoint(c.userinfoURL))
	}
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("init userinfo client: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("fetch google userinfo: %w", err)
	}
	p := &Profile{
		ID:      strings.TrimSpace(info.Id),
		Email:   strings.ToLower(strings.TrimSpace(info.Email)),
		Name:    strings.TrimSpace(info.Name),
		Picture: strings.TrimSpace(info.Picture),
	}
	if p.ID == "" || p.Email == "" {
		return nil, fmt.Errorf("google userinfo missing id or email")
	}
	return p, nil
}
