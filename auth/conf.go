// Package auth provides OAuth2 client-credentials HTTP clients for upstream
// data services.
package auth

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// Conf represents the configuration needed for authentication.
// It includes the client ID, client secret, and the token URL.
type Conf struct {
	ClientID     string   `json:"client_id"`
	ClientSecret string   `json:"client_secret"`
	AuthURL      string   `json:"auth_url"`
	Scopes       []string `json:"scopes"`
}

// Enabled reports whether credentials are configured.
func (c Conf) Enabled() bool { return c.AuthURL != "" }

func (c Conf) toOauth2Config() clientcredentials.Config {
	return clientcredentials.Config{
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		TokenURL:     c.AuthURL,
		Scopes:       c.Scopes,
	}
}

// Client returns an HTTP client that attaches a bearer token to every
// request, fetching and refreshing it as needed. Without credentials it
// returns base unchanged. A nil base uses http.DefaultClient.
func Client(ctx context.Context, c Conf, base *http.Client) *http.Client {
	if base == nil {
		base = http.DefaultClient
	}
	if !c.Enabled() {
		return base
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	cfg := c.toOauth2Config()
	return cfg.Client(ctx)
}
