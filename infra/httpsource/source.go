// Package httpsource serves load profile files from an HTTP data service,
// optionally behind OAuth2 client credentials.
package httpsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kilianp07/evload/auth"
	"github.com/kilianp07/evload/core/model"
)

// Config locates the data service.
type Config struct {
	// BaseURL is joined with the profile file name.
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout"`
	Auth    auth.Conf     `json:"auth"`
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: http base_url %q", model.ErrConfiguration, c.BaseURL)
	}
	return nil
}

// Source implements profile.Source with GET requests.
type Source struct {
	base   string
	client *http.Client
}

// New builds a Source for cfg.
func New(cfg Config) (*Source, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := auth.Client(context.Background(), cfg.Auth, &http.Client{Timeout: timeout})
	client.Timeout = timeout
	return &Source{base: strings.TrimSuffix(cfg.BaseURL, "/"), client: client}, nil
}

// Open fetches base/name. 404 and 410 map to model.ErrResourceNotFound.
func (s *Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	u := s.base + "/" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound, resp.StatusCode == http.StatusGone:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", model.ErrResourceNotFound, u)
	case resp.StatusCode != http.StatusOK:
		_ = resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", name, resp.Status)
	}
	return resp.Body, nil
}
