package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"auth-backend/internal/config"
	"auth-backend/internal/domain/identity"

	"golang.org/x/oauth2"
)

var (
	ErrStateMismatch = errors.New("oauth state mismatch")
	ErrMissingCode   = errors.New("missing authorization code")
)

type Option func(*baseProvider)

// WithEndpoint points the code exchange at a different authorization server.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(b *baseProvider) {
		b.config.Endpoint = endpoint
	}
}

// WithAPIBaseURL replaces the provider's user info host.
func WithAPIBaseURL(baseURL string) Option {
	return func(b *baseProvider) {
		b.apiBaseURL = baseURL
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(b *baseProvider) {
		b.httpClient = client
	}
}

type baseProvider struct {
	provider   identity.Provider
	config     oauth2.Config
	apiBaseURL string
	httpClient *http.Client
}

func newBaseProvider(
	provider identity.Provider,
	cfg config.OAuthProviderConfig,
	endpoint oauth2.Endpoint,
	scopes []string,
	apiBaseURL string,
	opts []Option,
) baseProvider {
	b := baseProvider{
		provider: provider,
		config: oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Endpoint:     endpoint,
			Scopes:       scopes,
		},
		apiBaseURL: apiBaseURL,
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *baseProvider) Provider() identity.Provider {
	return b.provider
}

func (b *baseProvider) AuthCodeURL(state string) string {
	return b.config.AuthCodeURL(state)
}

// exchange checks the callback's state against the cookie, trades the code
// for a token and returns a client authorised with it.
func (b *baseProvider) exchange(ctx context.Context, r *http.Request) (*http.Client, error) {
	cookie, err := r.Cookie(identity.StateCookieName)
	if err != nil || cookie.Value == "" || r.FormValue("state") != cookie.Value {
		return nil, ErrStateMismatch
	}
	if reason := r.FormValue("error"); reason != "" {
		return nil, fmt.Errorf("%s denied authorization: %s", b.provider, reason)
	}
	code := r.FormValue("code")
	if code == "" {
		return nil, ErrMissingCode
	}

	if b.httpClient != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, b.httpClient)
	}
	token, err := b.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange %s code: %w", b.provider, err)
	}

	return b.config.Client(ctx, token), nil
}

func getJSON(ctx context.Context, client *http.Client, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d from %s: %s", resp.StatusCode, url, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to parse response from %s: %w", url, err)
	}
	return nil
}
