package oauth

import (
	"context"
	"net/http"

	"auth-backend/internal/config"
	"auth-backend/internal/domain/identity"

	"golang.org/x/oauth2/google"
)

const googleAPIBaseURL = "https://www.googleapis.com"

type GoogleProvider struct {
	baseProvider
}

var _ identity.IdentityProvider = (*GoogleProvider)(nil)

func NewGoogleProvider(cfg config.OAuthProviderConfig, opts ...Option) *GoogleProvider {
	return &GoogleProvider{
		baseProvider: newBaseProvider(
			identity.ProviderGoogle,
			cfg,
			google.Endpoint,
			[]string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			googleAPIBaseURL,
			opts,
		),
	}
}

type googleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

func (g *GoogleProvider) ExchangeCallback(ctx context.Context, r *http.Request) (*identity.VerifiedIdentity, error) {
	client, err := g.exchange(ctx, r)
	if err != nil {
		return nil, err
	}

	var info googleUserInfo
	if err := getJSON(ctx, client, g.apiBaseURL+"/oauth2/v2/userinfo", &info); err != nil {
		return nil, err
	}
	if info.Email == "" || !info.VerifiedEmail {
		return nil, identity.ErrNoEmailFromProvider
	}

	return &identity.VerifiedIdentity{
		Provider:    identity.ProviderGoogle,
		Subject:     info.ID,
		Email:       info.Email,
		DisplayName: info.Name,
	}, nil
}
