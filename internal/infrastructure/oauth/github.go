package oauth

import (
	"context"
	"net/http"
	"strconv"

	"auth-backend/internal/config"
	"auth-backend/internal/domain/identity"

	"golang.org/x/oauth2/github"
)

const githubAPIBaseURL = "https://api.github.com"

type GitHubProvider struct {
	baseProvider
}

var _ identity.IdentityProvider = (*GitHubProvider)(nil)

func NewGitHubProvider(cfg config.OAuthProviderConfig, opts ...Option) *GitHubProvider {
	return &GitHubProvider{
		baseProvider: newBaseProvider(
			identity.ProviderGitHub,
			cfg,
			github.Endpoint,
			[]string{"read:user", "user:email"},
			githubAPIBaseURL,
			opts,
		),
	}
}

type githubUser struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

func (g *GitHubProvider) ExchangeCallback(ctx context.Context, r *http.Request) (*identity.VerifiedIdentity, error) {
	client, err := g.exchange(ctx, r)
	if err != nil {
		return nil, err
	}

	var user githubUser
	if err := getJSON(ctx, client, g.apiBaseURL+"/user", &user); err != nil {
		return nil, err
	}

	// /user only carries an email the user made public.
	var emails []githubEmail
	if err := getJSON(ctx, client, g.apiBaseURL+"/user/emails", &emails); err != nil {
		return nil, err
	}
	email := primaryVerifiedEmail(emails)
	if email == "" {
		return nil, identity.ErrNoEmailFromProvider
	}

	displayName := user.Name
	if displayName == "" {
		displayName = user.Login
	}

	return &identity.VerifiedIdentity{
		Provider:    identity.ProviderGitHub,
		Subject:     strconv.FormatInt(user.ID, 10),
		Email:       email,
		DisplayName: displayName,
	}, nil
}

func primaryVerifiedEmail(emails []githubEmail) string {
	var fallback string
	for _, e := range emails {
		if !e.Verified {
			continue
		}
		if e.Primary {
			return e.Email
		}
		if fallback == "" {
			fallback = e.Email
		}
	}
	return fallback
}
