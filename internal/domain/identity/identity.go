// Package identity describes how external identity providers hand a verified
// user back to the auth service.
package identity

import (
	"context"
	"errors"
	"net/http"
)

//go:generate mockgen -destination=../../mocks/mock_identity_provider.go -package=mocks auth-backend/internal/domain/identity IdentityProvider

// Provider is the closed set of sign-in methods.
type Provider string

const (
	ProviderLocal  Provider = "local"
	ProviderGoogle Provider = "google"
	ProviderGitHub Provider = "github"
)

// StateCookieName carries the anti-forgery state from the redirect to the
// callback.
const StateCookieName = "oauthstate"

var ErrNoEmailFromProvider = errors.New("no verified email returned by provider")

// VerifiedIdentity is what a provider vouches for after a successful
// handshake.
type VerifiedIdentity struct {
	Provider    Provider
	Subject     string
	Email       string
	DisplayName string
}

type IdentityProvider interface {
	Provider() Provider
	// AuthCodeURL is where the user agent is sent to start the handshake.
	AuthCodeURL(state string) string
	// ExchangeCallback completes the handshake from the provider's redirect.
	ExchangeCallback(ctx context.Context, r *http.Request) (*VerifiedIdentity, error)
}
