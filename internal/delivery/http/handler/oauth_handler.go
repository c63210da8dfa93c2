package handler

import (
	"net/http"
	"net/url"

	"auth-backend/internal/config"
	"auth-backend/internal/domain/identity"
	"auth-backend/internal/logger"
	"auth-backend/internal/usecase/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const stateCookieMaxAge = 10 * 60

// OAuthHandler serves the redirect and callback routes for each configured
// identity provider.
type OAuthHandler struct {
	service         *auth.Service
	providers       []identity.IdentityProvider
	successRedirect string
	failureRedirect string
	secureCookies   bool
}

func NewOAuthHandler(service *auth.Service, cfg *config.Config, providers ...identity.IdentityProvider) *OAuthHandler {
	return &OAuthHandler{
		service:         service,
		providers:       providers,
		successRedirect: cfg.OAuth.SuccessRedirect,
		failureRedirect: cfg.OAuth.FailureRedirect,
		secureCookies:   cfg.Server.Environment == "production",
	}
}

func (h *OAuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	authGroup := router.Group("/auth")
	for _, p := range h.providers {
		name := string(p.Provider())
		authGroup.GET("/"+name, h.Begin(p))
		authGroup.GET("/"+name+"/callback", h.Callback(p))
	}
}

// Begin sends the user agent to the provider with a fresh state cookie.
func (h *OAuthHandler) Begin(p identity.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		state := uuid.NewString()
		h.setStateCookie(c, state, stateCookieMaxAge)
		c.Redirect(http.StatusFound, p.AuthCodeURL(state))
	}
}

// Callback completes the handshake and hands the session token to the front
// end in the URL fragment, which browsers never send to servers.
func (h *OAuthHandler) Callback(p identity.IdentityProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		provider := string(p.Provider())

		verified, err := p.ExchangeCallback(ctx, c.Request)
		h.setStateCookie(c, "", -1)
		if err != nil {
			logger.Warn("OAuth callback failed",
				zap.String("provider", provider),
				zap.String("event", "oauth_callback_failed"),
				zap.Error(err),
			)
			c.Redirect(http.StatusFound, h.failureRedirect)
			return
		}

		resp, err := h.service.FederatedLogin(ctx, verified)
		if err != nil {
			logger.Warn("Federated login failed",
				zap.String("provider", provider),
				zap.String("email", verified.Email),
				zap.String("event", "federated_login_failed"),
				zap.Error(err),
			)
			c.Redirect(http.StatusFound, h.failureRedirect)
			return
		}

		c.Redirect(http.StatusFound, h.successRedirect+"#token="+url.QueryEscape(resp.Token))
	}
}

func (h *OAuthHandler) setStateCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(identity.StateCookieName, value, maxAge, "/auth", "", h.secureCookies, true)
}
