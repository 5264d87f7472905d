package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"
	"golang.org/x/oauth2"

	"rankcheck/internal/config"
	"rankcheck/internal/middleware"
	"rankcheck/internal/models"
)

var errMissingSubject = errors.New("missing subject claim")

// AuthHandler handles OIDC authentication flows.
type AuthHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
}

// NewAuthHandler creates a new auth handler with OIDC configuration.
func NewAuthHandler(ctx context.Context, cfg *config.Config) (*AuthHandler, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	oauth2Config := oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})

	return &AuthHandler{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     verifier,
	}, nil
}

// Login initiates the OIDC login flow.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	state := generateState()

	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set("oauth_state", state)

	url := h.oauth2Config.AuthCodeURL(state)
	return c.Redirect().To(url)
}

// Callback handles the OIDC callback after authentication.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	sess := session.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	// Verify state
	savedState, _ := sess.Get("oauth_state").(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete("oauth_state")

	// Exchange code for token
	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	var claims identityClaims
	if err := idToken.Claims(&claims); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token claims")
	}

	// Some providers keep email and name out of the ID token.
	if claims.Email == "" || claims.Name == "" {
		userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
		if err != nil {
			slog.Warn("failed to fetch userinfo", "error", err)
		} else {
			var extra identityClaims
			if err := userInfo.Claims(&extra); err == nil {
				claims = claims.merge(extra)
			}
		}
	}

	user, err := claims.user()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	sess.Set(middleware.SessionUserSub, user.Sub)
	sess.Set(middleware.SessionUserEmail, user.Email)
	sess.Set(middleware.SessionUserName, user.Name)

	// Redirect to original URL if stored, otherwise home
	redirectURL := "/"
	if saved, ok := sess.Get(middleware.SessionRedirect).(string); ok && isLocalPath(saved) {
		redirectURL = saved
	}
	sess.Delete(middleware.SessionRedirect)

	return c.Redirect().To(redirectURL)
}

// Logout signs the user out. The workspace slot stays in the session so the
// browser keeps its results.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := session.FromContext(c); sess != nil {
		sess.Delete(middleware.SessionUserSub)
		sess.Delete(middleware.SessionUserEmail)
		sess.Delete(middleware.SessionUserName)
		sess.Delete(middleware.SessionRedirect)
	}
	return c.Redirect().To("/")
}

// identityClaims are the OIDC claims kept in the session.
type identityClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// merge fills empty fields from userinfo. The subject always comes from the
// verified ID token.
func (ic identityClaims) merge(userInfo identityClaims) identityClaims {
	if ic.Email == "" {
		ic.Email = userInfo.Email
	}
	if ic.Name == "" {
		ic.Name = userInfo.Name
	}
	return ic
}

func (ic identityClaims) user() (*models.User, error) {
	if ic.Sub == "" {
		return nil, errMissingSubject
	}
	return &models.User{Sub: ic.Sub, Email: ic.Email, Name: ic.Name}, nil
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}

// isLocalPath rejects absolute and protocol-relative URLs so the post-login
// redirect cannot leave the site.
func isLocalPath(p string) bool {
	return strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//")
}
