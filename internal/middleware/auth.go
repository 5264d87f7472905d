package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/session"

	"rankcheck/internal/config"
	"rankcheck/internal/models"
)

// Session keys written by the OIDC callback.
const (
	SessionUserSub   = "user_sub"
	SessionUserEmail = "user_email"
	SessionUserName  = "user_name"
	SessionRedirect  = "redirect_after_login"
)

// AuthMiddleware identifies the user from the session or a client certificate.
type AuthMiddleware struct {
	cfg *config.Config
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(cfg *config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// RequireAuth ensures the user is authenticated when OIDC or mTLS is
// configured, redirecting to /auth/login if not. Without either the app is
// open and every request passes.
func (m *AuthMiddleware) RequireAuth(c fiber.Ctx) error {
	if !m.cfg.IsOIDCEnabled() && !m.cfg.IsMTLSEnabled() {
		return c.Next()
	}

	user := m.currentUser(c)
	if user == nil {
		if !m.cfg.IsOIDCEnabled() {
			return fiber.NewError(fiber.StatusUnauthorized, "client certificate required")
		}
		if sess := session.FromContext(c); sess != nil && c.Method() == fiber.MethodGet {
			sess.Set(SessionRedirect, c.OriginalURL())
		}
		if c.Get("HX-Request") == "true" {
			c.Set("HX-Redirect", "/auth/login")
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Redirect().To("/auth/login")
	}

	c.Locals("user", user)
	return c.Next()
}

// OptionalAuth loads the user if authenticated, but doesn't require authentication.
func (m *AuthMiddleware) OptionalAuth(c fiber.Ctx) error {
	if user := m.currentUser(c); user != nil {
		c.Locals("user", user)
	}
	return c.Next()
}

func (m *AuthMiddleware) currentUser(c fiber.Ctx) *models.User {
	if m.cfg.IsMTLSEnabled() {
		if user := userFromClientCert(c); user != nil {
			return user
		}
	}

	sess := session.FromContext(c)
	if sess == nil {
		return nil
	}
	sub, _ := sess.Get(SessionUserSub).(string)
	if sub == "" {
		return nil
	}
	email, _ := sess.Get(SessionUserEmail).(string)
	name, _ := sess.Get(SessionUserName).(string)
	return &models.User{Sub: sub, Email: email, Name: name}
}

func userFromClientCert(c fiber.Ctx) *models.User {
	state := c.RequestCtx().TLSConnectionState()
	if state == nil || len(state.PeerCertificates) == 0 {
		return nil
	}
	cn := state.PeerCertificates[0].Subject.CommonName
	username := extractUsernameFromCN(cn)
	if username == "" {
		return nil
	}
	name := strings.TrimSpace(cn[:strings.LastIndex(cn, "(")])
	return &models.User{Sub: "cert:" + username, Username: username, Name: name}
}

// extractUsernameFromCN pulls the username out of a CN of the form
// "Full Name (username)". It returns "" when the CN does not end with a
// single parenthesized group.
func extractUsernameFromCN(cn string) string {
	cn = strings.TrimSpace(cn)
	if !strings.HasSuffix(cn, ")") {
		return ""
	}
	open := strings.LastIndex(cn, "(")
	if open < 0 {
		return ""
	}
	inner := cn[open+1 : len(cn)-1]
	if strings.ContainsAny(inner, "()") {
		return ""
	}
	return strings.TrimSpace(inner)
}
