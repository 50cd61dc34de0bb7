package auth

import (
	"strings"

	"github.com/Abraxas-365/jobboard/pkg/kernel"
	"github.com/gofiber/fiber/v2"
)

const authContextKey = "auth_context"

// AuthContext is the authenticated caller of a request
type AuthContext struct {
	UserID kernel.UserID
	Role   Role
	Email  string
}

// TokenMiddleware authenticates bearer tokens
type TokenMiddleware struct {
	tokens *JWTService
}

func NewTokenMiddleware(tokens *JWTService) *TokenMiddleware {
	return &TokenMiddleware{tokens: tokens}
}

// Authenticate requires a valid "Authorization: Bearer <token>" header
func (m *TokenMiddleware) Authenticate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return ErrMissingToken()
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return ErrInvalidToken().WithDetail("reason", "format")
		}

		claims, err := m.tokens.ValidateAccessToken(strings.TrimSpace(token))
		if err != nil {
			return err
		}

		c.Locals(authContextKey, &AuthContext{
			UserID: claims.UserID(),
			Role:   claims.Role,
			Email:  claims.Email,
		})
		return c.Next()
	}
}

// RequireScope allows the request when the caller's role grants any of scopes
func (m *TokenMiddleware) RequireScope(scopes ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ac, ok := GetAuthContext(c)
		if !ok {
			return ErrMissingToken()
		}
		if !HasAnyScope(ac.Role, scopes...) {
			return ErrInsufficientPermissions().
				WithDetail("required_scope", strings.Join(scopes, ",")).
				WithDetail("role", ac.Role)
		}
		return c.Next()
	}
}

// GetAuthContext extracts the caller set by Authenticate
func GetAuthContext(c *fiber.Ctx) (*AuthContext, bool) {
	ac, ok := c.Locals(authContextKey).(*AuthContext)
	return ac, ok && ac != nil
}

// SetAuthContext stores ac on the request; used by tests and internal callers
func SetAuthContext(c *fiber.Ctx, ac *AuthContext) {
	c.Locals(authContextKey, ac)
}
