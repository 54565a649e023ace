package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-triage/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-triage/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Identity lives upstream;
// the token carries everything routing needs.
type Principal struct {
	SubjectType domain.SubjectType
	UserID      string
	Role        string
	Department  string
}

// AuthMiddleware validates bearer tokens.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}
	if claims.SubjectID == "" {
		return apperrors.NewUnauthorized("token missing subject")
	}

	c.Locals(principalKey, &Principal{
		SubjectType: claims.Subject,
		UserID:      claims.SubjectID,
		Role:        claims.Role,
		Department:  claims.Department,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// RequestContext builds the routing context for the caller.
func (p *Principal) RequestContext(priority string) domain.RequestContext {
	return domain.RequestContext{
		UserID:     p.UserID,
		Role:       p.Role,
		Department: p.Department,
		Priority:   priority,
	}
}
