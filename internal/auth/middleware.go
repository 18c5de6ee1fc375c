package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/hackucf/onboard/internal/domain"
	apperrors "github.com/hackucf/onboard/pkg/util/errorutil"
)

const (
	memberKey = "auth_member"
	// TokenCookie carries the member JWT set by the login flow.
	TokenCookie = "token"
)

// AuthMiddleware validates member tokens from the token cookie or a bearer
// header.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw := c.Cookies(TokenCookie)
	if raw == "" {
		raw = bearerToken(c.Get(fiber.HeaderAuthorization))
	}
	if raw == "" {
		return apperrors.NewUnauthorized("missing token")
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	c.Locals(memberKey, &domain.Member{UserID: claims.UserID, Sudo: claims.Sudo})
	return c.Next()
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// MemberFromContext retrieves the authenticated member.
func MemberFromContext(c *fiber.Ctx) (*domain.Member, bool) {
	val := c.Locals(memberKey)
	if val == nil {
		return nil, false
	}
	member, ok := val.(*domain.Member)
	return member, ok
}
