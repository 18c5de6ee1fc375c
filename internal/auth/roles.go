package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/hackucf/onboard/pkg/util/errorutil"
)

// RequireMember ensures a member is authenticated.
func RequireMember() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := MemberFromContext(c); !ok {
			return apperrors.NewUnauthorized("member login required")
		}
		return c.Next()
	}
}
