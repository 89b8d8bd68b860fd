package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// RequireAdmin ensures the authenticated user carries the admin role. It
// must run after AuthMiddleware; a missing principal fails closed with 403
// rather than panicking.
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}

// RequireRole ensures the authenticated user carries the given role. The
// service trust path never satisfies a role requirement.
func RequireRole(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok || principal.Kind != domain.CallerUser || principal.Claims == nil {
			return apperrors.NewForbidden("access denied")
		}
		if principal.Claims.Role != role {
			return apperrors.NewForbidden("access denied: " + string(role) + " only")
		}
		return c.Next()
	}
}
