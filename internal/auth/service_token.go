package auth

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/domain"
	apperrors "github.com/spec-kit/user-service/pkg/util"
)

// ServiceTokenHeader carries the shared secret for machine-to-machine calls.
const ServiceTokenHeader = "X-Service-Token"

// ServiceTokenMiddleware authorizes trusted internal callers via a shared
// secret. This trust path is independent of user tokens: a user JWT is never
// accepted here, and the service token grants no user identity, so routes
// gated by AuthMiddleware or RequireAdmin stay out of reach.
type ServiceTokenMiddleware struct {
	token []byte
}

// NewServiceTokenMiddleware constructs middleware.
func NewServiceTokenMiddleware(token string) *ServiceTokenMiddleware {
	return &ServiceTokenMiddleware{token: []byte(token)}
}

// Handle enforces the service token for internal routes.
func (m *ServiceTokenMiddleware) Handle(c *fiber.Ctx) error {
	presented := c.Get(ServiceTokenHeader)
	if presented == "" {
		return apperrors.NewUnauthorized("missing service token")
	}
	if len(m.token) == 0 || subtle.ConstantTimeCompare([]byte(presented), m.token) != 1 {
		return apperrors.NewUnauthorized("invalid service token")
	}

	c.Locals(principalKey, &Principal{Kind: domain.CallerService})
	return c.Next()
}
