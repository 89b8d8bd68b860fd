package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/service"
)

// ServiceHandler exposes endpoints for trusted internal callers. Routes
// using it are gated by the service-token middleware, not by user auth.
type ServiceHandler struct {
	users *service.UserService
}

// NewServiceHandler constructs handler.
func NewServiceHandler(userService *service.UserService) *ServiceHandler {
	return &ServiceHandler{users: userService}
}

// GetUserByID handles GET /service/users/:userId.
func (h *ServiceHandler) GetUserByID(c *fiber.Ctx) error {
	user, err := h.users.GetUserByID(c.Context(), c.Params("userId"))
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"user":    user.PublicProfile(),
	})
}
