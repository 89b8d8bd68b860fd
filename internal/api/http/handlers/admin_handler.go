package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/user-service/internal/auth"
	"github.com/spec-kit/user-service/internal/domain"
	"github.com/spec-kit/user-service/internal/repository"
	"github.com/spec-kit/user-service/internal/service"
)

// AdminHandler exposes admin-only user management endpoints. Routes using it
// must be gated by auth.RequireAdmin.
type AdminHandler struct {
	users *service.UserService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(userService *service.UserService) *AdminHandler {
	return &AdminHandler{users: userService}
}

// ListUsers handles GET /users?page=&limit=&role=&isActive=.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)

	var filter repository.UserFilter
	if raw := c.Query("role"); raw != "" {
		role := domain.Role(raw)
		if !role.Valid() {
			return fiber.NewError(http.StatusBadRequest, "unknown role filter")
		}
		filter.Role = &role
	}
	if raw := c.Query("isActive"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "isActive must be a boolean")
		}
		filter.IsActive = &active
	}

	result, err := h.users.ListUsers(c.Context(), page, limit, filter)
	if err != nil {
		return err
	}

	profiles := make([]domain.PublicProfile, 0, len(result.Users))
	for _, user := range result.Users {
		profiles = append(profiles, user.PublicProfile())
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"users":       profiles,
		"totalPages":  result.TotalPages,
		"currentPage": result.CurrentPage,
		"totalUsers":  result.TotalUsers,
	})
}

// DeleteUser handles DELETE /users/:userId.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	userID := c.Params("userId")

	deletedBy := ""
	if principal, ok := auth.PrincipalFromContext(c); ok && principal.Claims != nil {
		deletedBy = principal.Claims.UserID
	}

	if err := h.users.DeleteUser(c.Context(), userID, deletedBy); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "User deleted successfully",
	})
}
