package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/dto"
	"github.com/spec-kit/helpdesk/internal/domain"
	"github.com/spec-kit/helpdesk/internal/service"
	apperrors "github.com/spec-kit/helpdesk/pkg/util/errorutil"
)

// AdminHandler serves the admin-only dashboard and account management.
type AdminHandler struct {
	auth      *service.AuthService
	dashboard *service.DashboardService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(authService *service.AuthService, dashboard *service.DashboardService) *AdminHandler {
	return &AdminHandler{auth: authService, dashboard: dashboard}
}

// Dashboard handles GET /admin/dashboard.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	summary, err := h.dashboard.Summary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewDashboardResponse(summary)})
}

// ListUsers handles GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CreateUser handles POST /admin/users. The role defaults to client.
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Role != "" && !req.Role.Valid() {
		return apperrors.NewValidationError("invalid role", map[string]any{"role": "must be " + string(domain.RoleAdmin) + " or " + string(domain.RoleClient)})
	}
	if err := h.auth.ValidatePassword(req.Password); err != nil {
		return err
	}

	user, err := h.auth.CreateUser(c.UserContext(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
