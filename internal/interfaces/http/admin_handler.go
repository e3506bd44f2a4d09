package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Produccion-api/internal/application/auth"
	"github.com/jhoicas/Produccion-api/internal/application/dto"
)

// AdminHandler funciones administrativas invocables.
type AdminHandler struct {
	uc *auth.AdminPasswordUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *auth.AdminPasswordUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// VerifyPassword godoc
// @Summary      Verificar contraseña de administración
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyPasswordRequest  true  "password"
// @Success      200  {object}  dto.VerifyPasswordResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      412  {object}  dto.ErrorResponse
// @Router       /api/admin/verify-password [post]
func (h *AdminHandler) VerifyPassword(c *fiber.Ctx) error {
	var in dto.VerifyPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	var caller *auth.Caller
	if userID := GetUserID(c); userID != "" {
		caller = &auth.Caller{UserID: userID, Email: GetEmail(c), Role: GetRole(c), Permissions: GetPermissions(c)}
	}
	valid, err := h.uc.Verify(c.UserContext(), caller, in.Password)
	if err != nil {
		var ce *auth.CallableError
		if !errors.As(err, &ce) {
			ce = &auth.CallableError{Code: auth.CodeInternal, Message: "error interno"}
		}
		return c.Status(callableStatus(ce.Code)).JSON(dto.ErrorResponse{Code: ce.Code, Message: ce.Message})
	}
	return c.JSON(dto.VerifyPasswordResponse{Valid: valid})
}

func callableStatus(code string) int {
	switch code {
	case auth.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case auth.CodeInvalidArgument:
		return fiber.StatusBadRequest
	case auth.CodeFailedPrecondition:
		return fiber.StatusPreconditionFailed
	case auth.CodePermissionDenied:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}
