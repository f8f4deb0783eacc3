package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"unicert/internal/adapter/api/middleware"
	"unicert/internal/usecase"
	"unicert/pkg/errors"
	"unicert/pkg/response"
	"unicert/pkg/utils"
)

// AdminHandler covers account administration: the approval queue, status
// changes, soft deletion and the audit trail.
type AdminHandler struct {
	userUseCase *usecase.UserUseCase
}

func NewAdminHandler(userUseCase *usecase.UserUseCase) *AdminHandler {
	return &AdminHandler{
		userUseCase: userUseCase,
	}
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	users, total, err := h.userUseCase.ListUsers(
		c.Request().Context(),
		c.QueryParam("status"),
		c.QueryParam("user_type"),
		pagination.PageSize, pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	items := make([]userResponse, 0, len(users))
	for _, user := range users {
		items = append(items, toUserResponse(user))
	}

	return response.Paginated(c, items, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetUser(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toUserResponse(user))
}

func (h *AdminHandler) ApproveUser(c echo.Context) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.ApproveUser(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toUserResponse(user))
}

func (h *AdminHandler) RejectUser(c echo.Context) error {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.RejectUser(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toUserResponse(user))
}

func (h *AdminHandler) SuspendUser(c echo.Context) error {
	var req struct {
		Reason string `json:"reason" validate:"required"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.SuspendUser(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toUserResponse(user))
}

func (h *AdminHandler) ReactivateUser(c echo.Context) error {
	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.ReactivateUser(c.Request().Context(), actor, c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toUserResponse(user))
}

func (h *AdminHandler) DeleteUser(c echo.Context) error {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	actor, err := middleware.CurrentUser(c)
	if err != nil {
		return response.Error(c, err)
	}

	user, err := h.userUseCase.DeleteUser(c.Request().Context(), actor, c.Param("id"), req.Reason)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, toUserResponse(user))
}

func (h *AdminHandler) ListActivities(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	activities, total, err := h.userUseCase.ListActivities(
		c.Request().Context(),
		c.QueryParam("action"),
		c.QueryParam("actor_id"),
		c.QueryParam("target_type"),
		pagination.PageSize, pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, activities, total, pagination.Page, pagination.PageSize)
}

func (h *AdminHandler) TrimActivities(c echo.Context) error {
	days, err := strconv.Atoi(c.QueryParam("retention_days"))
	if err != nil {
		return response.Error(c, errors.BadRequest("retention_days must be a number", err))
	}

	deleted, err := h.userUseCase.TrimActivities(c.Request().Context(), days)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]int{
		"deleted": deleted,
	})
}
